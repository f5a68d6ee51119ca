package service

import (
	"github.com/google/uuid"

	"github.com/tastestack/backend/internal/models"
)

// Action names a mutating operation subject to an ownership check.
type Action string

const (
	ActionUpdateRecipe  Action = "update_recipe"
	ActionDeleteRecipe  Action = "delete_recipe"
	ActionEditComment   Action = "edit_comment"
	ActionDeleteComment Action = "delete_comment"
	ActionHideComment   Action = "hide_comment"
)

// Resource carries the records an authorization decision looks at. Callers
// resolve existence first; a nil record here means deny, not not-found.
type Resource struct {
	Recipe  *models.Recipe
	Comment *models.Comment
}

// authzRules is the single source of truth for who may mutate what. Editing
// a comment requires strict comment ownership; deleting or hiding one is
// also open to the owner of the recipe it sits on.
var authzRules = map[Action]func(caller uuid.UUID, res Resource) bool{
	ActionUpdateRecipe: recipeOwner,
	ActionDeleteRecipe: recipeOwner,
	ActionEditComment: func(caller uuid.UUID, res Resource) bool {
		return res.Comment != nil && res.Comment.UserID == caller
	},
	ActionDeleteComment: commentOwnerOrRecipeOwner,
	ActionHideComment:   commentOwnerOrRecipeOwner,
}

func recipeOwner(caller uuid.UUID, res Resource) bool {
	return res.Recipe != nil && res.Recipe.AuthorID == caller
}

func commentOwnerOrRecipeOwner(caller uuid.UUID, res Resource) bool {
	if res.Comment != nil && res.Comment.UserID == caller {
		return true
	}
	return res.Recipe != nil && res.Recipe.AuthorID == caller
}

// Allowed reports whether caller may perform action on the given resource.
// Unknown actions are denied.
func Allowed(action Action, caller uuid.UUID, res Resource) bool {
	rule, ok := authzRules[action]
	if !ok {
		return false
	}
	return rule(caller, res)
}

package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tastestack/backend/internal/models"
)

func TestAllowed(t *testing.T) {
	owner := uuid.New()
	commenter := uuid.New()
	stranger := uuid.New()

	recipe := &models.Recipe{AuthorID: owner}
	comment := &models.Comment{UserID: commenter}

	tests := []struct {
		name   string
		action Action
		caller uuid.UUID
		res    Resource
		want   bool
	}{
		{"owner updates recipe", ActionUpdateRecipe, owner, Resource{Recipe: recipe}, true},
		{"stranger updates recipe", ActionUpdateRecipe, stranger, Resource{Recipe: recipe}, false},
		{"owner deletes recipe", ActionDeleteRecipe, owner, Resource{Recipe: recipe}, true},
		{"stranger deletes recipe", ActionDeleteRecipe, stranger, Resource{Recipe: recipe}, false},
		{"commenter edits comment", ActionEditComment, commenter, Resource{Comment: comment}, true},
		{"recipe owner edits comment", ActionEditComment, owner, Resource{Comment: comment, Recipe: recipe}, false},
		{"commenter deletes comment", ActionDeleteComment, commenter, Resource{Comment: comment}, true},
		{"recipe owner deletes comment", ActionDeleteComment, owner, Resource{Comment: comment, Recipe: recipe}, true},
		{"stranger deletes comment", ActionDeleteComment, stranger, Resource{Comment: comment, Recipe: recipe}, false},
		{"recipe owner hides comment", ActionHideComment, owner, Resource{Comment: comment, Recipe: recipe}, true},
		{"stranger hides comment", ActionHideComment, stranger, Resource{Comment: comment, Recipe: recipe}, false},
		{"nil recipe denied", ActionUpdateRecipe, owner, Resource{}, false},
		{"unknown action denied", Action("publish_recipe"), owner, Resource{Recipe: recipe}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.action, tt.caller, tt.res))
		})
	}
}

package api

// RegisterRequest is the body of POST /api/auth/register/.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// LoginRequest is the body of POST /api/auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateRecipeRequest is the body of POST /api/recipes/.
type CreateRecipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Categories   []string `json:"categories"`
}

// UpdateRecipeRequest is the body of PUT /api/recipes/{id}/. Absent fields
// are left untouched.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
	PrepTime     *int      `json:"prep_time"`
	CookTime     *int      `json:"cook_time"`
	Servings     *int      `json:"servings"`
	Difficulty   *string   `json:"difficulty"`
	Categories   *[]string `json:"categories"`
}

// RateRequest is the body of POST /api/recipes/{id}/rate/.
type RateRequest struct {
	Rating int `json:"rating"`
}

// CommentRequest is the body for creating or editing a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringList is an ordered list of strings persisted as a JSON array. It is
// used for ingredients, instructions and category tags so ordering survives
// the round trip on both postgres (jsonb) and sqlite (text).
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Difficulty levels a recipe may carry.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Categories a recipe may be tagged with.
var Categories = []string{
	"Breakfast",
	"Lunch",
	"Dinner",
	"Dessert",
	"Snack",
	"Appetizer",
	"Beverage",
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
}

// Recipe is user-authored content. AuthorID is set at creation and never
// changes; deleting the author (or the recipe) removes all dependent
// ratings, likes and comments.
type Recipe struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Ingredients  StringList `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions StringList `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	PrepTime     int        `gorm:"not null;default:0" json:"prep_time"`
	CookTime     int        `gorm:"not null;default:0" json:"cook_time"`
	Servings     int        `gorm:"not null;default:1" json:"servings"`
	Difficulty   string     `gorm:"size:10;not null;default:'Easy'" json:"difficulty"`
	Categories   StringList `gorm:"type:jsonb;not null;default:'[]'" json:"categories"`
	ImageURL     string     `gorm:"size:255" json:"image"`
	AuthorID     uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author       *User      `gorm:"foreignKey:AuthorID" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TotalTime is prep plus cook time in minutes.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}

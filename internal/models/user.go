package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered account. Email is the login key and must be unique.
// The password is only ever stored as a bcrypt hash.
type User struct {
	ID                uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	Email             string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	Bio               string    `gorm:"type:text" json:"bio"`
	Location          string    `gorm:"size:100" json:"location"`
	Website           string    `gorm:"size:255" json:"website"`
	ProfilePictureURL string    `gorm:"size:255" json:"profile_picture"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Follow is a directed edge in the follow graph. One row per
// (follower, following) pair; self-follows are rejected before the write.
type Follow struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	FollowerID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:ux_follow_pair" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:ux_follow_pair;index" json:"following_id"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

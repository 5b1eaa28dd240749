package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'User' contains the blueprint definition of a user in the directory.
 * Game membership references users by id; game creation resolves invited
 * ids against this table.
 */
type User struct {
	ID           string    `gorm:"primaryKey;size:36;not null" json:"user_id"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	MemberSince  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"member_since"`

	// Relationships
	Memberships []*GameMember `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

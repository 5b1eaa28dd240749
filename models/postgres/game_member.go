package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
 * 'GameMember' represents one user's membership in a game. It contains
 * references to Game and User. A user has at most one row per game; the
 * composite unique index backs the write-time check in the games service.
 * Status uses the codes in constants/game (0 declined, 1 pending, 2 active).
 */
type GameMember struct {
	ID        string         `gorm:"primaryKey;size:36;not null" json:"game_member_id"`
	GameID    string         `gorm:"size:36;not null;uniqueIndex:idx_game_members_game_user;index:idx_game_members_game" json:"game_id"`
	UserID    string         `gorm:"size:36;not null;uniqueIndex:idx_game_members_game_user;index:idx_game_members_user" json:"user_id"`
	Status    int            `gorm:"not null;default:1" json:"status"`
	Score     int            `gorm:"not null;default:0" json:"score"`
	Stats     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"stats"`
	CreatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"date_created"`
	UpdatedAt time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"last_modified"`

	// Relationships
	Game Game `gorm:"foreignKey:GameID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (m *GameMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Game' defines the structure of a rememerme game. A game is owned by its
 * leader and points at the round currently accepting nominations.
 * CurrentRoundID is nil until the game is started; WinningScore is written
 * once at creation and never changed.
 */
type Game struct {
	ID             string    `gorm:"primaryKey;size:36;not null" json:"game_id"`
	LeaderID       string    `gorm:"size:36;not null;index:idx_games_leader" json:"leader_id"`
	DeckID         *string   `gorm:"size:36" json:"deck_id"`
	CurrentRoundID *string   `gorm:"size:36" json:"current_round_id"`
	WinningScore   int       `gorm:"not null" json:"winning_score"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"date_created"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"last_modified"`

	// Relationships
	Members []*GameMember `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Rounds  []*Round      `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

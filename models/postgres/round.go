package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Round' is one turn of a game: a selector, a phrase card, and eventually
 * a winning nomination. SelectionID is nil while the round accepts
 * nominations and is written exactly once when the selector picks a winner.
 * Resolved rounds are kept forever as game history.
 */
type Round struct {
	ID           string    `gorm:"primaryKey;size:36;not null" json:"round_id"`
	GameID       string    `gorm:"size:36;not null;index:idx_rounds_game" json:"game_id"`
	SelectorID   string    `gorm:"size:36;not null" json:"selector_id"`
	PhraseCardID string    `gorm:"size:36;not null" json:"phrase_card_id"`
	SelectionID  *string   `gorm:"size:36" json:"selection_id"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"date_created"`
	UpdatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"last_modified"`

	// Relationships
	Game        Game          `gorm:"foreignKey:GameID" json:"-"`
	Nominations []*Nomination `gorm:"foreignKey:RoundID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

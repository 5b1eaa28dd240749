package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Nomination' is a member's response card for a round. One row per
 * (round, nominator); the unique index backs the AlreadyNominated check.
 */
type Nomination struct {
	ID               string    `gorm:"primaryKey;size:36;not null" json:"nomination_id"`
	RoundID          string    `gorm:"size:36;not null;uniqueIndex:idx_nominations_round_nominator;index:idx_nominations_round" json:"round_id"`
	NominatorID      string    `gorm:"size:36;not null;uniqueIndex:idx_nominations_round_nominator" json:"nominator_id"`
	NominationCardID string    `gorm:"size:36;not null" json:"nomination_card_id"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"date_created"`
	UpdatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"last_modified"`

	// Relationships
	Round Round `gorm:"foreignKey:RoundID" json:"-"`
}

func (n *Nomination) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

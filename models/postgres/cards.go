package postgres

import "time"

/*
 * 'PhraseCard' and 'NominationCard' form the card catalog. They are
 * imported from deck packs and read-only from the game engine's
 * perspective: rounds draw a random phrase card from the game's deck and
 * nominations reference nomination cards by id.
 */
type PhraseCard struct {
	ID        string    `gorm:"primaryKey;size:36;not null" json:"phrase_card_id"`
	DeckID    string    `gorm:"size:36;not null;index:idx_phrase_cards_deck" json:"deck_id"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"date_created"`
}

type NominationCard struct {
	ID        string    `gorm:"primaryKey;size:36;not null" json:"nomination_card_id"`
	DeckID    string    `gorm:"size:36;not null;index:idx_nomination_cards_deck" json:"deck_id"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"date_created"`
}

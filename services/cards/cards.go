package cards

import (
	"errors"

	"Rememerme/gameerrors"
	models "Rememerme/models/postgres"
	"Rememerme/repositories"
	"Rememerme/services/random"

	"github.com/google/uuid"
)

/*
 * Catalog is the read-only card catalog: phrase cards are drawn at random
 * per deck when a round is created, nomination cards are resolved by id
 * when members nominate.
 */
type Catalog struct {
	store  repositories.Store
	picker random.Picker
}

func NewCatalog(store repositories.Store, picker random.Picker) *Catalog {
	return &Catalog{store: store, picker: picker}
}

// RandomPhraseCard draws one phrase card uniformly from the given deck.
func (c *Catalog) RandomPhraseCard(deckID string) (*models.PhraseCard, error) {
	cards, err := c.store.PhraseCardsByDeck(deckID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, gameerrors.ErrPhraseCardNotFound
	}
	card := cards[c.picker.Intn(len(cards))]
	return &card, nil
}

// GetNominationCard resolves a nomination card by id. A malformed or
// unknown id is the same failure: the card cannot be played.
func (c *Catalog) GetNominationCard(cardID string) (*models.NominationCard, error) {
	if _, err := uuid.Parse(cardID); err != nil {
		return nil, gameerrors.ErrInvalidNominationCard
	}
	card, err := c.store.GetNominationCard(cardID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, gameerrors.ErrInvalidNominationCard
		}
		return nil, err
	}
	return card, nil
}

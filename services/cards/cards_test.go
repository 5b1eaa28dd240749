package cards

import (
	"testing"

	"Rememerme/gameerrors"
	models "Rememerme/models/postgres"
	"Rememerme/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fixedPicker struct{ n int }

func (p fixedPicker) Intn(n int) int { return p.n % n }

func TestRandomPhraseCard(t *testing.T) {
	store := repositories.NewMemoryStore()
	deckID := uuid.NewString()
	for _, text := range []string{"a", "b", "c"} {
		store.AddPhraseCard(models.PhraseCard{DeckID: deckID, Text: text})
	}
	// Another deck's cards must not leak into the draw.
	store.AddPhraseCard(models.PhraseCard{DeckID: uuid.NewString(), Text: "other deck"})

	catalog := NewCatalog(store, fixedPicker{n: 1})
	card, err := catalog.RandomPhraseCard(deckID)
	assert.NoError(t, err)
	assert.Equal(t, deckID, card.DeckID)
}

func TestRandomPhraseCardEmptyDeck(t *testing.T) {
	catalog := NewCatalog(repositories.NewMemoryStore(), fixedPicker{})

	_, err := catalog.RandomPhraseCard(uuid.NewString())
	assert.ErrorIs(t, err, gameerrors.ErrPhraseCardNotFound)
}

func TestGetNominationCard(t *testing.T) {
	store := repositories.NewMemoryStore()
	card := models.NominationCard{ID: uuid.NewString(), DeckID: uuid.NewString(), Text: "your uncle"}
	store.AddNominationCard(card)

	catalog := NewCatalog(store, fixedPicker{})

	got, err := catalog.GetNominationCard(card.ID)
	assert.NoError(t, err)
	assert.Equal(t, card.Text, got.Text)

	// Malformed and unknown ids fail identically.
	_, err = catalog.GetNominationCard("not-a-uuid")
	assert.ErrorIs(t, err, gameerrors.ErrInvalidNominationCard)
	_, err = catalog.GetNominationCard(uuid.NewString())
	assert.ErrorIs(t, err, gameerrors.ErrInvalidNominationCard)
}

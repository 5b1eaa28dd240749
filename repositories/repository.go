package repositories

import (
	"errors"

	models "Rememerme/models/postgres"
)

// ErrNotFound is returned by lookups when no record matches.
var ErrNotFound = errors.New("record not found")

/*
STORE INTERFACE

Store is the entity store the game services run against. The production
implementation lives on GORM/PostgreSQL; an in-memory implementation backs
the tests. Conditional writes (StartGameRound, ResolveRound,
AdvanceCurrentRound) report whether the guard matched so round
transitions stay exactly-once under concurrent callers.
*/
type Store interface {
	// games
	CreateGame(game *models.Game) error
	GetGame(id string) (*models.Game, error)

	// members
	CreateMember(member *models.GameMember) error
	SaveMember(member *models.GameMember) error
	AddScore(memberID string, delta int) error
	MembersByGame(gameID string) ([]models.GameMember, error)
	MembersByUser(userID string) ([]models.GameMember, error)
	MemberByGameAndUser(gameID, userID string) (*models.GameMember, error)

	// rounds
	CreateRound(round *models.Round) error
	GetRound(id string) (*models.Round, error)
	// StartGameRound points the game at its first round and records the
	// deck, only while the game is still unstarted.
	StartGameRound(gameID, deckID, roundID string) (bool, error)
	// ResolveRound writes the round's selection, only while unresolved.
	ResolveRound(roundID, selectionID string) (bool, error)
	// AdvanceCurrentRound swaps the game's round pointer, only while it
	// still points at fromRoundID.
	AdvanceCurrentRound(gameID, fromRoundID, toRoundID string) (bool, error)

	// nominations
	CreateNomination(nomination *models.Nomination) error
	GetNomination(id string) (*models.Nomination, error)
	NominationsByRound(roundID string) ([]models.Nomination, error)

	// card catalog
	PhraseCardsByDeck(deckID string) ([]models.PhraseCard, error)
	GetNominationCard(id string) (*models.NominationCard, error)

	// users
	GetUser(id string) (*models.User, error)

	// Transaction runs fn against a store whose writes commit or roll
	// back together.
	Transaction(fn func(Store) error) error
}

package rounds

import (
	"errors"
	"log"
	"time"

	game_constants "Rememerme/constants/game"
	"Rememerme/gameerrors"
	models "Rememerme/models/postgres"
	"Rememerme/repositories"
	"Rememerme/services/cards"
	"Rememerme/services/permissions"
	"Rememerme/services/random"

	"github.com/google/uuid"
)

// Locker is the per-game mutation lock, backed by redis in production.
// StartGame and SelectWinner hold it across their multi-record writes.
type Locker interface {
	AcquireGameLock(gameID string, ttl time.Duration) (bool, error)
	ReleaseGameLock(gameID string) error
}

// Notifier fans game events out to connected clients. Delivery is best
// effort; a nil Notifier disables it.
type Notifier interface {
	GameEvent(gameID, event string, payload map[string]interface{})
}

/*
 * Service drives the round state machine of a game: no round until the
 * game is started, then an open round collecting nominations, resolved by
 * the selector into a winner plus a fresh round. Old rounds stay around as
 * history; a round's selection is written exactly once.
 */
type Service struct {
	store    repositories.Store
	gate     permissions.Gate
	catalog  *cards.Catalog
	picker   random.Picker
	locks    Locker
	notifier Notifier
}

func NewService(store repositories.Store, gate permissions.Gate, catalog *cards.Catalog,
	picker random.Picker, locks Locker, notifier Notifier) *Service {
	return &Service{
		store:    store,
		gate:     gate,
		catalog:  catalog,
		picker:   picker,
		locks:    locks,
		notifier: notifier,
	}
}

// StartGame opens the game's first round: a uniformly random selector from
// the member list (any status) and a random phrase card from the deck. The
// game records the deck for all later rounds.
func (s *Service) StartGame(gameID, deckID, callerID string) (*models.Round, error) {
	if _, err := uuid.Parse(deckID); err != nil {
		return nil, gameerrors.ErrGameNotFound
	}
	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.CurrentRoundID != nil {
		return nil, gameerrors.ErrGameAlreadyStarted
	}
	if err := s.checkPermission(callerID, game); err != nil {
		return nil, err
	}

	acquired, err := s.locks.AcquireGameLock(game.ID, game_constants.GameLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, gameerrors.ErrGameAlreadyStarted
	}
	defer s.releaseLock(game.ID)

	members, err := s.gameMembers(game.ID)
	if err != nil {
		return nil, err
	}

	selector := members[s.picker.Intn(len(members))]
	phrase, err := s.catalog.RandomPhraseCard(deckID)
	if err != nil {
		return nil, err
	}

	round := models.Round{
		GameID:       game.ID,
		SelectorID:   selector.UserID,
		PhraseCardID: phrase.ID,
	}

	err = s.store.Transaction(func(tx repositories.Store) error {
		if err := tx.CreateRound(&round); err != nil {
			return err
		}
		// Guard against a concurrent start: the pointer only advances from
		// its unstarted state.
		started, err := tx.StartGameRound(game.ID, deckID, round.ID)
		if err != nil {
			return err
		}
		if !started {
			return gameerrors.ErrGameAlreadyStarted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(game.ID, "round_started", map[string]interface{}{
		"round_id":       round.ID,
		"selector_id":    round.SelectorID,
		"phrase_card_id": round.PhraseCardID,
	})
	return &round, nil
}

// GetCurrentRound returns the round currently accepting nominations.
func (s *Service) GetCurrentRound(gameID, callerID string) (*models.Round, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPermission(callerID, game); err != nil {
		return nil, err
	}
	if game.CurrentRoundID == nil {
		return nil, gameerrors.ErrNoCurrentRound
	}

	round, err := s.store.GetRound(*game.CurrentRoundID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, gameerrors.ErrRoundNotFound
		}
		return nil, err
	}
	return round, nil
}

// ListNominations returns every nomination of the open round.
func (s *Service) ListNominations(gameID, callerID string) ([]models.Nomination, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.CurrentRoundID == nil {
		return nil, gameerrors.ErrNoCurrentRound
	}
	if err := s.checkPermission(callerID, game); err != nil {
		return nil, err
	}

	return s.store.NominationsByRound(*game.CurrentRoundID)
}

// SubmitNomination plays a nomination card into the open round. One
// nomination per member per round; the selector is not excluded.
func (s *Service) SubmitNomination(gameID, callerID, nominationCardID string) (*models.Nomination, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}
	if game.CurrentRoundID == nil {
		return nil, gameerrors.ErrNoCurrentRound
	}
	if err := s.checkPermission(callerID, game); err != nil {
		return nil, err
	}

	existing, err := s.store.NominationsByRound(*game.CurrentRoundID)
	if err != nil {
		return nil, err
	}
	for _, n := range existing {
		if n.NominatorID == callerID {
			return nil, gameerrors.ErrAlreadyNominated
		}
	}

	card, err := s.catalog.GetNominationCard(nominationCardID)
	if err != nil {
		return nil, err
	}

	nomination := models.Nomination{
		RoundID:          *game.CurrentRoundID,
		NominatorID:      callerID,
		NominationCardID: card.ID,
	}
	if err := s.store.CreateNomination(&nomination); err != nil {
		return nil, err
	}

	s.notify(game.ID, "nomination_submitted", map[string]interface{}{
		"round_id":    nomination.RoundID,
		"nominations": len(existing) + 1,
	})
	return &nomination, nil
}

// SelectWinner resolves the open round: only the selector may call it. The
// winning nominator's score goes up by the fixed award, then a fresh round
// is created with a new random selector and phrase card and the game's
// round pointer advances. The selection write is one-shot and everything
// runs inside one store transaction, so a round resolves exactly once even
// under concurrent selectors. Returns the new round.
func (s *Service) SelectWinner(gameID, callerID, nominationID string) (*models.Round, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPermission(callerID, game); err != nil {
		return nil, err
	}
	if game.CurrentRoundID == nil {
		return nil, gameerrors.ErrNoCurrentRound
	}

	round, err := s.store.GetRound(*game.CurrentRoundID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, gameerrors.ErrRoundNotFound
		}
		return nil, err
	}
	if callerID != round.SelectorID {
		return nil, gameerrors.ErrNotTheSelector
	}

	nomination, err := s.findNomination(nominationID, round.ID)
	if err != nil {
		return nil, err
	}

	if game.DeckID == nil {
		// A started game always has a deck.
		return nil, gameerrors.ErrStoreInconsistency
	}

	acquired, err := s.locks.AcquireGameLock(game.ID, game_constants.GameLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, gameerrors.ErrRoundConflict
	}
	defer s.releaseLock(game.ID)

	members, err := s.gameMembers(game.ID)
	if err != nil {
		return nil, err
	}

	var winner *models.GameMember
	for i := range members {
		if members[i].UserID == nomination.NominatorID {
			winner = &members[i]
			break
		}
	}
	if winner == nil {
		// A nomination's author has to be a member of the game.
		return nil, gameerrors.ErrStoreInconsistency
	}

	selector := members[s.picker.Intn(len(members))]
	phrase, err := s.catalog.RandomPhraseCard(*game.DeckID)
	if err != nil {
		return nil, err
	}

	newRound := models.Round{
		GameID:       game.ID,
		SelectorID:   selector.UserID,
		PhraseCardID: phrase.ID,
	}

	err = s.store.Transaction(func(tx repositories.Store) error {
		// The selection write is one-shot: it only succeeds while the
		// round is still unresolved.
		resolved, err := tx.ResolveRound(round.ID, nomination.ID)
		if err != nil {
			return err
		}
		if !resolved {
			return gameerrors.ErrRoundConflict
		}

		if err := tx.AddScore(winner.ID, game_constants.WinnerAward); err != nil {
			return err
		}

		if err := tx.CreateRound(&newRound); err != nil {
			return err
		}

		advanced, err := tx.AdvanceCurrentRound(game.ID, round.ID, newRound.ID)
		if err != nil {
			return err
		}
		if !advanced {
			return gameerrors.ErrRoundConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(game.ID, "winner_selected", map[string]interface{}{
		"round_id":      round.ID,
		"selection_id":  nomination.ID,
		"winner_id":     nomination.NominatorID,
		"points":        game_constants.WinnerAward,
		"next_round_id": newRound.ID,
	})
	s.notify(game.ID, "round_started", map[string]interface{}{
		"round_id":       newRound.ID,
		"selector_id":    newRound.SelectorID,
		"phrase_card_id": newRound.PhraseCardID,
	})
	return &newRound, nil
}

func (s *Service) findGame(gameID string) (*models.Game, error) {
	if _, err := uuid.Parse(gameID); err != nil {
		return nil, gameerrors.ErrGameNotFound
	}
	game, err := s.store.GetGame(gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, gameerrors.ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

// findNomination resolves the selection. Malformed, unknown, or belonging
// to a different round all fail the same way: the nomination cannot win
// this round.
func (s *Service) findNomination(nominationID, roundID string) (*models.Nomination, error) {
	if _, err := uuid.Parse(nominationID); err != nil {
		return nil, gameerrors.ErrInvalidNominationCard
	}
	nomination, err := s.store.GetNomination(nominationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, gameerrors.ErrInvalidNominationCard
		}
		return nil, err
	}
	if nomination.RoundID != roundID {
		return nil, gameerrors.ErrInvalidNominationCard
	}
	return nomination, nil
}

func (s *Service) checkPermission(callerID string, game *models.Game) error {
	ok, err := s.gate.HasObjectPermission(callerID, game)
	if err != nil {
		return err
	}
	if !ok {
		return gameerrors.ErrPermissionDenied
	}
	return nil
}

// gameMembers loads the full member list, any status. The selector pool is
// deliberately unfiltered: pending and declined members are eligible too.
func (s *Service) gameMembers(gameID string) ([]models.GameMember, error) {
	members, err := s.store.MembersByGame(gameID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		// Every game is created with at least its leader's row.
		return nil, gameerrors.ErrStoreInconsistency
	}
	return members, nil
}

func (s *Service) releaseLock(gameID string) {
	if err := s.locks.ReleaseGameLock(gameID); err != nil {
		log.Printf("failed to release game lock for %s: %v", gameID, err)
	}
}

func (s *Service) notify(gameID, event string, payload map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.GameEvent(gameID, event, payload)
}

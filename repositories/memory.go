package repositories

import (
	"errors"
	"sort"
	"sync"
	"time"

	models "Rememerme/models/postgres"

	"github.com/google/uuid"
)

/*
MEMORY IMPL

MemoryStore keeps everything in maps. It backs the service tests and is
handy for local development without PostgreSQL. The composite uniqueness
rules the database enforces with indexes are enforced here too.
*/
type MemoryStore struct {
	mu          sync.RWMutex
	games       map[string]models.Game
	members     map[string]models.GameMember
	rounds      map[string]models.Round
	nominations map[string]models.Nomination
	phrases     map[string]models.PhraseCard
	cards       map[string]models.NominationCard
	users       map[string]models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:       make(map[string]models.Game),
		members:     make(map[string]models.GameMember),
		rounds:      make(map[string]models.Round),
		nominations: make(map[string]models.Nomination),
		phrases:     make(map[string]models.PhraseCard),
		cards:       make(map[string]models.NominationCard),
		users:       make(map[string]models.User),
	}
}

func stamp(id *string, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func (s *MemoryStore) CreateGame(game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&game.ID, &game.CreatedAt, &game.UpdatedAt)
	s.games[game.ID] = *game
	return nil
}

func (s *MemoryStore) GetGame(id string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &game, nil
}

func (s *MemoryStore) CreateMember(member *models.GameMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.GameID == member.GameID && m.UserID == member.UserID {
			return errors.New("duplicate game member")
		}
	}
	stamp(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	s.members[member.ID] = *member
	return nil
}

func (s *MemoryStore) SaveMember(member *models.GameMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[member.ID]; !ok {
		return ErrNotFound
	}
	member.UpdatedAt = time.Now()
	s.members[member.ID] = *member
	return nil
}

func (s *MemoryStore) AddScore(memberID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	member, ok := s.members[memberID]
	if !ok {
		return ErrNotFound
	}
	member.Score += delta
	member.UpdatedAt = time.Now()
	s.members[memberID] = member
	return nil
}

func (s *MemoryStore) MembersByGame(gameID string) ([]models.GameMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var members []models.GameMember
	for _, m := range s.members {
		if m.GameID == gameID {
			members = append(members, m)
		}
	}
	sortByCreation(members, func(m models.GameMember) time.Time { return m.CreatedAt })
	return members, nil
}

func (s *MemoryStore) MembersByUser(userID string) ([]models.GameMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var members []models.GameMember
	for _, m := range s.members {
		if m.UserID == userID {
			members = append(members, m)
		}
	}
	sortByCreation(members, func(m models.GameMember) time.Time { return m.CreatedAt })
	return members, nil
}

func (s *MemoryStore) MemberByGameAndUser(gameID, userID string) (*models.GameMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.GameID == gameID && m.UserID == userID {
			member := m
			return &member, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateRound(round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&round.ID, &round.CreatedAt, &round.UpdatedAt)
	s.rounds[round.ID] = *round
	return nil
}

func (s *MemoryStore) GetRound(id string) (*models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &round, nil
}

func (s *MemoryStore) StartGameRound(gameID, deckID, roundID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok || game.CurrentRoundID != nil {
		return false, nil
	}
	game.DeckID = &deckID
	game.CurrentRoundID = &roundID
	game.UpdatedAt = time.Now()
	s.games[gameID] = game
	return true, nil
}

func (s *MemoryStore) ResolveRound(roundID, selectionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.rounds[roundID]
	if !ok || round.SelectionID != nil {
		return false, nil
	}
	round.SelectionID = &selectionID
	round.UpdatedAt = time.Now()
	s.rounds[roundID] = round
	return true, nil
}

func (s *MemoryStore) AdvanceCurrentRound(gameID, fromRoundID, toRoundID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[gameID]
	if !ok || game.CurrentRoundID == nil || *game.CurrentRoundID != fromRoundID {
		return false, nil
	}
	game.CurrentRoundID = &toRoundID
	game.UpdatedAt = time.Now()
	s.games[gameID] = game
	return true, nil
}

func (s *MemoryStore) CreateNomination(nomination *models.Nomination) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nominations {
		if n.RoundID == nomination.RoundID && n.NominatorID == nomination.NominatorID {
			return errors.New("duplicate nomination")
		}
	}
	stamp(&nomination.ID, &nomination.CreatedAt, &nomination.UpdatedAt)
	s.nominations[nomination.ID] = *nomination
	return nil
}

func (s *MemoryStore) GetNomination(id string) (*models.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	nomination, ok := s.nominations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &nomination, nil
}

func (s *MemoryStore) NominationsByRound(roundID string) ([]models.Nomination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var nominations []models.Nomination
	for _, n := range s.nominations {
		if n.RoundID == roundID {
			nominations = append(nominations, n)
		}
	}
	sortByCreation(nominations, func(n models.Nomination) time.Time { return n.CreatedAt })
	return nominations, nil
}

// AddPhraseCard seeds the catalog.
func (s *MemoryStore) AddPhraseCard(card models.PhraseCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	s.phrases[card.ID] = card
}

// AddNominationCard seeds the catalog.
func (s *MemoryStore) AddNominationCard(card models.NominationCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	s.cards[card.ID] = card
}

// AddUser seeds the user directory.
func (s *MemoryStore) AddUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users[user.ID] = user
}

func (s *MemoryStore) PhraseCardsByDeck(deckID string) ([]models.PhraseCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var cards []models.PhraseCard
	for _, c := range s.phrases {
		if c.DeckID == deckID {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards, nil
}

func (s *MemoryStore) GetNominationCard(id string) (*models.NominationCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &card, nil
}

func (s *MemoryStore) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

// Transaction runs fn directly; the memory store has no rollback.
func (s *MemoryStore) Transaction(fn func(Store) error) error {
	return fn(s)
}

func sortByCreation[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}

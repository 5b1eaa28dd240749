package rounds

import (
	"sync"
	"testing"
	"time"

	game_constants "Rememerme/constants/game"
	"Rememerme/gameerrors"
	models "Rememerme/models/postgres"
	"Rememerme/repositories"
	"Rememerme/services/cards"
	"Rememerme/services/games"
	"Rememerme/services/permissions"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// seqPicker plays back a fixed index sequence so the "random" selector and
// phrase card are deterministic in tests.
type seqPicker struct {
	seq []int
	pos int
}

func (p *seqPicker) Intn(n int) int {
	if len(p.seq) == 0 {
		return 0
	}
	v := p.seq[p.pos%len(p.seq)]
	p.pos++
	return v % n
}

// memoryLocker mirrors the redis SetNX lock in-process.
type memoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: make(map[string]bool)}
}

func (l *memoryLocker) AcquireGameLock(gameID string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[gameID] {
		return false, nil
	}
	l.held[gameID] = true
	return true, nil
}

func (l *memoryLocker) ReleaseGameLock(gameID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, gameID)
	return nil
}

// recordingNotifier captures the events a round transition emits.
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) GameEvent(gameID, event string, payload map[string]interface{}) {
	n.events = append(n.events, event)
}

type fixture struct {
	svc      *Service
	store    *repositories.MemoryStore
	picker   *seqPicker
	locker   *memoryLocker
	notifier *recordingNotifier
	game     *models.Game
	deckID   string
	leader   string
	invited  string
}

// newFixture builds a two-member game (leader active, invitee accepted)
// over a three-card deck. The picker sequence makes the selector draws
// deterministic; creation order puts the invitee's membership row before
// the leader's.
func newFixture(t *testing.T, seq ...int) *fixture {
	t.Helper()

	store := repositories.NewMemoryStore()
	gate := permissions.NewMemberGate(store)
	picker := &seqPicker{seq: seq}
	locker := newMemoryLocker()
	notifier := &recordingNotifier{}
	svc := NewService(store, gate, cards.NewCatalog(store, picker), picker, locker, notifier)

	leader := uuid.NewString()
	invited := uuid.NewString()
	store.AddUser(models.User{ID: leader, Username: "leader"})
	store.AddUser(models.User{ID: invited, Username: "invited"})

	gamesSvc := games.NewService(store, gate)
	game, _, err := gamesSvc.CreateGame(leader, 50, []string{invited})
	assert.NoError(t, err)
	_, err = gamesSvc.RespondToInvite(game.ID, invited, game_constants.MemberStatusActive)
	assert.NoError(t, err)

	deckID := uuid.NewString()
	for _, text := range []string{"that time at the lake", "the roommate incident", "new year's eve 2019"} {
		store.AddPhraseCard(models.PhraseCard{DeckID: deckID, Text: text})
	}

	return &fixture{
		svc:      svc,
		store:    store,
		picker:   picker,
		locker:   locker,
		notifier: notifier,
		game:     game,
		deckID:   deckID,
		leader:   leader,
		invited:  invited,
	}
}

func (f *fixture) addNominationCard(t *testing.T) string {
	t.Helper()
	card := models.NominationCard{ID: uuid.NewString(), DeckID: f.deckID, Text: "your uncle"}
	f.store.AddNominationCard(card)
	return card.ID
}

func TestStartGame(t *testing.T) {
	f := newFixture(t, 0)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)
	assert.Equal(t, f.game.ID, round.GameID)
	assert.NotEmpty(t, round.SelectorID)
	assert.NotEmpty(t, round.PhraseCardID)
	assert.Nil(t, round.SelectionID)

	// The game now records its deck and points at the round.
	game, err := f.store.GetGame(f.game.ID)
	assert.NoError(t, err)
	assert.NotNil(t, game.DeckID)
	assert.Equal(t, f.deckID, *game.DeckID)
	assert.NotNil(t, game.CurrentRoundID)
	assert.Equal(t, round.ID, *game.CurrentRoundID)

	assert.Equal(t, []string{"round_started"}, f.notifier.events)
}

func TestStartGameOnlyOnce(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	_, err = f.svc.StartGame(f.game.ID, f.deckID, f.invited)
	assert.ErrorIs(t, err, gameerrors.ErrGameAlreadyStarted)
}

func TestStartGameWhileLockHeld(t *testing.T) {
	f := newFixture(t, 0)

	// Another request holds the game lock: the start reads as a lost race.
	acquired, err := f.locker.AcquireGameLock(f.game.ID, game_constants.GameLockTTL)
	assert.NoError(t, err)
	assert.True(t, acquired)

	_, err = f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.ErrorIs(t, err, gameerrors.ErrGameAlreadyStarted)
}

func TestStartGameErrors(t *testing.T) {
	f := newFixture(t, 0)
	stranger := uuid.NewString()

	_, err := f.svc.StartGame(uuid.NewString(), f.deckID, f.leader)
	assert.ErrorIs(t, err, gameerrors.ErrGameNotFound)

	_, err = f.svc.StartGame("not-a-uuid", f.deckID, f.leader)
	assert.ErrorIs(t, err, gameerrors.ErrGameNotFound)

	// A deck id that doesn't parse fails the same way as an unknown game.
	_, err = f.svc.StartGame(f.game.ID, "not-a-uuid", f.leader)
	assert.ErrorIs(t, err, gameerrors.ErrGameNotFound)

	_, err = f.svc.StartGame(f.game.ID, f.deckID, stranger)
	assert.ErrorIs(t, err, gameerrors.ErrPermissionDenied)

	// An empty deck has no phrase card to open the round with.
	_, err = f.svc.StartGame(f.game.ID, uuid.NewString(), f.leader)
	assert.ErrorIs(t, err, gameerrors.ErrPhraseCardNotFound)
}

func TestGetCurrentRound(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.GetCurrentRound(f.game.ID, f.leader)
	assert.ErrorIs(t, err, gameerrors.ErrNoCurrentRound)

	started, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	// Reading the current round changes nothing: two reads agree.
	first, err := f.svc.GetCurrentRound(f.game.ID, f.leader)
	assert.NoError(t, err)
	second, err := f.svc.GetCurrentRound(f.game.ID, f.invited)
	assert.NoError(t, err)
	assert.Equal(t, started.ID, first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.SelectorID, second.SelectorID)
	assert.Equal(t, first.PhraseCardID, second.PhraseCardID)

	_, err = f.svc.GetCurrentRound(f.game.ID, uuid.NewString())
	assert.ErrorIs(t, err, gameerrors.ErrPermissionDenied)
}

func TestSubmitNomination(t *testing.T) {
	f := newFixture(t, 0)
	cardID := f.addNominationCard(t)

	_, err := f.svc.SubmitNomination(f.game.ID, f.invited, cardID)
	assert.ErrorIs(t, err, gameerrors.ErrNoCurrentRound)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	nomination, err := f.svc.SubmitNomination(f.game.ID, f.invited, cardID)
	assert.NoError(t, err)
	assert.Equal(t, round.ID, nomination.RoundID)
	assert.Equal(t, f.invited, nomination.NominatorID)
	assert.Equal(t, cardID, nomination.NominationCardID)

	listed, err := f.svc.ListNominations(f.game.ID, f.leader)
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, nomination.ID, listed[0].ID)
}

func TestSubmitNominationOncePerRound(t *testing.T) {
	f := newFixture(t, 0)
	cardID := f.addNominationCard(t)
	otherCard := f.addNominationCard(t)

	_, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	_, err = f.svc.SubmitNomination(f.game.ID, f.invited, cardID)
	assert.NoError(t, err)

	// A second card from the same member is refused, whichever card.
	_, err = f.svc.SubmitNomination(f.game.ID, f.invited, otherCard)
	assert.ErrorIs(t, err, gameerrors.ErrAlreadyNominated)
}

func TestSelectorMayNominate(t *testing.T) {
	f := newFixture(t, 0)
	cardID := f.addNominationCard(t)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	// The round's own selector plays a card like anyone else.
	_, err = f.svc.SubmitNomination(f.game.ID, round.SelectorID, cardID)
	assert.NoError(t, err)
}

func TestSubmitNominationUnknownCard(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	_, err = f.svc.SubmitNomination(f.game.ID, f.invited, "not-a-uuid")
	assert.ErrorIs(t, err, gameerrors.ErrInvalidNominationCard)

	_, err = f.svc.SubmitNomination(f.game.ID, f.invited, uuid.NewString())
	assert.ErrorIs(t, err, gameerrors.ErrInvalidNominationCard)
}

func TestSelectWinner(t *testing.T) {
	f := newFixture(t, 0)
	cardID := f.addNominationCard(t)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	nominator := otherMember(f, round.SelectorID)
	nomination, err := f.svc.SubmitNomination(f.game.ID, nominator, cardID)
	assert.NoError(t, err)

	next, err := f.svc.SelectWinner(f.game.ID, round.SelectorID, nomination.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, round.ID, next.ID)
	assert.Nil(t, next.SelectionID)

	// The resolved round keeps its selection permanently.
	resolved, err := f.store.GetRound(round.ID)
	assert.NoError(t, err)
	assert.NotNil(t, resolved.SelectionID)
	assert.Equal(t, nomination.ID, *resolved.SelectionID)

	// The winner's score went up by the fixed award.
	winner, err := f.store.MemberByGameAndUser(f.game.ID, nominator)
	assert.NoError(t, err)
	assert.Equal(t, game_constants.WinnerAward, winner.Score)

	// The game moved on to the new round.
	game, err := f.store.GetGame(f.game.ID)
	assert.NoError(t, err)
	assert.Equal(t, next.ID, *game.CurrentRoundID)

	assert.Equal(t, []string{"round_started", "nomination_submitted", "winner_selected", "round_started"}, f.notifier.events)
}

func TestSelectWinnerOnlySelector(t *testing.T) {
	f := newFixture(t, 0)
	cardID := f.addNominationCard(t)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	nominator := otherMember(f, round.SelectorID)
	nomination, err := f.svc.SubmitNomination(f.game.ID, nominator, cardID)
	assert.NoError(t, err)

	_, err = f.svc.SelectWinner(f.game.ID, nominator, nomination.ID)
	assert.ErrorIs(t, err, gameerrors.ErrNotTheSelector)

	// The failed call changed nothing.
	unresolved, err := f.store.GetRound(round.ID)
	assert.NoError(t, err)
	assert.Nil(t, unresolved.SelectionID)
}

func TestSelectWinnerRejectsForeignNomination(t *testing.T) {
	f := newFixture(t, 0)
	cardID := f.addNominationCard(t)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	nominator := otherMember(f, round.SelectorID)
	nomination, err := f.svc.SubmitNomination(f.game.ID, nominator, cardID)
	assert.NoError(t, err)

	next, err := f.svc.SelectWinner(f.game.ID, round.SelectorID, nomination.ID)
	assert.NoError(t, err)

	// The old round's nomination cannot win the new round.
	_, err = f.svc.SelectWinner(f.game.ID, next.SelectorID, nomination.ID)
	assert.ErrorIs(t, err, gameerrors.ErrInvalidNominationCard)

	// Nor can a made-up or malformed one.
	_, err = f.svc.SelectWinner(f.game.ID, next.SelectorID, uuid.NewString())
	assert.ErrorIs(t, err, gameerrors.ErrInvalidNominationCard)
	_, err = f.svc.SelectWinner(f.game.ID, next.SelectorID, "not-a-uuid")
	assert.ErrorIs(t, err, gameerrors.ErrInvalidNominationCard)
}

func TestSelectWinnerNeedsOpenRound(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.SelectWinner(f.game.ID, f.leader, uuid.NewString())
	assert.ErrorIs(t, err, gameerrors.ErrNoCurrentRound)
}

func TestSelectWinnerWhileLockHeld(t *testing.T) {
	f := newFixture(t, 0)
	cardID := f.addNominationCard(t)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	nominator := otherMember(f, round.SelectorID)
	nomination, err := f.svc.SubmitNomination(f.game.ID, nominator, cardID)
	assert.NoError(t, err)

	acquired, err := f.locker.AcquireGameLock(f.game.ID, game_constants.GameLockTTL)
	assert.NoError(t, err)
	assert.True(t, acquired)

	_, err = f.svc.SelectWinner(f.game.ID, round.SelectorID, nomination.ID)
	assert.ErrorIs(t, err, gameerrors.ErrRoundConflict)
}

func TestRoundResolvesExactlyOnce(t *testing.T) {
	f := newFixture(t, 0)

	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	// The store-level guard is one-shot even without the lock in front.
	first, err := f.store.ResolveRound(round.ID, uuid.NewString())
	assert.NoError(t, err)
	assert.True(t, first)

	second, err := f.store.ResolveRound(round.ID, uuid.NewString())
	assert.NoError(t, err)
	assert.False(t, second)
}

func TestFullGameFlow(t *testing.T) {
	f := newFixture(t, 0)

	// Three rounds back to back: each resolution awards the winner and
	// rotates in a fresh round, while history accumulates.
	round, err := f.svc.StartGame(f.game.ID, f.deckID, f.leader)
	assert.NoError(t, err)

	roundIDs := make(map[string]bool)
	for i := 0; i < 3; i++ {
		round, err = f.svc.GetCurrentRound(f.game.ID, f.leader)
		assert.NoError(t, err)
		assert.False(t, roundIDs[round.ID])
		roundIDs[round.ID] = true

		cardID := f.addNominationCard(t)
		nominator := otherMember(f, round.SelectorID)
		nomination, err := f.svc.SubmitNomination(f.game.ID, nominator, cardID)
		assert.NoError(t, err)

		_, err = f.svc.SelectWinner(f.game.ID, round.SelectorID, nomination.ID)
		assert.NoError(t, err)
	}

	members, err := f.store.MembersByGame(f.game.ID)
	assert.NoError(t, err)
	total := 0
	for _, m := range members {
		total += m.Score
	}
	assert.Equal(t, 3*game_constants.WinnerAward, total)
}

// otherMember returns whichever of the two fixture members is not the
// given one.
func otherMember(f *fixture, userID string) string {
	if userID == f.leader {
		return f.invited
	}
	return f.leader
}

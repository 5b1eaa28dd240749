package games

import (
	"errors"
	"time"

	game_constants "Rememerme/constants/game"
	"Rememerme/gameerrors"
	models "Rememerme/models/postgres"
	"Rememerme/repositories"
	"Rememerme/services/permissions"

	"github.com/google/uuid"
)

/*
 * Service is the game lifecycle manager: it creates games, resolves the
 * games a user belongs to, and runs the invitation flow. Round
 * progression lives in services/rounds.
 */
type Service struct {
	store repositories.Store
	gate  permissions.Gate
}

func NewService(store repositories.Store, gate permissions.Gate) *Service {
	return &Service{store: store, gate: gate}
}

// CreateGame persists a new game led by leaderID plus one pending member
// per resolvable invited user id. Invited ids that are malformed, unknown
// to the user directory, duplicated, or the leader's own are silently
// skipped. Returns the game and the created member ids keyed to their
// creation time, the leader's active membership included.
func (s *Service) CreateGame(leaderID string, winningScore int, memberUserIDs []string) (*models.Game, map[string]time.Time, error) {
	if winningScore <= 0 {
		return nil, nil, gameerrors.ErrInvalidWinningScore
	}

	game := models.Game{
		LeaderID:     leaderID,
		WinningScore: winningScore,
	}
	if err := s.store.CreateGame(&game); err != nil {
		return nil, nil, err
	}

	membersAdded := make(map[string]time.Time)
	seen := map[string]bool{leaderID: true}

	for _, raw := range memberUserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		userID := id.String()
		if seen[userID] {
			continue
		}

		// The invited id has to resolve in the user directory.
		if _, err := s.store.GetUser(userID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, nil, err
		}
		seen[userID] = true

		member := models.GameMember{
			GameID: game.ID,
			UserID: userID,
			Status: game_constants.MemberStatusPending,
		}
		if err := s.store.CreateMember(&member); err != nil {
			return nil, nil, err
		}
		membersAdded[member.ID] = member.CreatedAt
	}

	leader := models.GameMember{
		GameID: game.ID,
		UserID: leaderID,
		Status: game_constants.MemberStatusActive,
		Score:  0,
	}
	if err := s.store.CreateMember(&leader); err != nil {
		return nil, nil, err
	}
	membersAdded[leader.ID] = leader.CreatedAt

	return &game, membersAdded, nil
}

// ListGamesForUser resolves every game the user has a membership row for.
func (s *Service) ListGamesForUser(userID string) ([]models.Game, error) {
	memberships, err := s.store.MembersByUser(userID)
	if err != nil {
		return nil, err
	}

	games := make([]models.Game, 0, len(memberships))
	for _, m := range memberships {
		game, err := s.store.GetGame(m.GameID)
		if err != nil {
			// A membership pointing at a missing game is store breakage,
			// surfaced the way the API has always surfaced it.
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, gameerrors.ErrGameNotFound
			}
			return nil, err
		}
		games = append(games, *game)
	}
	return games, nil
}

// GetGame returns the game when the caller is a permitted member.
func (s *Service) GetGame(gameID, callerID string) (*models.Game, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.HasObjectPermission(callerID, game)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, gameerrors.ErrPermissionDenied
	}
	return game, nil
}

// ListPendingRequests returns the user's game invitations: membership rows
// still in the pending state.
func (s *Service) ListPendingRequests(userID string) ([]models.GameMember, error) {
	memberships, err := s.store.MembersByUser(userID)
	if err != nil {
		return nil, err
	}

	pending := make([]models.GameMember, 0, len(memberships))
	for _, m := range memberships {
		if m.Status == game_constants.MemberStatusPending {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// InviteMember adds a pending membership for inviteeID. The inviter must
// already be a member; the invitee must not be. The user directory is not
// consulted again here, only at game creation.
func (s *Service) InviteMember(gameID, inviterID, inviteeID string) (*models.GameMember, error) {
	if _, err := uuid.Parse(gameID); err != nil {
		return nil, gameerrors.ErrBadRequest
	}
	if _, err := uuid.Parse(inviteeID); err != nil {
		return nil, gameerrors.ErrBadRequest
	}

	members, err := s.store.MembersByGame(gameID)
	if err != nil {
		return nil, err
	}

	var me, them *models.GameMember
	for i := range members {
		if members[i].UserID == inviterID {
			me = &members[i]
		}
		if members[i].UserID == inviteeID {
			them = &members[i]
		}
	}
	if them != nil {
		return nil, gameerrors.ErrGameMemberExists
	}
	if me == nil {
		return nil, gameerrors.ErrPermissionDenied
	}

	member := models.GameMember{
		GameID: gameID,
		UserID: inviteeID,
		Status: game_constants.MemberStatusPending,
	}
	if err := s.store.CreateMember(&member); err != nil {
		return nil, err
	}
	return &member, nil
}

// RespondToInvite overwrites the status of the caller's own membership in
// the game: accept (2), keep pending (1) or decline (0).
func (s *Service) RespondToInvite(gameID, callerID string, status int) (*models.GameMember, error) {
	if _, err := uuid.Parse(gameID); err != nil {
		return nil, gameerrors.ErrGameMemberNotFound
	}
	if status < game_constants.MemberStatusDeclined || status > game_constants.MemberStatusActive {
		return nil, gameerrors.ErrIllegalStatusCode
	}

	member, err := s.store.MemberByGameAndUser(gameID, callerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, gameerrors.ErrGameMemberNotFound
		}
		return nil, err
	}

	member.Status = status
	if err := s.store.SaveMember(member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers returns every membership row of the game. The caller has to
// appear among them.
func (s *Service) ListMembers(gameID, callerID string) ([]models.GameMember, error) {
	game, err := s.findGame(gameID)
	if err != nil {
		return nil, err
	}

	members, err := s.store.MembersByGame(game.ID)
	if err != nil {
		return nil, err
	}

	callerIsMember := false
	for _, m := range members {
		if m.UserID == callerID {
			callerIsMember = true
			break
		}
	}
	if !callerIsMember {
		return nil, gameerrors.ErrPermissionDenied
	}
	return members, nil
}

// findGame loads a game by id. A malformed id is indistinguishable from an
// unknown one: both are GameNotFound.
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

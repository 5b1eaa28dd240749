package permissions

import (
	"errors"

	models "Rememerme/models/postgres"
	"Rememerme/repositories"
)

// Gate decides whether a caller may act on a game. The production
// implementation checks membership; tests substitute their own.
type Gate interface {
	HasObjectPermission(userID string, game *models.Game) (bool, error)
}

type memberGate struct {
	store repositories.Store
}

// NewMemberGate returns a Gate backed by the game's member list.
func NewMemberGate(store repositories.Store) Gate {
	return &memberGate{store: store}
}

func (g *memberGate) HasObjectPermission(userID string, game *models.Game) (bool, error) {
	_, err := g.store.MemberByGameAndUser(game.ID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

package game_constants

import "time"

// GameMember status codes. The zero value is a declined invitation so a
// member row never defaults to active by accident.
const (
	MemberStatusDeclined = 0
	MemberStatusPending  = 1
	MemberStatusActive   = 2
)

// WinnerAward is the fixed number of points granted to the author of the
// winning nomination when a round is resolved.
const WinnerAward = 10

// GameLockTTL bounds how long a game mutation (StartGame, SelectWinner) may
// hold the per-game redis lock before it expires on its own.
const GameLockTTL = 5 * time.Second

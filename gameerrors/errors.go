package gameerrors

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Domain failures returned by the games and rounds services. Controllers
// attach them with c.Error and ErrorHandler translates them to a status
// code and a stable message.
var (
	ErrBadRequest            = errors.New("a bad request was made for the API, revise input parameters")
	ErrInvalidWinningScore   = errors.New("you can't set up a game if the score doesn't make sense")
	ErrIllegalStatusCode     = errors.New("the code for the game member status is out of range")
	ErrGameNotFound          = errors.New("don't ask about that game because we have no idea what you are talking about")
	ErrRoundNotFound         = errors.New("that round doesn't seem to be a thing")
	ErrNotTheSelector        = errors.New("wait your turn to select")
	ErrGameMemberNotFound    = errors.New("you are not apparently part of this game")
	ErrGameMemberExists      = errors.New("you've already invited them to the game")
	ErrGameAlreadyStarted    = errors.New("the game has already begun")
	ErrNoCurrentRound        = errors.New("you have to start the game for that")
	ErrAlreadyNominated      = errors.New("you already made your move, no takesies backsies")
	ErrInvalidNominationCard = errors.New("that nomination card doesn't exist")
	ErrPhraseCardNotFound    = errors.New("no phrase card could be drawn from that deck")
	ErrRoundConflict         = errors.New("someone else just resolved this round")
	ErrPermissionDenied      = errors.New("you do not have permission to perform this action")

	// ErrStoreInconsistency marks data that violates the model's own
	// invariants, e.g. a nomination whose author has no member row. Never
	// caller-correctable.
	ErrStoreInconsistency = errors.New("internal data inconsistency")
)

// StatusCode maps a domain error to its HTTP status. Not-found and
// permission failures stay distinct; anything unknown is a server error.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidWinningScore),
		errors.Is(err, ErrIllegalStatusCode),
		errors.Is(err, ErrNotTheSelector),
		errors.Is(err, ErrAlreadyNominated),
		errors.Is(err, ErrInvalidNominationCard):
		return http.StatusBadRequest
	case errors.Is(err, ErrGameNotFound),
		errors.Is(err, ErrRoundNotFound),
		errors.Is(err, ErrGameMemberNotFound),
		errors.Is(err, ErrGameMemberExists),
		errors.Is(err, ErrGameAlreadyStarted),
		errors.Is(err, ErrNoCurrentRound),
		errors.Is(err, ErrPhraseCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoundConflict):
		return http.StatusConflict
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler turns errors attached by handlers into JSON responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusCode(err)
		if status == http.StatusInternalServerError {
			log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.JSON(status, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
	}
}

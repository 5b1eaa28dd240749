package controllers

import (
	"Rememerme/gameerrors"
	"Rememerme/middleware"
	"Rememerme/services/rounds"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type startGameRequest struct {
	DeckID string `json:"deck_id" binding:"required"`
}

type submitNominationRequest struct {
	NominationCardID string `json:"nomination_card_id" binding:"required"`
}

type selectWinnerRequest struct {
	SelectionID string `json:"selection_id" binding:"required"`
}

// @Summary Starts a game
// @Description Creates the first round with a random selector and phrase card from the deck
// @Tags rounds
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Param body body controllers.startGameRequest true "Deck to draw phrase cards from"
// @Success 200 {object} postgres.Round
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/rounds [post]
// @Security ApiKeyAuth
func StartGame(svc *rounds.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		var req startGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(gameerrors.ErrBadRequest)
			return
		}

		round, err := svc.StartGame(c.Param("game_id"), req.DeckID, callerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, round)
	}
}

// @Summary Gives the current round
// @Description Returns the round of the game currently accepting nominations
// @Tags rounds
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Success 200 {object} postgres.Round
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/rounds/current [get]
// @Security ApiKeyAuth
func GetCurrentRound(svc *rounds.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		round, err := svc.GetCurrentRound(c.Param("game_id"), callerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, round)
	}
}

// @Summary Lists the current round's nominations
// @Description Returns every nomination submitted to the open round
// @Tags rounds
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Success 200 {array} postgres.Nomination
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/rounds/current/nominations [get]
// @Security ApiKeyAuth
func ListNominations(svc *rounds.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		nominations, err := svc.ListNominations(c.Param("game_id"), callerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, nominations)
	}
}

// @Summary Submits a nomination
// @Description Plays a nomination card into the current round, once per member
// @Tags rounds
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Param body body controllers.submitNominationRequest true "Nomination card to play"
// @Success 200 {object} postgres.Nomination
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/rounds/current/nominations [post]
// @Security ApiKeyAuth
func SubmitNomination(svc *rounds.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		var req submitNominationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(gameerrors.ErrBadRequest)
			return
		}

		nomination, err := svc.SubmitNomination(c.Param("game_id"), callerID, req.NominationCardID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, nomination)
	}
}

// @Summary Selects the round's winner
// @Description The selector picks the winning nomination; scores the winner and opens the next round
// @Tags rounds
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Param body body controllers.selectWinnerRequest true "Winning nomination id"
// @Success 200 {object} postgres.Round
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/rounds/current/selection [post]
// @Security ApiKeyAuth
func SelectWinner(svc *rounds.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		var req selectWinnerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(gameerrors.ErrBadRequest)
			return
		}

		round, err := svc.SelectWinner(c.Param("game_id"), callerID, req.SelectionID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, round)
	}
}

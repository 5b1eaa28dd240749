package controllers

import (
	"Rememerme/gameerrors"
	"Rememerme/middleware"
	"Rememerme/services/games"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	WinningScore *int     `json:"winning_score" binding:"required"`
	GameMembers  []string `json:"game_members"`
}

type inviteMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type respondToInviteRequest struct {
	Status *int `json:"status" binding:"required"`
}

// @Summary Creates a new game
// @Description Creates a game led by the caller and invites the listed users
// @Tags games
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body controllers.createGameRequest true "Winning score and invited user ids"
// @Success 200 {object} object{game=object,game_members=object}
// @Failure 400 {object} object{error=string}
// @Router /auth/games [post]
// @Security ApiKeyAuth
func CreateGame(svc *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		var req createGameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(gameerrors.ErrBadRequest)
			return
		}

		game, membersAdded, err := svc.CreateGame(callerID, *req.WinningScore, req.GameMembers)
		if err != nil {
			c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"game": game, "game_members": membersAdded})
	}
}

// @Summary Lists the caller's games
// @Description Returns every game the caller has a membership in
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} postgres.Game
// @Failure 404 {object} object{error=string}
// @Router /auth/games [get]
// @Security ApiKeyAuth
func ListGames(svc *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		list, err := svc.ListGamesForUser(callerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Lists the caller's game invitations
// @Description Returns the caller's membership rows still pending a response
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} postgres.GameMember
// @Router /auth/games/requests [get]
// @Security ApiKeyAuth
func ListPendingRequests(svc *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		pending, err := svc.ListPendingRequests(callerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

// @Summary Gives info of a game
// @Description Given a game id, returns the game if the caller is a member
// @Tags games
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Id of the game wanted"
// @Success 200 {object} postgres.Game
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id} [get]
// @Security ApiKeyAuth
func GetGame(svc *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		game, err := svc.GetGame(c.Param("game_id"), callerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, game)
	}
}

// @Summary Lists the members of a game
// @Description Returns every membership row of the game, the caller included
// @Tags members
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Success 200 {array} postgres.GameMember
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/members [get]
// @Security ApiKeyAuth
func ListMembers(svc *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		members, err := svc.ListMembers(c.Param("game_id"), callerID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, members)
	}
}

// @Summary Invites a user to a game
// @Description Creates a pending membership for the invited user
// @Tags members
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Param body body controllers.inviteMemberRequest true "Invited user id"
// @Success 200 {object} postgres.GameMember
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/members [post]
// @Security ApiKeyAuth
func InviteMember(svc *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		var req inviteMemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(gameerrors.ErrBadRequest)
			return
		}

		member, err := svc.InviteMember(c.Param("game_id"), callerID, req.UserID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, member)
	}
}

// @Summary Responds to a game invitation
// @Description Overwrites the status of the caller's membership in the game
// @Tags members
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "game_id"
// @Param body body controllers.respondToInviteRequest true "New status (0 declined, 1 pending, 2 accepted)"
// @Success 200 {object} postgres.GameMember
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/members [put]
// @Security ApiKeyAuth
func RespondToInvite(svc *games.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, err := middleware.JWTDecoder(c)
		if err != nil {
			log.Print("Error decoding caller token")
			return
		}

		var req respondToInviteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(gameerrors.ErrBadRequest)
			return
		}

		member, err := svc.RespondToInvite(c.Param("game_id"), callerID, *req.Status)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, member)
	}
}

package routes

import (
	"Rememerme/controllers"
	"Rememerme/gameerrors"
	"Rememerme/middleware"
	"Rememerme/repositories"
	"Rememerme/services/cards"
	"Rememerme/services/games"
	"Rememerme/services/permissions"
	"Rememerme/services/random"
	"Rememerme/services/redis"
	"Rememerme/services/rounds"
	"Rememerme/services/socket_io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient, sio *socket_io.SocketServer) {
	store := repositories.NewGormStore(db)
	gate := permissions.NewMemberGate(store)
	picker := random.NewPicker()
	catalog := cards.NewCatalog(store, picker)
	gamesService := games.NewService(store, gate)
	roundsService := rounds.NewService(store, gate, catalog, picker, redisClient, sio)

	router.Use(gameerrors.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api.POST("/signup", controllers.SignUp(db))
	api.POST("/login", controllers.Login(db))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/games", controllers.ListGames(gamesService))
		authentication.POST("/games", controllers.CreateGame(gamesService))
		authentication.GET("/games/requests", controllers.ListPendingRequests(gamesService))
		authentication.GET("/games/:game_id", controllers.GetGame(gamesService))

		authentication.GET("/games/:game_id/members", controllers.ListMembers(gamesService))
		authentication.POST("/games/:game_id/members", controllers.InviteMember(gamesService))
		authentication.PUT("/games/:game_id/members", controllers.RespondToInvite(gamesService))

		authentication.POST("/games/:game_id/rounds", controllers.StartGame(roundsService))
		authentication.GET("/games/:game_id/rounds/current", controllers.GetCurrentRound(roundsService))
		authentication.GET("/games/:game_id/rounds/current/nominations", controllers.ListNominations(roundsService))
		authentication.POST("/games/:game_id/rounds/current/nominations", controllers.SubmitNomination(roundsService))
		authentication.POST("/games/:game_id/rounds/current/selection", controllers.SelectWinner(roundsService))
	}
}

package socket_io

import (
	models "Rememerme/models/postgres"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

/*
 * SocketServer pushes game events (round_started, nomination_submitted,
 * winner_selected) to clients subscribed to a game room. The HTTP API is
 * the source of truth; this layer only mirrors what already happened.
 */
type SocketServer struct {
	Sio_server *socket.Server
}

func NewSocketServer() *SocketServer {
	return &SocketServer{}
}

func gameRoom(gameID string) socket.Room {
	return socket.Room(fmt.Sprintf("game:%s", gameID))
}

// Start mounts the socket.io endpoints on the gin router and registers the
// room subscription handlers.
func (sio *SocketServer) Start(router *gin.Engine, db *gorm.DB) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// Higher ping interval and timeout to reduce network load and support
	// slower networks.
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Join the room of a game to receive its round events
		client.On("join_game", func(args ...interface{}) {
			if len(args) == 0 {
				client.Emit("error", gin.H{"error": "Missing game id"})
				return
			}
			gameID, ok := args[0].(string)
			if !ok {
				client.Emit("error", gin.H{"error": "Invalid game id"})
				return
			}

			var game models.Game
			if err := db.Where("id = ?", gameID).First(&game).Error; err != nil {
				client.Emit("error", gin.H{"error": "Game does not exist"})
				return
			}

			client.Join(gameRoom(gameID))
			client.Emit("joined_game", gin.H{"game_id": gameID})
		})

		client.On("leave_game", func(args ...interface{}) {
			if len(args) == 0 {
				return
			}
			if gameID, ok := args[0].(string); ok {
				client.Leave(gameRoom(gameID))
			}
		})
	})

	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}

// GameEvent broadcasts an event to everyone subscribed to the game's room.
// Best effort only.
func (sio *SocketServer) GameEvent(gameID, event string, payload map[string]interface{}) {
	if sio.Sio_server == nil {
		return
	}
	sio.Sio_server.To(gameRoom(gameID)).Emit(event, payload)
}

package router

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/baigcoder/TrueVibe-sub000/internal/realtime/app"
	"github.com/baigcoder/TrueVibe-sub000/pkg/middlewares"
)

// RegisterRoutes attach the websocket boundary behind the JWT middleware
func RegisterRoutes(r *fiber.App, realtimeWebsocket *app.RealtimeWebsocketHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		realtimeWebsocket.HandleConnection(context.Background(), c)
	}))
}

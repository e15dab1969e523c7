package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AhsanHasan/Chatteree-BE/internal/auth"
	"github.com/AhsanHasan/Chatteree-BE/internal/middleware"
	"github.com/AhsanHasan/Chatteree-BE/internal/presence"
)

// Router holds all handlers and creates the chi router
type Router struct {
	authHandler     *AuthHandler
	userHandler     *UserHandler
	chatHandler     *ChatHandler
	messageHandler  *MessageHandler
	favoriteHandler *FavoriteHandler
	statusHandler   *StatusHandler
	uploadHandler   *UploadHandler
	healthHandler   *HealthHandler
	hub             *presence.Hub
	jwtManager      *auth.JWTManager
	logger          *zap.Logger
}

// NewRouter creates a new router
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	chatHandler *ChatHandler,
	messageHandler *MessageHandler,
	favoriteHandler *FavoriteHandler,
	statusHandler *StatusHandler,
	uploadHandler *UploadHandler,
	healthHandler *HealthHandler,
	hub *presence.Hub,
	jwtManager *auth.JWTManager,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:     authHandler,
		userHandler:     userHandler,
		chatHandler:     chatHandler,
		messageHandler:  messageHandler,
		favoriteHandler: favoriteHandler,
		statusHandler:   statusHandler,
		uploadHandler:   uploadHandler,
		healthHandler:   healthHandler,
		hub:             hub,
		jwtManager:      jwtManager,
		logger:          logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(chimiddleware.Compress(5))

	// Health endpoints (no auth required)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", rt.healthHandler.Health)
		r.Get("/ready", rt.healthHandler.Ready)
		r.Get("/live", rt.healthHandler.Live)
	})

	r.Route("/api", func(r chi.Router) {
		// Sign-in routes (no auth required)
		r.Post("/authenticate", rt.authHandler.Authenticate)
		r.Post("/authenticate/google", rt.authHandler.AuthenticateGoogle)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.jwtManager))

			// OTP verification runs against the bearer issued at sign-in
			r.Post("/authenticate/email/verify", rt.authHandler.VerifyEmail)
			r.Post("/authenticate/email/resend-otp", rt.authHandler.ResendOTP)

			r.Route("/user", func(r chi.Router) {
				r.Get("/", rt.userHandler.GetProfile)
				r.Get("/all", rt.userHandler.ListActiveUsers)
				r.Put("/name", rt.userHandler.UpdateName)
				r.Put("/profile-picture", rt.userHandler.UpdateProfilePicture)
				r.Post("/username", rt.userHandler.ClaimUsername)
			})

			r.Route("/chatroom", func(r chi.Router) {
				r.Get("/", rt.chatHandler.ResolveChatRoom)
				r.Get("/all", rt.chatHandler.ListChatRooms)
				r.Get("/id/{id}", rt.chatHandler.GetChatRoomByID)
				r.Get("/search", rt.chatHandler.Search)
			})

			r.Route("/message", func(r chi.Router) {
				r.Get("/all", rt.messageHandler.FetchMessages)
				r.Post("/", rt.messageHandler.SendMessage)
				r.Put("/read", rt.messageHandler.MarkRead)
			})

			r.Route("/favorite-chatroom", func(r chi.Router) {
				r.Get("/", rt.favoriteHandler.List)
				r.Post("/", rt.favoriteHandler.Toggle)
			})

			r.Route("/status", func(r chi.Router) {
				r.Get("/", rt.statusHandler.Feed)
				r.Post("/", rt.statusHandler.Create)
				r.Post("/view", rt.statusHandler.View)
			})

			r.Post("/upload", rt.uploadHandler.Upload)
		})
	})

	// Presence websocket
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(rt.jwtManager))
		r.Get("/ws", rt.hub.ServeWS)
	})

	return r
}

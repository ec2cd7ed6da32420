package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jellup/jellup-backend/internal/config"
	"github.com/jellup/jellup-backend/internal/handlers"
	"github.com/jellup/jellup-backend/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	friendHandler *handlers.FriendHandler,
	postHandler *handlers.PostHandler,
	feedHandler *handlers.FeedHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify-email", authHandler.VerifyEmail)
	auth.Post("/password-reset", authHandler.RequestPasswordReset)
	auth.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	auth.Get("/username/:username", userHandler.UsernameAvailable)

	jwt := middleware.JWTProtected(cfg)

	// Users
	api.Get("/users/me", jwt, userHandler.Me)
	api.Put("/users/me", jwt, userHandler.UpdateMe)
	api.Get("/users", jwt, userHandler.List)
	api.Get("/users/:id", jwt, userHandler.Get)
	api.Get("/users/:id/posts", jwt, feedHandler.UserPosts)

	// Friends
	api.Post("/friends/requests", jwt, friendHandler.SendRequest)
	api.Delete("/friends/requests/:id", jwt, friendHandler.WithdrawRequest)
	api.Post("/friends/requests/:id/accept", jwt, friendHandler.AcceptRequest)
	api.Post("/friends/requests/:id/decline", jwt, friendHandler.DeclineRequest)
	api.Get("/friends/requests/incoming", jwt, friendHandler.ListIncoming)
	api.Get("/friends/requests/sent", jwt, friendHandler.ListSent)
	api.Get("/friends", jwt, friendHandler.ListFriends)
	api.Delete("/friends/:id", jwt, friendHandler.RemoveFriend)

	// Posts
	api.Post("/posts", jwt, postHandler.Create)
	api.Get("/posts/:id", jwt, postHandler.Get)
	api.Put("/posts/:id", jwt, postHandler.Update)
	api.Delete("/posts/:id", jwt, postHandler.Delete)
	api.Post("/posts/:id/like", jwt, postHandler.ToggleLike)
	api.Post("/posts/:id/comments", jwt, postHandler.AddComment)
	api.Put("/posts/:id/comments/:commentId", jwt, postHandler.UpdateComment)
	api.Delete("/posts/:id/comments/:commentId", jwt, postHandler.RemoveComment)

	// Feed
	api.Get("/feed", jwt, feedHandler.Feed)
	api.Get("/feed/trending", jwt, feedHandler.Trending)

	// Admin moderation
	admin := api.Group("/admin", jwt, middleware.AdminRequired(db, cfg))
	admin.Post("/posts/:id/disable", postHandler.Disable)
	admin.Post("/posts/:id/enable", postHandler.Enable)
	admin.Delete("/users/:id", userHandler.Delete)
	admin.Post("/users/:id/disable", userHandler.Disable)
	admin.Post("/users/:id/enable", userHandler.Enable)
	admin.Post("/relationships/:id/repair", friendHandler.Repair)
}

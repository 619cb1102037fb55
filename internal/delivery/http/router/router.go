// Package router contains routing setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"rolodex/internal/delivery/http/middleware"
	"rolodex/internal/delivery/http/router/handler"
	"rolodex/internal/domain/entity"
)

// RouterParams holds everything the route table needs, injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	ContactHandler *handler.ContactHandler
	HealthHandler  *handler.HealthHandler

	RequestIDMiddleware *middleware.RequestIDMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
// The rate-limit gate covers every route, the unauthenticated ones included;
// login and signup are exactly the endpoints worth brute-forcing.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.params.RequestIDMiddleware.Process)
	e.Use(r.params.RateLimitMiddleware.Handle)

	e.GET("/health", r.params.HealthHandler.Check)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.params.AuthHandler.Signup)
		authGroup.GET("/confirm/:token", r.params.AuthHandler.ConfirmEmail)
		authGroup.POST("/request-confirmation", r.params.AuthHandler.RequestConfirmation)
		authGroup.POST("/login", r.params.AuthHandler.Login)
		authGroup.POST("/refresh", r.params.AuthHandler.Refresh)
		authGroup.POST("/logout", r.params.AuthHandler.Logout, r.params.AuthMiddleware.Authenticate)
	}

	accountGroup := e.Group("/accounts", r.params.AuthMiddleware.Authenticate)
	{
		accountGroup.GET("/me", r.params.AccountHandler.Me)
		accountGroup.PATCH("/me/avatar", r.params.AccountHandler.UpdateAvatar)
	}

	// The role ladder: everyone reads and creates, moderators update,
	// admins delete.
	contactGroup := e.Group("/contacts", r.params.AuthMiddleware.Authenticate)
	{
		read := r.params.AuthMiddleware.RequireRoles(entity.RequireAnyRole)
		moderate := r.params.AuthMiddleware.RequireRoles(entity.RequireModerator)
		admin := r.params.AuthMiddleware.RequireRoles(entity.RequireAdmin)

		contactGroup.GET("", r.params.ContactHandler.List, read)
		contactGroup.GET("/search", r.params.ContactHandler.Search, read)
		contactGroup.GET("/birthdays", r.params.ContactHandler.UpcomingBirthdays, read)
		contactGroup.GET("/:id", r.params.ContactHandler.Get, read)
		contactGroup.POST("", r.params.ContactHandler.Create, read)
		contactGroup.PUT("/:id", r.params.ContactHandler.Update, moderate)
		contactGroup.DELETE("/:id", r.params.ContactHandler.Delete, admin)
	}
}

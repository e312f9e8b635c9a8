package api

import (
	"snapfeed/internal/auth"
	"snapfeed/internal/posts"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the full HTTP surface: the post routes behind bearer
// auth and the identity routes under /auth/jwt.
func RegisterRoutes(r *gin.Engine, users *auth.UserManager, service *posts.Service) {
	postHandler := NewPostHandler(service)
	authHandler := NewAuthHandler(users)
	userHandler := NewUserHandler(users)

	requireAuth := users.RequireAuth()

	r.POST("/upload", requireAuth, postHandler.Upload)
	r.GET("/feed", requireAuth, postHandler.Feed)
	r.DELETE("/posts/:post_id", requireAuth, postHandler.Delete)

	authGroup := r.Group("/auth/jwt")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", requireAuth, authHandler.Logout)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.POST("/request-verify-token", authHandler.RequestVerifyToken)
		authGroup.POST("/verify", authHandler.Verify)

		usersGroup := authGroup.Group("/users", requireAuth)
		{
			usersGroup.GET("/me", userHandler.Me)
			usersGroup.PATCH("/me", userHandler.UpdateMe)
			usersGroup.GET("/:id", userHandler.GetUser)
			usersGroup.PATCH("/:id", userHandler.UpdateUser)
			usersGroup.DELETE("/:id", userHandler.DeleteUser)
		}
	}
}

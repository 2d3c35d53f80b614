package routes

import (
	"github.com/gin-gonic/gin"

	"pastelrecipes/internal/handlers"
	"pastelrecipes/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	recipeHandler *handlers.RecipeHandler,
	commentHandler *handlers.CommentHandler,
	recoveryHandler *handlers.RecoveryHandler,
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.POST("/register", userHandler.Register)

	// password recovery (both flows are pre-auth by nature)
	recovery := r.Group("/recovery")
	{
		recovery.POST("/phone", recoveryHandler.CheckPhone)
		recovery.POST("/sms", recoveryHandler.SendSMSCode)
		recovery.POST("/voice", recoveryHandler.SendVoiceCode)
		recovery.POST("/verify", recoveryHandler.VerifyCode)
		recovery.POST("/clean-expired", recoveryHandler.CleanExpired)
	}
	r.POST("/password-reset/request", authHandler.RequestPasswordReset)
	r.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// browsing needs no account
	r.GET("/recipes", recipeHandler.List)
	r.GET("/recipes/search", recipeHandler.Search)
	r.GET("/recipes/featured", recipeHandler.Featured)
	r.GET("/recipes/:id", recipeHandler.GetByID)
	r.GET("/recipes/:id/card", recipeHandler.Card)
	r.GET("/recipes/:id/comments", commentHandler.ListByRecipe)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	r.GET("/me", userHandler.GetMe)
	r.PUT("/me", userHandler.UpdateMe)
	r.GET("/users/:id", userHandler.GetUserByID)

	r.POST("/recipes", recipeHandler.Create)
	r.GET("/recipes/mine", recipeHandler.Mine)
	r.PUT("/recipes/:id", recipeHandler.Update)
	r.DELETE("/recipes/:id", recipeHandler.Delete)

	r.POST("/recipes/:id/comments", commentHandler.Create)
	r.DELETE("/comments/:id", commentHandler.Delete)

	return r
}

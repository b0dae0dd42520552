package server

import (
	"net/http"
	"time"

	httpHandler "karaoke-browser/interfaces/http"
	"karaoke-browser/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Karaoke httpHandler.IKaraokeHandler
	Library httpHandler.ILibraryHandler
	Auth    httpHandler.IAuthHandler
	Health  httpHandler.IHealthHandler
}

func InitiateRouter(handlers Handlers, allowedOrigins []string, secretKey string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", handlers.Health.Healthz)
	router.POST("/auth/anonymous", handlers.Auth.AnonymousSignIn)

	api := router.Group("api")
	api.Use(middleware.Identity(secretKey))

	api.GET("/categories", handlers.Karaoke.Categories)
	api.GET("/quota", handlers.Karaoke.Quota)

	sessions := api.Group("/sessions")
	{
		sessions.POST("", handlers.Karaoke.CreateSession)
		sessions.GET("/:id", handlers.Karaoke.GetSession)
		sessions.POST("/:id/category/:categoryId", handlers.Karaoke.BrowseCategory)
		sessions.POST("/:id/search", handlers.Karaoke.Search)
		sessions.POST("/:id/more", handlers.Karaoke.LoadMore)
		sessions.GET("/:id/events", handlers.Karaoke.Events)
	}

	library := api.Group("/library")
	{
		library.GET("/favorites", handlers.Library.ListFavorites)
		library.POST("/favorites", handlers.Library.ToggleFavorite)
		library.GET("/history", handlers.Library.ListHistory)
		library.POST("/history", handlers.Library.RecordPlay)
		library.DELETE("/history", handlers.Library.ClearHistory)
	}

	return router
}

// Instrument wraps the router with OpenTelemetry server spans.
func Instrument(router http.Handler) http.Handler {
	return otelhttp.NewHandler(router, "karaoke-browser")
}

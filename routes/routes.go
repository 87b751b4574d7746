package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"blogcms/handlers"
	"blogcms/middleware"
)

// Deps are the wired handlers and middleware the router mounts. Everything
// is constructed in main and passed in.
type Deps struct {
	Posts       *handlers.Handler
	Upload      *handlers.UploadHandler
	UploadLimit *middleware.IPRateLimiter
	Origins     []string
}

func SetupRouter(d Deps) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     d.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	api := router.Group("/api")

	api.POST("/upload-image", middleware.RateLimit(d.UploadLimit), d.Upload.UploadImage)

	api.POST("/posts", d.Posts.CreatePost)
	api.GET("/posts", d.Posts.ListPosts)
	api.GET("/posts/:id", d.Posts.GetPost)
	api.PUT("/posts/:id", d.Posts.UpdatePost)
	api.DELETE("/posts/:id", d.Posts.DeletePost)

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}

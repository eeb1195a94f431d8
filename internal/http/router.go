package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	corsOrigin string,
	userH *UserHandler,
	feedbackH *FeedbackHandler,
	vcH *VCHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y CORS para el frontend.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(corsOrigin))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/verify_token", userH.VerifyToken)
	r.POST("/onboarding", userH.Onboard)
	r.GET("/get_sentiments/:uid", userH.GetSentiments)

	api := r.Group("/api")
	api.GET("/:attribute/:uid", userH.GetAttribute)
	api.POST("/:attribute/:uid", userH.UpdateAttribute)

	feedback := r.Group("/feedback")
	feedback.POST("/start", feedbackH.Start)
	feedback.POST("/respond", feedbackH.Respond)
	feedback.GET("/history", feedbackH.History)
	feedback.GET("/latest", feedbackH.Latest)

	r.GET("/vcs", vcH.List)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware habilita CORS con credenciales para el origen configurado.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

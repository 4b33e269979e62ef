// Package httpapi exposes the services over a JSON HTTP API built on gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/foodgram/internal/logging"
	"github.com/dmitrijs2005/foodgram/internal/server/config"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address      string
	logger       logging.Logger
	svc          Services
	mediaBaseURL string
	corsOrigins  []string
	metrics      *metrics
	registry     *prometheus.Registry
	engine       *gin.Engine
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, svc Services) *HTTPServer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &HTTPServer{
		address:      cfg.EndpointAddrHTTP,
		logger:       l.With("module", "http_server"),
		svc:          svc,
		mediaBaseURL: cfg.MediaBaseURL,
		corsOrigins:  cfg.CORSOrigins,
		metrics:      newMetrics(reg),
		registry:     reg,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the configured gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog(), s.metrics.middleware())

	if len(s.corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  s.corsOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	r.GET("/s/:id/", s.redirectShortLink)

	api := r.Group("/api", s.authenticate())

	auth := api.Group("/auth/token")
	auth.POST("/login/", s.login)
	auth.POST("/logout/", requireUser, s.logout)

	users := api.Group("/users")
	users.POST("/", s.register)
	users.GET("/", s.listUsers)
	users.GET("/me/", requireUser, s.me)
	users.PUT("/me/avatar/", requireUser, s.setAvatar)
	users.DELETE("/me/avatar/", requireUser, s.deleteAvatar)
	users.POST("/set_password/", requireUser, s.setPassword)
	users.GET("/subscriptions/", requireUser, s.listSubscriptions)
	users.GET("/:id/", s.getUser)
	users.POST("/:id/subscribe/", requireUser, s.subscribe)
	users.DELETE("/:id/subscribe/", requireUser, s.unsubscribe)

	ingredients := api.Group("/ingredients")
	ingredients.GET("/", s.listIngredients)
	ingredients.GET("/:id/", s.getIngredient)

	recipes := api.Group("/recipes")
	recipes.GET("/", s.listRecipes)
	recipes.POST("/", requireUser, s.createRecipe)
	recipes.GET("/download_shopping_cart/", requireUser, s.downloadShoppingCart)
	recipes.GET("/:id/", s.getRecipe)
	recipes.PATCH("/:id/", requireUser, s.updateRecipe)
	recipes.DELETE("/:id/", requireUser, s.deleteRecipe)
	recipes.GET("/:id/get-link/", s.getLink)
	recipes.POST("/:id/favorite/", requireUser, s.addMark(favorite))
	recipes.DELETE("/:id/favorite/", requireUser, s.removeMark(favorite))
	recipes.POST("/:id/shopping_cart/", requireUser, s.addMark(cart))
	recipes.DELETE("/:id/shopping_cart/", requireUser, s.removeMark(cart))

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pbaille/kalorien/internal/entries"
	"github.com/pbaille/kalorien/internal/logging"
	"github.com/pbaille/kalorien/internal/nutrition"
	"github.com/pbaille/kalorien/internal/photo"
	"github.com/sirupsen/logrus"
)

// Options configures a Server.
type Options struct {
	Addr        string
	Mode        string
	CORSOrigins []string
	Now         func() time.Time
	Log         logrus.FieldLogger
}

// Server handles HTTP requests for the tracker API
type Server struct {
	store  *entries.Store
	dash   *nutrition.Dashboard
	photo  *photo.Session
	log    logrus.FieldLogger
	now    func() time.Time
	addr   string
	engine *gin.Engine
}

// New creates a new API server
func New(st *entries.Store, session *photo.Session, opts Options) (*Server, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{
		store: st,
		dash:  nutrition.NewDashboard(st, opts.Now),
		photo: session,
		log:   opts.Log,
		now:   opts.Now,
		addr:  opts.Addr,
	}

	r := gin.New()
	r.Use(requestLogger(s.log), gin.Recovery())
	if len(opts.CORSOrigins) > 0 {
		cfg := corsConfig(opts.CORSOrigins)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("cors: %w", err)
		}
		r.Use(cors.New(cfg))
	}
	s.routes(r)
	s.engine = r
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("/dashboard", s.dashboard)
	api.GET("/health-score", s.healthScore)

	api.GET("/food", s.listFood)
	api.POST("/food", s.addFood)
	api.DELETE("/food/:id", s.deleteFood)

	api.GET("/weight", s.listWeight)
	api.POST("/weight", s.addWeight)
	api.DELETE("/weight/:id", s.deleteWeight)

	api.GET("/photo", s.photoState)
	api.POST("/photo", s.capturePhoto)
	api.POST("/photo/analyze", s.analyzePhoto)
	api.POST("/photo/save", s.savePhoto)
	api.DELETE("/photo", s.resetPhoto)

	api.GET("/export/:kind", s.export)
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

func writeJSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

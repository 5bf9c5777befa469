// Package stub is a stand-in for the remote processing backend. It serves the
// same HTTP API with deterministic, simulated progress so the client can be
// run and tested without the AI service.
package stub

import (
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
)

// Composition progress messages, in the order the stub reports them.
var compositionSteps = []string{
	"正在生成主体内容...",
	"正在生成引言和结论...",
	"正在整理文章格式...",
	backend.CompositionCompleted,
}

type Options struct {
	// Expiration is how long an untouched process is kept. Default 24h.
	Expiration time.Duration
	// FailComposition makes every composition end in "Error".
	FailComposition bool
	Logger          *zap.Logger
}

type process struct {
	mu sync.Mutex

	id          string
	topic       string
	description string
	problem     string
	tree        *outline.Node

	retrievalStarted bool
	retrievalOrder   []*outline.Node
	retrieval        backend.RetrievalOverallStatus

	compositionStatus string
	compositionStep   int
	article           string
}

// Server serves the backend API from memory.
type Server struct {
	app       *fiber.App
	processes *cache.Cache
	validate  *validator.Validate
	opts      Options
	log       *zap.Logger
}

// New builds a stub server with its routes registered.
func New(opts Options) *Server {
	if opts.Expiration <= 0 {
		opts.Expiration = 24 * time.Hour
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		processes: cache.New(opts.Expiration, 10*time.Minute),
		validate:  validator.New(),
		opts:      opts,
		log:       log,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "quill-stub",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(s.logRequests)
	s.RegisterRoutes(s.app)
	return s
}

// App exposes the fiber app, for app.Test and adaptor.FiberApp.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("stub backend listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) RegisterRoutes(r fiber.Router) {
	r.Get("/health", s.health)

	api := r.Group("/api/process")
	api.Post("/start", s.startProcess)
	api.Post("/:id/outline", s.updateOutline)
	api.Post("/:id/retrieval/start", s.startRetrieval)
	api.Get("/:id/retrieval/status", s.retrievalStatus)
	api.Post("/:id/compose/start", s.startComposition)
	api.Get("/:id/article", s.article)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)))
	return err
}

// handleError renders errors in the {"detail": ...} shape the client parses.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= 500 {
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
}

func (s *Server) lookup(c *fiber.Ctx) (*process, error) {
	id := c.Params("id")
	v, ok := s.processes.Get(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "Process not found")
	}
	// Touch to extend expiry while a client is active.
	s.processes.Set(id, v, cache.DefaultExpiration)
	return v.(*process), nil
}

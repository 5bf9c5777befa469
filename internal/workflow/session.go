package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/config"
	"github.com/jorge-barreto/quill/internal/state"
)

// Timing stage names.
const (
	timingOutline     = "outline"
	timingRetrieval   = "retrieval"
	timingComposition = "composition"
)

var validate = validator.New()

// Session applies user actions to the active process. Every successful
// change is written to Store and, when Dir is set, saved to disk.
type Session struct {
	Backend backend.Backend
	Store   *state.Store
	Config  *config.Config
	Logger  *zap.Logger
	Timing  *state.Timing
	// Dir is the session directory. Empty disables persistence.
	Dir string

	// OnStage is called when Resume enters a stage.
	OnStage func(Stage)
	// OnRetrieval and OnComposition receive each status Resume observes.
	OnRetrieval   func(*backend.RetrievalOverallStatus)
	OnComposition func(*backend.ArticleResponse)
	// OnFetchError receives status fetch failures. Polling continues.
	OnFetchError func(error)
}

// New returns a session persisting under cfg.StateDir(). A nil cfg gives an
// in-memory session with default polling.
func New(b backend.Backend, store *state.Store, cfg *config.Config, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		Backend: b,
		Store:   store,
		Config:  cfg,
		Logger:  log,
		Timing:  &state.Timing{},
	}
	if cfg != nil {
		s.Dir = cfg.StateDir()
	}
	return s
}

// Open restores the saved process and timing from dir into a new session.
func Open(b backend.Backend, cfg *config.Config, log *zap.Logger) (*Session, error) {
	dir := cfg.StateDir()
	if err := state.EnsureDir(dir); err != nil {
		return nil, err
	}
	ps, err := state.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	timing, err := state.LoadTiming(dir)
	if err != nil {
		return nil, fmt.Errorf("loading timing: %w", err)
	}
	store := state.NewStore()
	store.Restore(ps)

	s := New(b, store, cfg, log)
	s.Timing = timing
	return s, nil
}

// Close stops further state changes. Pollers still running after Close can
// no longer write to the store.
func (s *Session) Close() {
	s.Store.Close()
}

func (s *Session) persist() {
	if s.Dir == "" {
		return
	}
	if err := state.Save(s.Dir, s.Store.Snapshot()); err != nil {
		s.Logger.Warn("failed to save session", zap.Error(err))
	}
	if s.Timing != nil {
		if err := s.Timing.Flush(s.Dir); err != nil {
			s.Logger.Warn("failed to flush timing", zap.Error(err))
		}
	}
}

func (s *Session) processID() (string, error) {
	id := s.Store.Snapshot().ProcessID
	if id == "" {
		return "", needProcess()
	}
	return id, nil
}

// Create starts a new process on the backend and makes it the active one.
// Any previous process is forgotten.
func (s *Session) Create(ctx context.Context, in backend.CreateProcessInput) (*backend.ProcessCreationResponse, error) {
	in.Topic = strings.TrimSpace(in.Topic)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("create process: %s is required", strings.ToLower(verrs[0].Field()))
		}
		return nil, fmt.Errorf("create process: %w", err)
	}

	resp, err := s.Backend.CreateProcess(ctx, in)
	if err != nil {
		return nil, err
	}

	s.Store.Reset()
	s.Store.SetProcessID(resp.ProcessID)
	s.Store.SetTopic(resp.Topic)
	s.Store.SetOutline(resp.InitialOutline)
	if s.Timing != nil {
		s.Timing.Reset()
		s.Timing.AddStart(timingOutline)
	}
	s.persist()

	s.Logger.Info("process created", zap.String("process_id", resp.ProcessID), zap.String("topic", resp.Topic))
	return resp, nil
}

// Adopt makes an existing backend process the active one. Its retrieval and
// composition status are read from the backend so the process can be watched
// or continued from where it stands. The outline is not served by the
// backend and stays unknown. Local state from any other process is cleared,
// but only once the backend has answered for processID.
func (s *Session) Adopt(ctx context.Context, processID string) error {
	processID = strings.TrimSpace(processID)
	if processID == "" {
		return fmt.Errorf("adopt: process id is required")
	}
	if s.Store.Snapshot().ProcessID == processID {
		return nil
	}

	rs, err := s.Backend.GetRetrievalStatus(ctx, processID)
	if err != nil {
		return fmt.Errorf("adopt %s: %w", processID, err)
	}
	art, err := s.Backend.GetArticle(ctx, processID)
	if err != nil {
		return fmt.Errorf("adopt %s: %w", processID, err)
	}

	s.Store.Reset()
	s.Store.SetProcessID(processID)
	if rs.RetrievalStatus.TotalLeafNodes > 0 {
		s.Store.SetRetrievalStatus(&rs.RetrievalStatus)
	}
	if art.CompositionStatus != "" && art.CompositionStatus != backend.CompositionNotStarted {
		s.Store.SetCompositionStatus(art.CompositionStatus)
		s.Store.SetArticleContent(art.ArticleContent)
	}
	if s.Timing != nil {
		s.Timing.Reset()
	}
	s.persist()

	s.Logger.Info("process adopted",
		zap.String("process_id", processID),
		zap.Stringer("stage", CurrentStage(s.Store.Snapshot())))
	return nil
}

// Reset forgets the active process locally. The backend is not told.
func (s *Session) Reset() error {
	s.Store.Reset()
	if s.Timing != nil {
		s.Timing.Reset()
	}
	if s.Dir == "" {
		return nil
	}
	return state.Clear(s.Dir)
}

// Preflight checks that the backend is reachable and healthy.
func (s *Session) Preflight(ctx context.Context) error {
	return CheckHealth(ctx, s.Backend)
}

// CheckHealth asks b for its health and accepts status "ok" or "healthy".
func CheckHealth(ctx context.Context, b backend.Backend) error {
	h, err := b.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	switch strings.ToLower(h.Status) {
	case "ok", "healthy":
		return nil
	}
	return fmt.Errorf("backend unhealthy: status %q", h.Status)
}

// pollTiming returns the configured interval and fetch timeout. Zero values
// fall back to the poller defaults.
func (s *Session) pollTiming() (interval, fetchTimeout time.Duration) {
	if s.Config == nil {
		return 0, 0
	}
	return s.Config.Polling.Interval, s.Config.Polling.FetchTimeout
}

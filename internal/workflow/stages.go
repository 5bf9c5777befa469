package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/poller"
	"github.com/jorge-barreto/quill/internal/progress"
)

// RetrievalOptions returns the configured retrieval sources.
func (s *Session) RetrievalOptions() backend.RetrievalOptions {
	if s.Config == nil {
		return backend.RetrievalOptions{UseWeb: true, UseKB: true}
	}
	return backend.RetrievalOptions{UseWeb: s.Config.Retrieval.UseWeb, UseKB: s.Config.Retrieval.UseKB}
}

// StartRetrieval saves the outline to the backend and starts document
// retrieval for its leaf sections. Composition state from an earlier run is
// cleared.
func (s *Session) StartRetrieval(ctx context.Context, opts backend.RetrievalOptions) (*backend.RetrievalOverallStatus, error) {
	tree, _, err := s.currentOutline()
	if err != nil {
		return nil, err
	}
	if len(outline.Leaves(tree)) == 0 {
		return nil, ErrNoSections
	}
	if !opts.UseWeb && !opts.UseKB {
		return nil, fmt.Errorf("start retrieval: at least one source must be enabled")
	}
	if err := s.SaveOutline(ctx); err != nil {
		return nil, err
	}

	id := s.Store.Snapshot().ProcessID
	resp, err := s.Backend.StartRetrieval(ctx, id, opts)
	if err != nil {
		return nil, err
	}
	s.Store.SetRetrievalStatus(&resp.InitialStatus)
	s.Store.SetCompositionStatus("")
	s.Store.SetArticleContent("")
	if s.Timing != nil {
		s.Timing.AddEnd(timingOutline)
		s.Timing.AddStart(timingRetrieval)
	}
	s.persist()

	s.Logger.Info("retrieval started",
		zap.String("process_id", id),
		zap.Int("leaves", resp.InitialStatus.TotalLeafNodes),
		zap.Bool("use_web", opts.UseWeb),
		zap.Bool("use_kb", opts.UseKB))
	return &resp.InitialStatus, nil
}

// WatchRetrieval polls retrieval status until every leaf has completed or ctx
// is done. Each status is stored and passed to onUpdate.
func (s *Session) WatchRetrieval(ctx context.Context, onUpdate func(*backend.RetrievalOverallStatus)) (*backend.RetrievalOverallStatus, error) {
	ps := s.Store.Snapshot()
	if ps.ProcessID == "" {
		return nil, needProcess()
	}
	if ps.RetrievalStatus == nil {
		return nil, &PrerequisiteError{Need: "a started retrieval", Fallback: StageOutline}
	}
	id := ps.ProcessID

	final, err := watch(ctx, s, timingRetrieval, poller.Config[*backend.RetrievalOverallStatus]{
		Fetch: func(ctx context.Context) (*backend.RetrievalOverallStatus, error) {
			resp, err := s.Backend.GetRetrievalStatus(ctx, id)
			if err != nil {
				return nil, err
			}
			return &resp.RetrievalStatus, nil
		},
		IsTerminal: progress.IsComplete,
		OnResult: func(st *backend.RetrievalOverallStatus) {
			if !s.isActive(id) {
				return
			}
			s.Store.SetRetrievalStatus(st)
			s.persist()
			if onUpdate != nil {
				onUpdate(st)
			}
		},
	})
	if err != nil {
		return final, err
	}
	if failed := progress.FailedLeaves(final); len(failed) > 0 {
		s.Logger.Warn("retrieval finished with failed sections", zap.Int("failed", len(failed)))
	}
	return final, nil
}

// StartComposition asks the backend to write the article. Retrieval must have
// completed. Calling it after a failed composition retries.
func (s *Session) StartComposition(ctx context.Context) error {
	ps := s.Store.Snapshot()
	if ps.ProcessID == "" {
		return needProcess()
	}
	if !progress.IsComplete(ps.RetrievalStatus) {
		return &PrerequisiteError{Need: "completed retrieval", Fallback: StageRetrieval}
	}
	if _, err := s.Backend.StartComposition(ctx, ps.ProcessID); err != nil {
		return err
	}
	s.Store.SetCompositionStatus(backend.CompositionInProgress)
	s.Store.SetArticleContent("")
	if s.Timing != nil {
		s.Timing.AddStart(timingComposition)
	}
	s.persist()
	s.Logger.Info("composition started", zap.String("process_id", ps.ProcessID))
	return nil
}

// WatchComposition polls the article until its status is "Completed" or
// "Error". Status and any non-empty content are stored as they arrive. A
// final "Error" is returned as ErrCompositionFailed.
func (s *Session) WatchComposition(ctx context.Context, onUpdate func(*backend.ArticleResponse)) (*backend.ArticleResponse, error) {
	ps := s.Store.Snapshot()
	if ps.ProcessID == "" {
		return nil, needProcess()
	}
	if ps.CompositionStatus == "" || ps.CompositionStatus == backend.CompositionNotStarted {
		return nil, &PrerequisiteError{Need: "a started composition", Fallback: StageComposition}
	}
	id := ps.ProcessID

	final, err := watch(ctx, s, timingComposition, poller.Config[*backend.ArticleResponse]{
		Fetch: func(ctx context.Context) (*backend.ArticleResponse, error) {
			return s.Backend.GetArticle(ctx, id)
		},
		IsTerminal: func(a *backend.ArticleResponse) bool {
			return progress.IsCompositionTerminal(a.CompositionStatus)
		},
		OnResult: func(a *backend.ArticleResponse) {
			if !s.isActive(id) {
				return
			}
			s.Store.SetCompositionStatus(a.CompositionStatus)
			if a.ArticleContent != "" {
				s.Store.SetArticleContent(a.ArticleContent)
			}
			s.persist()
			if onUpdate != nil {
				onUpdate(a)
			}
		},
	})
	if err != nil {
		return final, err
	}
	if final.CompositionStatus == backend.CompositionError {
		detail := final.ArticleContent
		if detail == "" {
			detail = "backend reported an error"
		}
		return final, fmt.Errorf("%w: %s", ErrCompositionFailed, detail)
	}
	return final, nil
}

// isActive reports whether id is still the active process. Results for a
// process the user has moved away from are dropped.
func (s *Session) isActive(id string) bool {
	return s.Store.Snapshot().ProcessID == id
}

func (s *Session) fetchError(err error) {
	if s.OnFetchError != nil {
		s.OnFetchError(err)
	}
}

// watch runs a poller for stage and closes the stage's timing entry when it
// reaches a terminal result. A 404 ends the watch: the backend no longer
// knows the process, so further polling cannot succeed.
func watch[T any](ctx context.Context, s *Session, stage string, cfg poller.Config[T]) (T, error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	cfg.Interval, cfg.FetchTimeout = s.pollTiming()
	cfg.Logger = s.Logger.Named("poller").With(zap.String("stage", stage))
	cfg.OnError = func(err error) {
		s.fetchError(err)
		if backend.IsNotFound(err) {
			cancel(err)
		}
	}

	final, err := poller.New(cfg).Run(ctx)
	if err != nil {
		if cause := context.Cause(ctx); backend.IsNotFound(cause) {
			return final, cause
		}
		if errors.Is(err, context.Canceled) {
			s.Logger.Info("watch cancelled", zap.String("stage", stage))
		}
		return final, err
	}
	if s.Timing != nil {
		s.Timing.AddEnd(stage)
	}
	s.persist()
	return final, nil
}

package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/outline"
	"github.com/jorge-barreto/quill/internal/progress"
)

// ApproveFunc is asked to accept the outline before retrieval starts.
type ApproveFunc func(ctx context.Context, tree *outline.Node) (bool, error)

// Run creates a process for in and drives it to a finished article.
func (s *Session) Run(ctx context.Context, in backend.CreateProcessInput, approve ApproveFunc) (*backend.ArticleResponse, error) {
	if err := s.Preflight(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Create(ctx, in); err != nil {
		return nil, err
	}
	return s.Resume(ctx, approve)
}

// Resume continues the active process from its current stage until the
// article is done, a stage fails, or ctx is done. A failed composition is
// started again.
func (s *Session) Resume(ctx context.Context, approve ApproveFunc) (*backend.ArticleResponse, error) {
	last := Stage(-1)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ps := s.Store.Snapshot()
		stage := CurrentStage(ps)
		if stage != last {
			s.Logger.Info("stage", zap.Stringer("stage", stage), zap.String("process_id", ps.ProcessID))
			if s.OnStage != nil {
				s.OnStage(stage)
			}
			last = stage
		}

		switch stage {
		case StageNone:
			return nil, needProcess()

		case StageOutline:
			if ps.Outline == nil {
				return nil, needOutline()
			}
			if approve != nil {
				ok, err := approve(ctx, ps.Outline)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, ErrNotApproved
				}
			}
			if _, err := s.StartRetrieval(ctx, s.RetrievalOptions()); err != nil {
				return nil, err
			}

		case StageRetrieval:
			if _, err := s.WatchRetrieval(ctx, s.OnRetrieval); err != nil {
				return nil, err
			}

		case StageComposition:
			if !progress.IsCompositionRunning(ps.CompositionStatus) {
				if err := s.StartComposition(ctx); err != nil {
					return nil, err
				}
			}
			if _, err := s.WatchComposition(ctx, s.OnComposition); err != nil {
				return nil, err
			}

		case StageDone:
			return &backend.ArticleResponse{
				ProcessID:         ps.ProcessID,
				CompositionStatus: ps.CompositionStatus,
				ArticleContent:    ps.ArticleContent,
			}, nil
		}
	}
}

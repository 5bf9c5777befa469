// Package workflow drives one authoring process through its stages:
// outline, retrieval and composition.
package workflow

import (
	"github.com/jorge-barreto/quill/internal/backend"
	"github.com/jorge-barreto/quill/internal/progress"
	"github.com/jorge-barreto/quill/internal/state"
)

type Stage int

const (
	StageNone Stage = iota
	StageOutline
	StageRetrieval
	StageComposition
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageOutline:
		return "outline"
	case StageRetrieval:
		return "retrieval"
	case StageComposition:
		return "composition"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// CurrentStage derives where ps stands. Retrieval that has finished puts the
// process in composition, ready to start; a failed composition stays there so
// it can be retried.
func CurrentStage(ps state.ProcessState) Stage {
	switch {
	case ps.ProcessID == "":
		return StageNone
	case ps.CompositionStatus == backend.CompositionCompleted:
		return StageDone
	case ps.CompositionStatus == backend.CompositionError,
		progress.IsCompositionRunning(ps.CompositionStatus),
		progress.IsComplete(ps.RetrievalStatus):
		return StageComposition
	case ps.RetrievalStatus != nil:
		return StageRetrieval
	}
	return StageOutline
}

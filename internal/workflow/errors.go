package workflow

import (
	"errors"
	"fmt"

	"github.com/jorge-barreto/quill/internal/outline"
)

var (
	ErrParentNotFound    = errors.New("parent section not found")
	ErrNodeNotFound      = errors.New("section not found")
	ErrStalePath         = errors.New("outline changed since the section was located")
	ErrDeleteRoot        = outline.ErrDeleteRoot
	ErrNoSections        = errors.New("outline has no sections to research")
	ErrCompositionFailed = errors.New("composition failed")
	ErrNotApproved       = errors.New("outline not approved")
)

// PrerequisiteError reports that an operation needs state an earlier stage
// produces. Fallback is the stage to return to.
type PrerequisiteError struct {
	Need     string
	Fallback Stage
}

func (e *PrerequisiteError) Error() string {
	if e.Fallback == StageNone {
		return fmt.Sprintf("%s is required (start a new process)", e.Need)
	}
	return fmt.Sprintf("%s is required (go back to the %s stage)", e.Need, e.Fallback)
}

func needProcess() error {
	return &PrerequisiteError{Need: "an active process", Fallback: StageNone}
}

func needOutline() error {
	return &PrerequisiteError{Need: "an outline", Fallback: StageNone}
}

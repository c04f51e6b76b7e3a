package studentassignment

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core"
)

// Status is the progress of a Link through the assignment workflow.
type Status string

// Statuses
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusSubmitted  Status = "submitted"
	StatusCompleted  Status = "completed"
)

var (
	AllStatuses = []Status{StatusPending, StatusInProgress, StatusSubmitted, StatusCompleted}

	// next holds the only forward edge out of each status.
	next = map[Status]Status{
		StatusPending:    StatusInProgress,
		StatusInProgress: StatusSubmitted,
		StatusSubmitted:  StatusCompleted,
	}

	ErrMissingSubmission   = core.NewValidationError(nil, core.FieldError{Field: "submissionContent", Error: "submission content is required to submit"})
	ErrCompletedSubmission = core.NewConflictError(errors.New("the submission of a completed assignment cannot be changed"))
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSubmitted, StatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether a link may move from s to to.
// Staying on the same status is always allowed.
func (s Status) CanTransitionTo(to Status) bool {
	return s == to || next[s] == to
}

func (s Status) String() string { return string(s) }

// TransitionError describes a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// NewTransitionError returns a conflict error wrapping a TransitionError.
func NewTransitionError(from, to Status) error {
	return core.NewConflictError(&TransitionError{From: from, To: to})
}

// Apply changes lnk according to upd, enforcing the workflow:
//   - only forward single steps (pending, in-progress, submitted, completed) or no change
//   - moving to submitted needs submission content
//   - a completed link keeps its status and submission but can still be annotated
//
// lnk is left untouched when an error is returned.
func (lnk *Link) Apply(upd Update, now time.Time) error {
	to := lnk.Status
	if upd.Status != nil {
		to = *upd.Status
	}
	if !lnk.Status.CanTransitionTo(to) {
		return NewTransitionError(lnk.Status, to)
	}
	if lnk.Status == StatusCompleted && upd.SubmissionContent != nil {
		return ErrCompletedSubmission
	}

	content := lnk.SubmissionContent
	if upd.SubmissionContent != nil {
		content = *upd.SubmissionContent
	}
	if to == StatusSubmitted && strings.TrimSpace(content) == "" {
		return ErrMissingSubmission
	}

	if upd.SubmissionContent != nil {
		lnk.SubmissionContent = *upd.SubmissionContent
		lnk.SubmittedAt = &now
	}
	if to == StatusSubmitted && lnk.SubmittedAt == nil {
		lnk.SubmittedAt = &now
	}
	if upd.TeacherFeedback != nil {
		lnk.TeacherFeedback = *upd.TeacherFeedback
	}
	if upd.Grade != nil {
		lnk.Grade = *upd.Grade
	}
	lnk.Status = to
	lnk.UpdatedAt = now
	return nil
}

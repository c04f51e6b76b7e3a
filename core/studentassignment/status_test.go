package studentassignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusPending, StatusInProgress},
		StatusInProgress: {StatusInProgress, StatusSubmitted},
		StatusSubmitted:  {StatusSubmitted, StatusCompleted},
		StatusCompleted:  {StatusCompleted},
	}
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := false
			for _, s := range allowed[from] {
				want = want || s == to
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestLink_Apply(t *testing.T) {
	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)
	sPtr := func(s string) *string { return &s }
	stPtr := func(s Status) *Status { return &s }

	tests := []struct {
		name    string
		lnk     Link
		upd     Update
		want    Link
		wantErr error
	}{
		{
			name: "start",
			lnk:  Link{Status: StatusPending},
			upd:  Update{Status: stPtr(StatusInProgress)},
			want: Link{Status: StatusInProgress, UpdatedAt: now},
		},
		{
			name:    "skip a step",
			lnk:     Link{Status: StatusPending},
			upd:     Update{Status: stPtr(StatusCompleted)},
			wantErr: NewTransitionError(StatusPending, StatusCompleted),
		},
		{
			name:    "go back",
			lnk:     Link{Status: StatusSubmitted, SubmissionContent: "work"},
			upd:     Update{Status: stPtr(StatusPending)},
			wantErr: NewTransitionError(StatusSubmitted, StatusPending),
		},
		{
			name:    "submit without content",
			lnk:     Link{Status: StatusInProgress},
			upd:     Update{Status: stPtr(StatusSubmitted)},
			wantErr: ErrMissingSubmission,
		},
		{
			name:    "submit blank content",
			lnk:     Link{Status: StatusInProgress},
			upd:     Update{Status: stPtr(StatusSubmitted), SubmissionContent: sPtr(" \n ")},
			wantErr: ErrMissingSubmission,
		},
		{
			name: "submit with content",
			lnk:  Link{Status: StatusInProgress},
			upd:  Update{Status: stPtr(StatusSubmitted), SubmissionContent: sPtr("work")},
			want: Link{Status: StatusSubmitted, SubmissionContent: "work", SubmittedAt: &now, UpdatedAt: now},
		},
		{
			name: "submit saved draft",
			lnk:  Link{Status: StatusInProgress, SubmissionContent: "draft", SubmittedAt: &earlier},
			upd:  Update{Status: stPtr(StatusSubmitted)},
			want: Link{Status: StatusSubmitted, SubmissionContent: "draft", SubmittedAt: &earlier, UpdatedAt: now},
		},
		{
			name: "resubmit",
			lnk:  Link{Status: StatusSubmitted, SubmissionContent: "v1", SubmittedAt: &earlier},
			upd:  Update{SubmissionContent: sPtr("v2")},
			want: Link{Status: StatusSubmitted, SubmissionContent: "v2", SubmittedAt: &now, UpdatedAt: now},
		},
		{
			name: "complete with review",
			lnk:  Link{Status: StatusSubmitted, SubmissionContent: "work", SubmittedAt: &earlier},
			upd:  Update{Status: stPtr(StatusCompleted), TeacherFeedback: sPtr("nice"), Grade: sPtr("A")},
			want: Link{
				Status: StatusCompleted, SubmissionContent: "work", SubmittedAt: &earlier,
				TeacherFeedback: "nice", Grade: "A", UpdatedAt: now,
			},
		},
		{
			name:    "completed submission is frozen",
			lnk:     Link{Status: StatusCompleted, SubmissionContent: "work"},
			upd:     Update{SubmissionContent: sPtr("other")},
			wantErr: ErrCompletedSubmission,
		},
		{
			name: "completed can be annotated",
			lnk:  Link{Status: StatusCompleted, SubmissionContent: "work", Grade: "B"},
			upd:  Update{Status: stPtr(StatusCompleted), Grade: sPtr("A")},
			want: Link{Status: StatusCompleted, SubmissionContent: "work", Grade: "A", UpdatedAt: now},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lnk := tt.lnk
			err := lnk.Apply(tt.upd, now)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Equal(t, tt.lnk, lnk, "link must be left untouched")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, lnk)
		})
	}
}

func TestTransitionError(t *testing.T) {
	err := NewTransitionError(StatusPending, StatusCompleted)
	assert.EqualError(t, err, "invalid status transition from pending to completed")

	var trErr *TransitionError
	if assert.ErrorAs(t, err, &trErr) {
		assert.Equal(t, StatusPending, trErr.From)
		assert.Equal(t, StatusCompleted, trErr.To)
	}
}

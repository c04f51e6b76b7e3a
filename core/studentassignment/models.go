package studentassignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/englishpoc/core"
)

// Link is one assignment template handed out to one student.
type Link struct {
	ID                string     `json:"id"`
	StudentID         string     `json:"studentId"`
	AssignmentID      string     `json:"assignmentId"`
	Status            Status     `json:"status"`
	DueDate           *time.Time `json:"dueDate"`
	SubmissionContent string     `json:"submissionContent"`
	TeacherFeedback   string     `json:"teacherFeedback"`
	Grade             string     `json:"grade"`
	AssignedAt        time.Time  `json:"assignedAt"`  // UTC
	SubmittedAt       *time.Time `json:"submittedAt"` // UTC
	CreatedAt         time.Time  `json:"createdAt"`   // UTC
	UpdatedAt         time.Time  `json:"updatedAt"`   // UTC
}

// NewLink contains information needed to assign a template to a student.
type NewLink struct {
	StudentID    string     `json:"studentId" validate:"required,objectid"`
	AssignmentID string     `json:"assignmentId" validate:"required,objectid"`
	DueDate      *time.Time `json:"dueDate"`
}

func (nl *NewLink) Validate(validate *validator.Validate) error {
	nl.StudentID = core.CleanString(nl.StudentID, true /* lower */)
	nl.AssignmentID = core.CleanString(nl.AssignmentID, true /* lower */)
	return validate.Struct(nl)
}

// Update holds the optional changes of a Link; nil fields are left untouched.
type Update struct {
	Status            *Status `json:"status" validate:"omitnil,assignmentstatus"`
	SubmissionContent *string `json:"submissionContent"`
	TeacherFeedback   *string `json:"teacherFeedback"`
	Grade             *string `json:"grade" validate:"omitnil,max=20"`
}

func (upd *Update) Validate(validate *validator.Validate) error {
	if upd.Status != nil {
		status := Status(core.CleanString(string(*upd.Status), true /* lower */))
		upd.Status = &status
	}
	upd.Grade = core.CleanStringPtr(upd.Grade)
	return validate.Struct(upd)
}

// IsReview reports whether upd carries teacher-only fields.
func (upd Update) IsReview() bool {
	return upd.TeacherFeedback != nil || upd.Grade != nil
}

// Filter narrows the links returned by a query.
type Filter struct {
	StudentID string
}

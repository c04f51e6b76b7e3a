package studentassignment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/assignment"
	"github.com/trezcool/englishpoc/core/student"
	"github.com/trezcool/englishpoc/core/user"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError(errors.New("student assignment not found"))
	ErrUnknownStudent    = core.NewValidationError(nil, core.FieldError{Field: "studentId", Error: "student does not exist"})
	ErrUnknownAssignment = core.NewValidationError(nil, core.FieldError{Field: "assignmentId", Error: "assignment does not exist"})
	ErrReviewForbidden   = core.NewForbiddenError(errors.New("only teachers can give feedback and grades"))
	ErrStatusForbidden   = core.NewForbiddenError(errors.New("students can only start or submit their assignments"))

	DefaultOrdering = core.DBOrdering{Field: "assignedAt"}

	// studentStatuses are the statuses a student may move their own links to.
	studentStatuses = []Status{StatusInProgress, StatusSubmitted}
)

type (
	Repository interface {
		CreateLink(ctx context.Context, lnk Link) (Link, error)
		QueryLinks(ctx context.Context, filter Filter, ordering core.DBOrdering) ([]Link, error)
		GetLinkByID(ctx context.Context, id string) (Link, error)
		UpdateLink(ctx context.Context, lnk Link) (Link, error)
		DeleteLink(ctx context.Context, id string) error
	}

	StudentFinder interface {
		GetStudentByID(ctx context.Context, id string) (student.Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (student.Student, error)
	}

	TemplateFinder interface {
		GetTemplateByID(ctx context.Context, id string) (assignment.Template, error)
	}

	// ServiceInterface scopes every read & write to what actor may see:
	// students only reach the links of the student profile linked to their account.
	ServiceInterface interface {
		Create(ctx context.Context, nl NewLink) (Link, error)
		Query(ctx context.Context, actor user.Identity, filter Filter) ([]Link, error)
		GetByID(ctx context.Context, actor user.Identity, id string) (Link, error)
		Update(ctx context.Context, actor user.Identity, id string, upd Update) (Link, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo      Repository
		students  StudentFinder
		templates TemplateFinder
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, students StudentFinder, templates TemplateFinder) ServiceInterface {
	return &service{repo: repo, students: students, templates: templates}
}

// Create assigns a template to a student. The link starts pending.
func (svc *service) Create(ctx context.Context, nl NewLink) (Link, error) {
	if _, err := svc.students.GetStudentByID(ctx, nl.StudentID); err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Link{}, ErrUnknownStudent
		}
		return Link{}, errors.Wrap(err, "finding student by ID")
	}
	if _, err := svc.templates.GetTemplateByID(ctx, nl.AssignmentID); err != nil {
		if errors.Cause(err) == assignment.ErrNotFound {
			return Link{}, ErrUnknownAssignment
		}
		return Link{}, errors.Wrap(err, "finding assignment by ID")
	}

	now := time.Now().UTC()
	lnk := Link{
		StudentID:    nl.StudentID,
		AssignmentID: nl.AssignmentID,
		Status:       StatusPending,
		AssignedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if nl.DueDate != nil {
		due := nl.DueDate.UTC()
		lnk.DueDate = &due
	}
	return svc.repo.CreateLink(ctx, lnk)
}

func (svc *service) Query(ctx context.Context, actor user.Identity, filter Filter) ([]Link, error) {
	if actor.Role == user.RoleStudent {
		std, err := svc.students.GetStudentByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return []Link{}, nil
			}
			return nil, errors.Wrap(err, "finding student by user ID")
		}
		if filter.StudentID != "" && filter.StudentID != std.ID {
			return []Link{}, nil
		}
		filter.StudentID = std.ID
	}
	return svc.repo.QueryLinks(ctx, filter, DefaultOrdering)
}

func (svc *service) GetByID(ctx context.Context, actor user.Identity, id string) (Link, error) {
	lnk, err := svc.repo.GetLinkByID(ctx, id)
	if err != nil {
		return Link{}, err
	}
	if err = svc.checkOwnership(ctx, actor, lnk); err != nil {
		return Link{}, err
	}
	return lnk, nil
}

// Update applies upd to the link following the status workflow.
// Students may only start or submit their own links and never review them.
func (svc *service) Update(ctx context.Context, actor user.Identity, id string, upd Update) (Link, error) {
	lnk, err := svc.GetByID(ctx, actor, id)
	if err != nil {
		return Link{}, err
	}

	if actor.Role == user.RoleStudent {
		if upd.IsReview() {
			return Link{}, ErrReviewForbidden
		}
		if upd.Status != nil && *upd.Status != lnk.Status && !lo.Contains(studentStatuses, *upd.Status) {
			return Link{}, ErrStatusForbidden
		}
	}

	if err = lnk.Apply(upd, time.Now().UTC()); err != nil {
		return Link{}, err
	}
	return svc.repo.UpdateLink(ctx, lnk)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteLink(ctx, id)
}

// checkOwnership hides links that do not belong to a student actor.
func (svc *service) checkOwnership(ctx context.Context, actor user.Identity, lnk Link) error {
	if actor.Role != user.RoleStudent {
		return nil
	}
	std, err := svc.students.GetStudentByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return ErrNotFound
		}
		return errors.Wrap(err, "finding student by user ID")
	}
	if std.ID != lnk.StudentID {
		return ErrNotFound
	}
	return nil
}

package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/user"
)

var (
	// errors
	ErrNotFound          = core.NewNotFoundError(errors.New("student not found"))
	ErrUserAlreadyLinked = core.NewConflictError(errors.New("this user is already linked to another student"))
	ErrUnknownUser       = core.NewValidationError(nil, core.FieldError{Field: "userId", Error: "user does not exist"})

	DefaultOrdering = core.DBOrdering{Field: "createdAt"}
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context, ordering core.DBOrdering) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// UnlinkStudentUser clears the user link of any student linked to userID.
		UnlinkStudentUser(ctx context.Context, userID string) error
	}

	// UserFinder resolves the user accounts students get linked to.
	UserFinder interface {
		GetUserByID(ctx context.Context, id string) (user.User, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		QueryAll(ctx context.Context) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByUserID(ctx context.Context, userID string) (Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		LinkUser(ctx context.Context, id string, lu LinkUser) (Student, error)
		UnlinkUser(ctx context.Context, userID string) error
	}

	service struct {
		repo  Repository
		users UserFinder
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, users UserFinder) ServiceInterface {
	return &service{repo: repo, users: users}
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		Name:      ns.Name,
		Level:     ns.Level,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx, DefaultOrdering)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}

func (svc *service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if us.Name != nil {
		std.Name = *us.Name
	}
	if us.Level != nil {
		std.Level = *us.Level
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

// LinkUser attaches the user account lu.UserID to the student, or detaches it when nil.
// A user account may be linked to at most one student.
func (svc *service) LinkUser(ctx context.Context, id string, lu LinkUser) (Student, error) {
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}

	if lu.UserID != nil {
		if _, err = svc.users.GetUserByID(ctx, *lu.UserID); err != nil {
			if errors.Cause(err) == user.ErrNotFound {
				return Student{}, ErrUnknownUser
			}
			return Student{}, errors.Wrap(err, "finding user by ID")
		}

		linked, err := svc.repo.GetStudentByUserID(ctx, *lu.UserID)
		switch {
		case err == nil && linked.ID != std.ID:
			return Student{}, ErrUserAlreadyLinked
		case err != nil && errors.Cause(err) != ErrNotFound:
			return Student{}, errors.Wrap(err, "finding student by user ID")
		}
	}

	std.UserID = lu.UserID
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *service) UnlinkUser(ctx context.Context, userID string) error {
	return svc.repo.UnlinkStudentUser(ctx, userID)
}

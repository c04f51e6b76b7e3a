package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/grammar"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError(errors.New("assignment not found"))
	ErrUnknownLesson = core.NewValidationError(nil, core.FieldError{Field: "grammarLessonId", Error: "grammar lesson does not exist"})

	DefaultOrdering = core.DBOrdering{Field: "createdAt"}
)

type (
	Repository interface {
		CreateTemplate(ctx context.Context, tmpl Template) (Template, error)
		QueryAllTemplates(ctx context.Context, ordering core.DBOrdering) ([]Template, error)
		GetTemplateByID(ctx context.Context, id string) (Template, error)
		UpdateTemplate(ctx context.Context, tmpl Template) (Template, error)
		DeleteTemplate(ctx context.Context, id string) error
	}

	// LessonFinder resolves the grammar lessons templates may point to.
	LessonFinder interface {
		GetLessonByID(ctx context.Context, id string) (grammar.Lesson, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nt NewTemplate) (Template, error)
		QueryAll(ctx context.Context) ([]Template, error)
		GetByID(ctx context.Context, id string) (Template, error)
		Update(ctx context.Context, id string, ut UpdateTemplate) (Template, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo    Repository
		lessons LessonFinder
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, lessons LessonFinder) ServiceInterface {
	return &service{repo: repo, lessons: lessons}
}

func (svc *service) Create(ctx context.Context, nt NewTemplate) (Template, error) {
	if err := svc.checkLesson(ctx, nt.GrammarLessonID); err != nil {
		return Template{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateTemplate(ctx, Template{
		Title:           nt.Title,
		Description:     nt.Description,
		Type:            nt.Type,
		GrammarLessonID: nt.GrammarLessonID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (svc *service) QueryAll(ctx context.Context) ([]Template, error) {
	return svc.repo.QueryAllTemplates(ctx, DefaultOrdering)
}

func (svc *service) GetByID(ctx context.Context, id string) (Template, error) {
	return svc.repo.GetTemplateByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, ut UpdateTemplate) (Template, error) {
	tmpl, err := svc.repo.GetTemplateByID(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if err = svc.checkLesson(ctx, ut.GrammarLessonID.Ptr()); err != nil {
		return Template{}, err
	}

	if ut.Title != nil {
		tmpl.Title = *ut.Title
	}
	if ut.Description != nil {
		tmpl.Description = *ut.Description
	}
	if ut.Type != nil {
		tmpl.Type = *ut.Type
	}
	if ut.GrammarLessonID.Set {
		tmpl.GrammarLessonID = ut.GrammarLessonID.Ptr()
	}
	tmpl.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTemplate(ctx, tmpl)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTemplate(ctx, id)
}

// checkLesson makes sure the referenced grammar lesson exists.
func (svc *service) checkLesson(ctx context.Context, lessonID *string) error {
	if lessonID == nil {
		return nil
	}
	if _, err := svc.lessons.GetLessonByID(ctx, *lessonID); err != nil {
		if errors.Cause(err) == grammar.ErrNotFound {
			return ErrUnknownLesson
		}
		return errors.Wrap(err, "finding grammar lesson by ID")
	}
	return nil
}

package grammar

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/englishpoc/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError(errors.New("lesson not found"))
	ErrSlugExists  = core.NewConflictError(errors.New("a lesson with this slug already exists"))
	ErrOrderExists = core.NewConflictError(errors.New("a lesson with this order already exists"))

	// DefaultOrdering lists lessons in course order.
	DefaultOrdering = core.DBOrdering{Field: "order", Ascending: true}
)

type (
	Repository interface {
		CheckSlugUniqueness(ctx context.Context, slug string, excludedLessons ...Lesson) error
		CheckOrderUniqueness(ctx context.Context, order int, excludedLessons ...Lesson) error
		// MaxLessonOrder returns the highest lesson order, 0 when there is none.
		MaxLessonOrder(ctx context.Context) (int, error)
		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		QueryAllLessons(ctx context.Context, ordering core.DBOrdering) ([]Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		GetLessonBySlug(ctx context.Context, slug string) (Lesson, error)
		UpdateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		DeleteLesson(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		CheckSlugUniqueness(ctx context.Context, slug string, exclLessons ...Lesson) error
		CheckOrderUniqueness(ctx context.Context, order int, exclLessons ...Lesson) error
		Create(ctx context.Context, nl NewLesson) (Lesson, error)
		QueryAll(ctx context.Context) ([]Lesson, error)
		GetByID(ctx context.Context, id string) (Lesson, error)
		GetBySlug(ctx context.Context, slug string) (Lesson, error)
		Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) CheckSlugUniqueness(ctx context.Context, slug string, exclLessons ...Lesson) error {
	if err := svc.repo.CheckSlugUniqueness(ctx, slug, exclLessons...); err != nil {
		if errors.Cause(err) == ErrSlugExists {
			return ErrSlugExists
		}
		return errors.Wrap(err, "checking slug uniqueness")
	}
	return nil
}

func (svc *service) CheckOrderUniqueness(ctx context.Context, order int, exclLessons ...Lesson) error {
	if err := svc.repo.CheckOrderUniqueness(ctx, order, exclLessons...); err != nil {
		if errors.Cause(err) == ErrOrderExists {
			return ErrOrderExists
		}
		return errors.Wrap(err, "checking order uniqueness")
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nl NewLesson) (Lesson, error) {
	now := time.Now().UTC()
	lsn := Lesson{
		Title:     nl.Title,
		Slug:      nl.Slug,
		Content:   nl.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if nl.Order != nil {
		lsn.Order = *nl.Order
	} else {
		last, err := svc.repo.MaxLessonOrder(ctx)
		if err != nil {
			return Lesson{}, errors.Wrap(err, "finding last lesson order")
		}
		lsn.Order = last + 1
	}
	return svc.repo.CreateLesson(ctx, lsn)
}

func (svc *service) QueryAll(ctx context.Context) ([]Lesson, error) {
	return svc.repo.QueryAllLessons(ctx, DefaultOrdering)
}

func (svc *service) GetByID(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}

func (svc *service) GetBySlug(ctx context.Context, slug string) (Lesson, error) {
	return svc.repo.GetLessonBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *service) Update(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	lsn, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}

	if ul.Title != nil {
		lsn.Title = *ul.Title
	}
	if ul.Slug != nil {
		lsn.Slug = *ul.Slug
	}
	if ul.Order != nil {
		lsn.Order = *ul.Order
	}
	if ul.Content != nil {
		lsn.Content = *ul.Content
	}
	lsn.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateLesson(ctx, lsn)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteLesson(ctx, id)
}

package grammar

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/englishpoc/core"
)

type Lesson struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Order     int       `json:"order"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// NewLesson contains information needed to create a new Lesson.
// A nil Order places the lesson after the last one.
type NewLesson struct {
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Slug    string `json:"slug" validate:"required,slug,max=100"`
	Order   *int   `json:"order" validate:"omitnil,gt=0"`
	Content string `json:"content" validate:"required,notblank"`
}

func (nl *NewLesson) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Slug = core.CleanString(nl.Slug, true /* lower */)

	if err := validate.Struct(nl); err != nil {
		return err
	}
	if err := svc.CheckSlugUniqueness(ctx, nl.Slug); err != nil {
		return err
	}
	if nl.Order != nil {
		return svc.CheckOrderUniqueness(ctx, *nl.Order)
	}
	return nil
}

// UpdateLesson defines what information may be provided to modify an existing Lesson.
type UpdateLesson struct {
	Title   *string `json:"title" validate:"omitnil,notblank,max=200"`
	Slug    *string `json:"slug" validate:"omitnil,slug,max=100"`
	Order   *int    `json:"order" validate:"omitnil,gt=0"`
	Content *string `json:"content" validate:"omitnil,notblank"`
}

func (ul *UpdateLesson) Validate(ctx context.Context, orig Lesson, validate *validator.Validate, svc ServiceInterface) error {
	ul.Title = core.CleanStringPtr(ul.Title)
	ul.Slug = core.CleanStringPtr(ul.Slug, true /* lower */)

	if err := validate.Struct(ul); err != nil {
		return err
	}
	if ul.Slug != nil && *ul.Slug != orig.Slug {
		if err := svc.CheckSlugUniqueness(ctx, *ul.Slug, orig); err != nil {
			return err
		}
	}
	if ul.Order != nil && *ul.Order != orig.Order {
		return svc.CheckOrderUniqueness(ctx, *ul.Order, orig)
	}
	return nil
}

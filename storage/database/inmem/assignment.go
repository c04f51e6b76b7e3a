package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/assignment"
)

type templateRepository struct {
	db *templateTable
}

var _ assignment.Repository = (*templateRepository)(nil) // interface compliance check

func NewTemplateRepository(db *DB) *templateRepository {
	return &templateRepository{db: db.template}
}

func (repo *templateRepository) CreateTemplate(_ context.Context, tmpl assignment.Template) (assignment.Template, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tmpl.ID = newID()
	repo.db.table[tmpl.ID] = &tmpl
	return tmpl, nil
}

func (repo *templateRepository) QueryAllTemplates(_ context.Context, ordering core.DBOrdering) ([]assignment.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	templates := make([]assignment.Template, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		templates = append(templates, *t)
	}
	sortByTime(templates, ordering, func(t assignment.Template) time.Time { return t.CreatedAt })
	return templates, nil
}

func (repo *templateRepository) GetTemplateByID(_ context.Context, id string) (assignment.Template, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tmpl, ok := repo.db.table[id]; ok {
		return *tmpl, nil
	}
	return assignment.Template{}, assignment.ErrNotFound
}

func (repo *templateRepository) UpdateTemplate(_ context.Context, tmpl assignment.Template) (assignment.Template, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[tmpl.ID]; !ok {
		return assignment.Template{}, assignment.ErrNotFound
	}
	repo.db.table[tmpl.ID] = &tmpl
	return tmpl, nil
}

func (repo *templateRepository) DeleteTemplate(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return assignment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

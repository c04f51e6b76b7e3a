package inmemdb

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/grammar"
)

type lessonRepository struct {
	db *lessonTable
}

var _ grammar.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *DB) *lessonRepository {
	return &lessonRepository{db: db.lesson}
}

// checkUnique mirrors the unique slug & order indexes.
func (repo *lessonRepository) checkUnique(lsn grammar.Lesson) error {
	for _, l := range repo.db.table {
		if l.ID == lsn.ID {
			continue
		}
		if l.Slug == lsn.Slug {
			return grammar.ErrSlugExists
		}
		if l.Order == lsn.Order {
			return grammar.ErrOrderExists
		}
	}
	return nil
}

func (repo *lessonRepository) CheckSlugUniqueness(_ context.Context, slug string, excludedLessons ...grammar.Lesson) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exclIDs := lo.Map(excludedLessons, func(l grammar.Lesson, _ int) string { return l.ID })
	for _, lsn := range repo.db.table {
		if lsn.Slug == slug && !lo.Contains(exclIDs, lsn.ID) {
			return grammar.ErrSlugExists
		}
	}
	return nil
}

func (repo *lessonRepository) CheckOrderUniqueness(_ context.Context, order int, excludedLessons ...grammar.Lesson) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exclIDs := lo.Map(excludedLessons, func(l grammar.Lesson, _ int) string { return l.ID })
	for _, lsn := range repo.db.table {
		if lsn.Order == order && !lo.Contains(exclIDs, lsn.ID) {
			return grammar.ErrOrderExists
		}
	}
	return nil
}

func (repo *lessonRepository) MaxLessonOrder(_ context.Context) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var last int
	for _, lsn := range repo.db.table {
		last = lo.Max([]int{last, lsn.Order})
	}
	return last, nil
}

func (repo *lessonRepository) CreateLesson(_ context.Context, lsn grammar.Lesson) (grammar.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lsn.ID = newID()
	if err := repo.checkUnique(lsn); err != nil {
		return grammar.Lesson{}, err
	}
	repo.db.table[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *lessonRepository) QueryAllLessons(_ context.Context, ordering core.DBOrdering) ([]grammar.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	lessons := make([]grammar.Lesson, 0, len(repo.db.table))
	for _, l := range repo.db.table {
		lessons = append(lessons, *l)
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		if ordering.Ascending {
			return lessons[i].Order < lessons[j].Order
		}
		return lessons[i].Order > lessons[j].Order
	})
	return lessons, nil
}

func (repo *lessonRepository) GetLessonByID(_ context.Context, id string) (grammar.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lsn, ok := repo.db.table[id]; ok {
		return *lsn, nil
	}
	return grammar.Lesson{}, grammar.ErrNotFound
}

func (repo *lessonRepository) GetLessonBySlug(_ context.Context, slug string) (grammar.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, lsn := range repo.db.table {
		if lsn.Slug == slug {
			return *lsn, nil
		}
	}
	return grammar.Lesson{}, grammar.ErrNotFound
}

func (repo *lessonRepository) UpdateLesson(_ context.Context, lsn grammar.Lesson) (grammar.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[lsn.ID]; !ok {
		return grammar.Lesson{}, grammar.ErrNotFound
	}
	if err := repo.checkUnique(lsn); err != nil {
		return grammar.Lesson{}, err
	}
	repo.db.table[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *lessonRepository) DeleteLesson(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return grammar.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/englishpoc/core"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
)

type linkRepository struct {
	db *linkTable
}

var _ sa.Repository = (*linkRepository)(nil) // interface compliance check

func NewLinkRepository(db *DB) *linkRepository {
	return &linkRepository{db: db.link}
}

func (repo *linkRepository) CreateLink(_ context.Context, lnk sa.Link) (sa.Link, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lnk.ID = newID()
	repo.db.table[lnk.ID] = &lnk
	return lnk, nil
}

func (repo *linkRepository) QueryLinks(_ context.Context, filter sa.Filter, ordering core.DBOrdering) ([]sa.Link, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	links := make([]sa.Link, 0, len(repo.db.table))
	for _, l := range repo.db.table {
		if filter.StudentID != "" && l.StudentID != filter.StudentID {
			continue
		}
		links = append(links, *l)
	}
	sortByTime(links, ordering, func(l sa.Link) time.Time { return l.AssignedAt })
	return links, nil
}

func (repo *linkRepository) GetLinkByID(_ context.Context, id string) (sa.Link, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lnk, ok := repo.db.table[id]; ok {
		return *lnk, nil
	}
	return sa.Link{}, sa.ErrNotFound
}

func (repo *linkRepository) UpdateLink(_ context.Context, lnk sa.Link) (sa.Link, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[lnk.ID]; !ok {
		return sa.Link{}, sa.ErrNotFound
	}
	repo.db.table[lnk.ID] = &lnk
	return lnk, nil
}

func (repo *linkRepository) DeleteLink(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return sa.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

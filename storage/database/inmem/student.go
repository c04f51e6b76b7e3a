package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

// linkTaken reports whether another student than std is already linked to std's user.
func (repo *studentRepository) linkTaken(std student.Student) bool {
	if std.UserID == nil {
		return false
	}
	for _, s := range repo.db.table {
		if s.ID != std.ID && s.IsLinkedTo(*std.UserID) {
			return true
		}
	}
	return false
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = newID()
	if repo.linkTaken(std) {
		return student.Student{}, student.ErrUserAlreadyLinked
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(_ context.Context, ordering core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sortByTime(students, ordering, func(s student.Student) time.Time { return s.CreatedAt })
	return students, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByUserID(_ context.Context, userID string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.table {
		if std.IsLinkedTo(userID) {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	if repo.linkTaken(std) {
		return student.Student{}, student.ErrUserAlreadyLinked
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) UnlinkStudentUser(_ context.Context, userID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, std := range repo.db.table {
		if std.IsLinkedTo(userID) {
			std.UserID = nil
			std.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

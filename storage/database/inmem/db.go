package inmemdb

import (
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/assignment"
	"github.com/trezcool/englishpoc/core/grammar"
	"github.com/trezcool/englishpoc/core/student"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
	"github.com/trezcool/englishpoc/core/user"
)

type (
	// DB is a process local store mirroring the document store collections.
	DB struct {
		user     *userTable
		student  *studentTable
		template *templateTable
		lesson   *lessonTable
		link     *linkTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	templateTable struct {
		sync.RWMutex
		table map[string]*assignment.Template
	}

	lessonTable struct {
		sync.RWMutex
		table map[string]*grammar.Lesson
	}

	linkTable struct {
		sync.RWMutex
		table map[string]*sa.Link
	}
)

func Open() *DB {
	return &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		student:  &studentTable{table: make(map[string]*student.Student)},
		template: &templateTable{table: make(map[string]*assignment.Template)},
		lesson:   &lessonTable{table: make(map[string]*grammar.Lesson)},
		link:     &linkTable{table: make(map[string]*sa.Link)},
	}
}

// newID returns an id shaped like the document store ones.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// sortByTime orders items by the time returned by key, following ordering's direction.
func sortByTime[T any](items []T, ordering core.DBOrdering, key func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		if ordering.Ascending {
			return key(items[i]).Before(key(items[j]))
		}
		return key(items[i]).After(key(items[j]))
	})
}

// Close is a no-op: the store lives as long as the process.
func (db *DB) Close() error { return nil }

package mongorepos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/grammar"
	"github.com/trezcool/englishpoc/core/student"
	"github.com/trezcool/englishpoc/core/user"
)

var ctx = context.Background()

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func duplicateKey(coll, index, key string) bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: english_poc." + coll + " index: " + index + " dup key: { " + key + " }",
	})
}

func emptyCursor(mt *mtest.T, coll string) bson.D {
	return mtest.CreateCursorResponse(0, mt.DB.Name()+"."+coll, mtest.FirstBatch)
}

func TestLessonRepository_errors(t *testing.T) {
	mt := newMockT(t)
	lsn := grammar.Lesson{Title: "Past simple", Slug: "past-simple", Order: 1, Content: "# Past simple"}

	tests := []struct {
		name    string
		resp    bson.D
		call    func(repo *lessonRepository) error
		wantErr error
	}{
		{
			name: "slug taken",
			resp: duplicateKey(LessonCollection, lessonSlugIndex, `slug: "past-simple"`),
			call: func(repo *lessonRepository) error {
				_, err := repo.CreateLesson(ctx, lsn)
				return err
			},
			wantErr: grammar.ErrSlugExists,
		},
		{
			name: "order taken",
			resp: duplicateKey(LessonCollection, lessonOrderIndex, "order: 1"),
			call: func(repo *lessonRepository) error {
				_, err := repo.CreateLesson(ctx, lsn)
				return err
			},
			wantErr: grammar.ErrOrderExists,
		},
		{
			name: "order taken on update",
			resp: duplicateKey(LessonCollection, lessonOrderIndex, "order: 1"),
			call: func(repo *lessonRepository) error {
				upd := lsn
				upd.ID = primitive.NewObjectID().Hex()
				_, err := repo.UpdateLesson(ctx, upd)
				return err
			},
			wantErr: grammar.ErrOrderExists,
		},
		{
			name: "unknown id",
			call: func(repo *lessonRepository) error {
				_, err := repo.GetLessonByID(ctx, primitive.NewObjectID().Hex())
				return err
			},
			wantErr: grammar.ErrNotFound,
		},
		{
			name: "unknown slug",
			call: func(repo *lessonRepository) error {
				_, err := repo.GetLessonBySlug(ctx, "lol")
				return err
			},
			wantErr: grammar.ErrNotFound,
		},
	}
	for _, tt := range tests {
		mt.Run(tt.name, func(mt *mtest.T) {
			resp := tt.resp
			if resp == nil {
				resp = emptyCursor(mt, LessonCollection)
			}
			mt.AddMockResponses(resp)
			assert.Equal(mt, tt.wantErr, tt.call(NewLessonRepository(mt.DB)))
		})
	}
}

func TestLessonRepository_reads(t *testing.T) {
	mt := newMockT(t)

	mt.Run("found", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		now := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+LessonCollection, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "title", Value: "Past simple"},
			{Key: "slug", Value: "past-simple"},
			{Key: "order", Value: 2},
			{Key: "content", Value: "# Past simple"},
			{Key: "createdAt", Value: now},
			{Key: "updatedAt", Value: now},
		}))

		got, err := NewLessonRepository(mt.DB).GetLessonBySlug(ctx, "past-simple")
		if assert.NoError(mt, err) {
			assert.Equal(mt, grammar.Lesson{
				ID: oid.Hex(), Title: "Past simple", Slug: "past-simple", Order: 2, Content: "# Past simple",
				CreatedAt: now, UpdatedAt: now,
			}, got)
		}
	})

	mt.Run("no lessons yet", func(mt *mtest.T) {
		mt.AddMockResponses(emptyCursor(mt, LessonCollection))
		last, err := NewLessonRepository(mt.DB).MaxLessonOrder(ctx)
		assert.NoError(mt, err)
		assert.Equal(mt, 0, last)
	})
}

func TestUserRepository_errors(t *testing.T) {
	mt := newMockT(t)

	mt.Run("username taken", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey(UserCollection, usernameIndex, `username: "jane"`))
		_, err := NewUserRepository(mt.DB).CreateUser(ctx, user.User{Username: "jane", Role: user.RoleStudent})
		assert.Equal(mt, user.ErrUsernameExists, err)
	})

	mt.Run("unknown username", func(mt *mtest.T) {
		mt.AddMockResponses(emptyCursor(mt, UserCollection))
		_, err := NewUserRepository(mt.DB).GetUserByUsername(ctx, "lol")
		assert.Equal(mt, user.ErrNotFound, err)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		_, err := NewUserRepository(mt.DB).GetUserByID(ctx, "lol")
		assert.Equal(mt, user.ErrNotFound, err)
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized on english_poc",
		}))
		_, err := NewUserRepository(mt.DB).GetUserByUsername(ctx, "jane")
		if assert.Error(mt, err) {
			assert.NotEqual(mt, user.ErrNotFound, err)
			assert.False(mt, core.IsShutdown(err))
			assert.Contains(mt, err.Error(), "finding user")
		}
	})
}

func TestStudentRepository_errors(t *testing.T) {
	mt := newMockT(t)

	mt.Run("user already linked", func(mt *mtest.T) {
		userID := primitive.NewObjectID().Hex()
		mt.AddMockResponses(duplicateKey(StudentCollection, studentUserIndex, "userId: ObjectId('"+userID+"')"))
		_, err := NewStudentRepository(mt.DB).CreateStudent(ctx, student.Student{Name: "Jane", Level: "B1", UserID: &userID})
		assert.Equal(mt, student.ErrUserAlreadyLinked, err)
	})

	mt.Run("unknown student", func(mt *mtest.T) {
		mt.AddMockResponses(emptyCursor(mt, StudentCollection))
		_, err := NewStudentRepository(mt.DB).GetStudentByID(ctx, primitive.NewObjectID().Hex())
		assert.Equal(mt, student.ErrNotFound, err)
	})
}

package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// index names, also used to tell duplicate key errors apart
const (
	usernameIndex    = "users_username_unique"
	studentUserIndex = "students_userId_unique"
	lessonSlugIndex  = "grammarlessons_slug_unique"
	lessonOrderIndex = "grammarlessons_order_unique"
	linkStudentIndex = "studentassignments_studentId"
)

var indexes = map[string][]mongo.IndexModel{
	UserCollection: {
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName(usernameIndex).SetUnique(true)},
	},
	StudentCollection: {
		// unlinked students have no userId field at all
		{Keys: bson.D{{Key: userIDField, Value: 1}}, Options: options.Index().SetName(studentUserIndex).SetUnique(true).SetSparse(true)},
	},
	LessonCollection: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetName(lessonSlugIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "order", Value: 1}}, Options: options.Index().SetName(lessonOrderIndex).SetUnique(true)},
	},
	LinkCollection: {
		{Keys: bson.D{{Key: studentIDField, Value: 1}, {Key: "assignedAt", Value: -1}}, Options: options.Index().SetName(linkStudentIndex)},
	},
}

// EnsureIndexes creates the indexes backing the uniqueness rules. It is idempotent.
// It returns the names of the indexes it made sure of.
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	var names []string
	for coll, models := range indexes {
		created, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return names, errors.Wrapf(err, "creating %s indexes", coll)
		}
		names = append(names, created...)
	}
	return names, nil
}

package mongorepos

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/englishpoc/core"
)

// collections
const (
	UserCollection     = "users"
	StudentCollection  = "students"
	TemplateCollection = "assignments"
	LessonCollection   = "grammarlessons"
	LinkCollection     = "studentassignments"
)

const (
	idField        = "_id"
	userIDField    = "userId"
	studentIDField = "studentId"
	objectIDHexLen = 24
)

// objectID parses a hex id; malformed ids never match any document.
func objectID(id string) (primitive.ObjectID, bool) {
	if len(id) != objectIDHexLen {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// optionalObjectID converts an optional hex id, dropping malformed ones.
func optionalObjectID(id *string) *primitive.ObjectID {
	if id == nil {
		return nil
	}
	oid, ok := objectID(*id)
	if !ok {
		return nil
	}
	return &oid
}

func optionalHex(oid *primitive.ObjectID) *string {
	if oid == nil {
		return nil
	}
	hex := oid.Hex()
	return &hex
}

// excludeIDs builds the filter clause skipping the provided documents.
func excludeIDs(filter bson.M, ids []string) bson.M {
	if len(ids) == 0 {
		return filter
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	filter[idField] = bson.M{"$nin": oids}
	return filter
}

func findOptions(ordering core.DBOrdering) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: ordering.Field, Value: ordering.Direction()}})
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// wrap annotates driver errors; a disconnected client cannot recover and asks the app to shut down.
func wrap(err error, msg string) error {
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return core.NewShutdownError(msg + ": database client disconnected")
	}
	return errors.Wrap(err, msg)
}

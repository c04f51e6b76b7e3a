package mongorepos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/student"
)

type studentDocument struct {
	ID        primitive.ObjectID  `bson:"_id"`
	Name      string              `bson:"name"`
	Level     string              `bson:"level"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty"` // absent when unlinked (sparse unique index)
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

type studentRepository struct {
	coll *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *mongo.Database) *studentRepository {
	return &studentRepository{coll: db.Collection(StudentCollection)}
}

func (repo studentRepository) toDocument(std student.Student) studentDocument {
	oid, _ := objectID(std.ID)
	return studentDocument{
		ID:        oid,
		Name:      std.Name,
		Level:     std.Level,
		UserID:    optionalObjectID(std.UserID),
		CreatedAt: std.CreatedAt.UTC(),
		UpdatedAt: std.UpdatedAt.UTC(),
	}
}

func (repo studentRepository) fromDocument(doc studentDocument) student.Student {
	return student.Student{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		Level:     doc.Level,
		UserID:    optionalHex(doc.UserID),
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
}

func (repo studentRepository) trapErr(err error, msg string) error {
	switch {
	case isNoDocuments(err):
		return student.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return student.ErrUserAlreadyLinked
	}
	return wrap(err, msg)
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	doc := repo.toDocument(std)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return student.Student{}, repo.trapErr(err, "inserting student")
	}
	return repo.fromDocument(doc), nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context, ordering core.DBOrdering) ([]student.Student, error) {
	cur, err := repo.coll.Find(ctx, bson.M{}, findOptions(ordering))
	if err != nil {
		return nil, wrap(err, "querying students")
	}
	var docs []studentDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrap(err, "decoding students")
	}

	students := make([]student.Student, 0, len(docs))
	for _, doc := range docs {
		students = append(students, repo.fromDocument(doc))
	}
	return students, nil
}

func (repo studentRepository) getStudent(ctx context.Context, filter bson.M) (student.Student, error) {
	var doc studentDocument
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return student.Student{}, repo.trapErr(err, "finding student")
	}
	return repo.fromDocument(doc), nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	oid, ok := objectID(id)
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return repo.getStudent(ctx, bson.M{idField: oid})
}

func (repo studentRepository) GetStudentByUserID(ctx context.Context, userID string) (student.Student, error) {
	oid, ok := objectID(userID)
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return repo.getStudent(ctx, bson.M{userIDField: oid})
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	doc := repo.toDocument(std)
	if doc.ID.IsZero() {
		return student.Student{}, student.ErrNotFound
	}

	res, err := repo.coll.ReplaceOne(ctx, bson.M{idField: doc.ID}, doc)
	if err != nil {
		return student.Student{}, repo.trapErr(err, "updating student")
	}
	if res.MatchedCount == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.fromDocument(doc), nil
}

func (repo studentRepository) UnlinkStudentUser(ctx context.Context, userID string) error {
	oid, ok := objectID(userID)
	if !ok {
		return nil
	}

	update := bson.M{
		"$unset": bson.M{userIDField: ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	}
	if _, err := repo.coll.UpdateMany(ctx, bson.M{userIDField: oid}, update); err != nil {
		return wrap(err, "unlinking student user")
	}
	return nil
}

package mongorepos

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/grammar"
)

type lessonDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Slug      string             `bson:"slug"`
	Order     int                `bson:"order"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type lessonRepository struct {
	coll *mongo.Collection
}

var _ grammar.Repository = (*lessonRepository)(nil) // interface compliance check

func NewLessonRepository(db *mongo.Database) *lessonRepository {
	return &lessonRepository{coll: db.Collection(LessonCollection)}
}

func (repo lessonRepository) toDocument(lsn grammar.Lesson) lessonDocument {
	oid, _ := objectID(lsn.ID)
	return lessonDocument{
		ID:        oid,
		Title:     lsn.Title,
		Slug:      lsn.Slug,
		Order:     lsn.Order,
		Content:   lsn.Content,
		CreatedAt: lsn.CreatedAt.UTC(),
		UpdatedAt: lsn.UpdatedAt.UTC(),
	}
}

func (repo lessonRepository) fromDocument(doc lessonDocument) grammar.Lesson {
	return grammar.Lesson{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Slug:      doc.Slug,
		Order:     doc.Order,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
}

// trapErr maps driver errors to the grammar package errors.
// Duplicate keys are told apart by the index named in the server message.
func (repo lessonRepository) trapErr(err error, msg string) error {
	switch {
	case isNoDocuments(err):
		return grammar.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		if strings.Contains(err.Error(), lessonOrderIndex) {
			return grammar.ErrOrderExists
		}
		return grammar.ErrSlugExists
	}
	return wrap(err, msg)
}

func lessonIDs(lessons []grammar.Lesson) []string {
	ids := make([]string, 0, len(lessons))
	for _, lsn := range lessons {
		ids = append(ids, lsn.ID)
	}
	return ids
}

func (repo lessonRepository) CheckSlugUniqueness(ctx context.Context, slug string, excludedLessons ...grammar.Lesson) error {
	cnt, err := repo.coll.CountDocuments(ctx, excludeIDs(bson.M{"slug": slug}, lessonIDs(excludedLessons)))
	if err != nil {
		return wrap(err, "checking slug uniqueness")
	}
	if cnt > 0 {
		return grammar.ErrSlugExists
	}
	return nil
}

func (repo lessonRepository) CheckOrderUniqueness(ctx context.Context, order int, excludedLessons ...grammar.Lesson) error {
	cnt, err := repo.coll.CountDocuments(ctx, excludeIDs(bson.M{"order": order}, lessonIDs(excludedLessons)))
	if err != nil {
		return wrap(err, "checking order uniqueness")
	}
	if cnt > 0 {
		return grammar.ErrOrderExists
	}
	return nil
}

func (repo lessonRepository) MaxLessonOrder(ctx context.Context) (int, error) {
	var doc lessonDocument
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}})
	if err := repo.coll.FindOne(ctx, bson.M{}, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return 0, nil
		}
		return 0, wrap(err, "finding last lesson")
	}
	return doc.Order, nil
}

func (repo lessonRepository) CreateLesson(ctx context.Context, lsn grammar.Lesson) (grammar.Lesson, error) {
	doc := repo.toDocument(lsn)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return grammar.Lesson{}, repo.trapErr(err, "inserting lesson")
	}
	return repo.fromDocument(doc), nil
}

func (repo lessonRepository) QueryAllLessons(ctx context.Context, ordering core.DBOrdering) ([]grammar.Lesson, error) {
	cur, err := repo.coll.Find(ctx, bson.M{}, findOptions(ordering))
	if err != nil {
		return nil, wrap(err, "querying lessons")
	}
	var docs []lessonDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrap(err, "decoding lessons")
	}

	lessons := make([]grammar.Lesson, 0, len(docs))
	for _, doc := range docs {
		lessons = append(lessons, repo.fromDocument(doc))
	}
	return lessons, nil
}

func (repo lessonRepository) getLesson(ctx context.Context, filter bson.M) (grammar.Lesson, error) {
	var doc lessonDocument
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return grammar.Lesson{}, repo.trapErr(err, "finding lesson")
	}
	return repo.fromDocument(doc), nil
}

func (repo lessonRepository) GetLessonByID(ctx context.Context, id string) (grammar.Lesson, error) {
	oid, ok := objectID(id)
	if !ok {
		return grammar.Lesson{}, grammar.ErrNotFound
	}
	return repo.getLesson(ctx, bson.M{idField: oid})
}

func (repo lessonRepository) GetLessonBySlug(ctx context.Context, slug string) (grammar.Lesson, error) {
	return repo.getLesson(ctx, bson.M{"slug": slug})
}

func (repo lessonRepository) UpdateLesson(ctx context.Context, lsn grammar.Lesson) (grammar.Lesson, error) {
	doc := repo.toDocument(lsn)
	if doc.ID.IsZero() {
		return grammar.Lesson{}, grammar.ErrNotFound
	}

	res, err := repo.coll.ReplaceOne(ctx, bson.M{idField: doc.ID}, doc)
	if err != nil {
		return grammar.Lesson{}, repo.trapErr(err, "updating lesson")
	}
	if res.MatchedCount == 0 {
		return grammar.Lesson{}, grammar.ErrNotFound
	}
	return repo.fromDocument(doc), nil
}

func (repo lessonRepository) DeleteLesson(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return grammar.ErrNotFound
	}

	res, err := repo.coll.DeleteOne(ctx, bson.M{idField: oid})
	if err != nil {
		return wrap(err, "deleting lesson")
	}
	if res.DeletedCount == 0 {
		return grammar.ErrNotFound
	}
	return nil
}

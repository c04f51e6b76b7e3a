package mongorepos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/assignment"
)

type templateDocument struct {
	ID              primitive.ObjectID  `bson:"_id"`
	Title           string              `bson:"title"`
	Description     string              `bson:"description"`
	Type            string              `bson:"type"`
	GrammarLessonID *primitive.ObjectID `bson:"grammarLessonId"`
	CreatedAt       time.Time           `bson:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt"`
}

type templateRepository struct {
	coll *mongo.Collection
}

var _ assignment.Repository = (*templateRepository)(nil) // interface compliance check

func NewTemplateRepository(db *mongo.Database) *templateRepository {
	return &templateRepository{coll: db.Collection(TemplateCollection)}
}

func (repo templateRepository) toDocument(tmpl assignment.Template) templateDocument {
	oid, _ := objectID(tmpl.ID)
	return templateDocument{
		ID:              oid,
		Title:           tmpl.Title,
		Description:     tmpl.Description,
		Type:            string(tmpl.Type),
		GrammarLessonID: optionalObjectID(tmpl.GrammarLessonID),
		CreatedAt:       tmpl.CreatedAt.UTC(),
		UpdatedAt:       tmpl.UpdatedAt.UTC(),
	}
}

func (repo templateRepository) fromDocument(doc templateDocument) assignment.Template {
	return assignment.Template{
		ID:              doc.ID.Hex(),
		Title:           doc.Title,
		Description:     doc.Description,
		Type:            assignment.Type(doc.Type),
		GrammarLessonID: optionalHex(doc.GrammarLessonID),
		CreatedAt:       doc.CreatedAt.UTC(),
		UpdatedAt:       doc.UpdatedAt.UTC(),
	}
}

func (repo templateRepository) CreateTemplate(ctx context.Context, tmpl assignment.Template) (assignment.Template, error) {
	doc := repo.toDocument(tmpl)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return assignment.Template{}, wrap(err, "inserting assignment")
	}
	return repo.fromDocument(doc), nil
}

func (repo templateRepository) QueryAllTemplates(ctx context.Context, ordering core.DBOrdering) ([]assignment.Template, error) {
	cur, err := repo.coll.Find(ctx, bson.M{}, findOptions(ordering))
	if err != nil {
		return nil, wrap(err, "querying assignments")
	}
	var docs []templateDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrap(err, "decoding assignments")
	}

	templates := make([]assignment.Template, 0, len(docs))
	for _, doc := range docs {
		templates = append(templates, repo.fromDocument(doc))
	}
	return templates, nil
}

func (repo templateRepository) GetTemplateByID(ctx context.Context, id string) (assignment.Template, error) {
	oid, ok := objectID(id)
	if !ok {
		return assignment.Template{}, assignment.ErrNotFound
	}

	var doc templateDocument
	if err := repo.coll.FindOne(ctx, bson.M{idField: oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return assignment.Template{}, assignment.ErrNotFound
		}
		return assignment.Template{}, wrap(err, "finding assignment by ID")
	}
	return repo.fromDocument(doc), nil
}

func (repo templateRepository) UpdateTemplate(ctx context.Context, tmpl assignment.Template) (assignment.Template, error) {
	doc := repo.toDocument(tmpl)
	if doc.ID.IsZero() {
		return assignment.Template{}, assignment.ErrNotFound
	}

	res, err := repo.coll.ReplaceOne(ctx, bson.M{idField: doc.ID}, doc)
	if err != nil {
		return assignment.Template{}, wrap(err, "updating assignment")
	}
	if res.MatchedCount == 0 {
		return assignment.Template{}, assignment.ErrNotFound
	}
	return repo.fromDocument(doc), nil
}

func (repo templateRepository) DeleteTemplate(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return assignment.ErrNotFound
	}

	res, err := repo.coll.DeleteOne(ctx, bson.M{idField: oid})
	if err != nil {
		return wrap(err, "deleting assignment")
	}
	if res.DeletedCount == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

package mongorepos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/englishpoc/core"
	sa "github.com/trezcool/englishpoc/core/studentassignment"
)

type linkDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	StudentID         primitive.ObjectID `bson:"studentId"`
	AssignmentID      primitive.ObjectID `bson:"assignmentId"`
	Status            string             `bson:"status"`
	DueDate           *time.Time         `bson:"dueDate"`
	SubmissionContent string             `bson:"submissionContent"`
	TeacherFeedback   string             `bson:"teacherFeedback"`
	Grade             string             `bson:"grade"`
	AssignedAt        time.Time          `bson:"assignedAt"`
	SubmittedAt       *time.Time         `bson:"submittedAt"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

type linkRepository struct {
	coll *mongo.Collection
}

var _ sa.Repository = (*linkRepository)(nil) // interface compliance check

func NewLinkRepository(db *mongo.Database) *linkRepository {
	return &linkRepository{coll: db.Collection(LinkCollection)}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func (repo linkRepository) toDocument(lnk sa.Link) linkDocument {
	oid, _ := objectID(lnk.ID)
	stdID, _ := objectID(lnk.StudentID)
	tmplID, _ := objectID(lnk.AssignmentID)
	return linkDocument{
		ID:                oid,
		StudentID:         stdID,
		AssignmentID:      tmplID,
		Status:            string(lnk.Status),
		DueDate:           utcPtr(lnk.DueDate),
		SubmissionContent: lnk.SubmissionContent,
		TeacherFeedback:   lnk.TeacherFeedback,
		Grade:             lnk.Grade,
		AssignedAt:        lnk.AssignedAt.UTC(),
		SubmittedAt:       utcPtr(lnk.SubmittedAt),
		CreatedAt:         lnk.CreatedAt.UTC(),
		UpdatedAt:         lnk.UpdatedAt.UTC(),
	}
}

func (repo linkRepository) fromDocument(doc linkDocument) sa.Link {
	return sa.Link{
		ID:                doc.ID.Hex(),
		StudentID:         doc.StudentID.Hex(),
		AssignmentID:      doc.AssignmentID.Hex(),
		Status:            sa.Status(doc.Status),
		DueDate:           utcPtr(doc.DueDate),
		SubmissionContent: doc.SubmissionContent,
		TeacherFeedback:   doc.TeacherFeedback,
		Grade:             doc.Grade,
		AssignedAt:        doc.AssignedAt.UTC(),
		SubmittedAt:       utcPtr(doc.SubmittedAt),
		CreatedAt:         doc.CreatedAt.UTC(),
		UpdatedAt:         doc.UpdatedAt.UTC(),
	}
}

func (repo linkRepository) CreateLink(ctx context.Context, lnk sa.Link) (sa.Link, error) {
	doc := repo.toDocument(lnk)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return sa.Link{}, wrap(err, "inserting student assignment")
	}
	return repo.fromDocument(doc), nil
}

func (repo linkRepository) QueryLinks(ctx context.Context, filter sa.Filter, ordering core.DBOrdering) ([]sa.Link, error) {
	query := bson.M{}
	if filter.StudentID != "" {
		oid, ok := objectID(filter.StudentID)
		if !ok {
			return []sa.Link{}, nil
		}
		query[studentIDField] = oid
	}

	cur, err := repo.coll.Find(ctx, query, findOptions(ordering))
	if err != nil {
		return nil, wrap(err, "querying student assignments")
	}
	var docs []linkDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrap(err, "decoding student assignments")
	}

	links := make([]sa.Link, 0, len(docs))
	for _, doc := range docs {
		links = append(links, repo.fromDocument(doc))
	}
	return links, nil
}

func (repo linkRepository) GetLinkByID(ctx context.Context, id string) (sa.Link, error) {
	oid, ok := objectID(id)
	if !ok {
		return sa.Link{}, sa.ErrNotFound
	}

	var doc linkDocument
	if err := repo.coll.FindOne(ctx, bson.M{idField: oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return sa.Link{}, sa.ErrNotFound
		}
		return sa.Link{}, wrap(err, "finding student assignment by ID")
	}
	return repo.fromDocument(doc), nil
}

func (repo linkRepository) UpdateLink(ctx context.Context, lnk sa.Link) (sa.Link, error) {
	doc := repo.toDocument(lnk)
	if doc.ID.IsZero() {
		return sa.Link{}, sa.ErrNotFound
	}

	res, err := repo.coll.ReplaceOne(ctx, bson.M{idField: doc.ID}, doc)
	if err != nil {
		return sa.Link{}, wrap(err, "updating student assignment")
	}
	if res.MatchedCount == 0 {
		return sa.Link{}, sa.ErrNotFound
	}
	return repo.fromDocument(doc), nil
}

func (repo linkRepository) DeleteLink(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return sa.ErrNotFound
	}

	res, err := repo.coll.DeleteOne(ctx, bson.M{idField: oid})
	if err != nil {
		return wrap(err, "deleting student assignment")
	}
	if res.DeletedCount == 0 {
		return sa.ErrNotFound
	}
	return nil
}

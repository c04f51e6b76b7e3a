package mongorepos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/englishpoc/core"
	"github.com/trezcool/englishpoc/core/user"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Username  string             `bson:"username"`
	Role      string             `bson:"role"`
	Password  []byte             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type userRepository struct {
	coll *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{coll: db.Collection(UserCollection)}
}

func (repo userRepository) toDocument(usr user.User) userDocument {
	oid, _ := objectID(usr.ID)
	return userDocument{
		ID:        oid,
		Username:  usr.Username,
		Role:      string(usr.Role),
		Password:  usr.PasswordHash,
		CreatedAt: usr.CreatedAt.UTC(),
		UpdatedAt: usr.UpdatedAt.UTC(),
	}
}

func (repo userRepository) fromDocument(doc userDocument) user.User {
	return user.User{
		ID:           doc.ID.Hex(),
		Username:     doc.Username,
		Role:         user.Role(doc.Role),
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
}

// trapErr maps driver errors to the user package errors.
func (repo userRepository) trapErr(err error, msg string) error {
	switch {
	case isNoDocuments(err):
		return user.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return user.ErrUsernameExists
	}
	return wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username string, excludedUsers ...user.User) error {
	ids := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		ids = append(ids, usr.ID)
	}

	cnt, err := repo.coll.CountDocuments(ctx, excludeIDs(bson.M{"username": username}, ids))
	if err != nil {
		return wrap(err, "checking user uniqueness")
	}
	if cnt > 0 {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := repo.toDocument(usr)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return user.User{}, repo.trapErr(err, "inserting user")
	}
	return repo.fromDocument(doc), nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context, ordering core.DBOrdering) ([]user.User, error) {
	cur, err := repo.coll.Find(ctx, bson.M{}, findOptions(ordering))
	if err != nil {
		return nil, wrap(err, "querying users")
	}
	var docs []userDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrap(err, "decoding users")
	}

	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, repo.fromDocument(doc))
	}
	return users, nil
}

func (repo userRepository) getUser(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDocument
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return user.User{}, repo.trapErr(err, "finding user")
	}
	return repo.fromDocument(doc), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return repo.getUser(ctx, bson.M{idField: oid})
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getUser(ctx, bson.M{"username": username})
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	doc := repo.toDocument(usr)
	if doc.ID.IsZero() {
		return user.User{}, user.ErrNotFound
	}

	res, err := repo.coll.ReplaceOne(ctx, bson.M{idField: doc.ID}, doc)
	if err != nil {
		return user.User{}, repo.trapErr(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.fromDocument(doc), nil
}

func (repo userRepository) DeleteUser(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return user.ErrNotFound
	}

	res, err := repo.coll.DeleteOne(ctx, bson.M{idField: oid})
	if err != nil {
		return wrap(err, "deleting user")
	}
	if res.DeletedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

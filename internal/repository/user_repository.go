package repository

import (
	"context"
	"errors"

	"product-resource/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
)

// ErrDuplicate is returned when a username or email is already taken.
var ErrDuplicate = errors.New("duplicate")

type UserRepository struct {
	collection *mongo.Collection
}

var UserRepositoryTracer = otel.Tracer("UserRepository")

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	return err
}

func (r *UserRepository) Insert(ctx context.Context, user *model.User) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.Insert")
	defer span.End()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindByID")
	defer span.End()

	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByLogin matches either the username or the email.
func (r *UserRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindByLogin")
	defer span.End()

	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": usernameOrEmail},
		bson.M{"email": usernameOrEmail},
	}})
}

// FindByIDs loads the users that still exist among ids; missing ones are skipped.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.FindByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}
	opts := options.Find().SetProjection(bson.M{"displayName": 1, "username": 1, "roles": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := UserRepositoryTracer.Start(ctx, "UserRepository.Delete")
	defer span.End()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

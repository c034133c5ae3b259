package permission

import (
	"context"

	"go-school/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PermissionRepository interface {
	InsertMany(ctx context.Context, permissions []Permission) error
	List(ctx context.Context) ([]Permission, error)
	DeleteAll(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

type PermissionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPermissionRepository(mongodb *database.MongodbDB) PermissionRepository {
	return &PermissionRepositoryImpl{
		Collection: mongodb.DB.Collection("permissions"),
	}
}

func (r *PermissionRepositoryImpl) InsertMany(ctx context.Context, permissions []Permission) error {
	docs := make([]interface{}, 0, len(permissions))
	for _, p := range permissions {
		docs = append(docs, p)
	}
	_, err := r.Collection.InsertMany(ctx, docs)
	return err
}

func (r *PermissionRepositoryImpl) List(ctx context.Context) ([]Permission, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var permissions []Permission
	if err = cursor.All(ctx, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *PermissionRepositoryImpl) DeleteAll(ctx context.Context) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{})
	return err
}

func (r *PermissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

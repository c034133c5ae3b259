package role

import (
	"context"

	"go-school/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	UpsertByName(ctx context.Context, role *Role) error
	FindByID(ctx context.Context, id string) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]Role, error)
	DeleteAll(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection("roles"),
	}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *Role) error {
	_, err := r.Collection.InsertOne(ctx, role)
	return err
}

// UpsertByName writes the role keyed by its name, preserving the
// existing document's _id so user references stay valid across reseeds.
func (r *RoleRepositoryImpl) UpsertByName(ctx context.Context, role *Role) error {
	update := bson.M{
		"$set": bson.M{
			"description":   role.Description,
			"permissions":   role.Permissions,
			"level":         role.Level,
			"is_super_role": role.IsSuperRole,
			"is_active":     role.IsActive,
			"updated_at":    role.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        role.ID,
			"name":       role.Name,
			"created_at": role.CreatedAt,
		},
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"name": role.Name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return err
	}
	if res.UpsertedID == nil {
		existing, err := r.FindByName(ctx, role.Name)
		if err != nil {
			return err
		}
		role.ID = existing.ID
	}
	return nil
}

func (r *RoleRepositoryImpl) FindByID(ctx context.Context, id string) (*Role, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments // malformed id matches no document
	}

	var role Role
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) FindByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]Role, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "level", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []Role
	if err = cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) DeleteAll(ctx context.Context) error {
	_, err := r.Collection.DeleteMany(ctx, bson.M{})
	return err
}

func (r *RoleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

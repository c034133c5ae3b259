package user

import (
	"context"
	"strings"
	"time"

	"go-school/internal/common/models"
	"go-school/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusTypeCount is one bucket of the approval stats aggregation.
type StatusTypeCount struct {
	UserType models.UserType       `bson:"user_type"`
	Status   models.ApprovalStatus `bson:"approval_status"`
	Count    int64                 `bson:"count"`
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]models.User, int64, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	ApproveIfPending(ctx context.Context, id, adminID, notes string, at time.Time) (bool, error)
	RejectIfPending(ctx context.Context, id, adminID, reason string, at time.Time) (bool, error)
	BulkApproveIfPending(ctx context.Context, ids []string, adminID, notes string, at time.Time) (int64, error)
	CountByStatusAndType(ctx context.Context) ([]StatusTypeCount, error)
	EnsureIndexes(ctx context.Context) error
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	_, err := r.Collection.InsertOne(ctx, user)
	return err
}

// FindByID treats a malformed id like an id that matches no document:
// no stored _id can equal it, so callers see the same NotFound path
// either way.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var user models.User
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin matches either username or email. Emails are stored
// lowercase, so the email branch compares case-insensitively.
func (r *UserRepositoryImpl) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"$or": []bson.M{
		{"username": login},
		{"email": strings.ToLower(login)},
	}}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]models.User, int64, error) {
	query := bson.M{}
	for k, v := range filter {
		query[k] = v
	}

	total, err := r.Collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"last_login": at, "updated_at": at},
	})
	return err
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now()},
	})
	return err
}

// ApproveIfPending flips a pending user to approved. The pending filter
// makes the transition a compare-and-set: of two racing calls exactly one
// observes a modified document.
func (r *UserRepositoryImpl) ApproveIfPending(ctx context.Context, id, adminID, notes string, at time.Time) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil // matches no document, same as a CAS miss
	}
	adminOID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return false, err
	}

	set := bson.M{
		"approval_status": models.ApprovalStatusApproved,
		"is_active":       true,
		"approved_by":     adminOID,
		"approved_at":     at,
		"updated_at":      at,
	}
	if notes != "" {
		set["approval_notes"] = notes
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "approval_status": models.ApprovalStatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// RejectIfPending flips a pending user to rejected under the same
// compare-and-set guard as ApproveIfPending.
func (r *UserRepositoryImpl) RejectIfPending(ctx context.Context, id, adminID, reason string, at time.Time) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil // matches no document, same as a CAS miss
	}
	adminOID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return false, err
	}

	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "approval_status": models.ApprovalStatusPending},
		bson.M{"$set": bson.M{
			"approval_status":  models.ApprovalStatusRejected,
			"is_active":        false,
			"approved_by":      adminOID,
			"approved_at":      at,
			"rejection_reason": reason,
			"updated_at":       at,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// BulkApproveIfPending approves every listed user still pending and
// returns the number actually modified. Ids already processed are
// skipped by the per-document pending filter, not reported as errors.
func (r *UserRepositoryImpl) BulkApproveIfPending(ctx context.Context, ids []string, adminID, notes string, at time.Time) (int64, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue // unknown ids are skipped, matching single-approve semantics for the bulk path
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return 0, nil
	}

	adminOID, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return 0, err
	}

	set := bson.M{
		"approval_status": models.ApprovalStatusApproved,
		"is_active":       true,
		"approved_by":     adminOID,
		"approved_at":     at,
		"updated_at":      at,
	}
	if notes != "" {
		set["approval_notes"] = notes
	}

	res, err := r.Collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": objectIDs}, "approval_status": models.ApprovalStatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *UserRepositoryImpl) CountByStatusAndType(ctx context.Context) ([]StatusTypeCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"user_type": "$user_type", "approval_status": "$approval_status"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":             0,
			"user_type":       "$_id.user_type",
			"approval_status": "$_id.approval_status",
			"count":           1,
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []StatusTypeCount
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *UserRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "approval_status", Value: 1}, {Key: "user_type", Value: 1}},
		},
	})
	return err
}

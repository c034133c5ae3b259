package audit

import (
	"context"

	"go-school/internal/common/models"
	"go-school/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByRecord(ctx context.Context, subject, recordID string, limit int64) ([]models.AuditLog, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, entry *models.AuditLog) error {
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *AuditRepositoryImpl) ListByRecord(ctx context.Context, subject, recordID string, limit int64) ([]models.AuditLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{"subject": subject, "record_id": recordID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLog
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

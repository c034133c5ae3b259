package approval

import (
	"context"
	"time"

	"go-school/internal/database"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *StatsSnapshot) error
	Latest(ctx context.Context, limit int64) ([]StatsSnapshot, error)
}

type SnapshotRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSnapshotRepository(mongodb *database.MongodbDB) SnapshotRepository {
	return &SnapshotRepositoryImpl{
		Collection: mongodb.DB.Collection("approval_stats_snapshots"),
	}
}

func (r *SnapshotRepositoryImpl) Create(ctx context.Context, snapshot *StatsSnapshot) error {
	_, err := r.Collection.InsertOne(ctx, snapshot)
	return err
}

func (r *SnapshotRepositoryImpl) Latest(ctx context.Context, limit int64) ([]StatsSnapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snapshots []StatsSnapshot
	if err = cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// SnapshotScheduler persists a daily copy of the approval stats so the
// admin dashboard can chart the backlog over time.
type SnapshotScheduler struct {
	ApprovalService ApprovalService
	SnapshotRepo    SnapshotRepository
	Logger          *zap.Logger
	cron            *cron.Cron
}

func NewSnapshotScheduler(approvalService ApprovalService, snapshotRepo SnapshotRepository, logger *zap.Logger) *SnapshotScheduler {
	return &SnapshotScheduler{
		ApprovalService: approvalService,
		SnapshotRepo:    snapshotRepo,
		Logger:          logger,
	}
}

// Start schedules the daily snapshot job (midnight server time).
func (s *SnapshotScheduler) Start(ctx context.Context) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc("0 0 * * *", s.takeSnapshot); err != nil {
		return err
	}
	s.cron.Start()
	s.Logger.Info("approval stats snapshot scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *SnapshotScheduler) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	return nil
}

func (s *SnapshotScheduler) takeSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.ApprovalService.Stats(ctx)
	if err != nil {
		s.Logger.Error("failed to compute stats snapshot", zap.Error(err))
		return
	}

	snapshot := &StatsSnapshot{
		ID:        primitive.NewObjectID(),
		Stats:     *stats,
		CreatedAt: time.Now(),
	}
	if err := s.SnapshotRepo.Create(ctx, snapshot); err != nil {
		s.Logger.Error("failed to persist stats snapshot", zap.Error(err))
		return
	}

	s.Logger.Info("approval stats snapshot saved",
		zap.Int64("pending", stats.Overall.Pending),
		zap.Int64("approved", stats.Overall.Approved),
		zap.Int64("rejected", stats.Overall.Rejected))
}

package database

import (
	"context"
	"fmt"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// StatsRepository guarda los snapshots diarios de estadísticas
type StatsRepository struct {
	collection *mongo.Collection
}

// NewStatsRepository crea una nueva instancia de StatsRepository
func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{
		collection: db.Collection("stats"),
	}
}

// Insert guarda un snapshot diario
func (r *StatsRepository) Insert(ctx context.Context, stats *models.DailyStats) error {
	stats.ID = primitive.NewObjectID()
	stats.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, stats)
	if err != nil {
		return fmt.Errorf("error al guardar las estadísticas: %w", err)
	}

	return nil
}

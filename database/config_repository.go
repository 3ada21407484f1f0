package database

import (
	"context"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const courtConfigKey = "courts"

// ConfigRepository gestiona el documento de configuración de canchas
type ConfigRepository struct {
	collection   *mongo.Collection
	defaultCount int
}

// NewConfigRepository crea un nuevo repositorio de configuración
func NewConfigRepository(db *mongo.Database, defaultCount int) *ConfigRepository {
	return &ConfigRepository{
		collection:   db.Collection("config"),
		defaultCount: defaultCount,
	}
}

// GetCourtCount obtiene la cantidad configurada de canchas, creando el
// documento con el valor por defecto si no existe todavía
func (r *ConfigRepository) GetCourtCount(ctx context.Context) (int, error) {
	var cfg models.CourtConfig

	err := r.collection.FindOne(ctx, bson.M{"key": courtConfigKey}).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			defaultCfg := models.CourtConfig{
				Key:       courtConfigKey,
				Count:     r.defaultCount,
				UpdatedAt: time.Now(),
			}

			_, err = r.collection.InsertOne(ctx, defaultCfg)
			if err != nil {
				return 0, err
			}

			return r.defaultCount, nil
		}
		return 0, err
	}

	return cfg.Count, nil
}

// SetCourtCount persiste la cantidad configurada de canchas
func (r *ConfigRepository) SetCourtCount(ctx context.Context, count int, updatedBy string) error {
	filter := bson.M{"key": courtConfigKey}
	update := bson.M{
		"$set": bson.M{
			"count":      count,
			"updated_at": time.Now(),
			"updated_by": updatedBy,
		},
		"$setOnInsert": bson.M{
			"key": courtConfigKey,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

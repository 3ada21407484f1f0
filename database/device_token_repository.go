package database

import (
	"context"
	"fmt"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeviceTokenRepository gestiona los tokens FCM por dispositivo
type DeviceTokenRepository struct {
	collection *mongo.Collection
}

// NewDeviceTokenRepository crea una nueva instancia de DeviceTokenRepository
func NewDeviceTokenRepository(db *mongo.Database) *DeviceTokenRepository {
	return &DeviceTokenRepository{
		collection: db.Collection("device_tokens"),
	}
}

// Upsert guarda el último token conocido de un dispositivo
func (r *DeviceTokenRepository) Upsert(token *models.DeviceToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"device_id": token.DeviceID}
	update := bson.M{
		"$set": bson.M{
			"token":      token.Token,
			"user_agent": token.UserAgent,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"device_id":  token.DeviceID,
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error al registrar el token: %w", err)
	}

	return nil
}

// FindByDevice busca el token de un dispositivo
func (r *DeviceTokenRepository) FindByDevice(deviceID string) (*models.DeviceToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var token models.DeviceToken
	err := r.collection.FindOne(ctx, bson.M{"device_id": deviceID}).Decode(&token)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar el token: %w", err)
	}

	return &token, nil
}

// DeleteByTokens elimina los registros cuyos tokens el proveedor reportó
// inválidos (la misma pasada de poda que limpia las suscripciones)
func (r *DeviceTokenRepository) DeleteByTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	_, err := r.collection.DeleteMany(ctx, bson.M{"token": bson.M{"$in": tokens}})
	if err != nil {
		return fmt.Errorf("error al eliminar los tokens: %w", err)
	}

	return nil
}

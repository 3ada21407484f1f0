package database

import (
	"context"
	"fmt"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WebPushRepository gestiona los abonados del canal Web Push (legado)
type WebPushRepository struct {
	collection *mongo.Collection
}

// NewWebPushRepository crea una nueva instancia de WebPushRepository
func NewWebPushRepository(db *mongo.Database) *WebPushRepository {
	return &WebPushRepository{
		collection: db.Collection("webpush_subscriptions"),
	}
}

// Create crea un abono Web Push. El endpoint es único: re-abonarse con el
// mismo endpoint es un no-op.
func (r *WebPushRepository) Create(sub *models.WebPushSubscription) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := r.FindByEndpoint(sub.Endpoint)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = time.Now()

	_, err = r.collection.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("error al crear el abono web push: %w", err)
	}

	return nil
}

// FindByEndpoint busca un abono por su endpoint
func (r *WebPushRepository) FindByEndpoint(endpoint string) (*models.WebPushSubscription, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sub models.WebPushSubscription
	err := r.collection.FindOne(ctx, bson.M{"endpoint": endpoint}).Decode(&sub)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar el abono web push: %w", err)
	}

	return &sub, nil
}

// FindByCourt retorna los abonados Web Push de una cancha
func (r *WebPushRepository) FindByCourt(ctx context.Context, courtNumber int) ([]models.WebPushSubscription, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"court_number": courtNumber})
	if err != nil {
		return nil, fmt.Errorf("error al buscar los abonados web push: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.WebPushSubscription
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error al decodificar los abonados web push: %w", err)
	}

	return subs, nil
}

// DeleteByEndpoint elimina un abono (endpoint dado de baja o inválido)
func (r *WebPushRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"endpoint": endpoint})
	if err != nil {
		return fmt.Errorf("error al eliminar el abono web push: %w", err)
	}
	return nil
}

// DeleteByCourtAndDevice elimina los abonos de un dispositivo a una cancha
func (r *WebPushRepository) DeleteByCourtAndDevice(ctx context.Context, courtNumber int, deviceID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{
		"court_number": courtNumber,
		"device_id":    deviceID,
	})
	if err != nil {
		return fmt.Errorf("error al eliminar los abonos web push: %w", err)
	}
	return nil
}

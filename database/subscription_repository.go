package database

import (
	"context"
	"fmt"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubscriptionRepository gestiona las suscripciones del pager
type SubscriptionRepository struct {
	collection *mongo.Collection
}

// NewSubscriptionRepository crea una nueva instancia de SubscriptionRepository
func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("subscriptions"),
	}
}

// Upsert crea la suscripción si no existe. El índice único
// (court_number, device_id) hace que suscribirse dos veces sea un no-op:
// dos pestañas suscribiéndose a la vez terminan en una sola fila.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	filter, update := subscriptionUpsertDoc(sub, time.Now())

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error al crear la suscripción: %w", err)
	}

	return nil
}

// subscriptionUpsertDoc arma el filtro y la actualización del upsert. El
// filtro usa la clave (court_number, device_id): suscribirse de nuevo pisa
// el snapshot del token pero nunca crea una segunda fila, y el
// subscribed_at original se conserva.
func subscriptionUpsertDoc(sub *models.Subscription, now time.Time) (bson.M, bson.M) {
	filter := bson.M{
		"court_number": sub.CourtNumber,
		"device_id":    sub.DeviceID,
	}
	update := bson.M{
		"$set": bson.M{
			"fcm_token": sub.FCMToken,
		},
		"$setOnInsert": bson.M{
			"court_number":  sub.CourtNumber,
			"device_id":     sub.DeviceID,
			"subscribed_at": now,
		},
	}
	return filter, update
}

// FindByCourt retorna todas las suscripciones de una cancha
func (r *SubscriptionRepository) FindByCourt(ctx context.Context, courtNumber int) ([]models.Subscription, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"court_number": courtNumber})
	if err != nil {
		return nil, fmt.Errorf("error al buscar las suscripciones: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error al decodificar las suscripciones: %w", err)
	}

	return subs, nil
}

// FindByDevice retorna todas las suscripciones de un dispositivo
func (r *SubscriptionRepository) FindByDevice(ctx context.Context, deviceID string) ([]models.Subscription, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"device_id": deviceID})
	if err != nil {
		return nil, fmt.Errorf("error al buscar las suscripciones: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error al decodificar las suscripciones: %w", err)
	}

	return subs, nil
}

// DeleteByCourtAndDevice elimina la suscripción de un dispositivo a una
// cancha. No afecta otras canchas ni otros dispositivos.
func (r *SubscriptionRepository) DeleteByCourtAndDevice(ctx context.Context, courtNumber int, deviceID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{
		"court_number": courtNumber,
		"device_id":    deviceID,
	})
	if err != nil {
		return fmt.Errorf("error al eliminar la suscripción: %w", err)
	}
	return nil
}

// DeleteByTokens elimina todas la suscripciones cuyo token coincida con
// alguno de los tokens dados, en TODAS las canchas: un token que el
// proveedor reporta como inválido está muerto para cualquier fila que lo
// referencie. Una sola escritura por pasada de limpieza.
func (r *SubscriptionRepository) DeleteByTokens(ctx context.Context, tokens []string) (int, error) {
	if len(tokens) == 0 {
		return 0, nil
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{
		"fcm_token": bson.M{"$in": tokens},
	})
	if err != nil {
		return 0, fmt.Errorf("error al podar los tokens inválidos: %w", err)
	}

	return int(result.DeletedCount), nil
}

// UpdateTokenForDevice refresca el snapshot de token en todas las
// suscripciones existentes de un dispositivo (el token rota al re-registrar)
func (r *SubscriptionRepository) UpdateTokenForDevice(ctx context.Context, deviceID, token string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"device_id": deviceID},
		bson.M{"$set": bson.M{"fcm_token": token}},
	)
	if err != nil {
		return fmt.Errorf("error al refrescar el token: %w", err)
	}
	return nil
}

// CountByCourt retorna la cantidad de suscriptores de una cancha
func (r *SubscriptionRepository) CountByCourt(ctx context.Context, courtNumber int) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"court_number": courtNumber})
	if err != nil {
		return 0, fmt.Errorf("error al contar los suscriptores: %w", err)
	}
	return int(count), nil
}

// CountDistinctDevices retorna la cantidad de dispositivos únicos suscriptos
func (r *SubscriptionRepository) CountDistinctDevices(ctx context.Context) (int, error) {
	devices, err := r.collection.Distinct(ctx, "device_id", bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error al contar los dispositivos: %w", err)
	}
	return len(devices), nil
}

// DeleteOlderThan elimina las suscripciones anteriores a la fecha dada
// (limpieza semanal de suscripciones abandonadas)
func (r *SubscriptionRepository) DeleteOlderThan(ctx context.Context, t time.Time) (int, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"subscribed_at": bson.M{"$lt": primitive.NewDateTimeFromTime(t)},
	})
	if err != nil {
		return 0, fmt.Errorf("error al limpiar las suscripciones antiguas: %w", err)
	}
	return int(result.DeletedCount), nil
}

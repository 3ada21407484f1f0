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

// NotificationRepository gestiona las intenciones de notificación.
// Los documentos nunca se borran: son el registro de auditoría.
type NotificationRepository struct {
	collection *mongo.Collection
}

// NewNotificationRepository crea una nueva instancia de NotificationRepository
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// Create inserta una nueva intención en estado created
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.Status = models.NotificationStatusCreated
	n.SentAt = time.Now()

	_, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("error al crear la notificación: %w", err)
	}

	return nil
}

// Claim intenta la transición created → dispatching. Retorna false si la
// intención ya fue reclamada o está en un estado terminal: cada intención
// recibe a lo sumo una pasada de despacho por reclamo.
func (r *NotificationRepository) Claim(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.NotificationStatusCreated},
		bson.M{"$set": bson.M{"status": models.NotificationStatusDispatching}},
	)
	if err != nil {
		return false, fmt.Errorf("error al reclamar la notificación: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// MarkCompleted registra los contadores finales y el estado terminal completed
func (r *NotificationRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, sent, failed int) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.NotificationStatusDispatching},
		bson.M{"$set": bson.M{
			"status":       models.NotificationStatusCompleted,
			"sent_count":   sent,
			"failed_count": failed,
			"processed_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("error al completar la notificación: %w", err)
	}
	return nil
}

// MarkFailed registra el error y el estado terminal failed. Una intención
// fallida no se reintenta desde acá: eso es responsabilidad del disparador.
func (r *NotificationRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, errMsg string) error {
	now := time.Now()
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.NotificationStatusDispatching},
		bson.M{"$set": bson.M{
			"status":       models.NotificationStatusFailed,
			"error":        errMsg,
			"processed_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("error al marcar la notificación fallida: %w", err)
	}
	return nil
}

// FindByID busca una intención por su id
func (r *NotificationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&n)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error al buscar la notificación: %w", err)
	}

	return &n, nil
}

// FindPending retorna las intenciones todavía en estado created, más
// antiguas que el umbral dado (barrido at-least-once del cron)
func (r *NotificationRepository) FindPending(ctx context.Context, olderThan time.Time) ([]models.Notification, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"status":  models.NotificationStatusCreated,
		"sent_at": bson.M{"$lt": primitive.NewDateTimeFromTime(olderThan)},
	})
	if err != nil {
		return nil, fmt.Errorf("error al buscar las notificaciones pendientes: %w", err)
	}
	defer cursor.Close(ctx)

	var pending []models.Notification
	if err = cursor.All(ctx, &pending); err != nil {
		return nil, fmt.Errorf("error al decodificar las notificaciones: %w", err)
	}

	return pending, nil
}

// FindAll retorna el historial de notificaciones, las más recientes primero
func (r *NotificationRepository) FindAll(ctx context.Context, limit int) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error al buscar las notificaciones: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("error al decodificar las notificaciones: %w", err)
	}

	return notifications, nil
}

// FindSince retorna las notificaciones creadas desde la fecha dada
func (r *NotificationRepository) FindSince(ctx context.Context, t time.Time) ([]models.Notification, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"sent_at": bson.M{"$gte": primitive.NewDateTimeFromTime(t)},
	})
	if err != nil {
		return nil, fmt.Errorf("error al buscar las notificaciones: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("error al decodificar las notificaciones: %w", err)
	}

	return notifications, nil
}

// CountSince retorna la cantidad de notificaciones desde la fecha dada
func (r *NotificationRepository) CountSince(ctx context.Context, t time.Time) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"sent_at": bson.M{"$gte": primitive.NewDateTimeFromTime(t)},
	})
	if err != nil {
		return 0, fmt.Errorf("error al contar las notificaciones: %w", err)
	}
	return int(count), nil
}

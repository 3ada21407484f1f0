package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Estados de una notificación. created → dispatching → {completed | failed},
// los estados terminales nunca vuelven atrás.
const (
	NotificationStatusCreated     = "created"
	NotificationStatusDispatching = "dispatching"
	NotificationStatusCompleted   = "completed"
	NotificationStatusFailed      = "failed"
)

// Notification representa la intención durable de notificar una cancha
// disponible. Nunca se borra: es el registro de auditoría. El despachador
// es el único que muta los campos de resultado.
type Notification struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourtNumber     int                `json:"court_number" bson:"court_number"`
	Message         string             `json:"message" bson:"message"`
	SubscriberCount int                `json:"subscriber_count" bson:"subscriber_count"` // Snapshot al momento del envío
	Status          string             `json:"status" bson:"status"`
	SentCount       int                `json:"sent_count" bson:"sent_count"`
	FailedCount     int                `json:"failed_count" bson:"failed_count"`
	Error           string             `json:"error,omitempty" bson:"error,omitempty"`
	SentBy          string             `json:"sent_by" bson:"sent_by"` // Email del admin
	SentAt          time.Time          `json:"sent_at" bson:"sent_at"`
	ProcessedAt     *time.Time         `json:"processed_at,omitempty" bson:"processed_at,omitempty"`
}

// CreateNotificationRequest representa la solicitud admin para notificar una cancha
type CreateNotificationRequest struct {
	Message string `json:"message,omitempty"`
}

// PushNotification es el contenido de un push de cancha disponible
type PushNotification struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Icon  string            `json:"icon,omitempty"`
	Badge string            `json:"badge,omitempty"`
	Tag   string            `json:"tag,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

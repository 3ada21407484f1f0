package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription representa la suscripción de un dispositivo a una cancha.
// La unicidad por (court_number, device_id) se garantiza con un índice
// compuesto único en la colección.
type Subscription struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourtNumber  int                `json:"court_number" bson:"court_number"`
	DeviceID     string             `json:"device_id" bson:"device_id"`
	FCMToken     string             `json:"fcm_token,omitempty" bson:"fcm_token,omitempty"` // Snapshot del token al suscribirse, puede estar vacío
	SubscribedAt time.Time          `json:"subscribed_at" bson:"subscribed_at"`
}

// SubscribeRequest representa la solicitud de suscripción del pager.
// Acepta un número de cancha directo o un código impreso (AJUPAM-CANCHA-XX).
type SubscribeRequest struct {
	DeviceID    string `json:"device_id"`
	CourtNumber int    `json:"court_number,omitempty"`
	Code        string `json:"code,omitempty"`
}

// UnsubscribeRequest representa la solicitud de desuscripción
type UnsubscribeRequest struct {
	DeviceID    string `json:"device_id"`
	CourtNumber int    `json:"court_number"`
}

// SubscriptionListResponse es la respuesta con las canchas suscriptas de un dispositivo
type SubscriptionListResponse struct {
	DeviceID string `json:"device_id"`
	Courts   []int  `json:"courts"`
}

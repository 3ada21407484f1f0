package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WebPushSubscription representa un abonado por el canal Web Push (VAPID),
// para navegadores donde FCM no está disponible. Canal secundario.
type WebPushSubscription struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CourtNumber int                `json:"court_number" bson:"court_number"`
	DeviceID    string             `json:"device_id" bson:"device_id"`
	Endpoint    string             `json:"endpoint" bson:"endpoint"`
	Keys        PushKeys           `json:"keys" bson:"keys"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// PushKeys contiene las claves de cifrado del abonado Web Push
type PushKeys struct {
	P256dh string `json:"p256dh" bson:"p256dh"`
	Auth   string `json:"auth" bson:"auth"`
}

// WebPushSubscribeRequest representa la solicitud de abono Web Push
type WebPushSubscribeRequest struct {
	DeviceID     string `json:"device_id"`
	CourtNumber  int    `json:"court_number"`
	Subscription struct {
		Endpoint string   `json:"endpoint"`
		Keys     PushKeys `json:"keys"`
	} `json:"subscription"`
}

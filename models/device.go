package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceToken representa el último token FCM conocido de un dispositivo.
// El token puede rotar en cualquier momento: no es único por dispositivo
// a lo largo del tiempo y se poda de forma independiente del device_id.
type DeviceToken struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DeviceID  string             `json:"device_id" bson:"device_id"`
	Token     string             `json:"token" bson:"token"`
	UserAgent string             `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// RegisterTokenRequest representa la solicitud de registro de token FCM
type RegisterTokenRequest struct {
	DeviceID  string `json:"device_id"`
	FCMToken  string `json:"fcm_token"`
	UserAgent string `json:"user_agent,omitempty"`
}

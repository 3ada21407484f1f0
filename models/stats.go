package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyStats es el snapshot diario generado por el cron de mantenimiento
type DailyStats struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Date                 time.Time          `json:"date" bson:"date"`
	TotalNotifications   int                `json:"total_notifications" bson:"total_notifications"`
	NotificationsByCourt map[string]int     `json:"notifications_by_court" bson:"notifications_by_court"`
	TotalSubscribers     int                `json:"total_subscribers" bson:"total_subscribers"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at"`
}

// StatsResponse es la respuesta del dashboard admin
type StatsResponse struct {
	TotalSubscribers   int `json:"total_subscribers"`
	NotificationsToday int `json:"notifications_today"`
	ActiveCourts       int `json:"active_courts"`
}

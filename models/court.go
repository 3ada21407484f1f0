package models

import (
	"time"
)

// Court representa una cancha de pádel identificada por su número
type Court struct {
	Number    int       `json:"number" bson:"number"` // Número denso 1..N, clave de identidad
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CourtView es la vista pública de una cancha con su cantidad de suscriptores
type CourtView struct {
	Number      int  `json:"number"`
	Active      bool `json:"active"`
	Subscribers int  `json:"subscribers"`
}

// CourtConfig es el documento de configuración global de canchas
type CourtConfig struct {
	Key       string    `json:"key" bson:"key"` // Siempre "courts"
	Count     int       `json:"count" bson:"count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

// SetCourtCountRequest representa la solicitud de configuración de cantidad de canchas
type SetCourtCountRequest struct {
	Count int `json:"count"`
}

// ToggleCourtRequest representa la solicitud para activar/desactivar una cancha
type ToggleCourtRequest struct {
	Active bool `json:"active"`
}

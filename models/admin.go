package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin representa un administrador del club. No hay roles más allá de
// "autenticado o no": todo admin puede operar la consola completa.
type Admin struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"` // El "-" evita serializar el hash
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// LoginRequest representa la solicitud de inicio de sesión
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse representa la respuesta de autenticación
type AuthResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse representa una respuesta de éxito genérica
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

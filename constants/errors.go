package constants

// Mensajes de error HTTP comunes
const (
	ErrMethodNotAllowed   = "Método no permitido"
	ErrServerError        = "Error del servidor"
	ErrInvalidData        = "Datos inválidos"
	ErrNotAuthenticated   = "No autenticado"
	ErrInvalidToken       = "Token inválido"
	ErrInvalidCourtNumber = "Número de cancha inválido"
	ErrCourtNotFound      = "La cancha no existe"
	ErrCourtInactive      = "La cancha está desactivada"
	ErrInvalidCode        = "Código inválido"
	ErrDeviceIDRequired   = "device_id es requerido"
	ErrNoSubscribers      = "No hay suscriptores para esta cancha"
	ErrInvalidCredentials = "Credenciales inválidas"
	ErrNotInProduction    = "No disponible en producción"
)

// Encabezados HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
)

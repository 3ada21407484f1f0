package handlers

import (
	"net/http"
	"runtime"
	"time"

	"ajupam-pager/database"
	"ajupam-pager/utils"
)

var startTime = time.Now()

// HealthHandler gestiona el endpoint de salud
type HealthHandler struct {
	environment string
}

// NewHealthHandler crea un nuevo HealthHandler
func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{environment: environment}
}

// Health retorna el estado del servidor con métricas
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(startTime).String()

	// Verificar la conexión a MongoDB
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "error"
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"message":    "El servidor funciona correctamente",
		"env":        h.environment,
		"database":   "MongoDB",
		"db_status":  dbStatus,
		"uptime":     uptime,
		"go_version": runtime.Version(),
	})
}

package utils

import (
	"encoding/json"
	"net/http"

	"ajupam-pager/models"
)

// RespondJSON envía una respuesta JSON
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	// Asegurar que los encabezados no estén ya escritos
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	// Escribir el código de estado
	if statusCode > 0 {
		w.WriteHeader(statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	// Codificar y enviar los datos
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Si la codificación falla, intentar enviar un error simple,
			// pero solo si los encabezados no fueron escritos todavía
			if statusCode == http.StatusOK {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal Server Error","message":"Error al codificar JSON"}`))
			}
		}
	}
}

// RespondError envía una respuesta de error JSON
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// RespondSuccess envía una respuesta de éxito JSON
func RespondSuccess(w http.ResponseWriter, message string, data interface{}) {
	RespondJSON(w, http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

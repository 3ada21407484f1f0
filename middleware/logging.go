package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"ajupam-pager/services"
)

// responseWriter envuelve al ResponseWriter para capturar el status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// isCriticalError determina si un error amerita una alerta en Slack.
// Los errores de servidor (5xx) y los rechazos CORS (403) sí; los errores
// de usuario (400, 401, 404, etc.) no.
func isCriticalError(statusCode int) bool {
	if statusCode >= http.StatusInternalServerError {
		return true
	}

	// Un 403 suele indicar un problema de configuración CORS
	if statusCode == http.StatusForbidden {
		return true
	}

	return false
}

// Logging registra las peticiones HTTP y alerta por Slack los errores críticos
func Logging(slackService *services.SlackService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode

			// Loguear todos los errores
			if statusCode >= http.StatusBadRequest {
				log.Printf(
					"⚠️ %s %s -> %d (%s)",
					r.Method,
					r.RequestURI,
					statusCode,
					duration,
				)

				if isCriticalError(statusCode) && slackService != nil {
					origin := r.Header.Get("Origin")
					userAgent := r.Header.Get("User-Agent")
					statusCodeStr := strconv.Itoa(statusCode)

					if statusCode >= http.StatusInternalServerError {
						errorMessage := http.StatusText(statusCode)
						slackService.SendCriticalError(r.Method, r.RequestURI, statusCodeStr, errorMessage, origin, userAgent)
					} else if statusCode == http.StatusForbidden {
						if origin != "" {
							// Probablemente un rechazo CORS
							slackService.SendCORSError(r.Method, r.RequestURI, origin, userAgent)
						} else {
							slackService.SendCriticalError(r.Method, r.RequestURI, statusCodeStr, "Acceso denegado", origin, userAgent)
						}
					}
				}
			}
		})
	}
}

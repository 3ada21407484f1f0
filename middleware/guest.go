package middleware

import (
	"net/http"
	"strings"

	"ajupam-pager/utils"
)

// Guest verifica que el cliente NO esté autenticado.
// Si hay un token válido presente, rechaza el acceso.
func Guest(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			// Sin encabezado Authorization: continuar (cliente no autenticado)
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				// Formato inválido, continuar (no hay token válido)
				next.ServeHTTP(w, r)
				return
			}

			tokenString := parts[1]

			_, err := utils.ValidateToken(tokenString, jwtSecret)
			if err == nil {
				// Token válido = sesión ya iniciada
				utils.RespondError(w, http.StatusForbidden, "Ya tenés una sesión iniciada")
				return
			}

			// Token inválido o expirado: normal para un nuevo login
			next.ServeHTTP(w, r)
		})
	}
}

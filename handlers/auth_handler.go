package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"ajupam-pager/constants"
	"ajupam-pager/database"
	"ajupam-pager/models"
	"ajupam-pager/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// AuthHandler gestiona la autenticación de los administradores
type AuthHandler struct {
	adminRepo *database.AdminRepository
	jwtSecret string
}

// NewAuthHandler crea una nueva instancia de AuthHandler
func NewAuthHandler(db *mongo.Database, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		adminRepo: database.NewAdminRepository(db),
		jwtSecret: jwtSecret,
	}
}

// Login autentica a un admin y emite un token JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := utils.ValidateEmail(req.Email); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "La contraseña es requerida")
		return
	}

	admin, err := h.adminRepo.FindByEmail(req.Email)
	if err != nil {
		log.Printf("Error al buscar el admin: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Mismo mensaje para email inexistente y contraseña incorrecta
	if admin == nil || !utils.CheckPassword(admin.Password, req.Password) {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(admin.ID.Hex(), admin.Email, h.jwtSecret)
	if err != nil {
		log.Printf("Error al generar el token: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🔐 Sesión iniciada: %s", admin.Email)
	utils.RespondJSON(w, http.StatusOK, models.AuthResponse{
		Token: token,
		Admin: *admin,
	})
}

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

// FCMHandler gestiona el registro de tokens FCM de los dispositivos
type FCMHandler struct {
	deviceTokenRepo  *database.DeviceTokenRepository
	subscriptionRepo *database.SubscriptionRepository
	vapidKey         string
}

// NewFCMHandler crea una nueva instancia de FCMHandler
func NewFCMHandler(db *mongo.Database, vapidKey string) *FCMHandler {
	return &FCMHandler{
		deviceTokenRepo:  database.NewDeviceTokenRepository(db),
		subscriptionRepo: database.NewSubscriptionRepository(db),
		vapidKey:         vapidKey,
	}
}

// VAPIDKey expone la clave pública que el cliente necesita para pedir su
// token FCM
func (h *FCMHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"vapid_key": h.vapidKey,
	})
}

// RegisterToken registra o renueva el token FCM de un dispositivo. Los
// tokens rotan: el registro actualiza también el snapshot de todas las
// suscripciones existentes del dispositivo.
func (h *FCMHandler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	var req models.RegisterTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.DeviceID == "" || req.FCMToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "device_id y fcm_token son requeridos")
		return
	}

	token := &models.DeviceToken{
		DeviceID:  req.DeviceID,
		Token:     req.FCMToken,
		UserAgent: req.UserAgent,
	}

	if err := h.deviceTokenRepo.Upsert(token); err != nil {
		log.Printf("Error al registrar el token FCM: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Refrescar el snapshot en las suscripciones que ya existen
	if err := h.subscriptionRepo.UpdateTokenForDevice(r.Context(), req.DeviceID, req.FCMToken); err != nil {
		log.Printf("⚠️  Error al refrescar el token en las suscripciones: %v", err)
	}

	log.Printf("📲 Token FCM registrado para el dispositivo %s", req.DeviceID)
	utils.RespondSuccess(w, "Token registrado", nil)
}

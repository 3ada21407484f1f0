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

// WebPushHandler gestiona el canal Web Push legado (VAPID), para
// navegadores donde FCM no está disponible
type WebPushHandler struct {
	webpushRepo    *database.WebPushRepository
	vapidPublicKey string
}

// NewWebPushHandler crea una nueva instancia de WebPushHandler
func NewWebPushHandler(db *mongo.Database, vapidPublicKey string) *WebPushHandler {
	return &WebPushHandler{
		webpushRepo:    database.NewWebPushRepository(db),
		vapidPublicKey: vapidPublicKey,
	}
}

// VAPIDPublicKey retorna la clave pública VAPID del servidor
func (h *WebPushHandler) VAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"public_key": h.vapidPublicKey,
	})
}

// Subscribe registra un abono Web Push para una cancha
func (h *WebPushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	var req models.WebPushSubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.DeviceID == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrDeviceIDRequired)
		return
	}
	if req.CourtNumber <= 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidCourtNumber)
		return
	}
	if req.Subscription.Endpoint == "" || req.Subscription.Keys.P256dh == "" || req.Subscription.Keys.Auth == "" {
		utils.RespondError(w, http.StatusBadRequest, "El abono push está incompleto")
		return
	}

	sub := &models.WebPushSubscription{
		CourtNumber: req.CourtNumber,
		DeviceID:    req.DeviceID,
		Endpoint:    req.Subscription.Endpoint,
		Keys:        req.Subscription.Keys,
	}

	if err := h.webpushRepo.Create(sub); err != nil {
		log.Printf("Error al guardar el abono web push: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🔔 Abono web push registrado para el dispositivo %s (cancha %d)", req.DeviceID, req.CourtNumber)
	utils.RespondSuccess(w, "Abono registrado", nil)
}

// Unsubscribe da de baja un abono Web Push, por endpoint o por par
// cancha/dispositivo
func (h *WebPushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	var req struct {
		Endpoint    string `json:"endpoint,omitempty"`
		DeviceID    string `json:"device_id,omitempty"`
		CourtNumber int    `json:"court_number,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	switch {
	case req.Endpoint != "":
		if err := h.webpushRepo.DeleteByEndpoint(r.Context(), req.Endpoint); err != nil {
			log.Printf("Error al dar de baja el abono: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
	case req.DeviceID != "" && req.CourtNumber > 0:
		if err := h.webpushRepo.DeleteByCourtAndDevice(r.Context(), req.CourtNumber, req.DeviceID); err != nil {
			log.Printf("Error al dar de baja el abono: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
	default:
		utils.RespondError(w, http.StatusBadRequest, "Se requiere endpoint o device_id + court_number")
		return
	}

	utils.RespondSuccess(w, "Abono eliminado", nil)
}

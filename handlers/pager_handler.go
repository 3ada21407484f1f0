package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"ajupam-pager/constants"
	"ajupam-pager/database"
	"ajupam-pager/models"
	"ajupam-pager/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// Interfaces chicas sobre los repositorios para poder testear el flujo de
// suscripción sin Mongo
type pagerSubscriptionStore interface {
	Upsert(ctx context.Context, sub *models.Subscription) error
	DeleteByCourtAndDevice(ctx context.Context, courtNumber int, deviceID string) error
	FindByDevice(ctx context.Context, deviceID string) ([]models.Subscription, error)
}

type pagerCourtStore interface {
	FindByNumber(ctx context.Context, number int) (*models.Court, error)
}

type pagerDeviceTokenStore interface {
	FindByDevice(deviceID string) (*models.DeviceToken, error)
}

// PagerHandler gestiona las suscripciones del pager a las canchas
type PagerHandler struct {
	subscriptionRepo pagerSubscriptionStore
	courtRepo        pagerCourtStore
	deviceTokenRepo  pagerDeviceTokenStore
}

// NewPagerHandler crea una nueva instancia de PagerHandler
func NewPagerHandler(db *mongo.Database) *PagerHandler {
	return &PagerHandler{
		subscriptionRepo: database.NewSubscriptionRepository(db),
		courtRepo:        database.NewCourtRepository(db),
		deviceTokenRepo:  database.NewDeviceTokenRepository(db),
	}
}

// resolveCourtNumber saca el número de cancha de la solicitud: directo o
// desde un código impreso (AJUPAM-CANCHA-XX)
func resolveCourtNumber(req *models.SubscribeRequest) (int, error) {
	if req.CourtNumber > 0 {
		return req.CourtNumber, nil
	}
	return utils.ParseCourtCode(req.Code)
}

// Subscribe suscribe un dispositivo a una cancha
func (h *PagerHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.DeviceID == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrDeviceIDRequired)
		return
	}

	courtNumber, err := resolveCourtNumber(&req)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidCode)
		return
	}

	// La cancha tiene que existir y estar activa
	court, err := h.courtRepo.FindByNumber(r.Context(), courtNumber)
	if err != nil {
		log.Printf("Error al buscar la cancha %d: %v", courtNumber, err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if court == nil {
		utils.RespondError(w, http.StatusNotFound, constants.ErrCourtNotFound)
		return
	}
	if !court.Active {
		utils.RespondError(w, http.StatusConflict, constants.ErrCourtInactive)
		return
	}

	// Snapshot del último token FCM conocido del dispositivo. Puede no
	// existir todavía: la suscripción vale igual y el token llega después
	// por /api/fcm/registrar.
	sub := &models.Subscription{
		CourtNumber: courtNumber,
		DeviceID:    req.DeviceID,
	}
	if token, err := h.deviceTokenRepo.FindByDevice(req.DeviceID); err != nil {
		log.Printf("⚠️  Error al buscar el token del dispositivo %s: %v", req.DeviceID, err)
	} else if token != nil {
		sub.FCMToken = token.Token
	}

	if err := h.subscriptionRepo.Upsert(r.Context(), sub); err != nil {
		log.Printf("Error al guardar la suscripción: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🔔 Dispositivo %s suscripto a la cancha %d", req.DeviceID, courtNumber)
	utils.RespondSuccess(w, "Suscripción registrada", sub)
}

// Unsubscribe desuscribe un dispositivo de una cancha
func (h *PagerHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	var req models.UnsubscribeRequest
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

	// Desuscribirse de una cancha a la que no se estaba suscripto no es un
	// error: la operación es idempotente
	if err := h.subscriptionRepo.DeleteByCourtAndDevice(r.Context(), req.CourtNumber, req.DeviceID); err != nil {
		log.Printf("Error al borrar la suscripción: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("🔕 Dispositivo %s desuscripto de la cancha %d", req.DeviceID, req.CourtNumber)
	utils.RespondSuccess(w, "Suscripción eliminada", nil)
}

// List devuelve las canchas a las que está suscripto un dispositivo
func (h *PagerHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrDeviceIDRequired)
		return
	}

	subs, err := h.subscriptionRepo.FindByDevice(r.Context(), deviceID)
	if err != nil {
		log.Printf("Error al buscar las suscripciones de %s: %v", deviceID, err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	courts := make([]int, 0, len(subs))
	for _, sub := range subs {
		courts = append(courts, sub.CourtNumber)
	}

	utils.RespondJSON(w, http.StatusOK, models.SubscriptionListResponse{
		DeviceID: deviceID,
		Courts:   courts,
	})
}

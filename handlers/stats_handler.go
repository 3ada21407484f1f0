package handlers

import (
	"log"
	"net/http"
	"time"

	"ajupam-pager/constants"
	"ajupam-pager/database"
	"ajupam-pager/models"
	"ajupam-pager/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// StatsHandler expone las métricas del dashboard admin
type StatsHandler struct {
	subscriptionRepo *database.SubscriptionRepository
	notificationRepo *database.NotificationRepository
	courtRepo        *database.CourtRepository
}

// NewStatsHandler crea una nueva instancia de StatsHandler
func NewStatsHandler(db *mongo.Database) *StatsHandler {
	return &StatsHandler{
		subscriptionRepo: database.NewSubscriptionRepository(db),
		notificationRepo: database.NewNotificationRepository(db),
		courtRepo:        database.NewCourtRepository(db),
	}
}

// Stats devuelve los totales del día: suscriptores, notificaciones y canchas activas
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	subscribers, err := h.subscriptionRepo.CountDistinctDevices(r.Context())
	if err != nil {
		log.Printf("Error al contar los suscriptores: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	notificationsToday, err := h.notificationRepo.CountSince(r.Context(), startOfDay)
	if err != nil {
		log.Printf("Error al contar las notificaciones del día: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	activeCourts, err := h.courtRepo.CountActive(r.Context())
	if err != nil {
		log.Printf("Error al contar las canchas activas: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.StatsResponse{
		TotalSubscribers:   subscribers,
		NotificationsToday: notificationsToday,
		ActiveCourts:       activeCourts,
	})
}

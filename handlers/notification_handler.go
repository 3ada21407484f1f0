package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"ajupam-pager/constants"
	"ajupam-pager/database"
	"ajupam-pager/middleware"
	"ajupam-pager/models"
	"ajupam-pager/services"
	"ajupam-pager/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationHandler gestiona las intenciones de notificación de cancha
// disponible. El handler solo crea y encola la intención: el fan-out corre
// en el despachador de fondo.
type NotificationHandler struct {
	notificationRepo *database.NotificationRepository
	subscriptionRepo *database.SubscriptionRepository
	courtRepo        *database.CourtRepository
	dispatcher       *services.Dispatcher
	environment      string
}

// NewNotificationHandler crea una nueva instancia de NotificationHandler
func NewNotificationHandler(db *mongo.Database, dispatcher *services.Dispatcher, environment string) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: database.NewNotificationRepository(db),
		subscriptionRepo: database.NewSubscriptionRepository(db),
		courtRepo:        database.NewCourtRepository(db),
		dispatcher:       dispatcher,
		environment:      environment,
	}
}

// Notify crea la intención de notificar una cancha disponible y la encola
func (h *NotificationHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	vars := mux.Vars(r)
	number, err := strconv.Atoi(vars["number"])
	if err != nil || number <= 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidCourtNumber)
		return
	}

	// El cuerpo es opcional: sin mensaje se usa el texto por defecto
	var req models.CreateNotificationRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sentBy := ""
	if claims := middleware.GetUserFromContext(r.Context()); claims != nil {
		sentBy = claims.Email
	}

	h.createIntent(w, r, number, req.Message, sentBy)
}

// TestNotify es el disparador manual de prueba. Deshabilitado en producción.
func (h *NotificationHandler) TestNotify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	if h.environment == "production" {
		utils.RespondError(w, http.StatusForbidden, constants.ErrNotInProduction)
		return
	}

	var req struct {
		CourtNumber int    `json:"court_number"`
		Message     string `json:"message,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}
	if req.CourtNumber <= 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidCourtNumber)
		return
	}

	h.createIntent(w, r, req.CourtNumber, req.Message, "test")
}

// createIntent valida la cancha, registra la intención y la encola
func (h *NotificationHandler) createIntent(w http.ResponseWriter, r *http.Request, number int, message, sentBy string) {
	court, err := h.courtRepo.FindByNumber(r.Context(), number)
	if err != nil {
		log.Printf("Error al buscar la cancha %d: %v", number, err)
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

	// Snapshot de suscriptores al momento del envío. Sin suscriptores no
	// hay nada que despachar: se rechaza para que el admin se entere.
	count, err := h.subscriptionRepo.CountByCourt(r.Context(), number)
	if err != nil {
		log.Printf("Error al contar los suscriptores: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}
	if count == 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrNoSubscribers)
		return
	}

	notification := &models.Notification{
		CourtNumber:     number,
		Message:         message,
		SubscriberCount: count,
		Status:          models.NotificationStatusCreated,
		SentBy:          sentBy,
		SentAt:          time.Now(),
	}

	if err := h.notificationRepo.Create(r.Context(), notification); err != nil {
		log.Printf("Error al registrar la intención: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	h.dispatcher.Enqueue(notification.ID)

	log.Printf("📨 Intención registrada: cancha %d, %d suscriptores, por %s", number, count, sentBy)
	utils.RespondJSON(w, http.StatusAccepted, notification)
}

// List devuelve el historial de notificaciones, las más recientes primero
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	notifications, err := h.notificationRepo.FindAll(r.Context(), limit)
	if err != nil {
		log.Printf("Error al listar las notificaciones: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, notifications)
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"ajupam-pager/constants"
	"ajupam-pager/database"
	"ajupam-pager/middleware"
	"ajupam-pager/models"
	"ajupam-pager/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
)

// CourtHandler gestiona el catálogo de canchas
type CourtHandler struct {
	courtRepo        *database.CourtRepository
	subscriptionRepo *database.SubscriptionRepository
	configRepo       *database.ConfigRepository
	maxCourts        int
}

// NewCourtHandler crea una nueva instancia de CourtHandler
func NewCourtHandler(db *mongo.Database, defaultCourts, maxCourts int) *CourtHandler {
	return &CourtHandler{
		courtRepo:        database.NewCourtRepository(db),
		subscriptionRepo: database.NewSubscriptionRepository(db),
		configRepo:       database.NewConfigRepository(db, defaultCourts),
		maxCourts:        maxCourts,
	}
}

// List devuelve todas las canchas con su cantidad de suscriptores
func (h *CourtHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	courts, err := h.courtRepo.FindAll(r.Context())
	if err != nil {
		log.Printf("Error al listar las canchas: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	views := make([]models.CourtView, 0, len(courts))
	for _, court := range courts {
		count, err := h.subscriptionRepo.CountByCourt(r.Context(), court.Number)
		if err != nil {
			log.Printf("Error al contar los suscriptores de la cancha %d: %v", court.Number, err)
			utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
			return
		}
		views = append(views, models.CourtView{
			Number:      court.Number,
			Active:      court.Active,
			Subscribers: count,
		})
	}

	utils.RespondJSON(w, http.StatusOK, views)
}

// SetCourtCount configura la cantidad de canchas del club. Achicar la
// cantidad no borra las canchas de números más altos ni sus suscripciones:
// solo dejan de ofrecerse como nuevas.
func (h *CourtHandler) SetCourtCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	var req models.SetCourtCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if req.Count < 1 || req.Count > h.maxCourts {
		utils.RespondError(w, http.StatusBadRequest,
			fmt.Sprintf("La cantidad de canchas debe estar entre 1 y %d", h.maxCourts))
		return
	}

	updatedBy := ""
	if claims := middleware.GetUserFromContext(r.Context()); claims != nil {
		updatedBy = claims.Email
	}

	if err := h.configRepo.SetCourtCount(r.Context(), req.Count, updatedBy); err != nil {
		log.Printf("Error al guardar la configuración de canchas: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	// Asegurar que existan los documentos 1..count (merge, nunca borra)
	if err := h.courtRepo.UpsertRange(r.Context(), req.Count); err != nil {
		log.Printf("Error al crear las canchas: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("⚙️  Cantidad de canchas configurada en %d por %s", req.Count, updatedBy)
	utils.RespondSuccess(w, "Configuración actualizada", map[string]int{"count": req.Count})
}

// Toggle activa o desactiva una cancha
func (h *CourtHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return
	}

	vars := mux.Vars(r)
	number, err := strconv.Atoi(vars["number"])
	if err != nil || number <= 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidCourtNumber)
		return
	}

	var req models.ToggleCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if err := h.courtRepo.SetActive(r.Context(), number, req.Active); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondError(w, http.StatusNotFound, constants.ErrCourtNotFound)
			return
		}
		log.Printf("Error al actualizar la cancha %d: %v", number, err)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	estado := "desactivada"
	if req.Active {
		estado = "activada"
	}
	log.Printf("⚙️  Cancha %d %s", number, estado)
	utils.RespondSuccess(w, fmt.Sprintf("Cancha %d %s", number, estado), nil)
}

package get_intervention

import (
	"errors"
	"net/http"

	"github.com/m04kA/SAV-InterventionService/internal/api/handlers"
	"github.com/m04kA/SAV-InterventionService/internal/service/interventions"
)

const (
	msgInvalidInterventionID = "некорректный ID выезда"
	msgNotFound              = "выезд не найден"
)

type Handler struct {
	service InterventionService
	logger  Logger
}

func NewHandler(service InterventionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/interventions/{interventionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "interventionId")
	if err != nil {
		h.logger.Warn("GET /interventions/{id} - Invalid intervention ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterventionID)
		return
	}

	intervention, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, interventions.ErrInterventionNotFound):
			h.logger.Warn("GET /interventions/{id} - Intervention not found: intervention_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /interventions/{id} - Failed to get intervention: intervention_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /interventions/{id} - Intervention retrieved successfully: intervention_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, intervention)
}

package delete_intervention

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

// Handle DELETE /api/v1/interventions/{interventionId}
// Счет выезда удаляется вместе с ним
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "interventionId")
	if err != nil {
		h.logger.Warn("DELETE /interventions/{id} - Invalid intervention ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterventionID)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, interventions.ErrInterventionNotFound):
			h.logger.Warn("DELETE /interventions/{id} - Intervention not found: intervention_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /interventions/{id} - Failed to delete intervention: intervention_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /interventions/{id} - Intervention deleted successfully: intervention_id=%d", id)
	handlers.RespondNoContent(w)
}

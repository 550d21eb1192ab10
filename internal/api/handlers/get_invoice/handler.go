package get_invoice

import (
	"errors"
	"net/http"

	"github.com/m04kA/SAV-InterventionService/internal/api/handlers"
	"github.com/m04kA/SAV-InterventionService/internal/service/interventions"
)

const (
	msgInvalidInterventionID = "некорректный ID выезда"
	msgInterventionNotFound  = "выезд не найден"
	msgInvoiceNotFound       = "счет не найден"
)

type Handler struct {
	service InvoiceService
	logger  Logger
}

func NewHandler(service InvoiceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/interventions/{interventionId}/invoice
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "interventionId")
	if err != nil {
		h.logger.Warn("GET /interventions/{id}/invoice - Invalid intervention ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterventionID)
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, interventions.ErrInterventionNotFound):
			h.logger.Warn("GET /interventions/{id}/invoice - Intervention not found: intervention_id=%d", id)
			handlers.RespondNotFound(w, msgInterventionNotFound)

		case errors.Is(err, interventions.ErrInvoiceNotFound):
			h.logger.Warn("GET /interventions/{id}/invoice - Invoice not found: intervention_id=%d", id)
			handlers.RespondNotFound(w, msgInvoiceNotFound)

		default:
			h.logger.Error("GET /interventions/{id}/invoice - Failed to get invoice: intervention_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /interventions/{id}/invoice - Invoice retrieved successfully: intervention_id=%d, numero=%s",
		id, invoice.Number)
	handlers.RespondJSON(w, http.StatusOK, invoice)
}

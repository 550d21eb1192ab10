package create_invoice

import (
	"errors"
	"net/http"

	"github.com/m04kA/SAV-InterventionService/internal/api/handlers"
	"github.com/m04kA/SAV-InterventionService/internal/service/interventions/models"
	"github.com/m04kA/SAV-InterventionService/internal/usecase/auto_invoice"
)

const (
	msgInvalidInterventionID = "некорректный ID выезда"
	msgNotFound              = "выезд не найден"
	msgNotEligible           = "выезд гарантийный или еще не завершен"
	msgAlreadyExists         = "счет по выезду уже выставлен"
	msgNumberConflict        = "конфликт номера счета, повторите запрос"
)

type Handler struct {
	useCase CreateInvoiceUseCase
	logger  Logger
}

func NewHandler(useCase CreateInvoiceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/interventions/{interventionId}/invoice
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "interventionId")
	if err != nil {
		h.logger.Warn("POST /interventions/{id}/invoice - Invalid intervention ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterventionID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, auto_invoice.ErrInterventionNotFound):
			h.logger.Warn("POST /interventions/{id}/invoice - Intervention not found: intervention_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, auto_invoice.ErrNotEligible):
			h.logger.Warn("POST /interventions/{id}/invoice - Not eligible: intervention_id=%d", id)
			handlers.RespondConflict(w, msgNotEligible)

		case errors.Is(err, auto_invoice.ErrInvoiceAlreadyExists):
			h.logger.Warn("POST /interventions/{id}/invoice - Invoice already exists: intervention_id=%d", id)
			handlers.RespondConflict(w, msgAlreadyExists)

		case errors.Is(err, auto_invoice.ErrInvoiceNumberConflict):
			h.logger.Warn("POST /interventions/{id}/invoice - Invoice number conflict: intervention_id=%d", id)
			handlers.RespondConflict(w, msgNumberConflict)

		default:
			h.logger.Error("POST /interventions/{id}/invoice - Failed to create invoice: intervention_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /interventions/{id}/invoice - Invoice created successfully: intervention_id=%d, numero=%s",
		id, result.Invoice.Number)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainInvoice(result.Invoice))
}

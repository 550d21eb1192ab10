package update_intervention

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SAV-InterventionService/internal/api/handlers"
	updateIntervention "github.com/m04kA/SAV-InterventionService/internal/usecase/update_intervention"
)

const (
	msgInvalidInterventionID = "некорректный ID выезда"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidTime           = "некорректный формат даты, ожидается RFC3339"
	msgNotFound              = "выезд не найден"
	msgInvalidTransition     = "недопустимая смена статуса"
	msgFreeWithInvoice       = "по выезду уже выставлен счет, гарантию указать нельзя"
	msgNumberConflict        = "конфликт номера счета, повторите запрос"
	msgWarrantyCovered       = "выезд покрыт гарантией, сделать его платным нельзя"
)

type Handler struct {
	useCase      UpdateInterventionUseCase
	lateAfter    time.Duration
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(useCase UpdateInterventionUseCase, lateAfter time.Duration, logger Logger) *Handler {
	return &Handler{
		useCase:      useCase,
		lateAfter:    lateAfter,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (h *Handler) WithTimeProvider(tp TimeProvider) *Handler {
	h.timeProvider = tp
	return h
}

// Handle PUT /api/v1/interventions/{interventionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathInt64(r, "interventionId")
	if err != nil {
		h.logger.Warn("PUT /interventions/{id} - Invalid intervention ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInterventionID)
		return
	}

	var req UpdateInterventionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /interventions/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("PUT /interventions/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), id, useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateIntervention.ErrInvalidInput):
			h.logger.Warn("PUT /interventions/{id} - Validation failed: intervention_id=%d, error=%v", id, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, updateIntervention.ErrInterventionNotFound):
			h.logger.Warn("PUT /interventions/{id} - Intervention not found: intervention_id=%d", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateIntervention.ErrInvalidTransition):
			h.logger.Warn("PUT /interventions/{id} - Invalid transition: intervention_id=%d, error=%v", id, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		case errors.Is(err, updateIntervention.ErrFreeWithInvoice):
			h.logger.Warn("PUT /interventions/{id} - Free flag on invoiced intervention: intervention_id=%d", id)
			handlers.RespondConflict(w, msgFreeWithInvoice)

		case errors.Is(err, updateIntervention.ErrWarrantyCovered):
			h.logger.Warn("PUT /interventions/{id} - Clearing warranty flag rejected: intervention_id=%d", id)
			handlers.RespondConflict(w, msgWarrantyCovered)

		case errors.Is(err, updateIntervention.ErrInvoiceNumberConflict):
			h.logger.Warn("PUT /interventions/{id} - Invoice number conflict: intervention_id=%d", id)
			handlers.RespondConflict(w, msgNumberConflict)

		default:
			h.logger.Error("PUT /interventions/{id} - Failed to update intervention: intervention_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /interventions/{id} - Intervention updated successfully: intervention_id=%d, status=%s",
		id, result.Intervention.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.timeProvider.Now(), h.lateAfter))
}

package create_intervention

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SAV-InterventionService/internal/api/handlers"
	createIntervention "github.com/m04kA/SAV-InterventionService/internal/usecase/create_intervention"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат даты, ожидается RFC3339"
	msgComplaintNotFound    = "рекламация не найдена"
	msgComplaintUnavailable = "сервис рекламаций недоступен"
	msgComplaintTimeout     = "сервис рекламаций не ответил вовремя"
	msgInvoiceConflict      = "выезд создан, счет не выставлен: номер счета занят, повторите выставление счета"
)

type Handler struct {
	useCase      CreateInterventionUseCase
	lateAfter    time.Duration
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(useCase CreateInterventionUseCase, lateAfter time.Duration, logger Logger) *Handler {
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

// Handle POST /api/v1/interventions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateInterventionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /interventions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /interventions - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createIntervention.ErrInvalidInput):
			h.logger.Warn("POST /interventions - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createIntervention.ErrComplaintNotFound):
			h.logger.Warn("POST /interventions - Complaint not found: complaint_id=%d", req.ComplaintID)
			handlers.RespondNotFound(w, msgComplaintNotFound)

		case errors.Is(err, createIntervention.ErrComplaintTimeout):
			h.logger.Error("POST /interventions - Complaint service timeout: complaint_id=%d", req.ComplaintID)
			handlers.RespondError(w, http.StatusGatewayTimeout, msgComplaintTimeout)

		case errors.Is(err, createIntervention.ErrComplaintUnavailable):
			h.logger.Error("POST /interventions - Complaint service unavailable: complaint_id=%d", req.ComplaintID)
			handlers.RespondError(w, http.StatusBadGateway, msgComplaintUnavailable)

		case errors.Is(err, createIntervention.ErrInvoiceNumberConflict):
			h.logger.Warn("POST /interventions - Invoice number conflict: complaint_id=%d, error=%v", req.ComplaintID, err)
			handlers.RespondConflict(w, msgInvoiceConflict+": "+err.Error())

		default:
			h.logger.Error("POST /interventions - Failed to create intervention: complaint_id=%d, error=%v",
				req.ComplaintID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result, h.timeProvider.Now(), h.lateAfter)

	h.logger.Info("POST /interventions - Intervention created successfully: intervention_id=%d, complaint_id=%d, is_free=%t",
		result.Intervention.ID, req.ComplaintID, result.Intervention.IsFree)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

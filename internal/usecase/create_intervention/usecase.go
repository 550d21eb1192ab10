package create_intervention

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	complaintClient "github.com/m04kA/SAV-InterventionService/internal/integrations/complaintservice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/transport"
	"github.com/m04kA/SAV-InterventionService/internal/usecase/auto_invoice"
	"github.com/m04kA/SAV-InterventionService/pkg/ptr"
)

// UseCase создание выезда с проверкой гарантии
type UseCase struct {
	interventionRepo InterventionRepository
	outboxRepo       OutboxRepository
	complaintClient  ComplaintServiceClient
	warranty         WarrantyResolver
	estimator        CostEstimator
	autoInvoice      AutoInvoicer
	txManager        TransactionManager
	freeMarker       string
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	interventionRepo InterventionRepository,
	outboxRepo OutboxRepository,
	complaintClient ComplaintServiceClient,
	warranty WarrantyResolver,
	estimator CostEstimator,
	autoInvoice AutoInvoicer,
	txManager TransactionManager,
	rules domain.BillingRules,
	logger Logger,
) *UseCase {
	marker := rules.FreeMarker
	if marker == "" {
		marker = domain.DefaultFreeMarker
	}
	return &UseCase{
		interventionRepo: interventionRepo,
		outboxRepo:       outboxRepo,
		complaintClient:  complaintClient,
		warranty:         warranty,
		estimator:        estimator,
		autoInvoice:      autoInvoice,
		txManager:        txManager,
		freeMarker:       marker,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute создает выезд
// Рекламация обязательна: её недоступность прерывает операцию.
// Гарантия, оценка стоимости и данные клиента при сбоях заменяются значениями по умолчанию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateIntervention: complaint=%d, technician=%d", req.ComplaintID, req.TechnicianID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateIntervention: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Рекламация
	complaint, err := uc.complaintClient.GetComplaint(ctx, req.ComplaintID)
	if err != nil {
		return nil, uc.mapComplaintError(req.ComplaintID, err)
	}

	// 3. Гарантия
	isFree := uc.warranty.Resolve(ctx, complaint.ArticleID)

	intervention := &domain.Intervention{
		ComplaintID:    req.ComplaintID,
		TechnicianID:   req.TechnicianID,
		TechnicianName: strings.TrimSpace(req.TechnicianName),
		Status:         domain.InterventionPlanned,
		Description:    req.Description,
		Observations:   req.Observations,
		Solution:       req.Solution,
		PartsCost:      req.PartsCost,
		LaborCost:      req.LaborCost,
		CompletedAt:    req.CompletedAt,
	}
	if req.Status != nil {
		intervention.Status = domain.InterventionStatus(*req.Status)
	}

	// 4. Стоимость: гарантия обнуляет, иначе оценка недостающих слагаемых
	if isFree {
		intervention.MarkFree()
		intervention.Description = uc.withFreeMarker(intervention.Description)
	} else {
		if intervention.PartsCost == nil {
			intervention.PartsCost = ptr.Ptr(uc.estimator.EstimateParts(ctx, complaint.ArticleID))
		}
		if intervention.LaborCost == nil {
			intervention.LaborCost = ptr.Ptr(uc.estimator.DefaultLabor())
		}
	}

	// 5. Даты
	intervention.ScheduledAt = now
	if req.ScheduledAt != nil {
		intervention.ScheduledAt = *req.ScheduledAt
	}
	if intervention.IsCompleted() && intervention.CompletedAt == nil {
		completed := now
		if completed.Before(intervention.ScheduledAt) {
			completed = intervention.ScheduledAt
		}
		intervention.CompletedAt = &completed
	}
	if err := validateDates(intervention); err != nil {
		uc.logger.Warn("CreateIntervention: validation failed: %v", err)
		return nil, err
	}

	// 6. Сохраняем выезд и событие атомарно
	var created *domain.Intervention
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = uc.interventionRepo.Create(txCtx, intervention)
		if err != nil {
			return err
		}
		return uc.enqueueCreated(txCtx, created)
	})
	if err != nil {
		uc.logger.Error("CreateIntervention: failed to save intervention: %v", err)
		return nil, fmt.Errorf("%w: failed to save intervention: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateIntervention: created intervention id=%d, isFree=%t, status=%s",
		created.ID, created.IsFree, created.Status)

	resp := &Response{Intervention: created}

	// 7. Сразу завершенный платный выезд получает счет
	// Выезд уже сохранен: коллизия номера возвращается вызывающему, прочие сбои только логируются
	if created.CanBeInvoiced() {
		result, err := uc.autoInvoice.MaybeExecute(ctx, created.ID)
		switch {
		case err == nil:
			resp.Invoice = result.Invoice
		case errors.Is(err, auto_invoice.ErrInvoiceNumberConflict):
			uc.logger.Warn("CreateIntervention: invoice number conflict for intervention id=%d", created.ID)
			return nil, fmt.Errorf("%w: intervention id=%d created, retry POST /interventions/%d/invoice: %v",
				ErrInvoiceNumberConflict, created.ID, created.ID, err)
		default:
			uc.logger.Error("CreateIntervention: auto-invoice failed for intervention id=%d: %v", created.ID, err)
		}
	}

	return resp, nil
}

func (uc *UseCase) mapComplaintError(complaintID int64, err error) error {
	switch {
	case errors.Is(err, complaintClient.ErrComplaintNotFound):
		uc.logger.Warn("CreateIntervention: complaint id=%d not found", complaintID)
		return ErrComplaintNotFound
	case errors.Is(err, transport.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		uc.logger.Error("CreateIntervention: complaint service timeout for id=%d: %v", complaintID, err)
		return fmt.Errorf("%w: %v", ErrComplaintTimeout, err)
	default:
		uc.logger.Error("CreateIntervention: complaint service failed for id=%d: %v", complaintID, err)
		return fmt.Errorf("%w: %v", ErrComplaintUnavailable, err)
	}
}

func (uc *UseCase) withFreeMarker(description *string) *string {
	if description == nil || strings.TrimSpace(*description) == "" {
		return ptr.Ptr(uc.freeMarker)
	}
	if strings.Contains(*description, uc.freeMarker) {
		return description
	}
	return ptr.Ptr(strings.TrimSpace(*description) + " " + uc.freeMarker)
}

func (uc *UseCase) enqueueCreated(ctx context.Context, i *domain.Intervention) error {
	payload, err := json.Marshal(interventionCreatedPayload{
		InterventionID: i.ID,
		ComplaintID:    i.ComplaintID,
		TechnicianID:   i.TechnicianID,
		TechnicianName: i.TechnicianName,
		ScheduledAt:    i.ScheduledAt.Format(time.RFC3339),
		Status:         string(i.Status),
		IsFree:         i.IsFree,
	})
	if err != nil {
		return err
	}

	return uc.outboxRepo.Enqueue(ctx, &domain.OutboxEvent{
		Key:       uuid.NewString(),
		EventType: domain.EventInterventionCreated,
		Payload:   payload,
	})
}

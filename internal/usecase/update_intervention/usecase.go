package update_intervention

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	interventionRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/intervention"
	invoiceRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/invoice"
	"github.com/m04kA/SAV-InterventionService/internal/usecase/auto_invoice"
	"github.com/m04kA/SAV-InterventionService/pkg/ptr"
)

// UseCase обновление выезда и смена статуса
type UseCase struct {
	interventionRepo InterventionRepository
	invoiceRepo      InvoiceRepository
	autoInvoice      AutoInvoicer
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	interventionRepo InterventionRepository,
	invoiceRepo InvoiceRepository,
	autoInvoice AutoInvoicer,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		interventionRepo: interventionRepo,
		invoiceRepo:      invoiceRepo,
		autoInvoice:      autoInvoice,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute применяет изменения к выезду под блокировкой строки
// Переход в TERMINEE для платного выезда запускает выставление счета после коммита
func (uc *UseCase) Execute(ctx context.Context, id int64, req *Request) (*Response, error) {
	uc.logger.Info("UpdateIntervention: id=%d", id)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateIntervention: validation failed for id=%d: %v", id, err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Чтение, проверка перехода и сохранение в одной транзакции
	var updated *domain.Intervention
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.interventionRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		// Гарантия определяется каталогом артикулов, снять ее через PUT нельзя
		if current.IsFree && req.IsFree != nil && !*req.IsFree {
			return fmt.Errorf("%w: id=%d", ErrWarrantyCovered, id)
		}

		from := current.Status
		if req.Status != nil {
			to := domain.InterventionStatus(*req.Status)
			if !domain.CanTransition(from, to) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
			}
			current.Status = to
		}

		apply(current, req)

		if current.IsCompleted() && current.CompletedAt == nil {
			completed := now
			if completed.Before(current.ScheduledAt) {
				completed = current.ScheduledAt
			}
			current.CompletedAt = &completed
		}
		if err := validateDates(current); err != nil {
			return err
		}

		if req.IsFree != nil && *req.IsFree {
			if err := uc.ensureNotInvoiced(txCtx, id); err != nil {
				return err
			}
		}

		current.Normalize()

		updated, err = uc.interventionRepo.Update(txCtx, current)
		if err != nil {
			return err
		}
		if from != updated.Status {
			uc.logger.Info("UpdateIntervention: id=%d status %s -> %s", id, from, updated.Status)
		}
		return nil
	})
	if err != nil {
		return nil, uc.mapError(id, err)
	}

	resp := &Response{Intervention: updated}

	// 3. Счет для завершенного платного выезда
	if updated.CanBeInvoiced() {
		result, err := uc.autoInvoice.MaybeExecute(ctx, updated.ID)
		switch {
		case err == nil:
			resp.Invoice = result.Invoice
		case errors.Is(err, auto_invoice.ErrInvoiceNumberConflict):
			uc.logger.Warn("UpdateIntervention: invoice number conflict for id=%d", id)
			return nil, fmt.Errorf("%w: %v", ErrInvoiceNumberConflict, err)
		default:
			uc.logger.Error("UpdateIntervention: auto-invoice failed for id=%d: %v", id, err)
		}
	}

	return resp, nil
}

func apply(i *domain.Intervention, req *Request) {
	if req.TechnicianID != nil {
		i.TechnicianID = *req.TechnicianID
	}
	if req.TechnicianName != nil {
		i.TechnicianName = strings.TrimSpace(*req.TechnicianName)
	}
	if req.ScheduledAt != nil {
		i.ScheduledAt = *req.ScheduledAt
	}
	if req.Description != nil {
		i.Description = req.Description
	}
	if req.Observations != nil {
		i.Observations = req.Observations
	}
	if req.Solution != nil {
		i.Solution = req.Solution
	}
	if req.PartsCost != nil {
		i.PartsCost = ptr.Ptr(req.PartsCost.Round(2))
	}
	if req.LaborCost != nil {
		i.LaborCost = ptr.Ptr(req.LaborCost.Round(2))
	}
	if req.IsFree != nil {
		i.IsFree = *req.IsFree
	}
	if req.CompletedAt != nil {
		i.CompletedAt = req.CompletedAt
	}
}

func (uc *UseCase) ensureNotInvoiced(ctx context.Context, id int64) error {
	_, err := uc.invoiceRepo.GetByInterventionID(ctx, id)
	switch {
	case err == nil:
		return fmt.Errorf("%w: id=%d", ErrFreeWithInvoice, id)
	case errors.Is(err, invoiceRepo.ErrInvoiceNotFound):
		return nil
	default:
		return err
	}
}

func (uc *UseCase) mapError(id int64, err error) error {
	switch {
	case errors.Is(err, interventionRepo.ErrInterventionNotFound):
		uc.logger.Warn("UpdateIntervention: id=%d not found", id)
		return ErrInterventionNotFound
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrFreeWithInvoice),
		errors.Is(err, ErrWarrantyCovered), errors.Is(err, ErrInvalidInput):
		uc.logger.Warn("UpdateIntervention: rejected for id=%d: %v", id, err)
		return err
	case errors.Is(err, interventionRepo.ErrConstraint):
		uc.logger.Warn("UpdateIntervention: validation failed for id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		uc.logger.Error("UpdateIntervention: failed to update id=%d: %v", id, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

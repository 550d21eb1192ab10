package interventions

import (
	"context"
	"errors"
	"fmt"
	"time"

	interventionRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/intervention"
	invoiceRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/invoice"
	"github.com/m04kA/SAV-InterventionService/internal/service/interventions/models"
)

// Service чтение и удаление выездов и их счетов
type Service struct {
	interventionRepo InterventionRepository
	invoiceRepo      InvoiceRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	lateAfter        time.Duration
	logger           Logger
}

// NewService создает новый экземпляр сервиса выездов
func NewService(
	interventionRepo InterventionRepository,
	invoiceRepo InvoiceRepository,
	txManager TransactionManager,
	lateAfter time.Duration,
	logger Logger,
) *Service {
	return &Service{
		interventionRepo: interventionRepo,
		invoiceRepo:      invoiceRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		lateAfter:        lateAfter,
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает выезд; производные поля считаются на текущий момент
func (s *Service) GetByID(ctx context.Context, id int64) (*models.InterventionResponse, error) {
	intervention, err := s.interventionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interventionRepo.ErrInterventionNotFound) {
			s.logger.Warn("GetByID: intervention id=%d not found", id)
			return nil, ErrInterventionNotFound
		}
		s.logger.Error("GetByID: repository error for intervention id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainIntervention(intervention, s.timeProvider.Now(), s.lateAfter), nil
}

// GetInvoice получает счет выезда
func (s *Service) GetInvoice(ctx context.Context, interventionID int64) (*models.InvoiceResponse, error) {
	if _, err := s.interventionRepo.GetByID(ctx, interventionID); err != nil {
		if errors.Is(err, interventionRepo.ErrInterventionNotFound) {
			s.logger.Warn("GetInvoice: intervention id=%d not found", interventionID)
			return nil, ErrInterventionNotFound
		}
		s.logger.Error("GetInvoice: repository error for intervention id=%d: %v", interventionID, err)
		return nil, fmt.Errorf("%w: GetInvoice - repository error: %v", ErrInternal, err)
	}

	invoice, err := s.invoiceRepo.GetByInterventionID(ctx, interventionID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("GetInvoice: repository error for intervention id=%d: %v", interventionID, err)
		return nil, fmt.Errorf("%w: GetInvoice - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainInvoice(invoice), nil
}

// Delete удаляет выезд вместе со счетом в одной транзакции
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: removing intervention id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.interventionRepo.GetByIDForUpdate(txCtx, id); err != nil {
			return err
		}
		if err := s.invoiceRepo.DeleteByInterventionID(txCtx, id); err != nil {
			return err
		}
		return s.interventionRepo.Delete(txCtx, id)
	})
	if err != nil {
		if errors.Is(err, interventionRepo.ErrInterventionNotFound) {
			s.logger.Warn("Delete: intervention id=%d not found", id)
			return ErrInterventionNotFound
		}
		s.logger.Error("Delete: failed to delete intervention id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - %v", ErrInternal, err)
	}

	s.logger.Info("Delete: intervention id=%d removed with its invoice", id)
	return nil
}

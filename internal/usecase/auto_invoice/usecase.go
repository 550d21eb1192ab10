package auto_invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	interventionRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/intervention"
	invoiceRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/invoice"
)

const upstreamClient = "client_registry"

// UseCase выставление ровно одного счета за завершенный платный выезд
type UseCase struct {
	interventionRepo InterventionRepository
	invoiceRepo      InvoiceRepository
	outboxRepo       OutboxRepository
	complaintClient  ComplaintServiceClient
	clientClient     ClientServiceClient
	numbers          NumberGenerator
	txManager        TransactionManager
	rules            domain.BillingRules
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil
func NewUseCase(
	interventionRepo InterventionRepository,
	invoiceRepo InvoiceRepository,
	outboxRepo OutboxRepository,
	complaintClient ComplaintServiceClient,
	clientClient ClientServiceClient,
	numbers NumberGenerator,
	txManager TransactionManager,
	rules domain.BillingRules,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		interventionRepo: interventionRepo,
		invoiceRepo:      invoiceRepo,
		outboxRepo:       outboxRepo,
		complaintClient:  complaintClient,
		clientClient:     clientClient,
		numbers:          numbers,
		txManager:        txManager,
		rules:            rules,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute принудительно выставляет счет (POST /interventions/{id}/invoice)
// Неподходящий выезд и существующий счет возвращаются как ошибки
func (uc *UseCase) Execute(ctx context.Context, interventionID int64) (*Result, error) {
	uc.logger.Info("CreateInvoice: intervention id=%d", interventionID)
	return uc.run(ctx, interventionID, TriggerManual)
}

// MaybeExecute идемпотентная версия для автоматического вызова:
// гарантийный, незавершенный или уже оплаченный счетом выезд дает пустой результат без ошибки
func (uc *UseCase) MaybeExecute(ctx context.Context, interventionID int64) (*Result, error) {
	result, err := uc.run(ctx, interventionID, TriggerAuto)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrNotEligible):
		return &Result{}, nil
	case errors.Is(err, ErrInvoiceAlreadyExists):
		return result, nil
	default:
		return nil, err
	}
}

func (uc *UseCase) run(ctx context.Context, interventionID int64, trigger string) (*Result, error) {
	// 1. Читаем выезд и проверяем, что счет нужен
	intervention, err := uc.interventionRepo.GetByID(ctx, interventionID)
	if err != nil {
		if errors.Is(err, interventionRepo.ErrInterventionNotFound) {
			return nil, ErrInterventionNotFound
		}
		uc.logger.Error("AutoInvoice: failed to get intervention id=%d: %v", interventionID, err)
		return nil, fmt.Errorf("%w: failed to get intervention: %v", ErrInternal, err)
	}

	if err := checkEligible(intervention); err != nil {
		return nil, err
	}

	existing, err := uc.findInvoice(ctx, interventionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Result{Invoice: existing}, fmt.Errorf("%w: intervention id=%d", ErrInvoiceAlreadyExists, interventionID)
	}

	// 2. Данные клиента; сетевые вызовы делаем до транзакции
	client := uc.clientSnapshot(ctx, intervention.ComplaintID)
	now := uc.timeProvider.Now()

	// 3. Номер, счет и событие в одной транзакции
	var created *domain.Invoice
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		locked, err := uc.interventionRepo.GetByIDForUpdate(txCtx, interventionID)
		if err != nil {
			return err
		}
		if err := checkEligible(locked); err != nil {
			return err
		}

		// Под блокировкой строки выезда второй писатель увидит счет первого
		existing, err := uc.findInvoice(txCtx, interventionID)
		if err != nil {
			return err
		}
		if existing != nil {
			created = existing
			return fmt.Errorf("%w: intervention id=%d", ErrInvoiceAlreadyExists, interventionID)
		}

		number, err := uc.numbers.Next(txCtx, now)
		if err != nil {
			return fmt.Errorf("%w: failed to generate invoice number: %v", ErrInternal, err)
		}

		invoice := buildInvoice(locked, client, number, now, uc.rules)
		created, err = uc.invoiceRepo.Create(txCtx, invoice)
		if err != nil {
			return err
		}

		return uc.enqueueCreated(txCtx, created)
	})

	if err != nil {
		return uc.handleTxError(ctx, interventionID, created, err)
	}

	if uc.metrics != nil {
		uc.metrics.IncInvoiceCreated(trigger)
	}
	uc.logger.Info("AutoInvoice: created invoice number=%s for intervention id=%d, amountHT=%s",
		created.Number, interventionID, created.AmountHT.StringFixed(2))

	return &Result{Invoice: created, Created: true}, nil
}

func (uc *UseCase) handleTxError(ctx context.Context, interventionID int64, existing *domain.Invoice, err error) (*Result, error) {
	switch {
	case errors.Is(err, ErrNotEligible), errors.Is(err, ErrInternal):
		return nil, err
	case errors.Is(err, interventionRepo.ErrInterventionNotFound):
		return nil, ErrInterventionNotFound
	case errors.Is(err, ErrInvoiceAlreadyExists):
		return &Result{Invoice: existing}, err
	case errors.Is(err, invoiceRepo.ErrInvoiceAlreadyExists):
		// Параллельная вставка для того же выезда: счет уже есть, возвращаем его
		invoice, findErr := uc.findInvoice(ctx, interventionID)
		if findErr != nil {
			return nil, findErr
		}
		uc.logger.Warn("AutoInvoice: concurrent invoice for intervention id=%d detected, returning existing", interventionID)
		return &Result{Invoice: invoice}, fmt.Errorf("%w: intervention id=%d", ErrInvoiceAlreadyExists, interventionID)
	case errors.Is(err, invoiceRepo.ErrNumberConflict):
		if uc.metrics != nil {
			uc.metrics.IncInvoiceNumberConflict(uc.numbers.Strategy())
		}
		uc.logger.Error("AutoInvoice: invoice number conflict for intervention id=%d (strategy=%s): %v",
			interventionID, uc.numbers.Strategy(), err)
		return nil, fmt.Errorf("%w: %v", ErrInvoiceNumberConflict, err)
	default:
		uc.logger.Error("AutoInvoice: failed to create invoice for intervention id=%d: %v", interventionID, err)
		return nil, fmt.Errorf("%w: failed to create invoice: %v", ErrInternal, err)
	}
}

func (uc *UseCase) findInvoice(ctx context.Context, interventionID int64) (*domain.Invoice, error) {
	invoice, err := uc.invoiceRepo.GetByInterventionID(ctx, interventionID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, nil
		}
		uc.logger.Error("AutoInvoice: failed to get invoice for intervention id=%d: %v", interventionID, err)
		return nil, fmt.Errorf("%w: failed to get invoice: %v", ErrInternal, err)
	}
	return invoice, nil
}

// clientSnapshot данные клиента на момент выставления; при любой ошибке заглушка
func (uc *UseCase) clientSnapshot(ctx context.Context, complaintID int64) domain.ClientSnapshot {
	placeholder := domain.ClientSnapshot{
		Name:    domain.ClientNotSpecified,
		Address: domain.AddressNotSpecified,
		Email:   domain.EmailNotSpecified,
	}

	complaint, err := uc.complaintClient.GetComplaint(ctx, complaintID)
	if err != nil {
		uc.logger.Warn("AutoInvoice: complaint id=%d unavailable, using placeholder client: %v", complaintID, err)
		uc.degraded()
		return placeholder
	}

	info, err := uc.clientClient.GetClientWithGracefulDegradation(ctx, complaint.ClientID)
	if err != nil {
		uc.logger.Warn("AutoInvoice: client id=%d unavailable, using placeholder client: %v", complaint.ClientID, err)
		uc.degraded()
		return placeholder
	}

	snapshot := domain.ClientSnapshot{Name: info.Name, Address: info.Address, Email: info.Email}
	if strings.TrimSpace(snapshot.Name) == "" {
		snapshot.Name = domain.ClientNotSpecified
	}
	return snapshot
}

func (uc *UseCase) degraded() {
	if uc.metrics != nil {
		uc.metrics.IncUpstreamDegraded(upstreamClient)
	}
}

func (uc *UseCase) enqueueCreated(ctx context.Context, invoice *domain.Invoice) error {
	payload, err := json.Marshal(invoiceCreatedPayload{
		InvoiceID:      invoice.ID,
		InterventionID: invoice.InterventionID,
		Number:         invoice.Number,
		AmountTTC:      invoice.AmountTTC().Round(2).InexactFloat64(),
		ClientName:     invoice.Client.Name,
		ClientEmail:    invoice.Client.Email,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	event := &domain.OutboxEvent{
		Key:       uuid.NewString(),
		EventType: domain.EventInvoiceCreated,
		Payload:   payload,
	}
	if err := uc.outboxRepo.Enqueue(ctx, event); err != nil {
		return fmt.Errorf("%w: failed to enqueue event: %v", ErrInternal, err)
	}
	return nil
}

func checkEligible(i *domain.Intervention) error {
	if !i.IsBillable() {
		return fmt.Errorf("%w: intervention id=%d is covered by warranty", ErrNotEligible, i.ID)
	}
	if !i.IsCompleted() {
		return fmt.Errorf("%w: intervention id=%d has status %s", ErrNotEligible, i.ID, i.Status)
	}
	return nil
}

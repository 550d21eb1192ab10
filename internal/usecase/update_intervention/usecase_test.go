package update_intervention

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	interventionRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/intervention"
	invoiceRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/invoice"
	"github.com/m04kA/SAV-InterventionService/internal/usecase/auto_invoice"
	"github.com/m04kA/SAV-InterventionService/pkg/logger"
	"github.com/m04kA/SAV-InterventionService/pkg/ptr"
)

var (
	testNow       = time.Date(2026, time.March, 15, 16, 0, 0, 0, time.UTC)
	testScheduled = time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memRepo struct {
	items   map[int64]*domain.Intervention
	updates int
}

func (r *memRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.Intervention, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", interventionRepo.ErrInterventionNotFound, id)
	}
	cp := *i
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, i *domain.Intervention) (*domain.Intervention, error) {
	r.updates++
	cp := *i
	cp.UpdatedAt = testNow
	r.items[i.ID] = &cp
	return &cp, nil
}

type memInvoices struct{ byIntervention map[int64]*domain.Invoice }

func (m *memInvoices) GetByInterventionID(_ context.Context, id int64) (*domain.Invoice, error) {
	if inv, ok := m.byIntervention[id]; ok {
		return inv, nil
	}
	return nil, invoiceRepo.ErrInvoiceNotFound
}

type autoInvoicerMock struct{ mock.Mock }

func (m *autoInvoicerMock) MaybeExecute(ctx context.Context, id int64) (*auto_invoice.Result, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*auto_invoice.Result)
	return r, args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type fixture struct {
	uc       *UseCase
	repo     *memRepo
	invoices *memInvoices
	invoicer *autoInvoicerMock
}

func newFixture(items ...*domain.Intervention) *fixture {
	f := &fixture{
		repo:     &memRepo{items: map[int64]*domain.Intervention{}},
		invoices: &memInvoices{byIntervention: map[int64]*domain.Invoice{}},
		invoicer: &autoInvoicerMock{},
	}
	for _, i := range items {
		f.repo.items[i.ID] = i
	}
	f.uc = NewUseCase(f.repo, f.invoices, f.invoicer, passthroughTx{}, logger.NewWriter(io.Discard, "debug")).
		WithTimeProvider(fixedClock{now: testNow})
	return f
}

func billable(id int64, status domain.InterventionStatus) *domain.Intervention {
	return &domain.Intervention{
		ID:             id,
		ComplaintID:    2,
		TechnicianID:   7,
		TechnicianName: "Jean Dupont",
		ScheduledAt:    testScheduled,
		Status:         status,
		PartsCost:      ptr.Ptr(decimal.NewFromInt(20)),
		LaborCost:      ptr.Ptr(decimal.NewFromInt(50)),
	}
}

func statusReq(s domain.InterventionStatus) *Request {
	return &Request{Status: ptr.Ptr(string(s))}
}

func TestExecute_CompletionTriggersInvoice(t *testing.T) {
	f := newFixture(billable(1, domain.InterventionInProgress))
	invoice := &domain.Invoice{ID: 9, InterventionID: 1, Number: "FACT-202603-0001"}
	f.invoicer.On("MaybeExecute", mock.Anything, int64(1)).Return(&auto_invoice.Result{Invoice: invoice, Created: true}, nil).Once()

	resp, err := f.uc.Execute(context.Background(), 1, statusReq(domain.InterventionCompleted))
	require.NoError(t, err)

	assert.Equal(t, domain.InterventionCompleted, resp.Intervention.Status)
	require.NotNil(t, resp.Intervention.CompletedAt)
	assert.Equal(t, testNow, *resp.Intervention.CompletedAt)
	assert.Equal(t, invoice, resp.Invoice)
	f.invoicer.AssertExpectations(t)
}

func TestExecute_PlannedCanCompleteDirectly(t *testing.T) {
	f := newFixture(billable(1, domain.InterventionPlanned))
	f.invoicer.On("MaybeExecute", mock.Anything, int64(1)).Return(&auto_invoice.Result{}, nil).Once()

	_, err := f.uc.Execute(context.Background(), 1, statusReq(domain.InterventionCompleted))
	require.NoError(t, err)
	assert.Equal(t, domain.InterventionCompleted, f.repo.items[1].Status)
}

func TestExecute_FreeCompletionDoesNotInvoice(t *testing.T) {
	item := billable(1, domain.InterventionInProgress)
	item.MarkFree()
	f := newFixture(item)

	resp, err := f.uc.Execute(context.Background(), 1, &Request{
		Status:    ptr.Ptr(string(domain.InterventionCompleted)),
		PartsCost: ptr.Ptr(decimal.NewFromInt(40)),
	})
	require.NoError(t, err)

	assert.True(t, resp.Intervention.PartsCost.IsZero())
	assert.True(t, resp.Intervention.TotalCost().IsZero())
	assert.Nil(t, resp.Invoice)
	f.invoicer.AssertNotCalled(t, "MaybeExecute", mock.Anything, mock.Anything)
}

func TestExecute_RejectsTransitionsOutOfTerminalStates(t *testing.T) {
	tests := []struct {
		name string
		from domain.InterventionStatus
		to   domain.InterventionStatus
	}{
		{name: "completed to in progress", from: domain.InterventionCompleted, to: domain.InterventionInProgress},
		{name: "completed to cancelled", from: domain.InterventionCompleted, to: domain.InterventionCancelled},
		{name: "cancelled to completed", from: domain.InterventionCancelled, to: domain.InterventionCompleted},
		{name: "in progress to planned", from: domain.InterventionInProgress, to: domain.InterventionPlanned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(billable(1, tt.from))

			_, err := f.uc.Execute(context.Background(), 1, statusReq(tt.to))
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Zero(t, f.repo.updates)
		})
	}
}

func TestExecute_SameStatusIsNoOpTransition(t *testing.T) {
	f := newFixture(billable(1, domain.InterventionCancelled))

	resp, err := f.uc.Execute(context.Background(), 1, &Request{
		Status:       ptr.Ptr(string(domain.InterventionCancelled)),
		Observations: ptr.Ptr("client absent"),
	})
	require.NoError(t, err)
	assert.Equal(t, "client absent", *resp.Intervention.Observations)
	assert.Equal(t, 1, f.repo.updates)
}

func TestExecute_FreeRejectedWhenInvoiced(t *testing.T) {
	f := newFixture(billable(1, domain.InterventionCompleted))
	f.invoices.byIntervention[1] = &domain.Invoice{ID: 3, InterventionID: 1}

	_, err := f.uc.Execute(context.Background(), 1, &Request{IsFree: ptr.Ptr(true)})
	assert.ErrorIs(t, err, ErrFreeWithInvoice)
	assert.Zero(t, f.repo.updates)
}

func TestExecute_MarkFreeZeroesCosts(t *testing.T) {
	f := newFixture(billable(1, domain.InterventionInProgress))

	resp, err := f.uc.Execute(context.Background(), 1, &Request{IsFree: ptr.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, resp.Intervention.IsFree)
	assert.True(t, resp.Intervention.LaborCost.IsZero())
	assert.True(t, resp.Intervention.TotalCost().IsZero())
}

func TestExecute_ClearingWarrantyRejected(t *testing.T) {
	item := billable(1, domain.InterventionInProgress)
	item.MarkFree()
	f := newFixture(item)

	_, err := f.uc.Execute(context.Background(), 1, &Request{
		IsFree: ptr.Ptr(false),
		Status: ptr.Ptr(string(domain.InterventionCompleted)),
	})
	assert.ErrorIs(t, err, ErrWarrantyCovered)
	assert.Zero(t, f.repo.updates)
	assert.True(t, f.repo.items[1].IsFree)
	f.invoicer.AssertNotCalled(t, "MaybeExecute", mock.Anything, mock.Anything)
}

func TestExecute_RepeatingWarrantyFlagIsAllowed(t *testing.T) {
	item := billable(1, domain.InterventionInProgress)
	item.MarkFree()
	f := newFixture(item)

	resp, err := f.uc.Execute(context.Background(), 1, &Request{IsFree: ptr.Ptr(true), Solution: ptr.Ptr("Courroie remplacée")})
	require.NoError(t, err)
	assert.True(t, resp.Intervention.IsFree)
	assert.True(t, resp.Intervention.TotalCost().IsZero())
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "negative parts", req: &Request{PartsCost: ptr.Ptr(decimal.NewFromInt(-5))}},
		{name: "negative labor", req: &Request{LaborCost: ptr.Ptr(decimal.RequireFromString("-0.01"))}},
		{name: "unknown status", req: &Request{Status: ptr.Ptr("FINI")}},
		{name: "empty technician", req: &Request{TechnicianName: ptr.Ptr(" ")}},
		{name: "completed before scheduled", req: &Request{CompletedAt: ptr.Ptr(testScheduled.Add(-time.Hour))}},
		{name: "rescheduled after completion", req: &Request{
			Status:      ptr.Ptr(string(domain.InterventionCompleted)),
			CompletedAt: ptr.Ptr(testScheduled),
			ScheduledAt: ptr.Ptr(testScheduled.Add(time.Hour)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(billable(1, domain.InterventionInProgress))

			_, err := f.uc.Execute(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.repo.updates)
		})
	}
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), 42, statusReq(domain.InterventionInProgress))
	assert.ErrorIs(t, err, ErrInterventionNotFound)
}

func TestExecute_InvoiceNumberConflictSurfaces(t *testing.T) {
	f := newFixture(billable(1, domain.InterventionInProgress))
	f.invoicer.On("MaybeExecute", mock.Anything, int64(1)).
		Return(nil, fmt.Errorf("%w: number taken", auto_invoice.ErrInvoiceNumberConflict)).Once()

	_, err := f.uc.Execute(context.Background(), 1, statusReq(domain.InterventionCompleted))
	assert.ErrorIs(t, err, ErrInvoiceNumberConflict)
	assert.Equal(t, domain.InterventionCompleted, f.repo.items[1].Status)
}

func TestExecute_InvoiceFailureIsLogged(t *testing.T) {
	f := newFixture(billable(1, domain.InterventionInProgress))
	f.invoicer.On("MaybeExecute", mock.Anything, int64(1)).Return(nil, auto_invoice.ErrInternal).Once()

	resp, err := f.uc.Execute(context.Background(), 1, statusReq(domain.InterventionCompleted))
	require.NoError(t, err)
	assert.Nil(t, resp.Invoice)
}

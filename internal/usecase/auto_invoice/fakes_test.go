package auto_invoice

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
	interventionRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/intervention"
	invoiceRepo "github.com/m04kA/SAV-InterventionService/internal/infra/storage/invoice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/clientservice"
	"github.com/m04kA/SAV-InterventionService/internal/integrations/complaintservice"
	"github.com/m04kA/SAV-InterventionService/internal/service/invoicenumber"
	"github.com/m04kA/SAV-InterventionService/pkg/logger"
	"github.com/m04kA/SAV-InterventionService/pkg/ptr"
)

// memStore хранилище в памяти с теми же уникальными ограничениями, что и таблица invoices
type memStore struct {
	mu             sync.Mutex
	interventions  map[int64]*domain.Intervention
	invoices       []*domain.Invoice
	byIntervention map[int64]*domain.Invoice
	byNumber       map[string]*domain.Invoice
	events         []*domain.OutboxEvent
	nextID         int64

	// hiddenReads прячет счет от заданного числа чтений: имитация параллельного писателя
	hiddenReads map[int64]int
}

func newMemStore(items ...*domain.Intervention) *memStore {
	s := &memStore{
		interventions:  map[int64]*domain.Intervention{},
		byIntervention: map[int64]*domain.Invoice{},
		byNumber:       map[string]*domain.Invoice{},
		hiddenReads:    map[int64]int{},
	}
	for _, i := range items {
		s.interventions[i.ID] = i
	}
	return s
}

type memInterventions struct{ s *memStore }

func (r memInterventions) GetByID(_ context.Context, id int64) (*domain.Intervention, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.interventions[id]
	if !ok {
		return nil, interventionRepo.ErrInterventionNotFound
	}
	copied := *i
	return &copied, nil
}

func (r memInterventions) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Intervention, error) {
	return r.GetByID(ctx, id)
}

type memInvoices struct{ s *memStore }

func (r memInvoices) Create(_ context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.byIntervention[inv.InterventionID]; ok {
		return nil, invoiceRepo.ErrInvoiceAlreadyExists
	}
	if _, ok := r.s.byNumber[inv.Number]; ok {
		return nil, invoiceRepo.ErrNumberConflict
	}
	r.s.nextID++
	inv.ID = r.s.nextID
	r.s.invoices = append(r.s.invoices, inv)
	r.s.byIntervention[inv.InterventionID] = inv
	r.s.byNumber[inv.Number] = inv
	return inv, nil
}

func (r memInvoices) GetByInterventionID(_ context.Context, id int64) (*domain.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.hiddenReads[id] > 0 {
		r.s.hiddenReads[id]--
		return nil, invoiceRepo.ErrInvoiceNotFound
	}
	inv, ok := r.s.byIntervention[id]
	if !ok {
		return nil, invoiceRepo.ErrInvoiceNotFound
	}
	return inv, nil
}

func (r memInvoices) CountIssuedBetween(_ context.Context, from, to time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, inv := range r.s.invoices {
		if !inv.IssuedAt.Before(from) && inv.IssuedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Enqueue(_ context.Context, event *domain.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, event)
	return nil
}

// barrierCounter задерживает каждого читателя, пока все parties не прочитают счетчик
type barrierCounter struct {
	inner   invoicenumber.InvoiceCounter
	arrived sync.WaitGroup
}

func newBarrierCounter(inner invoicenumber.InvoiceCounter, parties int) *barrierCounter {
	b := &barrierCounter{inner: inner}
	b.arrived.Add(parties)
	return b
}

func (b *barrierCounter) CountIssuedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	n, err := b.inner.CountIssuedBetween(ctx, from, to)
	b.arrived.Done()
	b.arrived.Wait()
	return n, err
}

type atomicCounter struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func (c *atomicCounter) Next(_ context.Context, period string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seqs == nil {
		c.seqs = map[string]int64{}
	}
	c.seqs[period]++
	return c.seqs[period], nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type complaintStub struct {
	complaints map[int64]*complaintservice.Complaint
}

func (s complaintStub) GetComplaint(_ context.Context, id int64) (*complaintservice.Complaint, error) {
	c, ok := s.complaints[id]
	if !ok {
		return nil, complaintservice.ErrComplaintNotFound
	}
	return c, nil
}

type clientStub struct {
	clients map[int64]*clientservice.ClientInfo
}

func (s clientStub) GetClientWithGracefulDegradation(_ context.Context, id int64) (*clientservice.ClientInfo, error) {
	c, ok := s.clients[id]
	if !ok {
		return nil, errors.Join(clientservice.ErrServiceDegraded, errors.New("connection refused"))
	}
	return c, nil
}

type metricsStub struct {
	mu        sync.Mutex
	created   map[string]int
	conflicts int
	degraded  int
}

func (m *metricsStub) IncInvoiceCreated(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.created == nil {
		m.created = map[string]int{}
	}
	m.created[trigger]++
}

func (m *metricsStub) IncInvoiceNumberConflict(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *metricsStub) IncUpstreamDegraded(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded++
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, time.March, 15, 16, 0, 0, 0, time.UTC)

func completedIntervention(id, complaintID int64) *domain.Intervention {
	completed := testNow.Add(-time.Hour)
	return &domain.Intervention{
		ID:             id,
		ComplaintID:    complaintID,
		TechnicianID:   3,
		TechnicianName: "Jean Dupont",
		ScheduledAt:    testNow.Add(-3 * time.Hour),
		Status:         domain.InterventionCompleted,
		Description:    ptr.Ptr("Fuite sous le lave-linge"),
		Solution:       ptr.Ptr("Joint remplacé"),
		PartsCost:      ptr.Ptr(decimal.RequireFromString("20.00")),
		LaborCost:      ptr.Ptr(decimal.RequireFromString("50.00")),
		CompletedAt:    &completed,
	}
}

type fixture struct {
	store   *memStore
	metrics *metricsStub
	uc      *UseCase
}

func newFixture(counterFor func(s *memStore) invoicenumber.Counter, strategy string, items ...*domain.Intervention) *fixture {
	store := newMemStore(items...)
	var counter invoicenumber.Counter = &atomicCounter{}
	if counterFor != nil {
		counter = counterFor(store)
	}
	m := &metricsStub{}
	uc := NewUseCase(
		memInterventions{store},
		memInvoices{store},
		memOutbox{store},
		complaintStub{complaints: map[int64]*complaintservice.Complaint{
			2: {ID: 2, ClientID: 5, ArticleID: 9},
			4: {ID: 4, ClientID: 404, ArticleID: 9},
		}},
		clientStub{clients: map[int64]*clientservice.ClientInfo{
			5: {ID: 5, Name: "Marie Curie", Address: "1 rue Pierre", Email: "marie@example.org"},
		}},
		invoicenumber.NewGenerator(domain.DefaultInvoicePrefix, strategy, counter),
		passthroughTx{},
		domain.DefaultBillingRules(),
		m,
		logger.NewWriter(io.Discard, "debug"),
	).WithTimeProvider(fixedClock{now: testNow})
	return &fixture{store: store, metrics: m, uc: uc}
}

package invoicenumber

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SAV-InterventionService/internal/domain"
)

type memoryCounter struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func (m *memoryCounter) Next(_ context.Context, period string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seqs == nil {
		m.seqs = map[string]int64{}
	}
	m.seqs[period]++
	return m.seqs[period], nil
}

type failingCounter struct{}

func (failingCounter) Next(context.Context, string) (int64, error) {
	return 0, errors.New("redis: connection refused")
}

type invoiceCounterStub struct {
	mu       sync.Mutex
	count    int64
	from, to time.Time
}

func (s *invoiceCounterStub) CountIssuedBetween(_ context.Context, from, to time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.from, s.to = from, to
	return s.count, nil
}

func TestGenerator_Next(t *testing.T) {
	g := NewGenerator("FACT", domain.NumberStrategySequence, &memoryCounter{})
	ctx := context.Background()
	march := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	first, err := g.Next(ctx, march)
	require.NoError(t, err)
	second, err := g.Next(ctx, march)
	require.NoError(t, err)
	april, err := g.Next(ctx, march.AddDate(0, 1, 0))
	require.NoError(t, err)

	assert.Equal(t, "FACT-202603-0001", first)
	assert.Equal(t, "FACT-202603-0002", second)
	assert.Equal(t, "FACT-202604-0001", april)
}

func TestGenerator_DefaultPrefixAndErrors(t *testing.T) {
	g := NewGenerator("", domain.NumberStrategyRedis, failingCounter{})
	_, err := g.Next(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrCounter)
	assert.Equal(t, domain.NumberStrategyRedis, g.Strategy())
	assert.Equal(t, "FACT-202601-12345", Format(domain.DefaultInvoicePrefix, "202601", 12345))
}

func TestCountingCounter(t *testing.T) {
	stub := &invoiceCounterStub{count: 4}
	c := NewCountingCounter(stub)

	seq, err := c.Next(context.Background(), "202612")
	require.NoError(t, err)
	assert.Equal(t, int64(5), seq)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), stub.from)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), stub.to)

	_, err = c.Next(context.Background(), "bad")
	assert.Error(t, err)
}

// Без записи между чтением и форматированием два писателя получают один и тот же номер
func TestCountingCounter_ConcurrentReadersCollide(t *testing.T) {
	g := NewGenerator("FACT", domain.NumberStrategyCount, NewCountingCounter(&invoiceCounterStub{count: 0}))
	now := time.Date(2026, time.May, 3, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	numbers := make([]string, 2)
	for i := range numbers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := g.Next(context.Background(), now)
			assert.NoError(t, err)
			numbers[i] = n
		}(i)
	}
	wg.Wait()

	assert.Equal(t, numbers[0], numbers[1])
	assert.Equal(t, "FACT-202605-0001", numbers[0])
}

type issuedInvoices struct {
	issued []time.Time
}

func (s *issuedInvoices) CountIssuedBetween(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, at := range s.issued {
		if !at.Before(from) && at.Before(to) {
			n++
		}
	}
	return n, nil
}

// Первые часы месяца на хосте не в UTC: период и окно подсчета совпадают
func TestGenerator_CountStrategyNonUTCMonthBoundary(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	store := &issuedInvoices{}
	g := NewGenerator("FACT", domain.NumberStrategyCount, NewCountingCounter(store))

	var numbers []string
	for _, at := range []time.Time{
		time.Date(2026, time.April, 1, 0, 10, 0, 0, paris),
		time.Date(2026, time.April, 1, 0, 40, 0, 0, paris),
	} {
		n, err := g.Next(context.Background(), at)
		require.NoError(t, err)
		numbers = append(numbers, n)
		store.issued = append(store.issued, at)
	}

	assert.NotEqual(t, numbers[0], numbers[1])
	assert.Equal(t, []string{"FACT-202603-0001", "FACT-202603-0002"}, numbers)
}

func TestPeriod_IgnoresLocation(t *testing.T) {
	instant := time.Date(2026, time.March, 31, 22, 10, 0, 0, time.UTC)
	assert.Equal(t, "202603", Period(instant))
	assert.Equal(t, Period(instant), Period(instant.In(time.FixedZone("CEST", 2*60*60))))
	assert.Equal(t, "202604", Period(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)))
}

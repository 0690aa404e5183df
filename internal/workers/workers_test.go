package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-hook-gate/internal/idempotency"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/store"
	"github.com/MKhiriev/go-hook-gate/models"
)

// mockWorker is a test implementation of the Worker interface that tracks
// how many times Run was called.
type mockWorker struct {
	mu       sync.Mutex
	runCount int
}

func (m *mockWorker) Run(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCount++
}

func (m *mockWorker) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runCount
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run(context.Background())
	ws.Wait()

	for i, w := range []*mockWorker{w1, w2, w3} {
		assert.Equal(t, 1, w.count(), "worker[%d]", i)
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run(context.Background())
	ws.Wait()
}

func TestWorkers_NilEntriesSkipped(t *testing.T) {
	w := &mockWorker{}

	ws := NewWorkers(nil, w, nil)
	ws.Run(context.Background())
	ws.Wait()

	assert.Equal(t, 1, w.count())
}

func TestSweeper_RemovesExpiredEntries(t *testing.T) {
	cache := idempotency.NewCache(time.Millisecond, logger.Nop())
	outcome, _ := cache.Reserve("k")
	require.Equal(t, idempotency.OutcomeReserved, outcome)
	cache.Commit("k", &idempotency.CachedResponse{Status: 200})

	s := NewSweeper(cache, 5*time.Millisecond, logger.Nop())
	require.NotNil(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return cache.Len() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestSweeper_DisabledConfigurations(t *testing.T) {
	cache := idempotency.NewCache(time.Minute, logger.Nop())

	assert.Nil(t, NewSweeper(nil, time.Second, logger.Nop()))
	assert.Nil(t, NewSweeper(cache, 0, logger.Nop()))
}

// blockingStore signals each insert so tests can await persistence.
type blockingStore struct {
	mu       sync.Mutex
	inserted []models.DeliveryRecord
	signal   chan struct{}
	closed   bool
}

func newBlockingStore() *blockingStore {
	return &blockingStore{signal: make(chan struct{}, 16)}
}

func (s *blockingStore) Insert(_ context.Context, rec models.DeliveryRecord) error {
	s.mu.Lock()
	s.inserted = append(s.inserted, rec)
	s.mu.Unlock()
	s.signal <- struct{}{}
	return nil
}

func (s *blockingStore) Recent(context.Context, int) ([]models.DeliveryRecord, error) {
	return nil, nil
}

func (s *blockingStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ store.JournalStore = (*blockingStore)(nil)

func TestJournalWriter_PersistsRecords(t *testing.T) {
	st := newBlockingStore()
	w := NewJournalWriter(st, logger.Nop(), nil)
	require.NotNil(t, w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	w.Record(models.DeliveryRecord{RouteID: "ContactCreate"})

	select {
	case <-st.signal:
	case <-time.After(time.Second):
		t.Fatal("record never persisted")
	}

	cancel()
	<-done

	st.mu.Lock()
	defer st.mu.Unlock()
	require.Len(t, st.inserted, 1)
	assert.Equal(t, "ContactCreate", st.inserted[0].RouteID)
	assert.True(t, st.closed, "store must be closed on shutdown")
}

func TestJournalWriter_DrainsQueueOnShutdown(t *testing.T) {
	st := newBlockingStore()
	w := NewJournalWriter(st, logger.Nop(), nil)

	// enqueue before the worker ever runs
	w.Record(models.DeliveryRecord{RouteID: "a"})
	w.Record(models.DeliveryRecord{RouteID: "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	assert.Len(t, st.inserted, 2)
	assert.True(t, st.closed)
}

func TestJournalWriter_NilStore(t *testing.T) {
	assert.Nil(t, NewJournalWriter(nil, logger.Nop(), nil))
}

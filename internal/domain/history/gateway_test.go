package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medisage-api/internal/config"
	"medisage-api/internal/infrastructure/metrics"
	"medisage-api/internal/utils/platformerrors"
)

type memoryRepo struct {
	mu        sync.Mutex
	records   map[Kind]map[uint]*Record
	nextID    uint
	updates   int
	createErr error
	findErr   error
	created   chan *Record
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[Kind]map[uint]*Record{}, created: make(chan *Record, 16)}
}

func (m *memoryRepo) Create(ctx context.Context, record *Record) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	m.nextID++
	record.ID = m.nextID
	if m.records[record.Kind] == nil {
		m.records[record.Kind] = map[uint]*Record{}
	}
	copied := *record
	m.records[record.Kind][record.ID] = &copied
	m.mu.Unlock()
	m.created <- record
	return nil
}

func (m *memoryRepo) FindByID(ctx context.Context, kind Kind, id uint) (*Record, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[kind][id]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "record not found", nil, "test")
	}
	copied := *record
	return &copied, nil
}

func (m *memoryRepo) UpdateSaved(ctx context.Context, kind Kind, id uint, saved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.records[kind][id].Saved = saved
	return nil
}

func (m *memoryRepo) List(ctx context.Context, filter Filter, page Pagination) ([]*Record, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Record
	for _, byID := range m.records {
		for _, r := range byID {
			if r.OwnedBy(filter.UserID) {
				out = append(out, r)
			}
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryRepo) seed(kind Kind, userID *uint, saved bool) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if m.records[kind] == nil {
		m.records[kind] = map[uint]*Record{}
	}
	m.records[kind][m.nextID] = &Record{ID: m.nextID, Kind: kind, UserID: userID, Saved: saved, Timestamp: time.Now()}
	return m.nextID
}

func newTestGateway(repo Repository, queueSize int) *Gateway {
	cfg := &config.Config{HistoryQueueSize: queueSize, HistoryWriteTimeout: time.Second}
	return NewGateway(cfg, repo, zerolog.Nop())
}

func uintPtr(v uint) *uint { return &v }

func TestGatewayRecordPersistsAsync(t *testing.T) {
	repo := newMemoryRepo()
	gw := newTestGateway(repo, 4)

	ctx, cancel := context.WithCancel(context.Background())
	go gw.Run(ctx)
	defer func() {
		cancel()
		gw.Wait()
	}()

	gw.Record(context.Background(), &Record{Kind: KindMedicalQuery, RequestSummary: "flu"})

	select {
	case record := <-repo.created:
		assert.Equal(t, KindMedicalQuery, record.Kind)
		assert.False(t, record.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("record was not persisted")
	}
}

func TestGatewayRecordNeverBlocksWhenQueueFull(t *testing.T) {
	repo := newMemoryRepo()
	gw := newTestGateway(repo, 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			gw.Record(context.Background(), &Record{Kind: KindVoiceInteraction})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	assert.Len(t, gw.queue, 1)
}

func TestGatewayRecordSwallowsStorageErrors(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = errors.New("connection refused")
	gw := newTestGateway(repo, 2)

	gw.Record(context.Background(), &Record{Kind: KindSymptomCheck})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw.Run(ctx)

	assert.Empty(t, gw.queue)
}

func TestGatewayDrainsOnShutdown(t *testing.T) {
	repo := newMemoryRepo()
	gw := newTestGateway(repo, 4)

	gw.Record(context.Background(), &Record{Kind: KindMedicalQuery})
	gw.Record(context.Background(), &Record{Kind: KindMedicineScan})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gw.Run(ctx)

	assert.Len(t, repo.created, 2)

	gw.Record(context.Background(), &Record{Kind: KindMedicalQuery})
	assert.Empty(t, gw.queue, "records after shutdown are dropped")
}

func TestGatewayShutdownAccountsForEveryRecord(t *testing.T) {
	const (
		writers   = 32
		perWriter = 25
		total     = writers * perWriter
	)
	kind := Kind("shutdown-race")
	dropped := func() float64 {
		return testutil.ToFloat64(metrics.HistoryWriteFailuresTotal.WithLabelValues(string(kind), "shutdown")) +
			testutil.ToFloat64(metrics.HistoryWriteFailuresTotal.WithLabelValues(string(kind), "queue_full"))
	}

	for round := 0; round < 5; round++ {
		repo := newMemoryRepo()
		repo.created = make(chan *Record, total)
		gw := newTestGateway(repo, total)
		before := dropped()

		ctx, cancel := context.WithCancel(context.Background())
		go gw.Run(ctx)

		var wg sync.WaitGroup
		start := make(chan struct{})
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := 0; i < perWriter; i++ {
					gw.Record(context.Background(), &Record{Kind: kind})
				}
			}()
		}
		close(start)
		time.Sleep(time.Millisecond)
		cancel()
		wg.Wait()
		gw.Wait()

		persisted := len(repo.created)
		assert.Equal(t, float64(total), float64(persisted)+dropped()-before, "round %d", round)
		assert.Empty(t, gw.queue, "round %d", round)
	}
}

func TestToggleSavedIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	id := repo.seed(KindMedicalQuery, uintPtr(7), false)
	gw := newTestGateway(repo, 1)

	first, err := gw.ToggleSaved(context.Background(), KindMedicalQuery, id, 7, true)
	require.NoError(t, err)
	assert.True(t, first.Saved)

	second, err := gw.ToggleSaved(context.Background(), KindMedicalQuery, id, 7, true)
	require.NoError(t, err)
	assert.True(t, second.Saved)
	assert.Equal(t, 1, repo.updates)
}

func TestToggleSavedRejectsOtherUsers(t *testing.T) {
	repo := newMemoryRepo()
	owned := repo.seed(KindSymptomCheck, uintPtr(1), false)
	anonymous := repo.seed(KindSymptomCheck, nil, false)
	gw := newTestGateway(repo, 1)

	_, err := gw.ToggleSaved(context.Background(), KindSymptomCheck, owned, 2, true)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = gw.ToggleSaved(context.Background(), KindSymptomCheck, anonymous, 2, true)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	assert.Equal(t, 0, repo.updates)
	record, _ := repo.FindByID(context.Background(), KindSymptomCheck, owned)
	assert.False(t, record.Saved)
}

func TestToggleSavedMissingItem(t *testing.T) {
	gw := newTestGateway(newMemoryRepo(), 1)

	_, err := gw.ToggleSaved(context.Background(), KindMedicineScan, 999, 1, true)

	var platformErr *platformerrors.PlatformError
	require.True(t, errors.As(err, &platformErr))
	assert.Equal(t, platformerrors.ErrorTypeNotFound, platformErr.Type)
	assert.Equal(t, "item not found", platformErr.Message)
}

func TestToggleSavedSurfacesStorageErrors(t *testing.T) {
	repo := newMemoryRepo()
	repo.findErr = platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "db down", nil, "test")
	gw := newTestGateway(repo, 1)

	_, err := gw.ToggleSaved(context.Background(), KindMedicalQuery, 1, 1, true)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Symptom ")
	require.NoError(t, err)
	assert.Equal(t, KindSymptomCheck, kind)

	_, err = ParseKind("prescription")
	assert.Error(t, err)
}

func TestPaginationNormalize(t *testing.T) {
	assert.Equal(t, Pagination{Limit: DefaultListLimit}, Pagination{}.Normalize())
	assert.Equal(t, Pagination{Limit: MaxListLimit, Offset: 0}, Pagination{Limit: 1000, Offset: -3}.Normalize())
}

package history

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"medisage-api/internal/config"
	"medisage-api/internal/infrastructure/metrics"
	"medisage-api/internal/utils/platformerrors"
)

// Gateway is the only path by which orchestration results reach storage.
// Record never blocks the caller and never fails it; ToggleSaved and ListForUser
// are direct user actions and surface storage failures.
type Gateway struct {
	repo         Repository
	queue        chan *Record
	writeTimeout time.Duration
	log          zerolog.Logger

	// mu orders sends against shutdown so nothing lands in the queue after the final drain.
	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
	once    sync.Once
}

func NewGateway(cfg *config.Config, repo Repository, log zerolog.Logger) *Gateway {
	size := cfg.HistoryQueueSize
	if size <= 0 {
		size = 1
	}
	timeout := cfg.HistoryWriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gateway{
		repo:         repo,
		queue:        make(chan *Record, size),
		writeTimeout: timeout,
		log:          log.With().Str("component", "history-gateway").Logger(),
		done:         make(chan struct{}),
	}
}

// Record enqueues a completed orchestration for persistence. ctx is used for log
// correlation only; the write itself outlives the request.
func (g *Gateway) Record(ctx context.Context, record *Record) {
	if record == nil {
		return
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.stopped {
		g.drop(ctx, record, "shutdown")
		return
	}
	select {
	case g.queue <- record:
		metrics.HistoryQueueDepth.Set(float64(len(g.queue)))
	default:
		g.drop(ctx, record, "queue_full")
	}
}

func (g *Gateway) drop(ctx context.Context, record *Record, reason string) {
	metrics.RecordHistoryWriteFailure(string(record.Kind), reason)
	requestID, _ := ctx.Value(platformerrors.RequestIDKey{}).(string)
	g.log.Warn().
		Str("kind", string(record.Kind)).
		Str("reason", reason).
		Str("request_id", requestID).
		Msg("history record dropped")
}

// Run consumes the queue until ctx is cancelled, then drains what is already queued.
func (g *Gateway) Run(ctx context.Context) {
	defer g.once.Do(func() { close(g.done) })
	for {
		select {
		case record := <-g.queue:
			g.write(record)
		case <-ctx.Done():
			g.mu.Lock()
			g.stopped = true
			g.mu.Unlock()
			g.drain()
			return
		}
	}
}

// Wait blocks until Run has drained the queue and returned.
func (g *Gateway) Wait() {
	<-g.done
}

func (g *Gateway) drain() {
	for {
		select {
		case record := <-g.queue:
			g.write(record)
		default:
			metrics.HistoryQueueDepth.Set(0)
			return
		}
	}
}

func (g *Gateway) write(record *Record) {
	metrics.HistoryQueueDepth.Set(float64(len(g.queue)))

	ctx, cancel := context.WithTimeout(context.Background(), g.writeTimeout)
	defer cancel()

	if err := g.repo.Create(ctx, record); err != nil {
		metrics.RecordHistoryWriteFailure(string(record.Kind), "storage")
		g.log.Error().
			Err(err).
			Str("kind", string(record.Kind)).
			Str("model_id", record.ModelID).
			Msg("failed to persist history record")
		return
	}
	g.log.Debug().
		Str("kind", string(record.Kind)).
		Uint("id", record.ID).
		Msg("history record persisted")
}

// ToggleSaved sets the saved flag on a record owned by userID. Records that are
// missing or owned by someone else are reported identically as not found.
func (g *Gateway) ToggleSaved(ctx context.Context, kind Kind, id uint, userID uint, saved bool) (*Record, error) {
	record, err := g.repo.FindByID(ctx, kind, id)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, itemNotFound(ctx, kind, id)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load history item")
	}
	if !record.OwnedBy(userID) {
		g.log.Info().
			Str("kind", string(kind)).
			Uint("id", id).
			Uint("user_id", userID).
			Msg("save toggle on item not owned by caller")
		return nil, itemNotFound(ctx, kind, id)
	}
	if record.Saved == saved {
		return record, nil
	}
	if err := g.repo.UpdateSaved(ctx, kind, id, saved); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update history item")
	}
	record.Saved = saved
	return record, nil
}

// ListForUser returns the caller's records newest first.
func (g *Gateway) ListForUser(ctx context.Context, filter Filter, page Pagination) ([]*Record, int64, error) {
	records, total, err := g.repo.List(ctx, filter, page.Normalize())
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list history")
	}
	return records, total, nil
}

func itemNotFound(ctx context.Context, kind Kind, id uint) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"item not found", nil, "7b0f5a0e-3c55-4d0f-9a43-1f6f2f7c9d21",
		map[string]any{"kind": string(kind), "id": id})
}

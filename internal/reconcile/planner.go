package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/jobsync/internal/fingerprint"
	"github.com/roach88/jobsync/internal/logger"
	"github.com/roach88/jobsync/internal/metrics"
	"github.com/roach88/jobsync/internal/record"
)

// DefaultWorkers bounds concurrent fingerprint computations in PlanMany.
const DefaultWorkers = 4

// RecordSource reads receipts from the local store.
type RecordSource interface {
	GetReceipt(ctx context.Context, id string) (record.Receipt, error)
	ListReceiptIDs(ctx context.Context) ([]string, error)
}

// SyncLedger remembers the fingerprint of each record's last push.
type SyncLedger interface {
	LastFingerprint(ctx context.Context, recordID string) (fingerprint.Fingerprint, bool, error)
	RecordSynced(ctx context.Context, recordID string, fp fingerprint.Fingerprint, seq int64) error
	MaxSyncSeq(ctx context.Context) (int64, error)
}

// Planner computes sync decisions. Safe for concurrent use.
type Planner struct {
	source   RecordSource
	ledger   SyncLedger
	accounts AccountStore

	engine  *fingerprint.Engine
	log     *logger.Logger
	metrics *metrics.Metrics
	workers int

	clockMu sync.Mutex
	clock   SeqClock
}

// Option configures a Planner.
type Option func(*Planner)

// WithEngine overrides the fingerprint engine.
func WithEngine(e *fingerprint.Engine) Option {
	return func(p *Planner) { p.engine = e }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithWorkers bounds the PlanMany worker pool. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithClock supplies the sequence clock. Without it the planner resumes
// from the ledger's highest recorded sequence on first use.
func WithClock(c SeqClock) Option {
	return func(p *Planner) { p.clock = c }
}

// WithAccounts sets the account store used for reference repair.
func WithAccounts(a AccountStore) Option {
	return func(p *Planner) { p.accounts = a }
}

// New creates a Planner reading receipts from source and sync state from ledger.
func New(source RecordSource, ledger SyncLedger, opts ...Option) *Planner {
	p := &Planner{
		source:  source,
		ledger:  ledger,
		engine:  fingerprint.New(),
		log:     logger.Nop(),
		metrics: metrics.Discard(),
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan decides the sync status of one record. Failures are reported
// through an Undecided decision carrying the error.
func (p *Planner) Plan(ctx context.Context, recordID string) Decision {
	d := p.plan(ctx, recordID)
	p.metrics.Decisions.WithLabelValues(string(d.Status)).Inc()
	if d.Status == StatusUndecided {
		p.metrics.FingerprintFailures.WithLabelValues(d.Reason).Inc()
		p.log.Warn().
			Str("record_id", recordID).
			Str("reason", d.Reason).
			Err(d.Err).
			Msg("fingerprint unknown, sync undecided")
	}
	return d
}

func (p *Planner) plan(ctx context.Context, recordID string) Decision {
	r, err := p.source.GetReceipt(ctx, recordID)
	if err != nil {
		return undecided(recordID, err)
	}

	fp, err := p.Fingerprint(ctx, r)
	if err != nil {
		return undecided(recordID, err)
	}

	last, found, err := p.ledger.LastFingerprint(ctx, recordID)
	if err != nil {
		return undecided(recordID, err)
	}

	d := Decision{RecordID: recordID, Fingerprint: fp, LastSynced: last}
	switch {
	case !found:
		d.Status = StatusUnsynced
	case last == fp:
		d.Status = StatusNoChange
	default:
		d.Status = StatusNeedsSync
	}
	return d
}

// Fingerprint canonicalizes r and digests the payload.
func (p *Planner) Fingerprint(ctx context.Context, r record.Receipt) (fingerprint.Fingerprint, error) {
	start := time.Now()
	defer func() { p.metrics.FingerprintDuration.Observe(time.Since(start).Seconds()) }()

	payload, err := r.Canonicalize()
	if err != nil {
		return "", err
	}
	return p.engine.Fingerprint(ctx, payload)
}

// PlanAll plans every stored receipt.
func (p *Planner) PlanAll(ctx context.Context) (Report, error) {
	ids, err := p.source.ListReceiptIDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list receipts: %w", err)
	}
	return p.PlanMany(ctx, ids)
}

// PlanMany plans ids on a bounded worker pool. Decisions keep the order of
// ids. The returned error is non-nil only when ctx ends before the batch
// completes; the report still holds every decision made.
func (p *Planner) PlanMany(ctx context.Context, ids []string) (Report, error) {
	runID := uuid.NewString()
	log := p.log.With("run_id", runID)

	report := Report{RunID: runID, Decisions: make([]Decision, len(ids))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report.Decisions[i] = undecided(id, err)
				return err
			}
			report.Decisions[i] = p.Plan(gctx, id)
			return nil
		})
	}
	err := g.Wait()

	counts := report.Counts()
	log.Info().
		Int("records", len(ids)).
		Int("unsynced", counts[StatusUnsynced]).
		Int("needs_sync", counts[StatusNeedsSync]).
		Int("no_change", counts[StatusNoChange]).
		Int("undecided", counts[StatusUndecided]).
		Msg("sync plan complete")

	if err != nil {
		return report, fmt.Errorf("plan run %s: %w", runID, err)
	}
	return report, nil
}

// ErrUndecided is returned by MarkSynced when the record's fingerprint is unknown.
var ErrUndecided = errors.New("fingerprint unknown")

// MarkSynced records fp as the fingerprint of a successful push of recordID.
// An empty fingerprint is rejected: an unknown fingerprint never counts as synced.
func (p *Planner) MarkSynced(ctx context.Context, recordID string, fp fingerprint.Fingerprint) (Decision, error) {
	if fp.IsZero() {
		return Decision{}, fmt.Errorf("mark synced %s: %w", recordID, ErrUndecided)
	}

	clock, err := p.seqClock(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("mark synced %s: %w", recordID, err)
	}
	seq := clock.Next()

	if err := p.ledger.RecordSynced(ctx, recordID, fp, seq); err != nil {
		return Decision{}, fmt.Errorf("mark synced %s: %w", recordID, err)
	}
	p.metrics.MarkedSynced.Inc()
	p.log.Info().
		Str("record_id", recordID).
		Str("fingerprint", fp.String()).
		Int64("seq", seq).
		Msg("record marked synced")

	return Decision{RecordID: recordID, Status: StatusSynced, Fingerprint: fp, LastSynced: fp}, nil
}

// MarkCurrentSynced plans recordID and, when it needed a push, stamps its
// current fingerprint. An undecided plan fails with ErrUndecided wrapping
// the underlying error.
func (p *Planner) MarkCurrentSynced(ctx context.Context, recordID string) (Decision, error) {
	d := p.Plan(ctx, recordID)
	switch d.Status {
	case StatusUndecided:
		return d, fmt.Errorf("mark synced %s: %w: %w", recordID, ErrUndecided, d.Err)
	case StatusNoChange:
		return d, nil
	}
	return p.MarkSynced(ctx, recordID, d.Fingerprint)
}

func (p *Planner) seqClock(ctx context.Context) (SeqClock, error) {
	p.clockMu.Lock()
	defer p.clockMu.Unlock()

	if p.clock != nil {
		return p.clock, nil
	}
	last, err := p.ledger.MaxSyncSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume clock: %w", err)
	}
	p.clock = NewClockAt(last)
	return p.clock, nil
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "ntxcensus/pkg/errors"
	"ntxcensus/pkg/logger"
	"ntxcensus/pkg/ratelimit"
	"ntxcensus/pkg/retry"
)

// Configuration-fatal errors. Per-item failures never surface here; they
// are folded into the Report.
var (
	ErrNoEntities = errors.New("collector: entity list is empty")
	ErrNoPeriods  = errors.New("collector: period list is empty")
)

// Options configures an Engine. Nil values get defaults from New.
type Options struct {
	// MaxRetries bounds attempts per work item. Zero means a single
	// attempt with no retries; negative selects the default of 3.
	MaxRetries int
	// Backoff is the delay strategy between retry attempts
	Backoff retry.BackoffStrategy
	// Limiter paces every request attempt
	Limiter ratelimit.Limiter
	Logger  logger.Logger
	// OnProgress, when set, is called after every processed work item
	OnProgress func(done, total int)
}

// Engine orchestrates fetching a Cartesian (entity x period) work-set from
// a Provider, checkpointing each success into the Store.
type Engine struct {
	provider   Provider
	store      Store
	limiter    ratelimit.Limiter
	logger     logger.Logger
	maxRetries int
	backoff    retry.BackoffStrategy
	onProgress func(done, total int)
}

// New creates an Engine over the given provider and store.
func New(provider Provider, store Store, opts Options) *Engine {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 3
	} else if opts.MaxRetries == 0 {
		// retry.Config treats zero attempts as unlimited; a caller asking
		// for no retries gets exactly one attempt instead
		opts.MaxRetries = 1
	}
	if opts.Backoff == nil {
		opts.Backoff = retry.DefaultExponentialBackoff()
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	return &Engine{
		provider:   provider,
		store:      store,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		onProgress: opts.OnProgress,
	}
}

// Run drives the full work-set once. Work items already present in the
// store are skipped; new successes are persisted immediately. Run returns
// a best-effort Report even on interruption — the error is non-nil only
// for configuration or store I/O faults and for context cancellation.
func (e *Engine) Run(ctx context.Context, entities []Entity, periods []int) (*Report, error) {
	report := &Report{StartedAt: time.Now()}
	if len(entities) == 0 {
		return report, ErrNoEntities
	}
	if len(periods) == 0 {
		return report, ErrNoPeriods
	}

	// The store's current content is authoritative; never trust a key set
	// cached from a previous run.
	records, err := e.store.Load()
	if err != nil {
		return report, fmt.Errorf("loading store: %w", err)
	}

	existing := make(map[Key]bool, len(records))
	for _, r := range records {
		existing[KeyOf(r)] = true
	}

	report.Total = len(entities) * len(periods)
	e.logger.InfoWithFields("starting collection run", map[string]interface{}{
		"entities":          len(entities),
		"periods":           len(periods),
		"work_set":          report.Total,
		"existing_records":  len(records),
	})

	done := 0
	// Entity-major order keeps one entity's history together, so an
	// interrupted run leaves at most one entity partially collected.
	for _, entity := range entities {
		for _, period := range periods {
			if err := ctx.Err(); err != nil {
				return e.finish(report, true), err
			}

			done++
			key := Key{EntityID: entity.ID, Period: period}
			if existing[key] {
				report.Skipped++
				e.progress(done, report.Total)
				continue
			}

			record, err := e.fetchOne(ctx, entity, period)
			switch {
			case err == nil:
				records = append(records, *record)
				existing[key] = true
				report.Succeeded++
				// Checkpoint after every success so interruption never
				// loses completed work.
				if err := e.store.Save(records); err != nil {
					return e.finish(report, true), fmt.Errorf("saving store: %w", err)
				}
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return e.finish(report, true), err
			case errs.IsNoData(err):
				report.NoData++
				e.logger.DebugWithFields("no data for work item", map[string]interface{}{
					"entity_id": entity.ID,
					"entity":    entity.Name,
					"period":    period,
				})
			default:
				report.Failed++
				report.Failures = append(report.Failures, Failure{
					EntityID: entity.ID,
					Period:   period,
					Reason:   err.Error(),
				})
				e.logger.WarnWithFields("work item failed", map[string]interface{}{
					"entity_id": entity.ID,
					"entity":    entity.Name,
					"period":    period,
					"error":     err.Error(),
				})
			}

			e.progress(done, report.Total)
		}
	}

	e.finish(report, false)
	e.logger.InfoWithFields("collection run complete", map[string]interface{}{
		"total":        report.Total,
		"skipped":      report.Skipped,
		"succeeded":    report.Succeeded,
		"failed":       report.Failed,
		"no_data":      report.NoData,
		"completeness": fmt.Sprintf("%.1f%%", report.Completeness()*100),
	})
	return report, nil
}

// fetchOne issues one provider query with rate-limit pacing and bounded
// retry. Transient errors are retried; no-data and other permanent errors
// return immediately.
func (e *Engine) fetchOne(ctx context.Context, entity Entity, period int) (*Record, error) {
	cfg := &retry.Config{
		MaxAttempts: e.maxRetries,
		Backoff:     e.backoff,
		RetryIf:     retry.DefaultRetryIf,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			if errs.TypeOf(err) == errs.ErrorTypeRateLimit {
				logger.LogRateLimit(entity.ID, int(delay.Seconds()))
			}
		},
		Context: ctx,
		Logger:  e.logger,
	}

	return retry.DoWithResult(func() (*Record, error) {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return e.provider.Fetch(ctx, entity, period)
	}, cfg)
}

func (e *Engine) finish(report *Report, interrupted bool) *Report {
	report.FinishedAt = time.Now()
	report.Interrupted = interrupted
	return report
}

func (e *Engine) progress(done, total int) {
	if e.onProgress != nil {
		e.onProgress(done, total)
	}
}

package feed

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	actrepo "github.com/yungbote/cargoledger-backend/internal/data/repos/activity"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	domainagg "github.com/yungbote/cargoledger-backend/internal/domain/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

type Config struct {
	// SourceTimeout bounds each source query; zero means no per-source deadline.
	SourceTimeout time.Duration
	MaxLimit      int
	// MaxWindow caps page*limit; pages past it are rejected.
	MaxWindow int
}

// Aggregator merges every module's audit stream into one time-ordered, paginated feed.
type Aggregator struct {
	sources []Source
	order   map[activity.Module]int
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

func NewAggregator(sources []Source, cfg Config, baseLog *logger.Logger, metrics *observability.Metrics) *Aggregator {
	b := Bounds{MaxLimit: cfg.MaxLimit, MaxWindow: cfg.MaxWindow}.withDefaults()
	cfg.MaxLimit, cfg.MaxWindow = b.MaxLimit, b.MaxWindow
	order := map[activity.Module]int{}
	for i, m := range activity.AllModules {
		order[m] = i
	}
	return &Aggregator{
		sources: sources,
		order:   order,
		cfg:     cfg,
		log:     baseLog.With("component", "FeedAggregator"),
		metrics: metrics,
		tracer:  observability.Tracer(),
	}
}

func (a *Aggregator) Contract() domainagg.Contract { return domainagg.FeedReadContract }

func (a *Aggregator) Bounds() Bounds {
	return Bounds{MaxLimit: a.cfg.MaxLimit, MaxWindow: a.cfg.MaxWindow}
}

// Modules lists the modules the feed reads from.
func (a *Aggregator) Modules() []activity.Module {
	out := make([]activity.Module, 0, len(a.sources))
	for _, s := range a.sources {
		out = append(out, s.Module())
	}
	return out
}

type sourceResult struct {
	module activity.Module
	rows   []*actrepo.Row
	total  int64
	err    error
}

// GetFeed returns one page of the merged feed. Each source is asked for its newest
// page*limit matches, which is enough to cut any page out of the merge exactly. A source
// that fails contributes no records and nothing to the total. Pages whose window passes
// MaxWindow are rejected.
func (a *Aggregator) GetFeed(ctx context.Context, f Filter) (*Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > a.cfg.MaxLimit {
		f.Limit = a.cfg.MaxLimit
	}
	if !pageFits(f.Page, f.Limit, a.cfg.MaxWindow) {
		return nil, domainagg.NewError(domainagg.CodeValidation, "feed.get", "page is past the feed window", nil)
	}

	ctx, span := a.tracer.Start(ctx, "feed.get",
		trace.WithAttributes(
			attribute.Int("feed.page", f.Page),
			attribute.Int("feed.limit", f.Limit),
			attribute.String("feed.module", string(f.Module)),
		),
	)
	defer span.End()

	q := actrepo.Query{
		Search:   f.Search,
		Type:     f.Type,
		ActorID:  f.ActorID,
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Limit:    f.Page * f.Limit,
	}

	var selected []Source
	for _, s := range a.sources {
		if f.Module == "" || s.Module() == f.Module {
			selected = append(selected, s)
		}
	}
	results := make([]sourceResult, len(selected))

	var g errgroup.Group
	for i, s := range selected {
		i, s := i, s
		g.Go(func() error {
			results[i] = a.fetch(ctx, s, q)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domainagg.Wrap(domainagg.CodeRetryable, "feed.get", err)
	}

	page := &Page{Records: []Entry{}}
	var merged []*actrepo.Row
	for _, r := range results {
		if r.err != nil {
			page.FailedModules = append(page.FailedModules, r.module)
			continue
		}
		merged = append(merged, r.rows...)
		page.Pagination.Total += r.total
	}
	sort.SliceStable(merged, func(i, j int) bool { return a.less(merged[i], merged[j]) })

	start := (f.Page - 1) * f.Limit
	if start < len(merged) {
		end := start + f.Limit
		if end > len(merged) {
			end = len(merged)
		}
		for _, row := range merged[start:end] {
			page.Records = append(page.Records, normalize(row))
		}
	}
	page.Pagination.Page = f.Page
	page.Pagination.Limit = f.Limit
	page.Pagination.TotalPages = totalPages(page.Pagination.Total, f.Limit)

	partial := len(page.FailedModules) > 0
	a.metrics.IncFeedRequest(partial)
	if partial {
		a.log.Warn("activity feed served partially",
			"code", string(domainagg.CodePartialFeedFailure),
			"failed_modules", page.FailedModules,
		)
		span.SetAttributes(attribute.Int("feed.failed_sources", len(page.FailedModules)))
	}
	span.SetAttributes(attribute.Int64("feed.total", page.Pagination.Total))
	return page, nil
}

func (a *Aggregator) fetch(ctx context.Context, s Source, q actrepo.Query) sourceResult {
	module := s.Module()
	ctx, span := a.tracer.Start(ctx, "feed.source", trace.WithAttributes(attribute.String("feed.module", string(module))))
	defer span.End()
	if a.cfg.SourceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.SourceTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, total, err := s.Fetch(ctx, q)
	if err != nil {
		a.metrics.ObserveFeedSource(string(module), "error", time.Since(start))
		a.metrics.IncFeedSourceFailure(string(module))
		a.log.Error("feed source failed", "module", module, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return sourceResult{module: module, err: err}
	}
	a.metrics.ObserveFeedSource(string(module), "success", time.Since(start))
	span.SetAttributes(attribute.Int("feed.rows", len(rows)), attribute.Int64("feed.total", total))
	return sourceResult{module: module, rows: rows, total: total}
}

// less orders newest first, then by module registration order, then by id.
func (a *Aggregator) less(x, y *actrepo.Row) bool {
	if !x.CreatedAt.Equal(y.CreatedAt) {
		return x.CreatedAt.After(y.CreatedAt)
	}
	if x.Module != y.Module {
		return a.order[x.Module] < a.order[y.Module]
	}
	return x.ID.String() < y.ID.String()
}

func totalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	domainagg "github.com/yungbote/cargoledger-backend/internal/domain/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/feed"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
	"github.com/yungbote/cargoledger-backend/internal/realtime"
)

// MutationDeps is shared by every module service: one transaction per mutation, an audit
// recorder writing inside it, and the container rollup run after commit.
type MutationDeps struct {
	DB      *gorm.DB
	Log     *logger.Logger
	Hooks   aggregates.Hooks
	Runner  aggregates.TxRunner
	Audit   *audit.Recorder
	Rollup  domainagg.ContainerRollupAggregate
	Metrics *observability.Metrics
	// Live receives committed activity; nil disables the stream.
	Live realtime.Publisher
}

type mutator struct {
	base    aggregates.BaseDeps
	cas     aggregates.CASGuard
	audit   *audit.Recorder
	rollup  domainagg.ContainerRollupAggregate
	metrics *observability.Metrics
	live    realtime.Publisher
	log     *logger.Logger
}

func newMutator(d MutationDeps, log *logger.Logger) mutator {
	return mutator{
		base: aggregates.BaseDeps{
			DB:       d.DB,
			Log:      log,
			Runner:   d.Runner,
			Hooks:    d.Hooks,
			CASGuard: aggregates.NewCASGuard(d.DB),
		},
		cas:     aggregates.NewCASGuard(d.DB),
		audit:   d.Audit,
		rollup:  d.Rollup,
		metrics: d.Metrics,
		live:    d.Live,
		log:     log,
	}
}

// Contract is shared by every service built on mutator.
func (m mutator) Contract() domainagg.Contract { return domainagg.AuditedMutationContract }

// write runs fn as one transaction; errors come back carrying an aggregate code. Activity
// staged by fn reaches the live stream only after commit.
func (m mutator) write(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	ctx, pending := realtime.WithPending(ctx)
	err := aggregates.ExecuteWrite(ctx, m.base, op, func(dbc dbctx.Context) error {
		pending.Reset()
		return fn(dbc)
	})
	if err == nil {
		m.publish(ctx, pending.Drain())
	}
	return err
}

func (m mutator) record(dbc dbctx.Context, ch audit.Change) error {
	rows, err := m.audit.Record(dbc, ctxutil.ActorID(dbc.Ctx), ch)
	if err != nil {
		return err
	}
	m.stage(dbc.Ctx, rows...)
	return nil
}

func (m mutator) recordEvent(dbc dbctx.Context, ev audit.Event) error {
	row, err := m.audit.RecordEvent(dbc, ctxutil.ActorID(dbc.Ctx), ev)
	if err != nil {
		return err
	}
	m.stage(dbc.Ctx, row)
	return nil
}

func (m mutator) stage(ctx context.Context, rows ...*activity.Record) {
	if m.live == nil {
		return
	}
	pending := realtime.PendingFrom(ctx)
	if pending == nil {
		return
	}
	actorName := ""
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		actorName = rd.UserName
	}
	for _, row := range rows {
		if row == nil {
			continue
		}
		entry := feed.EntryFromRecord(row, actorName)
		pending.Append(
			realtime.Message{Channel: realtime.ChannelAll, Event: realtime.EventActivityRecorded, Data: entry},
			realtime.Message{Channel: realtime.ModuleChannel(string(row.Module)), Event: realtime.EventActivityRecorded, Data: entry},
		)
	}
}

func (m mutator) publish(ctx context.Context, msgs []realtime.Message) {
	if m.live == nil {
		return
	}
	for _, msg := range msgs {
		if err := m.live.Publish(ctx, msg); err != nil {
			m.log.Warn("activity publish failed", "channel", msg.Channel, "error", err)
			return
		}
	}
}

// rollupAfter recomputes container totals once the mutation committed. A failure is
// logged and counted; the mutation itself already succeeded.
func (m mutator) rollupAfter(ctx context.Context, containerID uuid.UUID, trigger string) {
	if m.rollup == nil || containerID == uuid.Nil {
		return
	}
	if _, err := m.rollup.Recalculate(ctx, containerID); err != nil {
		m.metrics.IncRollupFailure(trigger)
		m.log.Error("container rollup failed",
			"code", string(domainagg.CodeAggregationFailure),
			"trigger", trigger,
			"container_id", containerID,
			"error", err,
		)
	}
}

func notFound(op, msg string) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, msg, nil)
}

func invalid(op, msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, op, msg, nil)
}

func conflict(op, msg string) error {
	return domainagg.NewError(domainagg.CodeConflict, op, msg, nil)
}

package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	domainagg "github.com/yungbote/cargoledger-backend/internal/domain/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/keylock"
)

const (
	opContainerRollup       = "aggregate.container_rollup.recalculate"
	defaultRollupMaxAttempt = 3
)

type ContainerRollupDeps struct {
	BaseDeps
	Containers repos.ContainerRepo
	Sheets     repos.LoadingSheetRepo
	Items      repos.LoadingItemRepo
	Locker     keylock.Locker
	// MaxAttempts bounds recomputes after a lost rollup_version compare-and-swap.
	MaxAttempts int
}

type containerRollup struct {
	deps ContainerRollupDeps
}

func NewContainerRollup(deps ContainerRollupDeps) domainagg.ContainerRollupAggregate {
	deps.BaseDeps = deps.BaseDeps.withDefaults()
	if deps.Locker == nil {
		deps.Locker = keylock.NewKeyedMutex()
	}
	if deps.MaxAttempts <= 0 {
		deps.MaxAttempts = defaultRollupMaxAttempt
	}
	deps.Log = deps.Log.With("aggregate", "ContainerRollup")
	return &containerRollup{deps: deps}
}

func (a *containerRollup) Contract() domainagg.Contract {
	return domainagg.ContainerRollupAggregateContract
}

func (a *containerRollup) Recalculate(ctx context.Context, containerID uuid.UUID) (domainagg.ContainerTotals, error) {
	zero := domainagg.ContainerTotals{ContainerID: containerID}
	if containerID == uuid.Nil {
		return zero, nil
	}
	unlock, err := a.deps.Locker.Lock(ctx, "container:"+containerID.String())
	if err != nil {
		a.deps.Hooks.IncRetry(opContainerRollup)
		return zero, domainagg.Wrap(domainagg.CodeRetryable, opContainerRollup, err)
	}
	defer unlock()

	for attempt := 1; ; attempt++ {
		var totals domainagg.ContainerTotals
		err := ExecuteWrite(ctx, a.deps.BaseDeps, opContainerRollup, func(dbc dbctx.Context) error {
			var err error
			totals, err = a.recalculateOnce(dbc, containerID)
			return err
		})
		if err == nil {
			return totals, nil
		}
		if !domainagg.IsCode(err, domainagg.CodeConflict) || attempt >= a.deps.MaxAttempts {
			return zero, err
		}
		a.deps.Hooks.IncRetry(opContainerRollup)
		a.deps.Log.Debug("rollup version moved, recomputing", "container_id", containerID, "attempt", attempt)
	}
}

func (a *containerRollup) recalculateOnce(dbc dbctx.Context, containerID uuid.UUID) (domainagg.ContainerTotals, error) {
	c, err := a.deps.Containers.GetByID(dbc, containerID)
	if err != nil {
		return domainagg.ContainerTotals{}, err
	}
	if c == nil {
		return domainagg.ContainerTotals{ContainerID: containerID}, nil
	}
	sheets, err := a.deps.Sheets.ListByContainerID(dbc, containerID)
	if err != nil {
		return domainagg.ContainerTotals{}, err
	}
	sheetIDs := make([]uuid.UUID, 0, len(sheets))
	for _, s := range sheets {
		sheetIDs = append(sheetIDs, s.ID)
	}
	items, err := a.deps.Items.ListBySheetIDs(dbc, sheetIDs)
	if err != nil {
		return domainagg.ContainerTotals{}, err
	}

	totals := ComputeContainerTotals(sheets, items)
	totals.ContainerID = containerID
	totals.Found = true

	ok, err := a.deps.CASGuard.UpdateByVersion(dbc, types.Container{}.TableName(), containerID, "rollup_version", c.RollupVersion, map[string]any{
		"total_ctn":      totals.TotalCtn,
		"total_cbm":      totals.TotalCbm,
		"total_wt":       totals.TotalWt,
		"client_count":   totals.ClientCount,
		"rollup_version": c.RollupVersion + 1,
		"updated_at":     time.Now().UTC(),
	})
	if err != nil {
		return domainagg.ContainerTotals{}, err
	}
	if err := RequireCASSuccess(ok, "container rollup_version changed during recalculation"); err != nil {
		return domainagg.ContainerTotals{}, err
	}
	return totals, nil
}

// ComputeContainerTotals aggregates items into container totals. Line totals are taken
// from the inputs (ctn*cbm, ctn*wt), never from stored derived columns.
// clientCount counts distinct non-empty shipping marks, trimmed and case-insensitive.
func ComputeContainerTotals(sheets []*types.LoadingSheet, items []*types.LoadingItem) domainagg.ContainerTotals {
	out := domainagg.ContainerTotals{TotalCbm: decimal.Zero, TotalWt: decimal.Zero}
	for _, it := range items {
		if it == nil {
			continue
		}
		ctn := decimal.NewFromInt(it.Ctn)
		out.TotalCtn += it.Ctn
		out.TotalCbm = out.TotalCbm.Add(ctn.Mul(it.Cbm))
		out.TotalWt = out.TotalWt.Add(ctn.Mul(it.Wt))
	}
	marks := map[string]struct{}{}
	for _, s := range sheets {
		if s == nil {
			continue
		}
		m := strings.ToLower(strings.TrimSpace(s.ShippingMark))
		if m == "" {
			continue
		}
		marks[m] = struct{}{}
	}
	out.ClientCount = int64(len(marks))
	return out
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/patch"
)

const (
	profileBifurcation = "bifurcation"
	profileWarehouse   = "warehouse"
)

type BifurcationPatch struct {
	Destination  patch.Field[string] `json:"destination"`
	DeliveryMode patch.Field[string] `json:"deliveryMode"`
	Remarks      patch.Field[string] `json:"remarks"`
}

type WarehousePatch struct {
	Location     patch.Field[string]     `json:"location"`
	ReceivedDate patch.Field[patch.Date] `json:"receivedDate"`
	Remarks      patch.Field[string]     `json:"remarks"`
}

// OverlayService manages the per-sheet reporting records. They never feed the rollup.
type OverlayService interface {
	GetBifurcation(ctx context.Context, sheetID uuid.UUID) (*types.Bifurcation, error)
	UpsertBifurcation(ctx context.Context, sheetID uuid.UUID, p BifurcationPatch) (*types.Bifurcation, error)
	DeleteBifurcation(ctx context.Context, sheetID uuid.UUID) error

	GetWarehouse(ctx context.Context, sheetID uuid.UUID) (*types.WarehouseEntry, error)
	UpsertWarehouse(ctx context.Context, sheetID uuid.UUID, p WarehousePatch) (*types.WarehouseEntry, error)
	DeleteWarehouse(ctx context.Context, sheetID uuid.UUID) error
}

type overlayService struct {
	mutator
	containers repos.ContainerRepo
	sheets     repos.LoadingSheetRepo
	bif        repos.BifurcationRepo
	wh         repos.WarehouseRepo
}

func NewOverlayService(
	deps MutationDeps,
	containers repos.ContainerRepo,
	sheets repos.LoadingSheetRepo,
	bif repos.BifurcationRepo,
	wh repos.WarehouseRepo,
) OverlayService {
	return &overlayService{
		mutator:    newMutator(deps, deps.Log.With("service", "OverlayService")),
		containers: containers,
		sheets:     sheets,
		bif:        bif,
		wh:         wh,
	}
}

// sheetRef loads the owning sheet and its container code for audit labels.
func (s *overlayService) sheetRef(dbc dbctx.Context, op string, sheetID uuid.UUID) (*types.LoadingSheet, string, error) {
	sh, err := s.sheets.GetByID(dbc, sheetID)
	if err != nil {
		return nil, "", err
	}
	if sh == nil {
		return nil, "", notFound(op, "loading sheet not found")
	}
	c, err := s.containers.GetByID(dbc, sh.ContainerID)
	if err != nil {
		return nil, "", err
	}
	return sh, containerCode(c), nil
}

func (s *overlayService) GetBifurcation(ctx context.Context, sheetID uuid.UUID) (*types.Bifurcation, error) {
	row, err := s.bif.GetBySheetID(dbctx.Context{Ctx: ctx}, sheetID)
	if err != nil {
		return nil, aggregates.MapError("bifurcation.get", err)
	}
	if row == nil {
		return nil, notFound("bifurcation.get", "bifurcation not found")
	}
	return row, nil
}

func (s *overlayService) UpsertBifurcation(ctx context.Context, sheetID uuid.UUID, p BifurcationPatch) (*types.Bifurcation, error) {
	const op = "bifurcation.upsert"
	var out *types.Bifurcation
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		sh, code, err := s.sheetRef(dbc, op, sheetID)
		if err != nil {
			return err
		}
		cur, err := s.bif.GetBySheetID(dbc, sheetID)
		if err != nil {
			return err
		}
		next := types.Bifurcation{LoadingSheetID: sheetID}
		if cur != nil {
			next = *cur
		}
		if p.Destination.Set {
			next.Destination = strings.TrimSpace(p.Destination.Value)
		}
		if p.DeliveryMode.Set {
			next.DeliveryMode = strings.TrimSpace(p.DeliveryMode.Value)
		}
		if p.Remarks.Set {
			next.Remarks = strings.TrimSpace(p.Remarks.Value)
		}

		ch := audit.Change{Profile: profileBifurcation, Label: sh.ShippingMark, EntityCode: code, After: next.Snapshot()}
		if cur == nil {
			created, err := s.bif.Create(dbc, &next)
			if err != nil {
				return err
			}
			ch.EntityID = created.ID
			out = created
		} else {
			if err := s.bif.UpdateFields(dbc, cur.ID, map[string]interface{}{
				"destination":   next.Destination,
				"delivery_mode": next.DeliveryMode,
				"remarks":       next.Remarks,
				"updated_at":    time.Now().UTC(),
			}); err != nil {
				return err
			}
			ch.EntityID = cur.ID
			ch.Before = cur.Snapshot()
			if out, err = s.bif.GetBySheetID(dbc, sheetID); err != nil {
				return err
			}
		}
		return s.record(dbc, ch)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *overlayService) DeleteBifurcation(ctx context.Context, sheetID uuid.UUID) error {
	const op = "bifurcation.delete"
	return s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.bif.GetBySheetID(dbc, sheetID)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "bifurcation not found")
		}
		sh, code, err := s.sheetRef(dbc, op, sheetID)
		if err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileBifurcation,
			EntityID:   cur.ID,
			Before:     cur.Snapshot(),
			Label:      sh.ShippingMark,
			EntityCode: code,
		}); err != nil {
			return err
		}
		return s.bif.FullDeleteBySheetIDs(dbc, []uuid.UUID{sheetID})
	})
}

func (s *overlayService) GetWarehouse(ctx context.Context, sheetID uuid.UUID) (*types.WarehouseEntry, error) {
	row, err := s.wh.GetBySheetID(dbctx.Context{Ctx: ctx}, sheetID)
	if err != nil {
		return nil, aggregates.MapError("warehouse.get", err)
	}
	if row == nil {
		return nil, notFound("warehouse.get", "warehouse entry not found")
	}
	return row, nil
}

func (s *overlayService) UpsertWarehouse(ctx context.Context, sheetID uuid.UUID, p WarehousePatch) (*types.WarehouseEntry, error) {
	const op = "warehouse.upsert"
	var out *types.WarehouseEntry
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		sh, code, err := s.sheetRef(dbc, op, sheetID)
		if err != nil {
			return err
		}
		cur, err := s.wh.GetBySheetID(dbc, sheetID)
		if err != nil {
			return err
		}
		next := types.WarehouseEntry{LoadingSheetID: sheetID}
		if cur != nil {
			next = *cur
		}
		if p.Location.Set {
			next.Location = strings.TrimSpace(p.Location.Value)
		}
		if p.ReceivedDate.Set {
			next.ReceivedDate = p.ReceivedDate.Value.Ptr()
		}
		if p.Remarks.Set {
			next.Remarks = strings.TrimSpace(p.Remarks.Value)
		}

		ch := audit.Change{Profile: profileWarehouse, Label: sh.ShippingMark, EntityCode: code, After: next.Snapshot()}
		if cur == nil {
			created, err := s.wh.Create(dbc, &next)
			if err != nil {
				return err
			}
			ch.EntityID = created.ID
			out = created
		} else {
			if err := s.wh.UpdateFields(dbc, cur.ID, map[string]interface{}{
				"location":      next.Location,
				"received_date": next.ReceivedDate,
				"remarks":       next.Remarks,
				"updated_at":    time.Now().UTC(),
			}); err != nil {
				return err
			}
			ch.EntityID = cur.ID
			ch.Before = cur.Snapshot()
			if out, err = s.wh.GetBySheetID(dbc, sheetID); err != nil {
				return err
			}
		}
		return s.record(dbc, ch)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *overlayService) DeleteWarehouse(ctx context.Context, sheetID uuid.UUID) error {
	const op = "warehouse.delete"
	return s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.wh.GetBySheetID(dbc, sheetID)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "warehouse entry not found")
		}
		sh, code, err := s.sheetRef(dbc, op, sheetID)
		if err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileWarehouse,
			EntityID:   cur.ID,
			Before:     cur.Snapshot(),
			Label:      sh.ShippingMark,
			EntityCode: code,
		}); err != nil {
			return err
		}
		return s.wh.FullDeleteBySheetIDs(dbc, []uuid.UUID{sheetID})
	})
}

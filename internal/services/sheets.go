package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/domain/shipping"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/patch"
)

const (
	profileSheets = "loading_sheets"
	profileItems  = "loading_items"
)

type SheetInput struct {
	ShippingMark string      `json:"shippingMark"`
	Status       string      `json:"status"`
	Remarks      string      `json:"remarks"`
	Items        []ItemInput `json:"items"`
}

type SheetPatch struct {
	ShippingMark patch.Field[string] `json:"shippingMark"`
	Status       patch.Field[string] `json:"status"`
	Remarks      patch.Field[string] `json:"remarks"`
}

// ItemInput carries the editable columns of a loading item. Line totals sent by clients
// are not part of it; they are always derived.
type ItemInput struct {
	Particular string          `json:"particular"`
	Ctn        int64           `json:"ctn"`
	Pcs        int64           `json:"pcs"`
	Cbm        decimal.Decimal `json:"cbm"`
	Wt         decimal.Decimal `json:"wt"`
}

type ItemPatch struct {
	Particular patch.Field[string]          `json:"particular"`
	Ctn        patch.Field[int64]           `json:"ctn"`
	Pcs        patch.Field[int64]           `json:"pcs"`
	Cbm        patch.Field[decimal.Decimal] `json:"cbm"`
	Wt         patch.Field[decimal.Decimal] `json:"wt"`
}

type LoadingSheetService interface {
	ListByContainer(ctx context.Context, containerID uuid.UUID) ([]*types.LoadingSheet, error)
	Get(ctx context.Context, id uuid.UUID) (*types.LoadingSheet, error)
	Create(ctx context.Context, containerID uuid.UUID, in SheetInput) (*types.LoadingSheet, error)
	Update(ctx context.Context, id uuid.UUID, p SheetPatch) (*types.LoadingSheet, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context, sheetID uuid.UUID) ([]*types.LoadingItem, error)
	CreateItem(ctx context.Context, sheetID uuid.UUID, in ItemInput) (*types.LoadingItem, error)
	ReplaceItems(ctx context.Context, sheetID uuid.UUID, in []ItemInput) ([]*types.LoadingItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, p ItemPatch) (*types.LoadingItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type loadingSheetService struct {
	mutator
	containers repos.ContainerRepo
	sheets     repos.LoadingSheetRepo
	items      repos.LoadingItemRepo
	bif        repos.BifurcationRepo
	wh         repos.WarehouseRepo
}

func NewLoadingSheetService(
	deps MutationDeps,
	containers repos.ContainerRepo,
	sheets repos.LoadingSheetRepo,
	items repos.LoadingItemRepo,
	bif repos.BifurcationRepo,
	wh repos.WarehouseRepo,
) LoadingSheetService {
	return &loadingSheetService{
		mutator:    newMutator(deps, deps.Log.With("service", "LoadingSheetService")),
		containers: containers,
		sheets:     sheets,
		items:      items,
		bif:        bif,
		wh:         wh,
	}
}

func validSheetStatus(s string) bool {
	switch s {
	case shipping.SheetStatusDraft, shipping.SheetStatusLoaded, shipping.SheetStatusVerified:
		return true
	}
	return false
}

func (s *loadingSheetService) ListByContainer(ctx context.Context, containerID uuid.UUID) ([]*types.LoadingSheet, error) {
	dbc := dbctx.Context{Ctx: ctx}
	c, err := s.containers.GetByID(dbc, containerID)
	if err != nil {
		return nil, aggregates.MapError("sheets.list", err)
	}
	if c == nil {
		return nil, notFound("sheets.list", "container not found")
	}
	out, err := s.sheets.ListByContainerID(dbc, containerID)
	if err != nil {
		return nil, aggregates.MapError("sheets.list", err)
	}
	return out, nil
}

// Get returns the sheet with its items.
func (s *loadingSheetService) Get(ctx context.Context, id uuid.UUID) (*types.LoadingSheet, error) {
	dbc := dbctx.Context{Ctx: ctx}
	sh, err := s.sheets.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError("sheets.get", err)
	}
	if sh == nil {
		return nil, notFound("sheets.get", "loading sheet not found")
	}
	items, err := s.items.ListBySheetIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, aggregates.MapError("sheets.get", err)
	}
	sh.Items = make([]types.LoadingItem, 0, len(items))
	for _, it := range items {
		sh.Items = append(sh.Items, *it)
	}
	return sh, nil
}

func (s *loadingSheetService) Create(ctx context.Context, containerID uuid.UUID, in SheetInput) (*types.LoadingSheet, error) {
	const op = "sheets.create"
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = shipping.SheetStatusDraft
	}
	if !validSheetStatus(status) {
		return nil, invalid(op, "invalid sheet status "+status)
	}
	rows, err := buildItems(op, uuid.Nil, in.Items)
	if err != nil {
		return nil, err
	}
	sheet := &types.LoadingSheet{
		ContainerID:  containerID,
		ShippingMark: strings.TrimSpace(in.ShippingMark),
		Status:       status,
		Remarks:      strings.TrimSpace(in.Remarks),
	}
	err = s.write(ctx, op, func(dbc dbctx.Context) error {
		c, err := s.containers.GetByID(dbc, containerID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(op, "container not found")
		}
		if _, err := s.sheets.Create(dbc, []*types.LoadingSheet{sheet}); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileSheets,
			EntityID:   sheet.ID,
			After:      sheet.Snapshot(),
			EntityCode: c.Code,
		}); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for _, r := range rows {
			r.LoadingSheetID = sheet.ID
		}
		if _, err := s.items.Create(dbc, rows); err != nil {
			return err
		}
		for _, r := range rows {
			sheet.Items = append(sheet.Items, *r)
		}
		return s.recordItemCount(dbc, sheet, c.Code, 0, len(rows))
	})
	if err != nil {
		return nil, err
	}
	s.rollupAfter(ctx, containerID, "sheet.create")
	return sheet, nil
}

func (s *loadingSheetService) Update(ctx context.Context, id uuid.UUID, p SheetPatch) (*types.LoadingSheet, error) {
	const op = "sheets.update"
	var (
		out         *types.LoadingSheet
		markChanged bool
	)
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.sheets.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "loading sheet not found")
		}
		c, err := s.containers.GetByID(dbc, cur.ContainerID)
		if err != nil {
			return err
		}
		next := *cur
		if p.ShippingMark.Set {
			next.ShippingMark = strings.TrimSpace(p.ShippingMark.Value)
		}
		if p.Status.Set {
			status := strings.ToUpper(strings.TrimSpace(p.Status.Value))
			if !validSheetStatus(status) {
				return invalid(op, "invalid sheet status "+status)
			}
			next.Status = status
		}
		if p.Remarks.Set {
			next.Remarks = strings.TrimSpace(p.Remarks.Value)
		}
		markChanged = !strings.EqualFold(strings.TrimSpace(next.ShippingMark), strings.TrimSpace(cur.ShippingMark))

		if err := s.sheets.UpdateFields(dbc, id, map[string]interface{}{
			"shipping_mark": next.ShippingMark,
			"status":        next.Status,
			"remarks":       next.Remarks,
			"updated_at":    time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileSheets,
			EntityID:   id,
			Before:     cur.Snapshot(),
			After:      next.Snapshot(),
			EntityCode: containerCode(c),
		}); err != nil {
			return err
		}
		out, err = s.sheets.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if markChanged {
		s.rollupAfter(ctx, out.ContainerID, "sheet.update")
	}
	return out, nil
}

// Delete removes the sheet with its items and overlays.
func (s *loadingSheetService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "sheets.delete"
	var containerID uuid.UUID
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.sheets.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "loading sheet not found")
		}
		containerID = cur.ContainerID
		c, err := s.containers.GetByID(dbc, cur.ContainerID)
		if err != nil {
			return err
		}
		n, err := s.items.CountBySheetID(dbc, id)
		if err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileSheets,
			EntityID:   id,
			Before:     cur.Snapshot(),
			EntityCode: containerCode(c),
			Metadata:   map[string]any{"containerId": cur.ContainerID.String(), "items": n},
		}); err != nil {
			return err
		}
		ids := []uuid.UUID{id}
		if err := s.bif.FullDeleteBySheetIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.wh.FullDeleteBySheetIDs(dbc, ids); err != nil {
			return err
		}
		if err := s.items.FullDeleteBySheetIDs(dbc, ids); err != nil {
			return err
		}
		return s.sheets.FullDeleteByIDs(dbc, ids)
	})
	if err != nil {
		return err
	}
	s.rollupAfter(ctx, containerID, "sheet.delete")
	return nil
}

func (s *loadingSheetService) ListItems(ctx context.Context, sheetID uuid.UUID) ([]*types.LoadingItem, error) {
	dbc := dbctx.Context{Ctx: ctx}
	sh, err := s.sheets.GetByID(dbc, sheetID)
	if err != nil {
		return nil, aggregates.MapError("items.list", err)
	}
	if sh == nil {
		return nil, notFound("items.list", "loading sheet not found")
	}
	out, err := s.items.ListBySheetIDs(dbc, []uuid.UUID{sheetID})
	if err != nil {
		return nil, aggregates.MapError("items.list", err)
	}
	return out, nil
}

func (s *loadingSheetService) CreateItem(ctx context.Context, sheetID uuid.UUID, in ItemInput) (*types.LoadingItem, error) {
	const op = "items.create"
	rows, err := buildItems(op, sheetID, []ItemInput{in})
	if err != nil {
		return nil, err
	}
	row := rows[0]
	var containerID uuid.UUID
	err = s.write(ctx, op, func(dbc dbctx.Context) error {
		sh, err := s.sheets.GetByID(dbc, sheetID)
		if err != nil {
			return err
		}
		if sh == nil {
			return notFound(op, "loading sheet not found")
		}
		containerID = sh.ContainerID
		if _, err := s.items.Create(dbc, rows); err != nil {
			return err
		}
		return s.record(dbc, audit.Change{
			Profile:    profileItems,
			EntityID:   row.ID,
			After:      row.Snapshot(),
			EntityCode: sh.ShippingMark,
			Metadata:   map[string]any{"loadingSheetId": sheetID.String()},
		})
	})
	if err != nil {
		return nil, err
	}
	s.rollupAfter(ctx, containerID, "item.create")
	return row, nil
}

// ReplaceItems swaps the whole item list of a sheet. It is audited as one UPDATE of the
// sheet's "items" field carrying the old and new counts.
func (s *loadingSheetService) ReplaceItems(ctx context.Context, sheetID uuid.UUID, in []ItemInput) ([]*types.LoadingItem, error) {
	const op = "items.replace"
	rows, err := buildItems(op, sheetID, in)
	if err != nil {
		return nil, err
	}
	var containerID uuid.UUID
	err = s.write(ctx, op, func(dbc dbctx.Context) error {
		sh, err := s.sheets.GetByID(dbc, sheetID)
		if err != nil {
			return err
		}
		if sh == nil {
			return notFound(op, "loading sheet not found")
		}
		containerID = sh.ContainerID
		c, err := s.containers.GetByID(dbc, sh.ContainerID)
		if err != nil {
			return err
		}
		before, err := s.items.CountBySheetID(dbc, sheetID)
		if err != nil {
			return err
		}
		if err := s.items.FullDeleteBySheetIDs(dbc, []uuid.UUID{sheetID}); err != nil {
			return err
		}
		if _, err := s.items.Create(dbc, rows); err != nil {
			return err
		}
		return s.recordItemCount(dbc, sh, containerCode(c), int(before), len(rows))
	})
	if err != nil {
		return nil, err
	}
	s.rollupAfter(ctx, containerID, "item.replace")
	return rows, nil
}

func (s *loadingSheetService) UpdateItem(ctx context.Context, id uuid.UUID, p ItemPatch) (*types.LoadingItem, error) {
	const op = "items.update"
	var (
		out           *types.LoadingItem
		containerID   uuid.UUID
		totalsChanged bool
	)
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.items.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "loading item not found")
		}
		sh, err := s.sheets.GetByID(dbc, cur.LoadingSheetID)
		if err != nil {
			return err
		}
		if sh == nil {
			return notFound(op, "loading sheet not found")
		}
		containerID = sh.ContainerID

		next := *cur
		if p.Particular.Set {
			next.Particular = strings.TrimSpace(p.Particular.Value)
		}
		p.Ctn.Apply(&next.Ctn)
		p.Pcs.Apply(&next.Pcs)
		p.Cbm.Apply(&next.Cbm)
		p.Wt.Apply(&next.Wt)
		if err := validateItem(next.Ctn, next.Pcs, next.Cbm, next.Wt); err != nil {
			return invalid(op, err.Error())
		}
		totalsChanged = next.Ctn != cur.Ctn || !next.Cbm.Equal(cur.Cbm) || !next.Wt.Equal(cur.Wt)

		if err := s.items.Save(dbc, &next); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileItems,
			EntityID:   id,
			Before:     cur.Snapshot(),
			After:      next.Snapshot(),
			EntityCode: sh.ShippingMark,
			Metadata:   map[string]any{"loadingSheetId": sh.ID.String()},
		}); err != nil {
			return err
		}
		out, err = s.items.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if totalsChanged {
		s.rollupAfter(ctx, containerID, "item.update")
	}
	return out, nil
}

func (s *loadingSheetService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	const op = "items.delete"
	var containerID uuid.UUID
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.items.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "loading item not found")
		}
		sh, err := s.sheets.GetByID(dbc, cur.LoadingSheetID)
		if err != nil {
			return err
		}
		mark := ""
		if sh != nil {
			containerID = sh.ContainerID
			mark = sh.ShippingMark
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileItems,
			EntityID:   id,
			Before:     cur.Snapshot(),
			EntityCode: mark,
			Metadata:   map[string]any{"loadingSheetId": cur.LoadingSheetID.String()},
		}); err != nil {
			return err
		}
		return s.items.FullDeleteByIDs(dbc, []uuid.UUID{id})
	})
	if err != nil {
		return err
	}
	s.rollupAfter(ctx, containerID, "item.delete")
	return nil
}

func (s *loadingSheetService) recordItemCount(dbc dbctx.Context, sh *types.LoadingSheet, code string, before, after int) error {
	if before == after && before == 0 {
		return nil
	}
	oldV, newV := strconv.Itoa(before), strconv.Itoa(after)
	return s.recordEvent(dbc, audit.Event{
		Profile:    profileSheets,
		EntityID:   sh.ID,
		Type:       activity.TypeUpdate,
		Field:      "items",
		OldValue:   &oldV,
		NewValue:   &newV,
		Label:      sh.ShippingMark,
		EntityCode: code,
	})
}

func buildItems(op string, sheetID uuid.UUID, in []ItemInput) ([]*types.LoadingItem, error) {
	out := make([]*types.LoadingItem, 0, len(in))
	for i, it := range in {
		if err := validateItem(it.Ctn, it.Pcs, it.Cbm, it.Wt); err != nil {
			return nil, invalid(op, "item "+strconv.Itoa(i)+": "+err.Error())
		}
		row := &types.LoadingItem{
			LoadingSheetID: sheetID,
			Particular:     strings.TrimSpace(it.Particular),
			Ctn:            it.Ctn,
			Pcs:            it.Pcs,
			Cbm:            it.Cbm,
			Wt:             it.Wt,
		}
		row.Derive()
		out = append(out, row)
	}
	return out, nil
}

func validateItem(ctn, pcs int64, cbm, wt decimal.Decimal) error {
	if ctn < 0 || pcs < 0 || cbm.IsNegative() || wt.IsNegative() {
		return errors.New("ctn, pcs, cbm and wt must not be negative")
	}
	return nil
}

func containerCode(c *types.Container) string {
	if c == nil {
		return ""
	}
	return c.Code
}

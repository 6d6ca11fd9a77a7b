package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/cargoledger-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
)

func TestContainerRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewContainerRepo(db, testutil.Logger(t))
	code := testutil.UniqueCode("MSKU")
	created, err := repo.Create(dbc, []*types.Container{{Code: code, Origin: "Ningbo"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id := created[0].ID
	if id == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}
	if created[0].Status != "OPEN" {
		t.Fatalf("Create: default status want=OPEN got=%s", created[0].Status)
	}

	got, err := repo.GetByCode(dbc, code)
	if err != nil || got == nil || got.ID != id {
		t.Fatalf("GetByCode: got=%+v err=%v", got, err)
	}
	exists, err := repo.CodeExists(dbc, code, uuid.Nil)
	if err != nil || !exists {
		t.Fatalf("CodeExists: want true got=%v err=%v", exists, err)
	}
	exists, err = repo.CodeExists(dbc, code, id)
	if err != nil || exists {
		t.Fatalf("CodeExists excluding self: want false got=%v err=%v", exists, err)
	}

	if err := repo.UpdateFields(dbc, id, map[string]interface{}{"status": "LOADING"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	listed, err := repo.List(dbc, ContainerListFilter{Status: "loading", Search: code[:4]})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, c := range listed {
		if c.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("List: expected container %s in %+v", id, listed)
	}

	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{id}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	got, err = repo.GetByID(dbc, id)
	if err != nil || got != nil {
		t.Fatalf("GetByID after delete: got=%+v err=%v", got, err)
	}
}

func TestLoadingItemRepoDerivesTotals(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	logg := testutil.Logger(t)

	c := testutil.SeedContainer(t, ctx, tx, testutil.UniqueCode("C"))
	s := testutil.SeedSheet(t, ctx, tx, c.ID, "ABC")

	repo := NewLoadingItemRepo(db, logg)
	rows, err := repo.Create(dbc, []*types.LoadingItem{{
		LoadingSheetID: s.ID,
		Particular:     "shoes",
		Ctn:            4,
		Pcs:            12,
		Cbm:            decimal.RequireFromString("0.25"),
		Wt:             decimal.RequireFromString("3.5"),
		// Client-supplied totals are discarded.
		TCbm: decimal.NewFromInt(999),
		TPcs: 999,
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	it, err := repo.GetByID(dbc, rows[0].ID)
	if err != nil || it == nil {
		t.Fatalf("GetByID: it=%v err=%v", it, err)
	}
	if !it.TCbm.Equal(decimal.NewFromInt(1)) || !it.TWt.Equal(decimal.NewFromInt(14)) || it.TPcs != 48 {
		t.Fatalf("derived totals: tCbm=%s tWt=%s tPcs=%d", it.TCbm, it.TWt, it.TPcs)
	}

	it.Ctn = 2
	it.TPcs = 1
	if err := repo.Save(dbc, it); err != nil {
		t.Fatalf("Save: %v", err)
	}
	it, _ = repo.GetByID(dbc, it.ID)
	if it.TPcs != 24 || !it.TCbm.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("Save re-derive: tPcs=%d tCbm=%s", it.TPcs, it.TCbm)
	}

	n, err := repo.CountBySheetID(dbc, s.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountBySheetID: n=%d err=%v", n, err)
	}
	if err := repo.FullDeleteBySheetIDs(dbc, []uuid.UUID{s.ID}); err != nil {
		t.Fatalf("FullDeleteBySheetIDs: %v", err)
	}
	items, err := repo.ListBySheetIDs(dbc, []uuid.UUID{s.ID})
	if err != nil || len(items) != 0 {
		t.Fatalf("ListBySheetIDs after delete: %d err=%v", len(items), err)
	}
}

func TestOverlayReposOnePerSheet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	logg := testutil.Logger(t)

	c := testutil.SeedContainer(t, ctx, tx, testutil.UniqueCode("C"))
	s := testutil.SeedSheet(t, ctx, tx, c.ID, "XYZ")

	bif := NewBifurcationRepo(db, logg)
	if got, err := bif.GetBySheetID(dbc, s.ID); err != nil || got != nil {
		t.Fatalf("GetBySheetID before create: got=%v err=%v", got, err)
	}
	row, err := bif.Create(dbc, &types.Bifurcation{LoadingSheetID: s.ID, Destination: "Lagos"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := bif.UpdateFields(dbc, row.ID, map[string]interface{}{"delivery_mode": "ROAD"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := bif.GetBySheetID(dbc, s.ID)
	if err != nil || got == nil || got.DeliveryMode != "ROAD" {
		t.Fatalf("GetBySheetID: got=%+v err=%v", got, err)
	}

	wh := NewWarehouseRepo(db, logg)
	if _, err := wh.Create(dbc, &types.WarehouseEntry{LoadingSheetID: s.ID, Location: "Bay 4"}); err != nil {
		t.Fatalf("warehouse Create: %v", err)
	}
	if err := wh.FullDeleteBySheetIDs(dbc, []uuid.UUID{s.ID}); err != nil {
		t.Fatalf("warehouse FullDeleteBySheetIDs: %v", err)
	}
	if got, err := wh.GetBySheetID(dbc, s.ID); err != nil || got != nil {
		t.Fatalf("warehouse after delete: got=%v err=%v", got, err)
	}
}

package records

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
)

func TestPackingListNamesWithBase(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewPackingListRepo(db, testutil.Logger(t))
	base := testutil.UniqueCode("Report")
	for _, name := range []string{base, base + " (1)", base + " (x)", base + "2", base + "_z (1)"} {
		if _, err := repo.Create(dbc, []*types.PackingList{{Name: name}}); err != nil {
			t.Fatalf("Create %q: %v", name, err)
		}
	}
	got, err := repo.NamesWithBase(dbc, base)
	if err != nil {
		t.Fatalf("NamesWithBase: %v", err)
	}
	sort.Strings(got)
	want := []string{base, base + " (1)", base + " (x)"}
	if len(got) != len(want) {
		t.Fatalf("NamesWithBase: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("NamesWithBase[%d]: want=%q got=%q", i, want[i], got[i])
		}
	}
}

func TestClientRepoNameExistsAndFilter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewClientRepo(db, testutil.Logger(t))
	name := testutil.UniqueCode("Acme")
	rows, err := repo.Create(dbc, []*types.Client{{Name: name, Country: "Ghana"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err := repo.NameExists(dbc, name, uuid.Nil)
	if err != nil || !ok {
		t.Fatalf("NameExists: want true got=%v err=%v", ok, err)
	}
	if err := repo.UpdateFields(dbc, rows[0].ID, map[string]interface{}{"status": "ARCHIVED"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	active, err := repo.List(dbc, ListFilter{Status: "ACTIVE", Search: name})
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("List active: expected archived client to be filtered out, got %d", len(active))
	}
	archived, err := repo.List(dbc, ListFilter{Status: "archived", Search: "GHANA"})
	if err != nil {
		t.Fatalf("List archived: %v", err)
	}
	if len(archived) == 0 {
		t.Fatalf("List archived: expected a match")
	}
}

func TestClientRepoSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewClientRepo(db, testutil.Logger(t))
	name := testutil.UniqueCode("Acme")
	if _, err := repo.Create(dbc, []*types.Client{{Name: name, Country: "Ghana"}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	wild, err := repo.List(dbc, ListFilter{Search: "_" + name[1:]})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(wild) != 0 {
		t.Fatalf("underscore should not act as a wildcard, got %d rows", len(wild))
	}
	exact, err := repo.List(dbc, ListFilter{Search: name[1:]})
	if err != nil || len(exact) != 1 {
		t.Fatalf("substring search: rows=%d err=%v", len(exact), err)
	}
}

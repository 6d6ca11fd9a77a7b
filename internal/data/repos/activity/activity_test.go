package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/data/repos/testutil"
	domainact "github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
)

func strp(s string) *string { return &s }

func TestActivityRepoFindFiltersAndJoinsActor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	table := domainact.TableFor(domainact.ModuleContainers)

	actor := testutil.SeedUser(t, ctx, tx, "dispatcher")
	entity := uuid.New()
	base := time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)
	code := testutil.UniqueCode("CNT")

	repo := NewActivityRepo(db, testutil.Logger(t))
	_, err := repo.Create(dbc, table, []*domainact.Record{
		{Module: domainact.ModuleContainers, EntityID: entity, ActorID: &actor.ID, Type: domainact.TypeCreate, EntityLabel: code, CreatedAt: base},
		{Module: domainact.ModuleContainers, EntityID: entity, ActorID: &actor.ID, Type: domainact.TypeUpdate, Field: strp("origin"), OldValue: strp("Ningbo"), NewValue: strp("Shenzhen"), EntityLabel: code, CreatedAt: base.Add(time.Hour)},
		{Module: domainact.ModuleContainers, EntityID: entity, Type: domainact.TypeStatusChange, Field: strp("status"), OldValue: strp("OPEN"), NewValue: strp("LOADING"), EntityLabel: code, CreatedAt: base.Add(2 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.Find(dbc, table, Query{Search: code})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Find: want 3 rows got %d", len(rows))
	}
	if rows[0].Type != domainact.TypeStatusChange || rows[2].Type != domainact.TypeCreate {
		t.Fatalf("Find: expected newest first, got %s..%s", rows[0].Type, rows[2].Type)
	}
	if rows[2].ActorName != "dispatcher" {
		t.Fatalf("Find: actor name want=dispatcher got=%q", rows[2].ActorName)
	}

	byActor, err := repo.Find(dbc, table, Query{ActorID: &actor.ID, Search: code})
	if err != nil || len(byActor) != 2 {
		t.Fatalf("Find by actor: n=%d err=%v", len(byActor), err)
	}

	bySearch, err := repo.Find(dbc, table, Query{Search: "SHENZHEN"})
	if err != nil || len(bySearch) != 1 || bySearch[0].Type != domainact.TypeUpdate {
		t.Fatalf("Find by new value: rows=%d err=%v", len(bySearch), err)
	}

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	windowed, err := repo.Find(dbc, table, Query{DateFrom: &from, DateTo: &to, Search: code})
	if err != nil || len(windowed) != 1 {
		t.Fatalf("Find by date range: n=%d err=%v", len(windowed), err)
	}

	n, err := repo.Count(dbc, table, Query{Type: domainact.TypeStatusChange, Search: code})
	if err != nil || n != 1 {
		t.Fatalf("Count by type: n=%d err=%v", n, err)
	}

	page, err := repo.Find(dbc, table, Query{Search: code, Offset: 1, Limit: 1})
	if err != nil || len(page) != 1 || page[0].Type != domainact.TypeUpdate {
		t.Fatalf("Find window: rows=%d err=%v", len(page), err)
	}

	history, err := repo.ListByEntityID(dbc, table, entity)
	if err != nil || len(history) != 3 {
		t.Fatalf("ListByEntityID: n=%d err=%v", len(history), err)
	}
}

func TestActivityRepoSearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	table := domainact.TableFor(domainact.ModuleContainers)

	actor := testutil.SeedUser(t, ctx, tx, "gatekeeper")
	at := time.Date(2030, 4, 1, 8, 0, 0, 0, time.UTC)
	repo := NewActivityRepo(db, testutil.Logger(t))
	if _, err := repo.Create(dbc, table, []*domainact.Record{
		{Module: domainact.ModuleContainers, EntityID: uuid.New(), ActorID: &actor.ID, Type: domainact.TypeCreate, EntityLabel: "MSCU1234", CreatedAt: at},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, term := range []string{"_", "%", "M_CU", `MSCU\`} {
		n, err := repo.Count(dbc, table, Query{ActorID: &actor.ID, Search: term})
		if err != nil {
			t.Fatalf("Count %q: %v", term, err)
		}
		if n != 0 {
			t.Fatalf("search %q should match literally, got %d rows", term, n)
		}
	}
	n, err := repo.Count(dbc, table, Query{ActorID: &actor.ID, Search: "scu12"})
	if err != nil || n != 1 {
		t.Fatalf("substring search: n=%d err=%v", n, err)
	}
}

package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	"github.com/yungbote/cargoledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
)

func newTestRecorder(t *testing.T, m *observability.Metrics) (*Recorder, repos.ActivityRepo, dbctx.Context) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	reg, err := embeddedRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	repo := repos.NewActivityRepo(db, testutil.Logger(t))
	return NewRecorder(reg, repo, testutil.Logger(t), m), repo, dbctx.Context{Ctx: context.Background(), Tx: tx}
}

func TestRecorderCreateUpdateDelete(t *testing.T) {
	m := observability.New()
	rec, repo, dbc := newTestRecorder(t, m)
	actor := uuid.New()
	id := uuid.New()
	code := testutil.UniqueCode("CNT")

	created, err := rec.Record(dbc, actor, Change{
		Profile:  "containers",
		EntityID: id,
		After:    map[string]any{"code": code, "origin": "Ningbo", "status": "OPEN"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created) != 1 || created[0].Type != activity.TypeCreate || created[0].EntityLabel != code {
		t.Fatalf("create records: %+v", created)
	}
	if created[0].ActorID == nil || *created[0].ActorID != actor {
		t.Fatalf("create actor not recorded")
	}

	before := map[string]any{"code": code, "origin": "Ningbo", "status": "OPEN"}
	after := map[string]any{"code": code, "origin": "Shenzhen", "status": "LOADING"}
	updated, err := rec.Record(dbc, actor, Change{Profile: "containers", EntityID: id, Before: before, After: after})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("update: want 2 records got %d", len(updated))
	}
	var statusChanges int
	for _, r := range updated {
		if r.Type == activity.TypeStatusChange {
			statusChanges++
		}
	}
	if statusChanges != 1 {
		t.Fatalf("update: want 1 STATUS_CHANGE got %d", statusChanges)
	}

	noop, err := rec.Record(dbc, actor, Change{Profile: "containers", EntityID: id, Before: after, After: after})
	if err != nil || len(noop) != 0 {
		t.Fatalf("no-op update: n=%d err=%v", len(noop), err)
	}

	deleted, err := rec.Record(dbc, actor, Change{Profile: "containers", EntityID: id, Before: after})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(deleted) != 1 || deleted[0].Type != activity.TypeDelete || deleted[0].EntityLabel != code {
		t.Fatalf("delete records: %+v", deleted)
	}

	history, err := repo.ListByEntityID(dbc, activity.TableFor(activity.ModuleContainers), id)
	if err != nil || len(history) != 4 {
		t.Fatalf("history: n=%d err=%v", len(history), err)
	}

	series, err := promtest.GatherAndCount(m.Registry(), "cl_audit_records_total")
	if err != nil || series != 4 {
		t.Fatalf("audit record series: want=4 got=%d err=%v", series, err)
	}
}

func TestRecorderItemProfileWritesToSheetTable(t *testing.T) {
	rec, repo, dbc := newTestRecorder(t, nil)
	itemID := uuid.New()
	_, err := rec.Record(dbc, uuid.Nil, Change{
		Profile:    "loading_items",
		EntityID:   itemID,
		After:      map[string]any{"particular": "shoes", "ctn": int64(5)},
		EntityCode: "MARK-A",
	})
	if err != nil {
		t.Fatalf("item create: %v", err)
	}
	rows, err := repo.ListByEntityID(dbc, activity.TableFor(activity.ModuleLoadingSheets), itemID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("sheet table rows: n=%d err=%v", len(rows), err)
	}
	if rows[0].Module != activity.ModuleLoadingSheets || rows[0].EntityCode != "MARK-A" || rows[0].ActorID != nil {
		t.Fatalf("item record: %+v", rows[0])
	}
}

func TestRecorderEventAndUnknownProfile(t *testing.T) {
	rec, _, dbc := newTestRecorder(t, nil)
	sheetID := uuid.New()
	oldN, newN := "3", "1"
	row, err := rec.RecordEvent(dbc, uuid.New(), Event{
		Profile:  "loading_sheets",
		EntityID: sheetID,
		Type:     activity.TypeUpdate,
		Field:    "items",
		OldValue: &oldN,
		NewValue: &newN,
		Label:    "MARK-A",
		Metadata: map[string]any{"replaced": true},
	})
	if err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if row.Field == nil || *row.Field != "items" || len(row.Metadata) == 0 {
		t.Fatalf("event row: %+v", row)
	}
	if _, err := rec.Record(dbc, uuid.Nil, Change{Profile: "nope", EntityID: sheetID, After: map[string]any{}}); err == nil {
		t.Fatalf("unknown profile should fail")
	}
	if _, err := rec.RecordEvent(dbc, uuid.Nil, Event{Profile: "loading_sheets", EntityID: sheetID, Type: "BOGUS"}); err == nil {
		t.Fatalf("invalid type should fail")
	}
}

package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	"github.com/yungbote/cargoledger-backend/internal/data/repos/testutil"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	domainagg "github.com/yungbote/cargoledger-backend/internal/domain/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/domain/records"
	"github.com/yungbote/cargoledger-backend/internal/feed"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/ctxutil"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/patch"
	"github.com/yungbote/cargoledger-backend/internal/realtime"
	"github.com/yungbote/cargoledger-backend/internal/services"
)

type capturePublisher struct {
	mu   sync.Mutex
	msgs []realtime.Message
}

func (p *capturePublisher) Publish(_ context.Context, msg realtime.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *capturePublisher) snapshot() []realtime.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Message(nil), p.msgs...)
}

type fixture struct {
	db       *gorm.DB
	activity repos.ActivityRepo
	metrics  *observability.Metrics
	live     *capturePublisher

	containers services.ContainerService
	sheets     services.LoadingSheetService
	overlays   services.OverlayService
	packing    services.PackingListService
	invoices   services.InvoiceService
	clients    services.ClientService
	summaries  services.ContainerSummaryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	logg := testutil.Logger(t)
	metrics := observability.New()

	containers := repos.NewContainerRepo(db, logg)
	sheets := repos.NewLoadingSheetRepo(db, logg)
	items := repos.NewLoadingItemRepo(db, logg)
	bif := repos.NewBifurcationRepo(db, logg)
	wh := repos.NewWarehouseRepo(db, logg)
	act := repos.NewActivityRepo(db, logg)

	live := &capturePublisher{}
	hooks := aggregates.NewObservabilityHooks(metrics)
	rollup := aggregates.NewContainerRollup(aggregates.ContainerRollupDeps{
		BaseDeps:   aggregates.BaseDeps{DB: db, Log: logg, Hooks: hooks},
		Containers: containers,
		Sheets:     sheets,
		Items:      items,
	})
	deps := services.MutationDeps{
		DB:      db,
		Log:     logg,
		Hooks:   hooks,
		Audit:   audit.NewRecorder(audit.DefaultRegistry(logg), act, logg, metrics),
		Rollup:  rollup,
		Metrics: metrics,
		Live:    live,
	}
	return &fixture{
		db:         db,
		activity:   act,
		metrics:    metrics,
		live:       live,
		containers: services.NewContainerService(deps, containers, sheets, items, bif, wh),
		sheets:     services.NewLoadingSheetService(deps, containers, sheets, items, bif, wh),
		overlays:   services.NewOverlayService(deps, containers, sheets, bif, wh),
		packing:    services.NewPackingListService(deps, repos.NewPackingListRepo(db, logg)),
		invoices:   services.NewInvoiceService(deps, repos.NewInvoiceRepo(db, logg)),
		clients:    services.NewClientService(deps, repos.NewClientRepo(db, logg)),
		summaries:  services.NewContainerSummaryService(deps, repos.NewContainerSummaryRepo(db, logg)),
	}
}

func (f *fixture) history(t *testing.T, module activity.Module, id uuid.UUID) []*activity.Record {
	t.Helper()
	rows, err := f.activity.ListByEntityID(dbctx.Context{Ctx: context.Background()}, activity.TableFor(module), id)
	if err != nil {
		t.Fatalf("history %s/%s: %v", module, id, err)
	}
	return rows
}

func countType(rows []*activity.Record, typ activity.Type) int {
	n := 0
	for _, r := range rows {
		if r.Type == typ {
			n++
		}
	}
	return n
}

func actorCtx(t *testing.T) (context.Context, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: id, UserName: "dock clerk"}), id
}

func TestContainerSheetRollupScenario(t *testing.T) {
	f := newFixture(t)
	ctx, actor := actorCtx(t)

	c1, err := f.containers.Create(ctx, services.ContainerInput{Code: testutil.UniqueCode("C1"), Origin: "Ningbo"})
	if err != nil {
		t.Fatalf("create container: %v", err)
	}
	if c1.TotalCtn != 0 || !c1.TotalCbm.IsZero() || !c1.TotalWt.IsZero() {
		t.Fatalf("new container totals should be zero: %+v", c1)
	}

	s1, err := f.sheets.Create(ctx, c1.ID, services.SheetInput{
		ShippingMark: "S1",
		Items: []services.ItemInput{
			{Particular: "shoes", Ctn: 10, Pcs: 12, Cbm: decimal.RequireFromString("0.5"), Wt: decimal.NewFromInt(2)},
			{Particular: "bags", Ctn: 5, Pcs: 6, Cbm: decimal.NewFromInt(1), Wt: decimal.NewFromInt(4)},
		},
	})
	if err != nil {
		t.Fatalf("create sheet: %v", err)
	}

	got, err := f.containers.Get(ctx, c1.ID)
	if err != nil {
		t.Fatalf("get container: %v", err)
	}
	if got.TotalCtn != 15 {
		t.Fatalf("totalCtn: want=15 got=%d", got.TotalCtn)
	}
	if !got.TotalCbm.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("totalCbm: want=10 got=%s", got.TotalCbm)
	}
	if !got.TotalWt.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("totalWt: want=40 got=%s", got.TotalWt)
	}
	if got.ClientCount != 1 {
		t.Fatalf("clientCount: want=1 got=%d", got.ClientCount)
	}

	if err := f.sheets.Delete(ctx, s1.ID); err != nil {
		t.Fatalf("delete sheet: %v", err)
	}
	got, err = f.containers.Get(ctx, c1.ID)
	if err != nil {
		t.Fatalf("get container after delete: %v", err)
	}
	if got.TotalCtn != 0 || !got.TotalCbm.IsZero() || !got.TotalWt.IsZero() || got.ClientCount != 0 {
		t.Fatalf("totals after delete should be zero: ctn=%d cbm=%s wt=%s clients=%d",
			got.TotalCtn, got.TotalCbm, got.TotalWt, got.ClientCount)
	}

	if _, err := f.sheets.Get(ctx, s1.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("deleted sheet should be not_found, got %v", err)
	}
	hist := f.history(t, activity.ModuleLoadingSheets, s1.ID)
	if n := countType(hist, activity.TypeDelete); n != 1 {
		t.Fatalf("want exactly one DELETE record for S1, got %d (%d rows)", n, len(hist))
	}
	if n := countType(hist, activity.TypeCreate); n != 1 {
		t.Fatalf("want exactly one CREATE record for S1, got %d", n)
	}
	for _, r := range hist {
		if r.EntityID != s1.ID {
			t.Fatalf("history row references %s, want %s", r.EntityID, s1.ID)
		}
		if r.ActorID == nil || *r.ActorID != actor {
			t.Fatalf("history row missing actor: %+v", r)
		}
		if r.EntityCode != c1.Code {
			t.Fatalf("entity code: want=%s got=%s", c1.Code, r.EntityCode)
		}
	}
}

func TestContainerRecalculate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.containers.Recalculate(ctx, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("recalculate missing container: want not_found got %v", err)
	}

	c, err := f.containers.Create(ctx, services.ContainerInput{Code: testutil.UniqueCode("RC")})
	if err != nil {
		t.Fatalf("create container: %v", err)
	}
	sh := testutil.SeedSheet(t, ctx, f.db, c.ID, "MARK")
	testutil.SeedItem(t, ctx, f.db, sh.ID, 4, "0.25", "3")

	totals, err := f.containers.Recalculate(ctx, c.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if totals.TotalCtn != 4 || !totals.TotalCbm.Equal(decimal.NewFromInt(1)) || !totals.TotalWt.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("totals: %+v", totals)
	}
}

func TestContainerCodeConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	code := testutil.UniqueCode("DUP")

	if _, err := f.containers.Create(ctx, services.ContainerInput{Code: code}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.containers.Create(ctx, services.ContainerInput{Code: code}); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate code: want conflict got %v", err)
	}
	if _, err := f.containers.Create(ctx, services.ContainerInput{Code: "  "}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("blank code: want validation got %v", err)
	}
}

func TestContainerUpdateDiffGranularity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.containers.Create(ctx, services.ContainerInput{Code: testutil.UniqueCode("DIFF"), Origin: "Ningbo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.containers.Update(ctx, c.ID, services.ContainerPatch{
		Origin: patch.Field[string]{Set: true, Value: "Yiwu"},
		Status: patch.Field[string]{Set: true, Value: "LOADING"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	hist := f.history(t, activity.ModuleContainers, c.ID)
	if len(hist) != 3 {
		t.Fatalf("want CREATE + 2 field records, got %d", len(hist))
	}
	if countType(hist, activity.TypeStatusChange) != 1 || countType(hist, activity.TypeUpdate) != 1 {
		t.Fatalf("want one STATUS_CHANGE and one UPDATE: %+v", hist)
	}
	for _, r := range hist {
		if r.Type != activity.TypeUpdate {
			continue
		}
		if r.Field == nil || *r.Field != "origin" || r.OldValue == nil || *r.OldValue != "Ningbo" || r.NewValue == nil || *r.NewValue != "Yiwu" {
			t.Fatalf("origin record: %+v", r)
		}
	}

	// identical values write nothing
	_, err = f.containers.Update(ctx, c.ID, services.ContainerPatch{
		Origin: patch.Field[string]{Set: true, Value: "Yiwu"},
	})
	if err != nil {
		t.Fatalf("no-op update: %v", err)
	}
	if n := len(f.history(t, activity.ModuleContainers, c.ID)); n != 3 {
		t.Fatalf("no-op update wrote records: got %d rows", n)
	}
}

func TestContainerDeleteCascadesAndKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.containers.Create(ctx, services.ContainerInput{Code: testutil.UniqueCode("DEL")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sh, err := f.sheets.Create(ctx, c.ID, services.SheetInput{
		ShippingMark: "ZZ",
		Items:        []services.ItemInput{{Ctn: 1, Cbm: decimal.NewFromInt(1), Wt: decimal.NewFromInt(1)}},
	})
	if err != nil {
		t.Fatalf("create sheet: %v", err)
	}
	if _, err := f.overlays.UpsertBifurcation(ctx, sh.ID, services.BifurcationPatch{
		Destination: patch.Field[string]{Set: true, Value: "Lagos"},
	}); err != nil {
		t.Fatalf("upsert bifurcation: %v", err)
	}

	if err := f.containers.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.containers.Get(ctx, c.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("container should be gone, got %v", err)
	}
	if _, err := f.sheets.Get(ctx, sh.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("sheet should cascade, got %v", err)
	}
	if _, err := f.overlays.GetBifurcation(ctx, sh.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("bifurcation should cascade, got %v", err)
	}
	if err := f.containers.Delete(ctx, c.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete: want not_found got %v", err)
	}

	hist := f.history(t, activity.ModuleContainers, c.ID)
	if countType(hist, activity.TypeDelete) != 1 || countType(hist, activity.TypeCreate) != 1 {
		t.Fatalf("container history: %+v", hist)
	}
}

func TestReplaceItemsRecordsCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.containers.Create(ctx, services.ContainerInput{Code: testutil.UniqueCode("RPL")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sh, err := f.sheets.Create(ctx, c.ID, services.SheetInput{ShippingMark: "R1"})
	if err != nil {
		t.Fatalf("create sheet: %v", err)
	}
	items, err := f.sheets.ReplaceItems(ctx, sh.ID, []services.ItemInput{
		{Particular: "a", Ctn: 2, Cbm: decimal.NewFromInt(1), Wt: decimal.NewFromInt(5)},
		{Particular: "b", Ctn: 3, Cbm: decimal.NewFromInt(1), Wt: decimal.NewFromInt(5)},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items got %d", len(items))
	}

	var countRec *activity.Record
	for _, r := range f.history(t, activity.ModuleLoadingSheets, sh.ID) {
		if r.Field != nil && *r.Field == "items" {
			countRec = r
		}
	}
	if countRec == nil || *countRec.OldValue != "0" || *countRec.NewValue != "2" {
		t.Fatalf("items count record: %+v", countRec)
	}

	got, err := f.containers.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalCtn != 5 || !got.TotalWt.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("totals after replace: ctn=%d wt=%s", got.TotalCtn, got.TotalWt)
	}

	if _, err := f.sheets.ReplaceItems(ctx, sh.ID, []services.ItemInput{{Ctn: -1}}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("negative ctn: want validation got %v", err)
	}
}

func TestUpdateItemTriggersRollup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.containers.Create(ctx, services.ContainerInput{Code: testutil.UniqueCode("UPI")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sh, err := f.sheets.Create(ctx, c.ID, services.SheetInput{ShippingMark: "U1"})
	if err != nil {
		t.Fatalf("create sheet: %v", err)
	}
	it, err := f.sheets.CreateItem(ctx, sh.ID, services.ItemInput{Ctn: 1, Cbm: decimal.NewFromInt(2), Wt: decimal.NewFromInt(3)})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := f.sheets.UpdateItem(ctx, it.ID, services.ItemPatch{Ctn: patch.Field[int64]{Set: true, Value: 4}}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	got, err := f.containers.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalCtn != 4 || !got.TotalCbm.Equal(decimal.NewFromInt(8)) || !got.TotalWt.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("totals: ctn=%d cbm=%s wt=%s", got.TotalCtn, got.TotalCbm, got.TotalWt)
	}

	// item rows are audited in the sheet table
	hist := f.history(t, activity.ModuleLoadingSheets, it.ID)
	if len(hist) != 2 {
		t.Fatalf("item history: want CREATE + ctn UPDATE, got %d", len(hist))
	}

	if err := f.sheets.DeleteItem(ctx, it.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	got, err = f.containers.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalCtn != 0 {
		t.Fatalf("totalCtn after item delete: %d", got.TotalCtn)
	}
}

func TestOverlayUpsertAudits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.containers.Create(ctx, services.ContainerInput{Code: testutil.UniqueCode("OVL")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sh, err := f.sheets.Create(ctx, c.ID, services.SheetInput{ShippingMark: "MK-9"})
	if err != nil {
		t.Fatalf("create sheet: %v", err)
	}

	first, err := f.overlays.UpsertWarehouse(ctx, sh.ID, services.WarehousePatch{
		Location: patch.Field[string]{Set: true, Value: "Bay 4"},
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	received, err := patch.ParseDate("2024-03-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	second, err := f.overlays.UpsertWarehouse(ctx, sh.ID, services.WarehousePatch{
		Location:     patch.Field[string]{Set: true, Value: "Bay 5"},
		ReceivedDate: patch.Field[patch.Date]{Set: true, Value: received},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID || second.Location != "Bay 5" {
		t.Fatalf("upsert should update in place: first=%s second=%+v", first.ID, second)
	}

	hist := f.history(t, activity.ModuleWarehouse, first.ID)
	if countType(hist, activity.TypeCreate) != 1 || countType(hist, activity.TypeUpdate) != 2 {
		t.Fatalf("warehouse history: %+v", hist)
	}
	for _, r := range hist {
		if r.EntityLabel != "MK-9" || r.EntityCode != c.Code {
			t.Fatalf("overlay label/code: %+v", r)
		}
		if r.Field != nil && *r.Field == "received_date" && (r.NewValue == nil || *r.NewValue != "2024-03-01") {
			t.Fatalf("received_date record: %+v", r)
		}
	}

	if _, err := f.overlays.UpsertWarehouse(ctx, uuid.New(), services.WarehousePatch{}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing sheet: want not_found got %v", err)
	}
	if err := f.overlays.DeleteWarehouse(ctx, sh.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.overlays.DeleteWarehouse(ctx, sh.ID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("second delete: want not_found got %v", err)
	}
}

func TestPackingListNameSuffixing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := testutil.UniqueCode("Report")

	want := []string{base, base + " (1)", base + " (2)"}
	for i, w := range want {
		pl, err := f.packing.Create(ctx, services.PackingListInput{Name: base})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if pl.Name != w {
			t.Fatalf("create %d: want name %q got %q", i, w, pl.Name)
		}
		if pl.Status != records.StatusDraft {
			t.Fatalf("default status: %s", pl.Status)
		}
	}
	if _, err := f.packing.Create(ctx, services.PackingListInput{Name: base, Status: "bogus"}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("bad status: want validation got %v", err)
	}
}

func TestContainerSummaryArchive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := testutil.UniqueCode("Summary")

	s1, err := f.summaries.Create(ctx, services.ContainerSummaryInput{Name: base, ContainerCode: "C-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	s2, err := f.summaries.Create(ctx, services.ContainerSummaryInput{Name: base})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if s2.Name != base+" (1)" {
		t.Fatalf("suffix: got %q", s2.Name)
	}

	archived, err := f.summaries.Archive(ctx, s1.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != records.StatusArchived {
		t.Fatalf("status: %s", archived.Status)
	}
	if _, err := f.summaries.Archive(ctx, s1.ID); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("re-archive: want conflict got %v", err)
	}
	hist := f.history(t, activity.ModuleContainerSummaries, s1.ID)
	if countType(hist, activity.TypeStatusChange) != 1 {
		t.Fatalf("archive should write one STATUS_CHANGE: %+v", hist)
	}
}

func TestClientArchiveAndReactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := testutil.UniqueCode("Acme")

	cl, err := f.clients.Create(ctx, services.ClientInput{Name: name, Country: "GH"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.clients.Create(ctx, services.ClientInput{Name: name}); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate name: want conflict got %v", err)
	}
	if _, err := f.clients.Reactivate(ctx, cl.ID); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("reactivate active: want conflict got %v", err)
	}

	got, err := f.clients.Archive(ctx, cl.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if got.Status != records.StatusArchived {
		t.Fatalf("archive status: %s", got.Status)
	}
	got, err = f.clients.Reactivate(ctx, cl.ID)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if got.Status != records.StatusActive {
		t.Fatalf("reactivate status: %s", got.Status)
	}
	if _, err := f.clients.Archive(ctx, uuid.New()); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("archive missing: want not_found got %v", err)
	}

	hist := f.history(t, activity.ModuleClientRecords, cl.ID)
	if countType(hist, activity.TypeStatusChange) != 2 {
		t.Fatalf("want two STATUS_CHANGE records: %+v", hist)
	}
}

func TestInvoiceCreateAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	no := testutil.UniqueCode("INV")

	inv, err := f.invoices.Create(ctx, services.InvoiceInput{InvoiceNo: no, ClientName: "Acme", Amount: decimal.RequireFromString("120.50")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Currency != "USD" || inv.Status != records.InvoiceStatusDraft {
		t.Fatalf("defaults: currency=%s status=%s", inv.Currency, inv.Status)
	}
	if _, err := f.invoices.Create(ctx, services.InvoiceInput{InvoiceNo: no}); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate invoice_no: want conflict got %v", err)
	}
	if _, err := f.invoices.Create(ctx, services.InvoiceInput{InvoiceNo: testutil.UniqueCode("INV"), Amount: decimal.NewFromInt(-1)}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("negative amount: want validation got %v", err)
	}

	if _, err := f.invoices.Update(ctx, inv.ID, services.InvoicePatch{
		Amount: patch.Field[decimal.Decimal]{Set: true, Value: decimal.RequireFromString("120.5")},
		Status: patch.Field[string]{Set: true, Value: "issued"},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	hist := f.history(t, activity.ModuleInvoices, inv.ID)
	// 120.50 and 120.5 are the same amount, so only status is recorded.
	if len(hist) != 2 || countType(hist, activity.TypeStatusChange) != 1 {
		t.Fatalf("invoice history: %+v", hist)
	}
	for _, r := range hist {
		if r.EntityLabel != no || r.EntityCode != "Acme" {
			t.Fatalf("invoice label/code: %+v", r)
		}
	}
}

func TestCommittedActivityReachesLiveStream(t *testing.T) {
	f := newFixture(t)
	ctx, actor := actorCtx(t)

	code := testutil.UniqueCode("LIVE")
	c, err := f.containers.Create(ctx, services.ContainerInput{Code: code})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	msgs := f.live.snapshot()
	if len(msgs) != 2 {
		t.Fatalf("messages: want=2 got=%d", len(msgs))
	}
	if msgs[0].Channel != realtime.ChannelAll || msgs[1].Channel != realtime.ModuleChannel(string(activity.ModuleContainers)) {
		t.Fatalf("channels: %q %q", msgs[0].Channel, msgs[1].Channel)
	}
	entry, ok := msgs[0].Data.(feed.Entry)
	if !ok {
		t.Fatalf("data type: %T", msgs[0].Data)
	}
	if entry.Type != activity.TypeCreate || entry.EntityID != c.ID {
		t.Fatalf("entry: %+v", entry)
	}
	if entry.Actor == nil || entry.Actor.ID != actor || entry.Actor.Name != "dock clerk" {
		t.Fatalf("actor: %+v", entry.Actor)
	}

	if _, err := f.containers.Create(ctx, services.ContainerInput{Code: code}); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("duplicate: want conflict got=%v", err)
	}
	if got := len(f.live.snapshot()); got != 2 {
		t.Fatalf("rolled back write must not publish: got=%d messages", got)
	}
}

func TestModuleServicesOwnTheirWriteTransactions(t *testing.T) {
	f := newFixture(t)
	cases := map[string]any{
		"containers": f.containers,
		"sheets":     f.sheets,
		"overlays":   f.overlays,
		"packing":    f.packing,
		"invoices":   f.invoices,
		"clients":    f.clients,
		"summaries":  f.summaries,
	}
	for name, svc := range cases {
		t.Run(name, func(t *testing.T) {
			agg, ok := svc.(domainagg.Aggregate)
			if !ok {
				t.Fatalf("%T does not state a contract", svc)
			}
			c := agg.Contract()
			if c.Name != domainagg.AuditedMutationContract.Name || !c.OwnsTx() || c.ReadOnly() {
				t.Fatalf("contract: %+v", c)
			}
		})
	}
}

package feed

import (
	"net/url"
	"testing"
	"time"

	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	domainagg "github.com/yungbote/cargoledger-backend/internal/domain/aggregates"
)

func TestParseFilterDefaults(t *testing.T) {
	f, err := ParseFilter(url.Values{}, Bounds{})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.Page != 1 || f.Limit != DefaultLimit || f.Module != "" || f.DateTo != nil {
		t.Fatalf("defaults: %+v", f)
	}
}

func TestParseFilterValues(t *testing.T) {
	q := url.Values{}
	q.Set("module", "Invoices")
	q.Set("type", "status_change")
	q.Set("actorId", "6f1c2a7e-8d43-4f0b-9a0e-1a2b3c4d5e6f")
	q.Set("dateFrom", "2030-01-01")
	q.Set("dateTo", "2030-01-31")
	q.Set("page", "3")
	q.Set("limit", "500")
	q.Set("search", "  mark ")

	f, err := ParseFilter(q, Bounds{MaxLimit: 100})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.Module != activity.ModuleInvoices || f.Type != activity.TypeStatusChange {
		t.Fatalf("module/type: %+v", f)
	}
	if f.ActorID == nil || f.Search != "mark" || f.Page != 3 || f.Limit != 100 {
		t.Fatalf("actor/search/page/limit: %+v", f)
	}
	wantTo := time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)
	if !f.DateTo.Equal(wantTo) {
		t.Fatalf("bare dateTo should include the whole day: got=%s", f.DateTo)
	}
	if !f.DateFrom.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("dateFrom: got=%s", f.DateFrom)
	}
}

func TestParseFilterRejects(t *testing.T) {
	cases := map[string]url.Values{
		"module":   {"module": {"boats"}},
		"type":     {"type": {"RENAME"}},
		"actor":    {"actorId": {"bob"}},
		"date":     {"dateFrom": {"01/02/2030"}},
		"range":    {"dateFrom": {"2030-02-01"}, "dateTo": {"2030-01-01"}},
		"page":     {"page": {"two"}},
		"limitStr": {"limit": {"x"}},
		"hugePage": {"page": {"4611686018427387904"}, "limit": {"100"}},
		"window":   {"page": {"101"}, "limit": {"100"}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFilter(q, Bounds{MaxLimit: 100})
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("want validation error got %v", err)
			}
		})
	}
}

func TestParseFilterAllIsNoFilter(t *testing.T) {
	f, err := ParseFilter(url.Values{"module": {"all"}, "type": {"ALL"}}, Bounds{MaxLimit: 100})
	if err != nil || f.Module != "" || f.Type != "" {
		t.Fatalf("all: %+v err=%v", f, err)
	}
}

func TestParseFilterLastPageInWindow(t *testing.T) {
	q := url.Values{"page": {"50"}, "limit": {"200"}}
	f, err := ParseFilter(q, Bounds{MaxLimit: 100, MaxWindow: 5000})
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.Page != 50 || f.Limit != 100 {
		t.Fatalf("page/limit: %d/%d", f.Page, f.Limit)
	}
	if _, err := ParseFilter(url.Values{"page": {"51"}, "limit": {"100"}}, Bounds{MaxLimit: 100, MaxWindow: 5000}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("page 51 should be past the window, got %v", err)
	}
}

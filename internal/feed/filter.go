package feed

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	domainagg "github.com/yungbote/cargoledger-backend/internal/domain/aggregates"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxWindow caps page*limit, the number of rows each source is asked for.
	MaxWindow = 10000

	opParseFilter = "feed.parse_filter"
	dateLayout    = "2006-01-02"
)

// Filter narrows the merged feed. DateTo is exclusive once parsed.
type Filter struct {
	Search   string
	Module   activity.Module
	Type     activity.Type
	ActorID  *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// Bounds limits what a single feed request may ask for.
type Bounds struct {
	MaxLimit  int
	MaxWindow int
}

func (b Bounds) withDefaults() Bounds {
	if b.MaxLimit <= 0 {
		b.MaxLimit = MaxLimit
	}
	if b.MaxWindow <= 0 {
		b.MaxWindow = MaxWindow
	}
	if b.MaxWindow < b.MaxLimit {
		b.MaxWindow = b.MaxLimit
	}
	return b
}

// pageFits reports whether page*limit stays within maxWindow without overflowing.
func pageFits(page, limit, maxWindow int) bool {
	return page >= 1 && limit >= 1 && page <= maxWindow/limit
}

// ParseFilter reads feed query parameters. Dates accept YYYY-MM-DD or RFC3339; a bare
// dateTo covers that whole day. Page defaults to 1 and limit to DefaultLimit, capped at
// MaxLimit. A page whose window would pass MaxWindow rows is rejected.
func ParseFilter(q url.Values, b Bounds) (Filter, error) {
	b = b.withDefaults()
	f := Filter{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   1,
		Limit:  DefaultLimit,
	}

	if m := strings.TrimSpace(q.Get("module")); m != "" && !strings.EqualFold(m, "all") {
		f.Module = activity.Module(strings.ToLower(m))
		if !knownModule(f.Module) {
			return Filter{}, invalid("unknown module " + strconv.Quote(m))
		}
	}
	if t := strings.TrimSpace(q.Get("type")); t != "" && !strings.EqualFold(t, "all") {
		f.Type = activity.Type(strings.ToUpper(t))
		if !f.Type.Valid() {
			return Filter{}, invalid("unknown activity type " + strconv.Quote(t))
		}
	}
	if a := strings.TrimSpace(q.Get("actorId")); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			return Filter{}, invalid("actorId must be a uuid")
		}
		f.ActorID = &id
	}
	if raw := strings.TrimSpace(q.Get("dateFrom")); raw != "" {
		from, _, err := parseDate(raw)
		if err != nil {
			return Filter{}, invalid("dateFrom: " + err.Error())
		}
		f.DateFrom = &from
	}
	if raw := strings.TrimSpace(q.Get("dateTo")); raw != "" {
		to, bare, err := parseDate(raw)
		if err != nil {
			return Filter{}, invalid("dateTo: " + err.Error())
		}
		if bare {
			to = to.AddDate(0, 0, 1)
		} else {
			to = to.Add(time.Nanosecond)
		}
		f.DateTo = &to
	}
	if f.DateFrom != nil && f.DateTo != nil && !f.DateFrom.Before(*f.DateTo) {
		return Filter{}, invalid("dateFrom must be before dateTo")
	}
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, invalid("page must be an integer")
		}
		if n > 0 {
			f.Page = n
		}
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, invalid("limit must be an integer")
		}
		if n > 0 {
			f.Limit = n
		}
	}
	if f.Limit > b.MaxLimit {
		f.Limit = b.MaxLimit
	}
	if !pageFits(f.Page, f.Limit, b.MaxWindow) {
		return Filter{}, invalid("page " + strconv.Itoa(f.Page) + " is past the last reachable page " +
			strconv.Itoa(b.MaxWindow/f.Limit))
	}
	return f, nil
}

func parseDate(raw string) (t time.Time, bare bool, err error) {
	if t, err = time.Parse(dateLayout, raw); err == nil {
		return t.UTC(), true, nil
	}
	if t, err = time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, err
}

func knownModule(m activity.Module) bool { return m.Valid() }

func invalid(msg string) error {
	return domainagg.NewError(domainagg.CodeValidation, opParseFilter, msg, nil)
}

package audit

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Stringify renders a tracked value in its canonical audit form. ok is false for nil
// (including nil pointers) so absent and empty values compare equal.
func Stringify(kind Kind, v any) (s string, ok bool) {
	v, ok = deref(v)
	if !ok {
		return "", false
	}
	switch kind {
	case KindDate:
		s = stringifyDate(v)
	case KindDecimal:
		s = stringifyDecimal(v)
	case KindInt:
		s = stringifyInt(v)
	default:
		s = stringifyPlain(v)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

func deref(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	return rv.Interface(), true
}

func stringifyDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(dateLayout)
	case string:
		raw := strings.TrimSpace(t)
		if raw == "" {
			return ""
		}
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			return parsed.UTC().Format(dateLayout)
		}
		if len(raw) >= len(dateLayout) {
			if parsed, err := time.Parse(dateLayout, raw[:len(dateLayout)]); err == nil {
				return parsed.Format(dateLayout)
			}
		}
		return raw
	default:
		return stringifyPlain(v)
	}
}

func stringifyDecimal(v any) string {
	switch d := v.(type) {
	case decimal.Decimal:
		return d.String()
	case decimal.NullDecimal:
		if !d.Valid {
			return ""
		}
		return d.Decimal.String()
	case string:
		raw := strings.TrimSpace(d)
		if raw == "" {
			return ""
		}
		if parsed, err := decimal.NewFromString(raw); err == nil {
			return parsed.String()
		}
		return raw
	case float64:
		return decimal.NewFromFloat(d).String()
	case float32:
		return decimal.NewFromFloat32(d).String()
	case int, int32, int64:
		return stringifyInt(d)
	default:
		return stringifyPlain(v)
	}
}

func stringifyInt(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	default:
		return stringifyPlain(v)
	}
}

func stringifyPlain(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case uuid.UUID:
		if t == uuid.Nil {
			return ""
		}
		return t.String()
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	case decimal.Decimal:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int, int32, int64, uint, uint64:
		return stringifyInt(t)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

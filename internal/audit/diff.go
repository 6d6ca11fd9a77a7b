package audit

import "github.com/yungbote/cargoledger-backend/internal/domain/activity"

const statusField = "status"

// FieldChange is one tracked field whose canonical value differs between snapshots.
type FieldChange struct {
	Field string
	Old   *string
	New   *string
	Type  activity.Type
}

// Diff compares two snapshots over the profile's tracked fields, in declaration order.
// A change of "status" is a STATUS_CHANGE; anything else is an UPDATE.
func Diff(p *Profile, before, after map[string]any) []FieldChange {
	if p == nil {
		return nil
	}
	var out []FieldChange
	for _, f := range p.Fields {
		oldS, oldOK := Stringify(f.Kind, before[f.Name])
		newS, newOK := Stringify(f.Kind, after[f.Name])
		if oldOK == newOK && oldS == newS {
			continue
		}
		typ := activity.TypeUpdate
		if f.Name == statusField {
			typ = activity.TypeStatusChange
		}
		out = append(out, FieldChange{
			Field: f.Name,
			Old:   optional(oldS, oldOK),
			New:   optional(newS, newOK),
			Type:  typ,
		})
	}
	return out
}

func optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}

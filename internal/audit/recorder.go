package audit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/observability"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

// Change describes one mutation of an audited entity. Before is nil for a create and
// After is nil for a delete.
type Change struct {
	Profile  string
	EntityID uuid.UUID
	Before   map[string]any
	After    map[string]any

	// Label overrides the identifying value read from the snapshots.
	Label      string
	EntityCode string
	Note       string
	Metadata   map[string]any
}

// Event is a record written as-is, for changes that are not a field diff.
type Event struct {
	Profile    string
	EntityID   uuid.UUID
	Type       activity.Type
	Field      string
	OldValue   *string
	NewValue   *string
	Note       string
	Label      string
	EntityCode string
	Metadata   map[string]any
}

type Recorder struct {
	reg     *Registry
	repo    repos.ActivityRepo
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewRecorder(reg *Registry, repo repos.ActivityRepo, baseLog *logger.Logger, metrics *observability.Metrics) *Recorder {
	return &Recorder{
		reg:     reg,
		repo:    repo,
		log:     baseLog.With("component", "AuditRecorder"),
		metrics: metrics,
	}
}

func (r *Recorder) Registry() *Registry { return r.reg }

// Record turns a change into audit rows and writes them in dbc's transaction. Creates and
// deletes produce one row; updates produce one row per changed tracked field; a no-op
// update writes nothing.
func (r *Recorder) Record(dbc dbctx.Context, actorID uuid.UUID, ch Change) ([]*activity.Record, error) {
	p, ok := r.reg.Profile(ch.Profile)
	if !ok {
		return nil, fmt.Errorf("audit: unknown profile %q", ch.Profile)
	}
	if ch.EntityID == uuid.Nil {
		return nil, fmt.Errorf("audit: %s change without entity id", ch.Profile)
	}
	if ch.Before == nil && ch.After == nil {
		return nil, nil
	}
	meta, err := encodeMetadata(ch.Metadata)
	if err != nil {
		return nil, err
	}
	base := activity.Record{
		Module:      p.Module,
		EntityID:    ch.EntityID,
		ActorID:     actorPtr(actorID),
		EntityLabel: r.label(p, ch),
		EntityCode:  strings.TrimSpace(ch.EntityCode),
		Note:        nonEmpty(ch.Note),
		Metadata:    meta,
	}

	var rows []*activity.Record
	switch {
	case ch.Before == nil:
		row := base
		row.Type = activity.TypeCreate
		rows = append(rows, &row)
	case ch.After == nil:
		row := base
		row.Type = activity.TypeDelete
		rows = append(rows, &row)
	default:
		for _, fc := range Diff(p, ch.Before, ch.After) {
			row := base
			row.Type = fc.Type
			row.Field = nonEmpty(fc.Field)
			row.OldValue = fc.Old
			row.NewValue = fc.New
			rows = append(rows, &row)
		}
	}
	return r.write(dbc, p, rows)
}

// RecordEvent writes a single explicit record.
func (r *Recorder) RecordEvent(dbc dbctx.Context, actorID uuid.UUID, ev Event) (*activity.Record, error) {
	p, ok := r.reg.Profile(ev.Profile)
	if !ok {
		return nil, fmt.Errorf("audit: unknown profile %q", ev.Profile)
	}
	if ev.EntityID == uuid.Nil {
		return nil, fmt.Errorf("audit: %s event without entity id", ev.Profile)
	}
	if !ev.Type.Valid() {
		return nil, fmt.Errorf("audit: invalid activity type %q", ev.Type)
	}
	meta, err := encodeMetadata(ev.Metadata)
	if err != nil {
		return nil, err
	}
	row := &activity.Record{
		Module:      p.Module,
		EntityID:    ev.EntityID,
		ActorID:     actorPtr(actorID),
		Type:        ev.Type,
		Field:       nonEmpty(ev.Field),
		OldValue:    ev.OldValue,
		NewValue:    ev.NewValue,
		Note:        nonEmpty(ev.Note),
		EntityLabel: strings.TrimSpace(ev.Label),
		EntityCode:  strings.TrimSpace(ev.EntityCode),
		Metadata:    meta,
	}
	out, err := r.write(dbc, p, []*activity.Record{row})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (r *Recorder) write(dbc dbctx.Context, p *Profile, rows []*activity.Record) ([]*activity.Record, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	out, err := r.repo.Create(dbc, p.Table(), rows)
	if err != nil {
		return nil, fmt.Errorf("audit: write %s: %w", p.Table(), err)
	}
	counts := map[activity.Type]int{}
	for _, row := range out {
		counts[row.Type]++
	}
	for typ, n := range counts {
		r.metrics.AddAuditRecords(string(p.Module), string(typ), n)
	}
	r.log.Debug("audit records written", "profile", p.Name, "entity_id", rows[0].EntityID, "count", len(out))
	return out, nil
}

func (r *Recorder) label(p *Profile, ch Change) string {
	if l := strings.TrimSpace(ch.Label); l != "" {
		return l
	}
	kind := p.kindOf(p.IdentifyingField)
	if s, ok := Stringify(kind, ch.After[p.IdentifyingField]); ok {
		return s
	}
	s, _ := Stringify(kind, ch.Before[p.IdentifyingField])
	return s
}

func encodeMetadata(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("audit: encode metadata: %w", err)
	}
	return datatypes.JSON(b), nil
}

func actorPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

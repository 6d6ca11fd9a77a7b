package feed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	actrepo "github.com/yungbote/cargoledger-backend/internal/data/repos/activity"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
)

const emptyValue = "(empty)"

type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Entry is the module-independent feed envelope.
type Entry struct {
	ID          uuid.UUID       `json:"id"`
	Module      activity.Module `json:"module"`
	Type        activity.Type   `json:"type"`
	Description string          `json:"description"`
	Actor       *Actor          `json:"actor"`
	EntityID    uuid.UUID       `json:"entityId"`
	EntityName  string          `json:"entityName"`
	Timestamp   time.Time       `json:"timestamp"`
	Metadata    map[string]any  `json:"metadata"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Page struct {
	Records    []Entry    `json:"records"`
	Pagination Pagination `json:"pagination"`
	// FailedModules lists sources that contributed nothing because they errored.
	FailedModules []activity.Module `json:"failedModules,omitempty"`
}

// EntryFromRecord renders a freshly written record the way the feed would return it.
func EntryFromRecord(rec *activity.Record, actorName string) Entry {
	return normalize(&actrepo.Row{Record: *rec, ActorName: actorName})
}

func normalize(row *actrepo.Row) Entry {
	e := Entry{
		ID:          row.ID,
		Module:      row.Module,
		Type:        row.Type,
		Description: describe(row.Record),
		EntityID:    row.EntityID,
		EntityName:  row.EntityLabel,
		Timestamp:   row.CreatedAt.UTC(),
		Metadata:    map[string]any{},
	}
	if e.EntityName == "" {
		e.EntityName = row.EntityCode
	}
	if row.ActorID != nil {
		e.Actor = &Actor{ID: *row.ActorID, Name: row.ActorName}
	}
	if len(row.Metadata) > 0 {
		_ = json.Unmarshal(row.Metadata, &e.Metadata)
	}
	if row.EntityCode != "" {
		e.Metadata["entityCode"] = row.EntityCode
	}
	if row.Field != nil {
		e.Metadata["field"] = *row.Field
		e.Metadata["oldValue"] = row.OldValue
		e.Metadata["newValue"] = row.NewValue
	}
	return e
}

func describe(r activity.Record) string {
	if r.Note != nil && strings.TrimSpace(*r.Note) != "" {
		return strings.TrimSpace(*r.Note)
	}
	if r.Field != nil && *r.Field != "" {
		return fmt.Sprintf("%s changed from %s to %s", *r.Field, orEmpty(r.OldValue), orEmpty(r.NewValue))
	}
	return fmt.Sprintf("%s operation performed", r.Type)
}

func orEmpty(s *string) string {
	if s == nil || *s == "" {
		return emptyValue
	}
	return *s
}

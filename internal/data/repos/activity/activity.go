package activity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainact "github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

// Query narrows one audit table. DateTo is exclusive. Zero Limit means no window.
type Query struct {
	Search   string
	Type     domainact.Type
	ActorID  *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Offset   int
	Limit    int
}

// Row is an audit record joined with its actor's display name.
type Row struct {
	domainact.Record
	ActorName string `gorm:"column:actor_name"`
}

// ActivityRepo reads and appends rows of the per-module audit tables. There is no
// update or delete: audit rows are immutable.
type ActivityRepo interface {
	Create(dbc dbctx.Context, table string, rows []*domainact.Record) ([]*domainact.Record, error)
	ListByEntityID(dbc dbctx.Context, table string, entityID uuid.UUID) ([]*domainact.Record, error)

	// Find returns rows newest first (created_at DESC, id ASC) within the Offset/Limit window.
	Find(dbc dbctx.Context, table string, q Query) ([]*Row, error)
	Count(dbc dbctx.Context, table string, q Query) (int64, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(dbc dbctx.Context, table string, rows []*domainact.Record) ([]*domainact.Record, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domainact.Record{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Table(table).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *activityRepo) ListByEntityID(dbc dbctx.Context, table string, entityID uuid.UUID) ([]*domainact.Record, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*domainact.Record
	if entityID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Table(table).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) Find(dbc dbctx.Context, table string, q Query) ([]*Row, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	tx := r.filtered(t.WithContext(dbc.Ctx), table, q).
		Select("a.*, COALESCE(u.name, '') AS actor_name").
		Order("a.created_at DESC").Order("a.id ASC")
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var out []*Row
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) Count(dbc dbctx.Context, table string, q Query) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := r.filtered(t.WithContext(dbc.Ctx), table, q).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// likeEscaper makes a search term match literally inside LIKE ... ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *activityRepo) filtered(tx *gorm.DB, table string, q Query) *gorm.DB {
	tx = tx.Table(table + " AS a").Joins("LEFT JOIN users u ON u.id = a.actor_id")
	if q.Type != "" {
		tx = tx.Where("a.type = ?", string(q.Type))
	}
	if q.ActorID != nil && *q.ActorID != uuid.Nil {
		tx = tx.Where("a.actor_id = ?", *q.ActorID)
	}
	if q.DateFrom != nil {
		tx = tx.Where("a.created_at >= ?", q.DateFrom.UTC())
	}
	if q.DateTo != nil {
		tx = tx.Where("a.created_at < ?", q.DateTo.UTC())
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		tx = tx.Where(
			`LOWER(COALESCE(u.name, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(a.field, '')) LIKE ? ESCAPE '\' OR `+
				`LOWER(COALESCE(a.old_value, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(a.new_value, '')) LIKE ? ESCAPE '\' OR `+
				`LOWER(a.entity_code) LIKE ? ESCAPE '\' OR LOWER(a.entity_label) LIKE ? ESCAPE '\'`,
			like, like, like, like, like, like,
		)
	}
	return tx
}

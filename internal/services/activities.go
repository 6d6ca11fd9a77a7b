package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/feed"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

// ModuleInfo describes one audited module for the feed's filter dropdown.
type ModuleInfo struct {
	Name     activity.Module `json:"name"`
	Table    string          `json:"table"`
	Profiles []string        `json:"profiles"`
}

type ActivityService interface {
	Feed(ctx context.Context, f feed.Filter) (*feed.Page, error)
	// History lists every audit row written for one entity, newest first. It keeps
	// working after the entity is deleted.
	History(ctx context.Context, module activity.Module, entityID uuid.UUID) ([]*activity.Record, error)
	Modules() []ModuleInfo
	Bounds() feed.Bounds
}

type activityService struct {
	agg  *feed.Aggregator
	repo repos.ActivityRepo
	reg  *audit.Registry
	log  *logger.Logger
}

func NewActivityService(agg *feed.Aggregator, repo repos.ActivityRepo, reg *audit.Registry, baseLog *logger.Logger) ActivityService {
	return &activityService{agg: agg, repo: repo, reg: reg, log: baseLog.With("service", "ActivityService")}
}

func (s *activityService) Feed(ctx context.Context, f feed.Filter) (*feed.Page, error) {
	return s.agg.GetFeed(ctx, f)
}

func (s *activityService) History(ctx context.Context, module activity.Module, entityID uuid.UUID) ([]*activity.Record, error) {
	const op = "activities.history"
	module = activity.Module(strings.ToLower(strings.TrimSpace(string(module))))
	known := false
	for _, m := range s.agg.Modules() {
		if m == module {
			known = true
			break
		}
	}
	if !known {
		return nil, invalid(op, "unknown module "+string(module))
	}
	if entityID == uuid.Nil {
		return nil, invalid(op, "entity id is required")
	}
	rows, err := s.repo.ListByEntityID(dbctx.Context{Ctx: ctx}, activity.TableFor(module), entityID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return rows, nil
}

func (s *activityService) Modules() []ModuleInfo {
	byModule := map[activity.Module][]string{}
	for _, name := range s.reg.Names() {
		p, _ := s.reg.Profile(name)
		byModule[p.Module] = append(byModule[p.Module], p.Name)
	}
	out := make([]ModuleInfo, 0, len(byModule))
	for _, m := range s.agg.Modules() {
		out = append(out, ModuleInfo{Name: m, Table: activity.TableFor(m), Profiles: byModule[m]})
	}
	return out
}

func (s *activityService) Bounds() feed.Bounds { return s.agg.Bounds() }

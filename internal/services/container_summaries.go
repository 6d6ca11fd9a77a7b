package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/audit"
	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	domainagg "github.com/yungbote/cargoledger-backend/internal/domain/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/domain/records"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/patch"
)

const profileSummaries = "container_summaries"

type ContainerSummaryInput struct {
	Name          string `json:"name"`
	ContainerCode string `json:"containerCode"`
	Notes         string `json:"notes"`
}

type ContainerSummaryPatch struct {
	Name          patch.Field[string] `json:"name"`
	ContainerCode patch.Field[string] `json:"containerCode"`
	Notes         patch.Field[string] `json:"notes"`
}

type ContainerSummaryService interface {
	List(ctx context.Context, f repos.ListFilter) ([]*types.ContainerSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*types.ContainerSummary, error)
	// Create stores the summary under the first free "name", "name (1)", "name (2)", ...
	Create(ctx context.Context, in ContainerSummaryInput) (*types.ContainerSummary, error)
	Update(ctx context.Context, id uuid.UUID, p ContainerSummaryPatch) (*types.ContainerSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Archive(ctx context.Context, id uuid.UUID) (*types.ContainerSummary, error)
}

type containerSummaryService struct {
	mutator
	repo repos.ContainerSummaryRepo
}

func NewContainerSummaryService(deps MutationDeps, repo repos.ContainerSummaryRepo) ContainerSummaryService {
	return &containerSummaryService{
		mutator: newMutator(deps, deps.Log.With("service", "ContainerSummaryService")),
		repo:    repo,
	}
}

func (s *containerSummaryService) List(ctx context.Context, f repos.ListFilter) ([]*types.ContainerSummary, error) {
	out, err := s.repo.List(dbctx.Context{Ctx: ctx}, f)
	if err != nil {
		return nil, aggregates.MapError("container_summaries.list", err)
	}
	return out, nil
}

func (s *containerSummaryService) Get(ctx context.Context, id uuid.UUID) (*types.ContainerSummary, error) {
	row, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError("container_summaries.get", err)
	}
	if row == nil {
		return nil, notFound("container_summaries.get", "container summary not found")
	}
	return row, nil
}

func (s *containerSummaryService) Create(ctx context.Context, in ContainerSummaryInput) (*types.ContainerSummary, error) {
	const op = "container_summaries.create"
	base := strings.TrimSpace(in.Name)
	if base == "" {
		return nil, invalid(op, "name is required")
	}
	var (
		row *types.ContainerSummary
		err error
	)
	for attempt := 1; attempt <= nameCreateAttempts; attempt++ {
		row = &types.ContainerSummary{
			ContainerCode: strings.TrimSpace(in.ContainerCode),
			Status:        records.StatusActive,
			Notes:         strings.TrimSpace(in.Notes),
		}
		err = s.write(ctx, op, func(dbc dbctx.Context) error {
			taken, err := s.repo.NamesWithBase(dbc, base)
			if err != nil {
				return err
			}
			row.Name = NextAvailableName(base, taken)
			if _, err := s.repo.Create(dbc, []*types.ContainerSummary{row}); err != nil {
				return err
			}
			return s.record(dbc, audit.Change{Profile: profileSummaries, EntityID: row.ID, After: row.Snapshot(), EntityCode: row.ContainerCode})
		})
		if !domainagg.IsCode(err, domainagg.CodeConflict) {
			break
		}
		s.log.Debug("summary name taken concurrently, retrying", "name", base, "attempt", attempt)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *containerSummaryService) Update(ctx context.Context, id uuid.UUID, p ContainerSummaryPatch) (*types.ContainerSummary, error) {
	const op = "container_summaries.update"
	var out *types.ContainerSummary
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "container summary not found")
		}
		next := *cur
		if p.Name.Set {
			name := strings.TrimSpace(p.Name.Value)
			if name == "" {
				return invalid(op, "name cannot be empty")
			}
			next.Name = name
		}
		if p.ContainerCode.Set {
			next.ContainerCode = strings.TrimSpace(p.ContainerCode.Value)
		}
		if p.Notes.Set {
			next.Notes = strings.TrimSpace(p.Notes.Value)
		}
		if err := s.repo.UpdateFields(dbc, id, map[string]interface{}{
			"name":           next.Name,
			"container_code": next.ContainerCode,
			"notes":          next.Notes,
			"updated_at":     time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{
			Profile:    profileSummaries,
			EntityID:   id,
			Before:     cur.Snapshot(),
			After:      next.Snapshot(),
			EntityCode: next.ContainerCode,
		}); err != nil {
			return err
		}
		out, err = s.repo.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *containerSummaryService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "container_summaries.delete"
	return s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "container summary not found")
		}
		if err := s.record(dbc, audit.Change{Profile: profileSummaries, EntityID: id, Before: cur.Snapshot(), EntityCode: cur.ContainerCode}); err != nil {
			return err
		}
		return s.repo.FullDeleteByIDs(dbc, []uuid.UUID{id})
	})
}

func (s *containerSummaryService) Archive(ctx context.Context, id uuid.UUID) (*types.ContainerSummary, error) {
	const op = "container_summaries.archive"
	var out *types.ContainerSummary
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "container summary not found")
		}
		if err := aggregates.RequireStatusAllowed(cur.Status, records.StatusActive); err != nil {
			return err
		}
		ok, err := s.cas.UpdateByStatus(dbc, types.ContainerSummary{}.TableName(), id, []string{records.StatusActive}, map[string]any{
			"status":     records.StatusArchived,
			"updated_at": time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := aggregates.RequireCASSuccess(ok, "summary status changed concurrently"); err != nil {
			return err
		}
		next := *cur
		next.Status = records.StatusArchived
		if err := s.record(dbc, audit.Change{
			Profile:    profileSummaries,
			EntityID:   id,
			Before:     cur.Snapshot(),
			After:      next.Snapshot(),
			EntityCode: cur.ContainerCode,
		}); err != nil {
			return err
		}
		out, err = s.repo.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

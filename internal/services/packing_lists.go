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

const (
	profilePackingLists = "packing_lists"

	// attempts for suffixed-name creates that race another insert of the same name
	nameCreateAttempts = 3
)

type PackingListInput struct {
	Name      string `json:"name"`
	Consignee string `json:"consignee"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

type PackingListPatch struct {
	Name      patch.Field[string] `json:"name"`
	Consignee patch.Field[string] `json:"consignee"`
	Status    patch.Field[string] `json:"status"`
	Notes     patch.Field[string] `json:"notes"`
}

type PackingListService interface {
	List(ctx context.Context, f repos.ListFilter) ([]*types.PackingList, error)
	Get(ctx context.Context, id uuid.UUID) (*types.PackingList, error)
	// Create stores the list under the first free "name", "name (1)", "name (2)", ...
	Create(ctx context.Context, in PackingListInput) (*types.PackingList, error)
	Update(ctx context.Context, id uuid.UUID, p PackingListPatch) (*types.PackingList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type packingListService struct {
	mutator
	repo repos.PackingListRepo
}

func NewPackingListService(deps MutationDeps, repo repos.PackingListRepo) PackingListService {
	return &packingListService{
		mutator: newMutator(deps, deps.Log.With("service", "PackingListService")),
		repo:    repo,
	}
}

func validPackingListStatus(s string) bool {
	switch s {
	case records.StatusDraft, records.StatusActive, records.StatusFinal, records.StatusArchived:
		return true
	}
	return false
}

func (s *packingListService) List(ctx context.Context, f repos.ListFilter) ([]*types.PackingList, error) {
	out, err := s.repo.List(dbctx.Context{Ctx: ctx}, f)
	if err != nil {
		return nil, aggregates.MapError("packing_lists.list", err)
	}
	return out, nil
}

func (s *packingListService) Get(ctx context.Context, id uuid.UUID) (*types.PackingList, error) {
	row, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError("packing_lists.get", err)
	}
	if row == nil {
		return nil, notFound("packing_lists.get", "packing list not found")
	}
	return row, nil
}

func (s *packingListService) Create(ctx context.Context, in PackingListInput) (*types.PackingList, error) {
	const op = "packing_lists.create"
	base := strings.TrimSpace(in.Name)
	if base == "" {
		return nil, invalid(op, "name is required")
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = records.StatusDraft
	}
	if !validPackingListStatus(status) {
		return nil, invalid(op, "invalid packing list status "+status)
	}

	var (
		row *types.PackingList
		err error
	)
	for attempt := 1; attempt <= nameCreateAttempts; attempt++ {
		row = &types.PackingList{
			Consignee: strings.TrimSpace(in.Consignee),
			Status:    status,
			Notes:     strings.TrimSpace(in.Notes),
		}
		err = s.write(ctx, op, func(dbc dbctx.Context) error {
			taken, err := s.repo.NamesWithBase(dbc, base)
			if err != nil {
				return err
			}
			row.Name = NextAvailableName(base, taken)
			if _, err := s.repo.Create(dbc, []*types.PackingList{row}); err != nil {
				return err
			}
			return s.record(dbc, audit.Change{Profile: profilePackingLists, EntityID: row.ID, After: row.Snapshot()})
		})
		if !domainagg.IsCode(err, domainagg.CodeConflict) {
			break
		}
		s.log.Debug("packing list name taken concurrently, retrying", "name", base, "attempt", attempt)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *packingListService) Update(ctx context.Context, id uuid.UUID, p PackingListPatch) (*types.PackingList, error) {
	const op = "packing_lists.update"
	var out *types.PackingList
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "packing list not found")
		}
		next := *cur
		if p.Name.Set {
			name := strings.TrimSpace(p.Name.Value)
			if name == "" {
				return invalid(op, "name cannot be empty")
			}
			next.Name = name
		}
		if p.Consignee.Set {
			next.Consignee = strings.TrimSpace(p.Consignee.Value)
		}
		if p.Status.Set {
			status := strings.ToUpper(strings.TrimSpace(p.Status.Value))
			if !validPackingListStatus(status) {
				return invalid(op, "invalid packing list status "+status)
			}
			next.Status = status
		}
		if p.Notes.Set {
			next.Notes = strings.TrimSpace(p.Notes.Value)
		}
		if err := s.repo.UpdateFields(dbc, id, map[string]interface{}{
			"name":       next.Name,
			"consignee":  next.Consignee,
			"status":     next.Status,
			"notes":      next.Notes,
			"updated_at": time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{Profile: profilePackingLists, EntityID: id, Before: cur.Snapshot(), After: next.Snapshot()}); err != nil {
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

func (s *packingListService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "packing_lists.delete"
	return s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "packing list not found")
		}
		if err := s.record(dbc, audit.Change{Profile: profilePackingLists, EntityID: id, Before: cur.Snapshot()}); err != nil {
			return err
		}
		return s.repo.FullDeleteByIDs(dbc, []uuid.UUID{id})
	})
}

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
	"github.com/yungbote/cargoledger-backend/internal/domain/shipping"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/patch"
)

const profileContainers = "containers"

type ContainerInput struct {
	Code        string      `json:"code"`
	Origin      string      `json:"origin"`
	LoadingDate *patch.Date `json:"loadingDate"`
	Status      string      `json:"status"`
	Remarks     string      `json:"remarks"`
}

type ContainerPatch struct {
	Code        patch.Field[string]     `json:"code"`
	Origin      patch.Field[string]     `json:"origin"`
	LoadingDate patch.Field[patch.Date] `json:"loadingDate"`
	Status      patch.Field[string]     `json:"status"`
	Remarks     patch.Field[string]     `json:"remarks"`
}

type ContainerService interface {
	List(ctx context.Context, f repos.ContainerListFilter) ([]*types.Container, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Container, error)
	Create(ctx context.Context, in ContainerInput) (*types.Container, error)
	Update(ctx context.Context, id uuid.UUID, p ContainerPatch) (*types.Container, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Recalculate(ctx context.Context, id uuid.UUID) (domainagg.ContainerTotals, error)
}

type containerService struct {
	mutator
	containers repos.ContainerRepo
	sheets     repos.LoadingSheetRepo
	items      repos.LoadingItemRepo
	bif        repos.BifurcationRepo
	wh         repos.WarehouseRepo
}

func NewContainerService(
	deps MutationDeps,
	containers repos.ContainerRepo,
	sheets repos.LoadingSheetRepo,
	items repos.LoadingItemRepo,
	bif repos.BifurcationRepo,
	wh repos.WarehouseRepo,
) ContainerService {
	return &containerService{
		mutator:    newMutator(deps, deps.Log.With("service", "ContainerService")),
		containers: containers,
		sheets:     sheets,
		items:      items,
		bif:        bif,
		wh:         wh,
	}
}

func (s *containerService) List(ctx context.Context, f repos.ContainerListFilter) ([]*types.Container, error) {
	out, err := s.containers.List(dbctx.Context{Ctx: ctx}, f)
	if err != nil {
		return nil, aggregates.MapError("containers.list", err)
	}
	return out, nil
}

func (s *containerService) Get(ctx context.Context, id uuid.UUID) (*types.Container, error) {
	c, err := s.containers.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError("containers.get", err)
	}
	if c == nil {
		return nil, notFound("containers.get", "container not found")
	}
	return c, nil
}

func (s *containerService) Create(ctx context.Context, in ContainerInput) (*types.Container, error) {
	const op = "containers.create"
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, invalid(op, "code is required")
	}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = shipping.ContainerStatusOpen
	}
	if !shipping.ValidContainerStatus(status) {
		return nil, invalid(op, "invalid container status "+status)
	}
	row := &types.Container{
		Code:        code,
		Origin:      strings.TrimSpace(in.Origin),
		LoadingDate: patch.DatePtr(in.LoadingDate),
		Status:      status,
		Remarks:     strings.TrimSpace(in.Remarks),
	}
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		taken, err := s.containers.CodeExists(dbc, code, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return conflict(op, "container code "+code+" already exists")
		}
		if _, err := s.containers.Create(dbc, []*types.Container{row}); err != nil {
			return err
		}
		return s.record(dbc, audit.Change{Profile: profileContainers, EntityID: row.ID, After: row.Snapshot()})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *containerService) Update(ctx context.Context, id uuid.UUID, p ContainerPatch) (*types.Container, error) {
	const op = "containers.update"
	var out *types.Container
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.containers.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "container not found")
		}
		before := cur.Snapshot()
		next := *cur

		if p.Code.Set {
			code := strings.TrimSpace(p.Code.Value)
			if code == "" {
				return invalid(op, "code cannot be empty")
			}
			if code != cur.Code {
				taken, err := s.containers.CodeExists(dbc, code, id)
				if err != nil {
					return err
				}
				if taken {
					return conflict(op, "container code "+code+" already exists")
				}
			}
			next.Code = code
		}
		if p.Origin.Set {
			next.Origin = strings.TrimSpace(p.Origin.Value)
		}
		if p.LoadingDate.Set {
			next.LoadingDate = p.LoadingDate.Value.Ptr()
		}
		if p.Status.Set {
			status := strings.ToUpper(strings.TrimSpace(p.Status.Value))
			if !shipping.ValidContainerStatus(status) {
				return invalid(op, "invalid container status "+status)
			}
			next.Status = status
		}
		if p.Remarks.Set {
			next.Remarks = strings.TrimSpace(p.Remarks.Value)
		}

		if err := s.containers.UpdateFields(dbc, id, map[string]interface{}{
			"code":         next.Code,
			"origin":       next.Origin,
			"loading_date": next.LoadingDate,
			"status":       next.Status,
			"remarks":      next.Remarks,
			"updated_at":   time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{Profile: profileContainers, EntityID: id, Before: before, After: next.Snapshot()}); err != nil {
			return err
		}
		out, err = s.containers.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the container with its sheets, their items and overlays. The DELETE
// audit row is written first, in the same transaction.
func (s *containerService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "containers.delete"
	return s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.containers.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "container not found")
		}
		sheets, err := s.sheets.ListByContainerID(dbc, id)
		if err != nil {
			return err
		}
		sheetIDs := make([]uuid.UUID, 0, len(sheets))
		for _, sh := range sheets {
			sheetIDs = append(sheetIDs, sh.ID)
		}
		if err := s.record(dbc, audit.Change{
			Profile:  profileContainers,
			EntityID: id,
			Before:   cur.Snapshot(),
			Metadata: map[string]any{"sheets": len(sheets)},
		}); err != nil {
			return err
		}
		if err := s.bif.FullDeleteBySheetIDs(dbc, sheetIDs); err != nil {
			return err
		}
		if err := s.wh.FullDeleteBySheetIDs(dbc, sheetIDs); err != nil {
			return err
		}
		if err := s.items.FullDeleteBySheetIDs(dbc, sheetIDs); err != nil {
			return err
		}
		if err := s.sheets.FullDeleteByIDs(dbc, sheetIDs); err != nil {
			return err
		}
		return s.containers.FullDeleteByIDs(dbc, []uuid.UUID{id})
	})
}

func (s *containerService) Recalculate(ctx context.Context, id uuid.UUID) (domainagg.ContainerTotals, error) {
	totals, err := s.rollup.Recalculate(ctx, id)
	if err != nil {
		return domainagg.ContainerTotals{}, err
	}
	if !totals.Found {
		return domainagg.ContainerTotals{}, notFound("containers.recalculate", "container not found")
	}
	return totals, nil
}

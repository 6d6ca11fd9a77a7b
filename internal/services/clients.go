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
	"github.com/yungbote/cargoledger-backend/internal/domain/records"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/patch"
)

const profileClients = "client_records"

type ClientInput struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

type ClientPatch struct {
	Name    patch.Field[string] `json:"name"`
	Contact patch.Field[string] `json:"contact"`
	Phone   patch.Field[string] `json:"phone"`
	Country patch.Field[string] `json:"country"`
}

type ClientService interface {
	List(ctx context.Context, f repos.ListFilter) ([]*types.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Client, error)
	Create(ctx context.Context, in ClientInput) (*types.Client, error)
	Update(ctx context.Context, id uuid.UUID, p ClientPatch) (*types.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Archive(ctx context.Context, id uuid.UUID) (*types.Client, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*types.Client, error)
}

type clientService struct {
	mutator
	repo repos.ClientRepo
}

func NewClientService(deps MutationDeps, repo repos.ClientRepo) ClientService {
	return &clientService{
		mutator: newMutator(deps, deps.Log.With("service", "ClientService")),
		repo:    repo,
	}
}

func (s *clientService) List(ctx context.Context, f repos.ListFilter) ([]*types.Client, error) {
	out, err := s.repo.List(dbctx.Context{Ctx: ctx}, f)
	if err != nil {
		return nil, aggregates.MapError("clients.list", err)
	}
	return out, nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*types.Client, error) {
	row, err := s.repo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, aggregates.MapError("clients.get", err)
	}
	if row == nil {
		return nil, notFound("clients.get", "client not found")
	}
	return row, nil
}

func (s *clientService) Create(ctx context.Context, in ClientInput) (*types.Client, error) {
	const op = "clients.create"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid(op, "name is required")
	}
	row := &types.Client{
		Name:    name,
		Contact: strings.TrimSpace(in.Contact),
		Phone:   strings.TrimSpace(in.Phone),
		Country: strings.TrimSpace(in.Country),
		Status:  records.StatusActive,
	}
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		taken, err := s.repo.NameExists(dbc, name, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return conflict(op, "client "+name+" already exists")
		}
		if _, err := s.repo.Create(dbc, []*types.Client{row}); err != nil {
			return err
		}
		return s.record(dbc, audit.Change{Profile: profileClients, EntityID: row.ID, After: row.Snapshot()})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, p ClientPatch) (*types.Client, error) {
	const op = "clients.update"
	var out *types.Client
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "client not found")
		}
		next := *cur
		if p.Name.Set {
			name := strings.TrimSpace(p.Name.Value)
			if name == "" {
				return invalid(op, "name cannot be empty")
			}
			if name != cur.Name {
				taken, err := s.repo.NameExists(dbc, name, id)
				if err != nil {
					return err
				}
				if taken {
					return conflict(op, "client "+name+" already exists")
				}
			}
			next.Name = name
		}
		if p.Contact.Set {
			next.Contact = strings.TrimSpace(p.Contact.Value)
		}
		if p.Phone.Set {
			next.Phone = strings.TrimSpace(p.Phone.Value)
		}
		if p.Country.Set {
			next.Country = strings.TrimSpace(p.Country.Value)
		}
		if err := s.repo.UpdateFields(dbc, id, map[string]interface{}{
			"name":       next.Name,
			"contact":    next.Contact,
			"phone":      next.Phone,
			"country":    next.Country,
			"updated_at": time.Now().UTC(),
		}); err != nil {
			return err
		}
		if err := s.record(dbc, audit.Change{Profile: profileClients, EntityID: id, Before: cur.Snapshot(), After: next.Snapshot()}); err != nil {
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

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "clients.delete"
	return s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "client not found")
		}
		if err := s.record(dbc, audit.Change{Profile: profileClients, EntityID: id, Before: cur.Snapshot()}); err != nil {
			return err
		}
		return s.repo.FullDeleteByIDs(dbc, []uuid.UUID{id})
	})
}

func (s *clientService) Archive(ctx context.Context, id uuid.UUID) (*types.Client, error) {
	return s.transition(ctx, "clients.archive", id, records.StatusActive, records.StatusArchived)
}

func (s *clientService) Reactivate(ctx context.Context, id uuid.UUID) (*types.Client, error) {
	return s.transition(ctx, "clients.reactivate", id, records.StatusArchived, records.StatusActive)
}

func (s *clientService) transition(ctx context.Context, op string, id uuid.UUID, from, to string) (*types.Client, error) {
	var out *types.Client
	err := s.write(ctx, op, func(dbc dbctx.Context) error {
		cur, err := s.repo.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(op, "client not found")
		}
		if err := aggregates.RequireStatusAllowed(cur.Status, from); err != nil {
			return err
		}
		ok, err := s.cas.UpdateByStatus(dbc, types.Client{}.TableName(), id, []string{from}, map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := aggregates.RequireCASSuccess(ok, "client status changed concurrently"); err != nil {
			return err
		}
		next := *cur
		next.Status = to
		if err := s.record(dbc, audit.Change{Profile: profileClients, EntityID: id, Before: cur.Snapshot(), After: next.Snapshot()}); err != nil {
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

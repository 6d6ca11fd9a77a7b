package feed

import (
	"context"

	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	actrepo "github.com/yungbote/cargoledger-backend/internal/data/repos/activity"
	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
)

// Source is one module's audit stream. Fetch returns the newest rows matching q within
// its window plus the total match count.
type Source interface {
	Module() activity.Module
	Fetch(ctx context.Context, q actrepo.Query) ([]*actrepo.Row, int64, error)
}

type tableSource struct {
	module activity.Module
	repo   repos.ActivityRepo
}

// NewTableSource reads a module's <module>_activity table.
func NewTableSource(module activity.Module, repo repos.ActivityRepo) Source {
	return &tableSource{module: module, repo: repo}
}

// TableSources builds one source per module.
func TableSources(modules []activity.Module, repo repos.ActivityRepo) []Source {
	out := make([]Source, 0, len(modules))
	for _, m := range modules {
		out = append(out, NewTableSource(m, repo))
	}
	return out
}

func (s *tableSource) Module() activity.Module { return s.module }

func (s *tableSource) Fetch(ctx context.Context, q actrepo.Query) ([]*actrepo.Row, int64, error) {
	dbc := dbctx.Context{Ctx: ctx}
	table := activity.TableFor(s.module)
	rows, err := s.repo.Find(dbc, table, q)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(dbc, table, q)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/cargoledger-backend/internal/data/aggregates"
	"github.com/yungbote/cargoledger-backend/internal/data/repos"
	types "github.com/yungbote/cargoledger-backend/internal/domain"
	"github.com/yungbote/cargoledger-backend/internal/platform/dbctx"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

// ActorService keeps the users table in step with verified tokens so feed rows can
// show and search actor names.
type ActorService interface {
	Touch(ctx context.Context, id uuid.UUID, name, email string) error
}

type actorService struct {
	repo repos.UserRepo
	log  *logger.Logger
}

func NewActorService(repo repos.UserRepo, baseLog *logger.Logger) ActorService {
	return &actorService{repo: repo, log: baseLog.With("service", "ActorService")}
}

func (s *actorService) Touch(ctx context.Context, id uuid.UUID, name, email string) error {
	if id == uuid.Nil {
		return nil
	}
	u := &types.User{ID: id, Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := s.repo.Upsert(dbctx.Context{Ctx: ctx}, u); err != nil {
		return aggregates.MapError("actors.touch", err)
	}
	return nil
}

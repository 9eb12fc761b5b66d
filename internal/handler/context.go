package handler

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

type ContextKey string

var (
	ActorCtxKey            ContextKey = "actor"
	ClaimsCtxKey           ContextKey = "claims"
	CoordinationKindCtxKey ContextKey = "coordinationKind"
)

func actorFrom(ctx context.Context) domain.Actor {
	return ctx.Value(ActorCtxKey).(domain.Actor)
}

package apisessionv1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/inmemdb/database"
	"github.com/fulldump/inmemdb/service"
)

const ContextServicerKey = "5c1d2e0a-7f3b-11ef-b3f4-2b8c1a9e6d41"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	s, ok := ctx.Value(ContextServicerKey).(service.Servicer)
	if !ok {
		panic("servicer not injected in context")
	}
	return s
}

func lookupSession(ctx context.Context) (*database.Session, error) {
	sessionID := box.GetUrlParameter(ctx, "sessionId")
	return GetServicer(ctx).GetSession(sessionID)
}

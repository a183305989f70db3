package domain

import (
	"context"
	"fmt"
)

type ctxSessionKey struct{}

const (
	CtxSystemActorId  = "_DF_SYS_"
	CtxUnknownActorId = "_DF_UNKNOWN_"
)

// ContextSessionInfo carries the ambient actor and connection attribution of
// the request that raises an audit intent. It is attached to the context by
// the HTTP layer (or by explicit wiring for system jobs).
type ContextSessionInfo struct {
	ActorId    string
	ActorLabel string
	IsAdmin    bool

	SessionId     string
	SourceAddress string
	ClientLabel   string
}

func (s *ContextSessionInfo) String() string {
	return fmt.Sprintf("%s|%t", s.ActorId, s.IsAdmin)
}

func DefaultContextSessionInfo() *ContextSessionInfo {
	return &ContextSessionInfo{
		ActorId: CtxUnknownActorId,
		IsAdmin: false,
	}
}

// SystemContextSessionInfo describes actions initiated by the service itself,
// for example meta audit events written by the security monitor.
func SystemContextSessionInfo() *ContextSessionInfo {
	return &ContextSessionInfo{
		ActorId:     CtxSystemActorId,
		IsAdmin:     true,
		ClientLabel: "system",
	}
}

func SetSessionInfo(ctx context.Context, info *ContextSessionInfo) context.Context {
	return context.WithValue(ctx, ctxSessionKey{}, info)
}

func GetSessionInfo(ctx context.Context) *ContextSessionInfo {
	rawInfo := ctx.Value(ctxSessionKey{})
	if rawInfo == nil {
		return DefaultContextSessionInfo()
	}

	if info, ok := rawInfo.(*ContextSessionInfo); ok {
		return info
	}

	return DefaultContextSessionInfo()
}

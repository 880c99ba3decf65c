// Package auditor 在Context中传递当前操作人
//
// 写入方：HTTP认证中间件（JWT Subject）
// 读取方：GORM审计回调（created_by / last_modified_by）
package auditor

import "context"

type ctxKey struct{}

// WithActor 将操作人放入Context
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, actor)
}

// FromContext 读取操作人
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	actor, ok := ctx.Value(ctxKey{}).(string)
	return actor, ok && actor != ""
}

// Resolve 读取操作人，没有时返回fallback
func Resolve(ctx context.Context, fallback string) string {
	if actor, ok := FromContext(ctx); ok {
		return actor
	}
	return fallback
}

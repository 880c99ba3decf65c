package member

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/pkg/logger"
	"github.com/xiebiao/membership/pkg/tracing"
)

// FindMemberUseCase 按ID查询会员用户名
// 设计说明:
// 1. 先查缓存,未命中再查仓储并回填
// 2. 缓存故障只记录日志,不影响查询结果
type FindMemberUseCase struct {
	memberRepo member.Repository
	cache      UsernameCache
}

// NewFindMemberUseCase 创建查询用例
func NewFindMemberUseCase(memberRepo member.Repository, cache UsernameCache) *FindMemberUseCase {
	return &FindMemberUseCase{
		memberRepo: memberRepo,
		cache:      cache,
	}
}

// Execute 返回会员用户名,不存在时返回member.ErrMemberNotFound
func (uc *FindMemberUseCase) Execute(ctx context.Context, id uint) (string, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "FindMemberUseCase.Execute")
	defer span.End()
	span.SetAttributes(attribute.Int64("member.id", int64(id)))

	log := logger.FromContext(ctx)

	username, hit, err := uc.cache.Get(ctx, id)
	if err != nil {
		log.Warn("读取用户名缓存失败", zap.Uint("member_id", id), zap.Error(err))
	}
	if hit {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return username, nil
	}

	m, err := uc.memberRepo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if err := uc.cache.Set(ctx, id, m.Username); err != nil {
		log.Warn("写入用户名缓存失败", zap.Uint("member_id", id), zap.Error(err))
	}
	return m.Username, nil
}

// FindByEntity 会员已由HTTP层按ID绑定,直接返回用户名
func (uc *FindMemberUseCase) FindByEntity(m *member.Member) string {
	return m.Username
}

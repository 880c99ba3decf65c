package member

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/pkg/logger"
	"github.com/xiebiao/membership/pkg/tracing"
)

// SeedMembersUseCase 写入示例数据 member0..member{n-1},年龄等于序号
// 表中已有会员时跳过,重复启动不会插入重复数据
type SeedMembersUseCase struct {
	memberRepo member.Repository
	txManager  Transactor
}

// NewSeedMembersUseCase 创建种子数据用例
func NewSeedMembersUseCase(memberRepo member.Repository, txManager Transactor) *SeedMembersUseCase {
	return &SeedMembersUseCase{
		memberRepo: memberRepo,
		txManager:  txManager,
	}
}

// Execute 返回写入的会员数
func (uc *SeedMembersUseCase) Execute(ctx context.Context, n int) (int, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SeedMembersUseCase.Execute")
	defer span.End()

	count, err := uc.memberRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.FromContext(ctx).Info("会员表已有数据，跳过种子数据", zap.Int64("count", count))
		return 0, nil
	}

	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		for i := 0; i < n; i++ {
			if _, err := uc.memberRepo.Save(ctx, member.NewMemberWithAge(fmt.Sprintf("member%d", i), i)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.FromContext(ctx).Info("写入种子数据", zap.Int("members", n))
	return n, nil
}

package member

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/membership/internal/domain/member"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/logger"
	"github.com/xiebiao/membership/pkg/tracing"
)

// BulkAgePlusUseCase 批量年龄加1
// 教学要点:
// 1. 批量UPDATE直接写数据库,绕过持久化上下文
// 2. 仓储在执行后清空持久化上下文,缓存也要一起失效
type BulkAgePlusUseCase struct {
	memberRepo member.Repository
	txManager  Transactor
	cache      UsernameCache
}

// NewBulkAgePlusUseCase 创建批量更新用例
func NewBulkAgePlusUseCase(memberRepo member.Repository, txManager Transactor, cache UsernameCache) *BulkAgePlusUseCase {
	return &BulkAgePlusUseCase{
		memberRepo: memberRepo,
		txManager:  txManager,
		cache:      cache,
	}
}

// BulkAgePlusResponse 批量更新结果
type BulkAgePlusResponse struct {
	Age  int `json:"age"`
	Rows int `json:"rows"`
}

// Execute age >= 参数的会员年龄加1,返回影响行数
func (uc *BulkAgePlusUseCase) Execute(ctx context.Context, age int) (*BulkAgePlusResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "BulkAgePlusUseCase.Execute")
	defer span.End()
	span.SetAttributes(attribute.Int("member.age", age))

	if age < 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "age不能小于0")
	}

	var rows int
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		rows, err = uc.memberRepo.BulkAgePlus(ctx, age)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows_affected", rows))

	// 批量更新绕过了缓存,全部失效
	if evicted, err := uc.cache.EvictAll(ctx); err != nil {
		logger.FromContext(ctx).Warn("清空用户名缓存失败", zap.Error(err))
	} else if evicted > 0 {
		logger.FromContext(ctx).Debug("清空用户名缓存", zap.Int("evicted", evicted))
	}

	return &BulkAgePlusResponse{Age: age, Rows: rows}, nil
}

package member

import (
	apperrors "github.com/xiebiao/membership/pkg/errors"
)

// 会员领域错误定义
var (
	// ErrMemberNotFound 会员不存在
	ErrMemberNotFound = apperrors.New(apperrors.ErrCodeMemberNotFound, "会员不存在")

	// ErrTeamNotFound 团队不存在
	ErrTeamNotFound = apperrors.New(apperrors.ErrCodeTeamNotFound, "团队不存在")

	// ErrNonUniqueResult 单结果查询匹配到多条记录
	ErrNonUniqueResult = apperrors.New(apperrors.ErrCodeNonUniqueResult, "查询结果不唯一")

	// ErrTransientTeam 会员关联的团队尚未保存
	ErrTransientTeam = apperrors.New(apperrors.ErrCodeTransientEntity, "关联的团队尚未保存")

	// ErrLazyInitialization 实体已脱管，无法延迟加载关联
	ErrLazyInitialization = apperrors.New(apperrors.ErrCodeLazyInitialization, "实体已脱管，无法加载关联数据")

	// ErrDetachedEntity 实体不在当前持久化上下文中
	ErrDetachedEntity = apperrors.New(apperrors.ErrCodeDetachedEntity, "实体未被持久化上下文管理")
)

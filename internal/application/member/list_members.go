package member

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/pkg/pagination"
	"github.com/xiebiao/membership/pkg/tracing"
)

// ListMembersUseCase 会员分页查询
// 实体不直接返回给API,转换成MemberDto(id, username, teamName)
type ListMembersUseCase struct {
	memberRepo member.Repository
}

// NewListMembersUseCase 创建列表查询用例
func NewListMembersUseCase(memberRepo member.Repository) *ListMembersUseCase {
	return &ListMembersUseCase{memberRepo: memberRepo}
}

// Execute 执行分页查询,分页元数据原样保留
func (uc *ListMembersUseCase) Execute(ctx context.Context, req pagination.PageRequest) (pagination.Page[member.MemberDto], error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListMembersUseCase.Execute")
	defer span.End()
	span.SetAttributes(
		attribute.Int("page.number", req.Page),
		attribute.Int("page.size", req.Size),
		attribute.String("page.sort", req.Sort.String()),
	)

	page, err := uc.memberRepo.FindAllPage(ctx, req)
	if err != nil {
		return pagination.Page[member.MemberDto]{}, err
	}
	return pagination.Map(page, member.NewMemberDto), nil
}

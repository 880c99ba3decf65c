package orm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/xiebiao/membership/internal/domain/member"
	apperrors "github.com/xiebiao/membership/pkg/errors"
)

// memberRepositoryCustom 手写查询片段,嵌入memberRepository后成为仓储的一部分
type memberRepositoryCustom struct {
	db *gorm.DB
}

// FindMemberCustom 手写SQL查询全部会员
func (c memberRepositoryCustom) FindMemberCustom(ctx context.Context) ([]*member.Member, error) {
	var out []*member.Member
	err := read(ctx, c.db, "FindMemberCustom", func(em *EntityManager) error {
		db := em.DB(ctx)
		query := fmt.Sprintf("SELECT * FROM %s ORDER BY member_id", db.Statement.Quote("member"))

		var models []MemberModel
		if err := db.Raw(query).Scan(&models).Error; err != nil {
			return apperrors.Wrap(err, "自定义查询会员失败")
		}
		out = em.manageMembers(models, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

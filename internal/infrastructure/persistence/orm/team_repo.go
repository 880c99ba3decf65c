package orm

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/membership/internal/domain/member"
	apperrors "github.com/xiebiao/membership/pkg/errors"
)

// teamRepository 手写的团队仓储
// 只使用持久化上下文的基本操作:Persist/Remove/FindTeam,集合查询的结果同样纳入管理
type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository 创建团队仓储
func NewTeamRepository(db *gorm.DB) member.TeamRepository {
	return &teamRepository{db: db}
}

// Save 持久化新团队
func (r *teamRepository) Save(ctx context.Context, t *member.Team) (*member.Team, error) {
	err := write(ctx, r.db, "TeamSave", func(em *EntityManager) error {
		return em.Persist(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete 删除团队
// 团队下仍有会员时数据库外键约束会拒绝删除（SQLite通过DSN打开外键检查）
func (r *teamRepository) Delete(ctx context.Context, t *member.Team) error {
	return write(ctx, r.db, "TeamDelete", func(em *EntityManager) error {
		return em.Remove(ctx, t)
	})
}

// FindAll 查询全部团队
func (r *teamRepository) FindAll(ctx context.Context) ([]*member.Team, error) {
	var out []*member.Team
	err := read(ctx, r.db, "TeamFindAll", func(em *EntityManager) error {
		var models []TeamModel
		if err := em.DB(ctx).Order("team_id").Find(&models).Error; err != nil {
			return apperrors.Wrap(err, "查询团队失败")
		}
		out = make([]*member.Team, 0, len(models))
		for i := range models {
			out = append(out, em.manageTeam(&models[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID 按主键查找
func (r *teamRepository) FindByID(ctx context.Context, id uint) (*member.Team, bool, error) {
	t, err := r.Find(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return t, t != nil, nil
}

// Count 团队总数
func (r *teamRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := read(ctx, r.db, "TeamCount", func(em *EntityManager) error {
		if err := em.DB(ctx).Model(&TeamModel{}).Count(&total).Error; err != nil {
			return apperrors.Wrap(err, "查询团队总数失败")
		}
		return nil
	})
	return total, err
}

// Find 按主键查找,不存在返回nil
func (r *teamRepository) Find(ctx context.Context, id uint) (*member.Team, error) {
	var t *member.Team
	err := read(ctx, r.db, "TeamFind", func(em *EntityManager) error {
		var err error
		t, err = em.FindTeam(ctx, id)
		return err
	})
	return t, err
}

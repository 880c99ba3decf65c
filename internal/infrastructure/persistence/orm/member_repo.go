package orm

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/membership/internal/domain/member"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/metrics"
	"github.com/xiebiao/membership/pkg/pagination"
)

// memberRepository 会员仓储实现
// 设计说明:
// 1. 实现domain/member/repository.go定义的接口
// 2. 所有查询结果经过EntityManager:同一上下文中同一会员只有一个实例
// 3. 查询条件使用clause表达式,列名带表名前缀(member和team都有team_id、created_date列)
type memberRepository struct {
	db *gorm.DB
	memberRepositoryCustom
}

// NewMemberRepository 创建会员仓储
func NewMemberRepository(db *gorm.DB) member.Repository {
	return &memberRepository{
		db:                     db,
		memberRepositoryCustom: memberRepositoryCustom{db: db},
	}
}

// col 当前表的列
func col(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func byUsername(username string) clause.Eq {
	return clause.Eq{Column: col("username"), Value: username}
}

// findMembers 执行实体查询并纳入持久化上下文
func (r *memberRepository) findMembers(ctx context.Context, name string, readOnly bool,
	scope func(db *gorm.DB) *gorm.DB) ([]*member.Member, error) {
	var out []*member.Member
	err := read(ctx, r.db, name, func(em *EntityManager) error {
		var models []MemberModel
		if err := scope(em.DB(ctx).Model(&MemberModel{})).Find(&models).Error; err != nil {
			return apperrors.Wrap(err, "查询会员失败")
		}
		out = em.manageMembers(models, readOnly)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// findSingle 单结果查询(LIMIT 2判断是否唯一)
func (r *memberRepository) findSingle(ctx context.Context, name string, readOnly bool,
	scope func(db *gorm.DB) *gorm.DB) (*member.Member, error) {
	members, err := r.findMembers(ctx, name, readOnly, func(db *gorm.DB) *gorm.DB {
		return scope(db).Limit(2)
	})
	if err != nil {
		return nil, err
	}
	return singleResult(members)
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: col("member_id")})
}

// Save 新会员INSERT;已有ID的会员合并到当前上下文,返回被管理的实例
func (r *memberRepository) Save(ctx context.Context, m *member.Member) (*member.Member, error) {
	var saved *member.Member
	err := write(ctx, r.db, "Save", func(em *EntityManager) error {
		var err error
		saved, err = em.Merge(ctx, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// FindByID 根据ID查找会员
func (r *memberRepository) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	var found *member.Member
	err := read(ctx, r.db, "FindByID", func(em *EntityManager) error {
		var err error
		found, err = em.FindMember(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, member.ErrMemberNotFound
	}
	return found, nil
}

// FindAll 查询全部会员(实体图:预加载团队)
func (r *memberRepository) FindAll(ctx context.Context) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindAll", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Preload("Team"))
	})
}

// FindAllPage 分页查询全部会员,团队通过左连接一次加载
func (r *memberRepository) FindAllPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[*member.Member], error) {
	var page pagination.Page[*member.Member]
	err := read(ctx, r.db, "FindAllPage", func(em *EntityManager) error {
		query, err := applyPage(em.DB(ctx).Model(&MemberModel{}).Joins("Team"), clause.CurrentTable, req)
		if err != nil {
			return err
		}

		var models []MemberModel
		if err := query.Find(&models).Error; err != nil {
			return apperrors.Wrap(err, "分页查询会员失败")
		}

		page, err = pagination.GetPage(em.manageMembers(models, false), req, func() (int64, error) {
			return countMembers(ctx, em, nil)
		})
		return err
	})
	return page, err
}

// countMembers 会员总数,cond为nil时统计全部
func countMembers(ctx context.Context, em *EntityManager, cond clause.Expression) (int64, error) {
	var total int64
	query := em.DB(ctx).Model(&MemberModel{})
	if cond != nil {
		query = query.Where(cond)
	}
	if err := query.Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "查询会员总数失败")
	}
	return total, nil
}

// Count 会员总数
func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := read(ctx, r.db, "Count", func(em *EntityManager) error {
		var err error
		total, err = countMembers(ctx, em, nil)
		return err
	})
	return total, err
}

// Delete 删除会员
// 新实体(ID为0)或已不存在的会员直接返回;脱管实体先找到被管理的实例再删除
func (r *memberRepository) Delete(ctx context.Context, m *member.Member) error {
	if m.ID == 0 {
		return nil
	}
	return write(ctx, r.db, "Delete", func(em *EntityManager) error {
		existing, err := em.FindMember(ctx, m.ID)
		if err != nil || existing == nil {
			return err
		}
		return em.Remove(ctx, existing)
	})
}

// FindByUsernameAndAgeGreaterThan username = ? AND age > ?
func (r *memberRepository) FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindByUsernameAndAgeGreaterThan", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where(byUsername(username)).Where(clause.Gt{Column: col("age"), Value: age}))
	})
}

// FindByUsername 命名参数查询
func (r *memberRepository) FindByUsername(ctx context.Context, username string) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindByUsername", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where("username = @username", sql.Named("username", username)))
	})
}

// FindUser username = :username AND age = :age
func (r *memberRepository) FindUser(ctx context.Context, username string, age int) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindUser", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where("username = @username AND age = @age",
			map[string]interface{}{"username": username, "age": age}))
	})
}

// FindUsernameList 只查询用户名
func (r *memberRepository) FindUsernameList(ctx context.Context) ([]string, error) {
	names := []string{}
	err := read(ctx, r.db, "FindUsernameList", func(em *EntityManager) error {
		if err := orderByID(em.DB(ctx).Model(&MemberModel{})).Pluck("username", &names).Error; err != nil {
			return apperrors.Wrap(err, "查询用户名失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// FindMemberDto 会员内连接团队,直接构造DTO
func (r *memberRepository) FindMemberDto(ctx context.Context) ([]member.MemberDto, error) {
	dtos := []member.MemberDto{}
	err := read(ctx, r.db, "FindMemberDto", func(em *EntityManager) error {
		db := em.DB(ctx)
		q := db.Statement.Quote
		query := fmt.Sprintf(
			"SELECT m.member_id AS id, m.username AS username, t.name AS team_name "+
				"FROM %s m JOIN %s t ON t.team_id = m.team_id ORDER BY m.member_id",
			q("member"), q("team"))
		if err := db.Raw(query).Scan(&dtos).Error; err != nil {
			return apperrors.Wrap(err, "查询会员DTO失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if dtos == nil {
		dtos = []member.MemberDto{}
	}
	return dtos, nil
}

// FindByNames username IN (...)
func (r *memberRepository) FindByNames(ctx context.Context, names []string) ([]*member.Member, error) {
	values := make([]interface{}, len(names))
	for i, n := range names {
		values[i] = n
	}
	return r.findMembers(ctx, "FindByNames", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where(clause.IN{Column: col("username"), Values: values}))
	})
}

// FindListByUsername 集合返回:没有结果时为空切片
func (r *memberRepository) FindListByUsername(ctx context.Context, username string) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindListByUsername", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where(byUsername(username)))
	})
}

// FindMember1ByUsername 单结果返回:没有结果时为nil
func (r *memberRepository) FindMember1ByUsername(ctx context.Context, username string) (*member.Member, error) {
	return r.findSingle(ctx, "FindMember1ByUsername", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where(byUsername(username)))
	})
}

// FindOptionalByUsername 单结果返回:found表示是否存在
func (r *memberRepository) FindOptionalByUsername(ctx context.Context, username string) (*member.Member, bool, error) {
	m, err := r.findSingle(ctx, "FindOptionalByUsername", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where(byUsername(username)))
	})
	if err != nil {
		return nil, false, err
	}
	return m, m != nil, nil
}

// FindByAge 按年龄分页
// 内容查询左连接team(不加载团队),count查询只统计member表
func (r *memberRepository) FindByAge(ctx context.Context, age int, req pagination.PageRequest) (pagination.Page[*member.Member], error) {
	var page pagination.Page[*member.Member]
	cond := clause.Eq{Column: col("age"), Value: age}

	err := read(ctx, r.db, "FindByAge", func(em *EntityManager) error {
		db := em.DB(ctx)
		q := db.Statement.Quote
		join := fmt.Sprintf("LEFT JOIN %s t ON t.team_id = %s.team_id", q("team"), q("member"))

		query, err := applyPage(db.Model(&MemberModel{}).Joins(join).Where(cond), clause.CurrentTable, req)
		if err != nil {
			return err
		}

		var models []MemberModel
		if err := query.Find(&models).Error; err != nil {
			return apperrors.Wrap(err, "分页查询会员失败")
		}

		page, err = pagination.GetPage(em.manageMembers(models, false), req, func() (int64, error) {
			return countMembers(ctx, em, cond)
		})
		return err
	})
	return page, err
}

// FindSliceByAge 按年龄分页,多查一条判断是否有下一页,不执行count
func (r *memberRepository) FindSliceByAge(ctx context.Context, age int, req pagination.PageRequest) (pagination.Slice[*member.Member], error) {
	var slice pagination.Slice[*member.Member]
	err := read(ctx, r.db, "FindSliceByAge", func(em *EntityManager) error {
		query, err := applySort(em.DB(ctx).Model(&MemberModel{}).Where(clause.Eq{Column: col("age"), Value: age}),
			clause.CurrentTable, req.Sort)
		if err != nil {
			return err
		}
		if req.IsPaged() {
			query = query.Offset(req.Offset()).Limit(req.Size + 1)
		}

		var models []MemberModel
		if err := query.Find(&models).Error; err != nil {
			return apperrors.Wrap(err, "分页查询会员失败")
		}
		slice = pagination.NewSlice(em.manageMembers(models, false), req)
		return nil
	})
	return slice, err
}

// BulkAgePlus age >= ?的会员年龄加1
// 1. 执行前flush,未提交的修改先写入数据库
// 2. UpdateColumn跳过钩子和审计回调,不刷新修改时间
// 3. 执行后清空持久化上下文:内存中的实体已与数据库不一致
func (r *memberRepository) BulkAgePlus(ctx context.Context, age int) (int, error) {
	metrics.CountQuery("BulkAgePlus")
	em, done := session(ctx, r.db)
	defer done()

	var rows int
	run := func() error {
		if err := em.Flush(ctx); err != nil {
			return err
		}
		result := em.DB(ctx).Model(&MemberModel{}).
			Where(clause.Gte{Column: col("age"), Value: age}).
			UpdateColumn("age", gorm.Expr("age + ?", 1))
		if result.Error != nil {
			return apperrors.Wrap(result.Error, "批量更新年龄失败")
		}
		rows = int(result.RowsAffected)
		em.clear(clearReasonBulkUpdate)
		return nil
	}

	var err error
	if em.InTransaction() {
		err = run()
	} else {
		err = inTransaction(ctx, r.db, em, run)
	}
	if err != nil {
		return 0, err
	}
	metrics.AddCounter(metrics.BulkUpdatedRowsTotal, float64(rows))
	return rows, nil
}

// FindMemberFetchJoin 左连接一次查询会员与团队
func (r *memberRepository) FindMemberFetchJoin(ctx context.Context) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindMemberFetchJoin", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Joins("Team"))
	})
}

// FindMemberEntityGraph 查询全部会员并预加载团队
func (r *memberRepository) FindMemberEntityGraph(ctx context.Context) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindMemberEntityGraph", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Preload("Team"))
	})
}

// FindEntityGraphByUsername 按用户名查询并预加载团队
func (r *memberRepository) FindEntityGraphByUsername(ctx context.Context, username string) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindEntityGraphByUsername", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Preload("Team").Where(byUsername(username)))
	})
}

// FindReadOnlyByUsername 只读查询:实体不参与脏检查
func (r *memberRepository) FindReadOnlyByUsername(ctx context.Context, username string) (*member.Member, error) {
	return r.findSingle(ctx, "FindReadOnlyByUsername", true, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Where(byUsername(username)))
	})
}

// FindLockByUsername 悲观写锁 SELECT ... FOR UPDATE
// 教学要点:必须在事务中调用,否则语句结束锁就释放了
func (r *memberRepository) FindLockByUsername(ctx context.Context, username string) ([]*member.Member, error) {
	return r.findMembers(ctx, "FindLockByUsername", false, func(db *gorm.DB) *gorm.DB {
		return orderByID(db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).Where(byUsername(username)))
	})
}

// FindProjectionsByUsername 只查询username列
func (r *memberRepository) FindProjectionsByUsername(ctx context.Context, username string) ([]member.UsernameOnly, error) {
	rows := []member.UsernameOnly{}
	err := read(ctx, r.db, "FindProjectionsByUsername", func(em *EntityManager) error {
		query := orderByID(em.DB(ctx).Model(&MemberModel{}).Select("username").Where(byUsername(username)))
		if err := query.Scan(&rows).Error; err != nil {
			return apperrors.Wrap(err, "查询用户名投影失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []member.UsernameOnly{}
	}
	return rows, nil
}

// FindByNativeQuery 原生SQL单结果查询
func (r *memberRepository) FindByNativeQuery(ctx context.Context, username string) (*member.Member, error) {
	var members []*member.Member
	err := read(ctx, r.db, "FindByNativeQuery", func(em *EntityManager) error {
		db := em.DB(ctx)
		query := fmt.Sprintf("SELECT * FROM %s WHERE username = ? ORDER BY member_id LIMIT 2", db.Statement.Quote("member"))

		var models []MemberModel
		if err := db.Raw(query, username).Scan(&models).Error; err != nil {
			return apperrors.Wrap(err, "原生查询会员失败")
		}
		members = em.manageMembers(models, false)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return singleResult(members)
}

// projectionRow 左连接时team_name可能为NULL
type projectionRow struct {
	ID       uint
	Username string
	TeamName *string
}

// FindByNativeProjection 原生SQL投影分页
// 按member_id排序(原生查询不支持按领域属性排序),count查询只统计member表
func (r *memberRepository) FindByNativeProjection(ctx context.Context, req pagination.PageRequest) (pagination.Page[member.MemberProjection], error) {
	var page pagination.Page[member.MemberProjection]
	err := read(ctx, r.db, "FindByNativeProjection", func(em *EntityManager) error {
		db := em.DB(ctx)
		q := db.Statement.Quote

		query := fmt.Sprintf(
			"SELECT m.member_id AS id, m.username AS username, t.name AS team_name "+
				"FROM %s m LEFT JOIN %s t ON t.team_id = m.team_id ORDER BY m.member_id",
			q("member"), q("team"))
		var args []interface{}
		if req.IsPaged() {
			query += " LIMIT ? OFFSET ?"
			args = append(args, req.Size, req.Offset())
		}

		var rows []projectionRow
		if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
			return apperrors.Wrap(err, "原生投影查询失败")
		}

		content := make([]member.MemberProjection, len(rows))
		for i, row := range rows {
			content[i] = member.MemberProjection{ID: row.ID, Username: row.Username}
			if row.TeamName != nil {
				content[i].TeamName = *row.TeamName
			}
		}

		var err error
		page, err = pagination.GetPage(content, req, func() (int64, error) {
			var total int64
			countSQL := fmt.Sprintf("SELECT count(*) FROM %s", q("member"))
			if err := db.Raw(countSQL).Scan(&total).Error; err != nil {
				return 0, apperrors.Wrap(err, "原生count查询失败")
			}
			return total, nil
		})
		return err
	})
	return page, err
}

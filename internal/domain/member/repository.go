package member

import (
	"context"

	"github.com/xiebiao/membership/pkg/pagination"
)

// Repository 会员仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 返回的*Member都被当前持久化上下文管理:修改字段后在事务提交(flush)时自动UPDATE
// 3. 单结果查询匹配多行时返回ErrNonUniqueResult
type Repository interface {
	// Save 新实体INSERT,已有实体合并到持久化上下文
	Save(ctx context.Context, m *Member) (*Member, error)

	// FindByID 不存在返回ErrMemberNotFound
	FindByID(ctx context.Context, id uint) (*Member, error)

	// FindAll 查询全部会员,同时加载团队(实体图)
	FindAll(ctx context.Context) ([]*Member, error)

	// FindAllPage 分页查询,团队左连接加载
	FindAllPage(ctx context.Context, req pagination.PageRequest) (pagination.Page[*Member], error)

	Count(ctx context.Context) (int64, error)

	Delete(ctx context.Context, m *Member) error

	// FindByUsernameAndAgeGreaterThan username = ? AND age > ?
	FindByUsernameAndAgeGreaterThan(ctx context.Context, username string, age int) ([]*Member, error)

	// FindByUsername 命名查询
	FindByUsername(ctx context.Context, username string) ([]*Member, error)

	// FindUser username = ? AND age = ?
	FindUser(ctx context.Context, username string, age int) ([]*Member, error)

	// FindUsernameList 只查询用户名列
	FindUsernameList(ctx context.Context) ([]string, error)

	// FindMemberDto 会员内连接团队,直接查询成DTO(没有团队的会员不返回)
	FindMemberDto(ctx context.Context) ([]MemberDto, error)

	// FindByNames username IN (...)
	FindByNames(ctx context.Context, names []string) ([]*Member, error)

	// FindListByUsername 没有结果时返回空切片(非nil)
	FindListByUsername(ctx context.Context, username string) ([]*Member, error)

	// FindMember1ByUsername 没有结果时返回nil
	FindMember1ByUsername(ctx context.Context, username string) (*Member, error)

	// FindOptionalByUsername found为false表示没有结果
	FindOptionalByUsername(ctx context.Context, username string) (m *Member, found bool, err error)

	// FindByAge 按年龄分页,总数使用单独的count查询
	FindByAge(ctx context.Context, age int, req pagination.PageRequest) (pagination.Page[*Member], error)

	// FindSliceByAge 按年龄分页,不查询总数(多取一条判断是否有下一页)
	FindSliceByAge(ctx context.Context, age int, req pagination.PageRequest) (pagination.Slice[*Member], error)

	// BulkAgePlus age >= ?的会员年龄加1,返回影响行数
	// 执行后清空持久化上下文,之后的查询从数据库重新加载
	BulkAgePlus(ctx context.Context, age int) (int, error)

	// FindMemberFetchJoin 单条SQL连接查询会员与团队
	FindMemberFetchJoin(ctx context.Context) ([]*Member, error)

	// FindMemberEntityGraph 查询全部会员并加载团队
	FindMemberEntityGraph(ctx context.Context) ([]*Member, error)

	// FindEntityGraphByUsername 按用户名查询并加载团队
	FindEntityGraphByUsername(ctx context.Context, username string) ([]*Member, error)

	// FindReadOnlyByUsername 只读查询:不保存快照,修改不会被flush
	FindReadOnlyByUsername(ctx context.Context, username string) (*Member, error)

	// FindLockByUsername SELECT ... FOR UPDATE(需要在事务中调用)
	FindLockByUsername(ctx context.Context, username string) ([]*Member, error)

	// FindProjectionsByUsername 只查询用户名的投影
	FindProjectionsByUsername(ctx context.Context, username string) ([]UsernameOnly, error)

	// FindByNativeQuery 原生SQL单结果查询,没有结果时返回nil
	FindByNativeQuery(ctx context.Context, username string) (*Member, error)

	// FindByNativeProjection 原生SQL投影分页
	FindByNativeProjection(ctx context.Context, req pagination.PageRequest) (pagination.Page[MemberProjection], error)

	CustomRepository
}

// CustomRepository 自定义查询片段(手写SQL,不走声明式查询)
type CustomRepository interface {
	FindMemberCustom(ctx context.Context) ([]*Member, error)
}

// TeamRepository 团队仓储接口
// 只使用持久化上下文的基本操作(persist/remove/find)和JPQL风格的集合查询
type TeamRepository interface {
	Save(ctx context.Context, t *Team) (*Team, error)

	Delete(ctx context.Context, t *Team) error

	FindAll(ctx context.Context) ([]*Team, error)

	// FindByID found为false表示不存在
	FindByID(ctx context.Context, id uint) (t *Team, found bool, err error)

	Count(ctx context.Context) (int64, error)

	// Find 不存在时返回nil
	Find(ctx context.Context, id uint) (*Team, error)
}

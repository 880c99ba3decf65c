package member

import (
	"context"
	"fmt"
	"time"
)

// BaseEntity 审计字段
// 由持久化层的审计回调维护，应用代码只读：
//   - CreatedDate / CreatedBy：INSERT时写入，之后不再更新
//   - LastModifiedDate / LastModifiedBy：INSERT和每次UPDATE时写入
//
// 批量更新（BulkAgePlus）绕过审计回调，不会刷新修改时间
type BaseEntity struct {
	CreatedDate      time.Time
	LastModifiedDate time.Time
	CreatedBy        string
	LastModifiedBy   string
}

// TeamLoader 延迟加载团队
// 由持久化上下文在实体被管理时绑定，实体脱管后解绑
type TeamLoader func(ctx context.Context) (*Team, error)

// Member 会员实体（聚合根）
// 设计说明：
// 1. ID为0表示尚未持久化（新实体）
// 2. Team是多对一关联，默认延迟加载：查询会员时只读team_id，访问团队时才查询
// 3. 同一个持久化上下文内，同一行数据只对应一个*Member（可以用指针比较）
type Member struct {
	ID       uint
	Username string
	Age      int
	TeamID   *uint
	Team     *Team
	BaseEntity

	teamLoader TeamLoader
}

// NewMember 创建会员
func NewMember(username string) *Member {
	return &Member{Username: username}
}

// NewMemberWithAge 创建带年龄的会员
func NewMemberWithAge(username string, age int) *Member {
	return &Member{Username: username, Age: age}
}

// NewMemberInTeam 创建会员并加入团队（team为nil时不加入）
func NewMemberInTeam(username string, age int, team *Team) *Member {
	m := NewMemberWithAge(username, age)
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam 变更所属团队
// 同时维护双向关联：team.Members追加当前会员
// 注意：不从原团队的Members中移除（原团队集合只在本次上下文中有效）
func (m *Member) ChangeTeam(team *Team) {
	m.Team = team
	if team == nil {
		m.TeamID = nil
		return
	}

	if team.ID != 0 {
		id := team.ID
		m.TeamID = &id
	} else {
		// 团队尚未保存，保存会员时再解析team_id
		m.TeamID = nil
	}
	team.Members = append(team.Members, m)
}

// HasTeam 是否关联了团队（不触发加载）
func (m *Member) HasTeam() bool {
	return m.TeamID != nil || m.Team != nil
}

// TeamLoaded 团队是否已加载（未关联团队视为已加载）
func (m *Member) TeamLoaded() bool {
	return m.TeamID == nil || m.Team != nil
}

// LoadTeam 获取团队，未加载时触发延迟加载
// 实体已脱管（持久化上下文已清空）时返回ErrLazyInitialization
func (m *Member) LoadTeam(ctx context.Context) (*Team, error) {
	if m.TeamLoaded() {
		return m.Team, nil
	}
	if m.teamLoader == nil {
		return nil, ErrLazyInitialization
	}

	team, err := m.teamLoader(ctx)
	if err != nil {
		return nil, err
	}
	m.Team = team
	return team, nil
}

// BindTeamLoader 绑定/解绑延迟加载器（持久化层调用）
func (m *Member) BindTeamLoader(loader TeamLoader) {
	m.teamLoader = loader
}

// TeamName 已加载团队的名称，未加载或无团队时返回空串
func (m *Member) TeamName() string {
	if m.Team == nil {
		return ""
	}
	return m.Team.Name
}

// String 不输出团队，避免触发延迟加载
func (m *Member) String() string {
	return fmt.Sprintf("Member(id=%d, username=%s, age=%d)", m.ID, m.Username, m.Age)
}

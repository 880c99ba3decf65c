package member

import (
	"fmt"
	"time"
)

// Team 团队实体
// CreatedDate/UpdatedDate由持久化模型的钩子维护（创建时两者相同，更新时只刷新UpdatedDate）
// Members是反向集合，只反映当前上下文中通过ChangeTeam建立的关联，不从数据库加载
type Team struct {
	ID          uint
	Name        string
	Members     []*Member
	CreatedDate time.Time
	UpdatedDate time.Time
}

// NewTeam 创建团队
func NewTeam(name string) *Team {
	return &Team{Name: name, Members: []*Member{}}
}

func (t *Team) String() string {
	return fmt.Sprintf("Team(id=%d, name=%s)", t.ID, t.Name)
}

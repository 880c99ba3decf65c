package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/membership/internal/domain/member"
)

// MemberModel GORM会员模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/member/entity.go是领域实体，不依赖GORM
// 3. 审计字段由audit.go中注册的回调填充，模型本身没有钩子
type MemberModel struct {
	ID               uint       `gorm:"column:member_id;primaryKey"`
	Username         string     `gorm:"size:255;index;comment:用户名"`
	Age              int        `gorm:"not null;default:0;comment:年龄"`
	TeamID           *uint      `gorm:"column:team_id;index;comment:所属团队"`
	Team             *TeamModel `gorm:"foreignKey:TeamID;references:ID"` // 多对一，默认不加载
	CreatedDate      time.Time  `gorm:"comment:创建时间"`
	LastModifiedDate time.Time  `gorm:"comment:最后修改时间"`
	CreatedBy        string     `gorm:"size:100;comment:创建人"`
	LastModifiedBy   string     `gorm:"size:100;comment:最后修改人"`
}

// TableName 指定表名
func (MemberModel) TableName() string {
	return "member"
}

// TeamModel GORM团队模型
// 创建/更新时间由模型钩子维护（不使用审计回调，也没有操作人字段）
type TeamModel struct {
	ID          uint      `gorm:"column:team_id;primaryKey"`
	Name        string    `gorm:"size:255;comment:团队名"`
	CreatedDate time.Time `gorm:"comment:创建时间"`
	UpdatedDate time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (TeamModel) TableName() string {
	return "team"
}

// BeforeCreate 创建前：创建时间与更新时间相同
func (t *TeamModel) BeforeCreate(tx *gorm.DB) error {
	now := tx.NowFunc()
	t.CreatedDate = now
	t.UpdatedDate = now
	return nil
}

// BeforeUpdate 更新前刷新更新时间
// 注意：Updates(map)时Dest是map，必须用SetColumn写入，直接改t不会生效
func (t *TeamModel) BeforeUpdate(tx *gorm.DB) error {
	tx.Statement.SetColumn("updated_date", tx.NowFunc())
	return nil
}

func toMemberModel(m *member.Member) *MemberModel {
	return &MemberModel{
		ID:               m.ID,
		Username:         m.Username,
		Age:              m.Age,
		TeamID:           copyID(m.TeamID),
		CreatedDate:      m.CreatedDate,
		LastModifiedDate: m.LastModifiedDate,
		CreatedBy:        m.CreatedBy,
		LastModifiedBy:   m.LastModifiedBy,
	}
}

// toMemberEntity 不转换Team，关联由EntityManager挂载（保证同一团队只有一个实例）
func toMemberEntity(model *MemberModel) *member.Member {
	return &member.Member{
		ID:       model.ID,
		Username: model.Username,
		Age:      model.Age,
		TeamID:   copyID(model.TeamID),
		BaseEntity: member.BaseEntity{
			CreatedDate:      model.CreatedDate,
			LastModifiedDate: model.LastModifiedDate,
			CreatedBy:        model.CreatedBy,
			LastModifiedBy:   model.LastModifiedBy,
		},
	}
}

func toTeamModel(t *member.Team) *TeamModel {
	return &TeamModel{
		ID:          t.ID,
		Name:        t.Name,
		CreatedDate: t.CreatedDate,
		UpdatedDate: t.UpdatedDate,
	}
}

func toTeamEntity(model *TeamModel) *member.Team {
	return &member.Team{
		ID:          model.ID,
		Name:        model.Name,
		Members:     []*member.Member{},
		CreatedDate: model.CreatedDate,
		UpdatedDate: model.UpdatedDate,
	}
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

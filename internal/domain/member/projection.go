package member

// MemberDto 会员展示对象（API返回值，不直接暴露实体）
type MemberDto struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	TeamName string `json:"teamName"`
}

// NewMemberDto 由实体转换，团队未加载时TeamName为空
func NewMemberDto(m *Member) MemberDto {
	return MemberDto{
		ID:       m.ID,
		Username: m.Username,
		TeamName: m.TeamName(),
	}
}

// UsernameOnly 只查询用户名的投影
type UsernameOnly struct {
	Username string `json:"username"`
}

// MemberProjection 原生SQL投影（member左连接team）
type MemberProjection struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	TeamName string `json:"teamName"`
}

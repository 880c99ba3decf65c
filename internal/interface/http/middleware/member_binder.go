package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/internal/interface/http/dto"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/response"
)

const keyMember = "member"

// BindMember 按路径参数:id加载会员并放入Context
// 后续Handler直接使用实体，不需要自己查询
func BindMember(memberRepo member.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.MemberIDRequest
		if err := c.ShouldBindUri(&req); err != nil {
			response.Abort(c, apperrors.WithCause(apperrors.ErrBindError, err))
			return
		}

		m, err := memberRepo.FindByID(c.Request.Context(), req.ID)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(keyMember, m)
		c.Next()
	}
}

// MustGetMember 从Context获取BindMember加载的会员（不存在则panic）
func MustGetMember(c *gin.Context) *member.Member {
	v, ok := c.Get(keyMember)
	if !ok {
		panic("member not found in context")
	}
	return v.(*member.Member)
}

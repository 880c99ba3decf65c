package handler

import (
	"github.com/gin-gonic/gin"

	appmember "github.com/xiebiao/membership/internal/application/member"
	"github.com/xiebiao/membership/internal/infrastructure/config"
	"github.com/xiebiao/membership/internal/interface/http/dto"
	"github.com/xiebiao/membership/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/response"
)

// MemberHandler 会员HTTP处理器
type MemberHandler struct {
	findMemberUseCase  *appmember.FindMemberUseCase
	listMembersUseCase *appmember.ListMembersUseCase
	bulkAgePlusUseCase *appmember.BulkAgePlusUseCase
	defaultPageSize    int
	maxPageSize        int
}

// NewMemberHandler 创建会员处理器
func NewMemberHandler(
	cfg *config.Config,
	findMemberUseCase *appmember.FindMemberUseCase,
	listMembersUseCase *appmember.ListMembersUseCase,
	bulkAgePlusUseCase *appmember.BulkAgePlusUseCase,
) *MemberHandler {
	return &MemberHandler{
		findMemberUseCase:  findMemberUseCase,
		listMembersUseCase: listMembersUseCase,
		bulkAgePlusUseCase: bulkAgePlusUseCase,
		defaultPageSize:    cfg.Pagination.DefaultSize,
		maxPageSize:        cfg.Pagination.MaxSize,
	}
}

// FindMember 按ID查询会员用户名
// @Summary      查询会员用户名
// @Description  返回纯文本的用户名
// @Tags         会员
// @Produce      plain
// @Param        id path int true "会员ID"
// @Success      200 {string} string "member1"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "会员不存在"
// @Router       /members/{id} [get]
func (h *MemberHandler) FindMember(c *gin.Context) {
	var req dto.MemberIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.Error(c, apperrors.WithCause(apperrors.ErrBindError, err))
		return
	}

	username, err := h.findMemberUseCase.Execute(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Text(c, username)
}

// FindMemberByEntity 按ID查询会员用户名（会员由中间件绑定）
// @Summary      查询会员用户名（实体绑定）
// @Tags         会员
// @Produce      plain
// @Param        id path int true "会员ID"
// @Success      200 {string} string "member1"
// @Failure      404 {object} response.Response "会员不存在"
// @Router       /members2/{id} [get]
func (h *MemberHandler) FindMemberByEntity(c *gin.Context) {
	m := middleware.MustGetMember(c)
	response.Text(c, h.findMemberUseCase.FindByEntity(m))
}

// ListMembers 分页查询会员
// @Summary      会员列表
// @Description  分页参数: page(从0开始)、size(默认5，最大2000)、sort(属性,asc|desc，可重复)
// @Tags         会员
// @Produce      json
// @Param        page query int false "页码" default(0)
// @Param        size query int false "每页条数" default(5)
// @Param        sort query []string false "排序，如 id,desc" collectionFormat(multi)
// @Success      200 {object} dto.MemberPage
// @Failure      400 {object} response.Response "参数错误"
// @Router       /members [get]
func (h *MemberHandler) ListMembers(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, apperrors.WithCause(apperrors.ErrBindError, err))
		return
	}

	req, err := query.ToPageRequest(h.defaultPageSize, h.maxPageSize)
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "分页参数错误: "+err.Error())
		return
	}

	page, err := h.listMembersUseCase.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// BulkAgePlus 批量年龄加1
// @Summary      批量年龄加1
// @Description  age大于等于参数的会员年龄加1，同时清空用户名缓存
// @Tags         会员
// @Produce      json
// @Security     BearerAuth
// @Param        age query int true "最小年龄"
// @Success      200 {object} response.Response{data=appmember.BulkAgePlusResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /members/age-plus [post]
func (h *MemberHandler) BulkAgePlus(c *gin.Context) {
	var req dto.BulkAgePlusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperrors.WithCause(apperrors.ErrBindError, err))
		return
	}

	result, err := h.bulkAgePlusUseCase.Execute(c.Request.Context(), req.Age)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

package dto

import (
	"github.com/xiebiao/membership/internal/domain/member"
	"github.com/xiebiao/membership/pkg/pagination"
)

// MemberIDRequest 路径参数 /members/:id
type MemberIDRequest struct {
	ID uint `uri:"id" binding:"required,min=1" example:"1"`
}

// PageQuery 分页查询参数
// 示例: /members?page=0&size=3&sort=id,desc&sort=username
//   - page: 页码,从0开始,负数按0处理
//   - size: 每页条数,缺省或小于1时使用默认值,超过上限时截断
//   - sort: 属性[,asc|desc],可重复
type PageQuery struct {
	Page int      `form:"page" example:"0"`
	Size int      `form:"size" example:"5"`
	Sort []string `form:"sort" example:"id,desc"`
}

// ToPageRequest 转换为分页请求
func (q PageQuery) ToPageRequest(defaultSize, maxSize int) (pagination.PageRequest, error) {
	page := q.Page
	if page < 0 {
		page = 0
	}
	size := q.Size
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}

	sort, err := pagination.ParseSort(q.Sort)
	if err != nil {
		return pagination.PageRequest{}, err
	}
	return pagination.NewPageRequest(page, size, sort)
}

// BulkAgePlusRequest 批量年龄加1
type BulkAgePlusRequest struct {
	Age int `form:"age" binding:"min=0" example:"20"`
}

// MemberPage 会员分页响应(仅用于API文档)
type MemberPage struct {
	Content          []member.MemberDto `json:"content"`
	Pageable         PageableDoc        `json:"pageable"`
	TotalElements    int64              `json:"totalElements" example:"100"`
	TotalPages       int                `json:"totalPages" example:"20"`
	Last             bool               `json:"last" example:"false"`
	First            bool               `json:"first" example:"true"`
	Number           int                `json:"number" example:"0"`
	Size             int                `json:"size" example:"5"`
	NumberOfElements int                `json:"numberOfElements" example:"5"`
	Empty            bool               `json:"empty" example:"false"`
	Sort             SortDoc            `json:"sort"`
}

// PageableDoc 分页请求(仅用于API文档)
type PageableDoc struct {
	PageNumber int     `json:"pageNumber" example:"0"`
	PageSize   int     `json:"pageSize" example:"5"`
	Offset     int     `json:"offset" example:"0"`
	Paged      bool    `json:"paged" example:"true"`
	Unpaged    bool    `json:"unpaged" example:"false"`
	Sort       SortDoc `json:"sort"`
}

// SortDoc 排序(仅用于API文档)
type SortDoc struct {
	Sorted   bool `json:"sorted" example:"true"`
	Unsorted bool `json:"unsorted" example:"false"`
	Empty    bool `json:"empty" example:"false"`
}

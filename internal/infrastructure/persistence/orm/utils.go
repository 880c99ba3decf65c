package orm

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/membership/internal/domain/member"
	apperrors "github.com/xiebiao/membership/pkg/errors"
	"github.com/xiebiao/membership/pkg/pagination"
)

// memberColumns 排序属性 → member表列名
var memberColumns = map[string]string{
	"id":               "member_id",
	"username":         "username",
	"age":              "age",
	"createdDate":      colCreatedDate,
	"lastModifiedDate": colLastModifiedDate,
	"createdBy":        colCreatedBy,
	"lastModifiedBy":   colLastModifiedBy,
}

// applySort 把领域属性排序转换为ORDER BY（列名加表名前缀，连接查询时不产生歧义）
// 未知属性返回参数错误
func applySort(db *gorm.DB, table string, sort pagination.Sort) (*gorm.DB, error) {
	for _, o := range sort.Orders() {
		col, ok := memberColumns[o.Property]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInvalidParams,
				fmt.Sprintf("不支持的排序字段: %s", o.Property))
		}
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: table, Name: col},
			Desc:   !o.IsAscending(),
		})
	}
	return db, nil
}

// applyPage 排序 + LIMIT/OFFSET
func applyPage(db *gorm.DB, table string, req pagination.PageRequest) (*gorm.DB, error) {
	db, err := applySort(db, table, req.Sort)
	if err != nil {
		return nil, err
	}
	if req.IsPaged() {
		db = db.Offset(req.Offset()).Limit(req.Size)
	}
	return db, nil
}

// singleResult 单结果查询：0条返回nil，多于1条返回ErrNonUniqueResult
// 查询时应LIMIT 2，只需知道是否多于一条
func singleResult(members []*member.Member) (*member.Member, error) {
	switch len(members) {
	case 0:
		return nil, nil
	case 1:
		return members[0], nil
	default:
		return nil, member.ErrNonUniqueResult
	}
}

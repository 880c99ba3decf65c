// Package pagination 分页与排序
//
// 说明：
//   - PageRequest页码从0开始（与HTTP参数page=0对应）
//   - Page携带总数（需要额外的count查询），Slice只知道是否有下一页（多查一条）
//   - 排序属性名是领域属性（username、age），由仓储负责映射到列名
package pagination

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Direction 排序方向
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// ParseDirection 解析排序方向（不区分大小写）
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return ASC, true
	case "DESC":
		return DESC, true
	}
	return "", false
}

// Order 单个排序项
type Order struct {
	Property  string
	Direction Direction
}

// IsAscending 是否升序
func (o Order) IsAscending() bool {
	return o.Direction != DESC
}

// Sort 排序规则（有序的Order列表）
type Sort struct {
	orders []Order
}

// By 按同一方向对多个属性排序
func By(dir Direction, props ...string) Sort {
	orders := make([]Order, 0, len(props))
	for _, p := range props {
		orders = append(orders, Order{Property: p, Direction: dir})
	}
	return Sort{orders: orders}
}

// Unsorted 不排序
func Unsorted() Sort {
	return Sort{}
}

// Orders 返回排序项副本
func (s Sort) Orders() []Order {
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// IsSorted 是否包含排序项
func (s Sort) IsSorted() bool {
	return len(s.orders) > 0
}

// And 追加另一组排序
func (s Sort) And(other Sort) Sort {
	orders := make([]Order, 0, len(s.orders)+len(other.orders))
	orders = append(orders, s.orders...)
	orders = append(orders, other.orders...)
	return Sort{orders: orders}
}

func (s Sort) String() string {
	if !s.IsSorted() {
		return "UNSORTED"
	}
	parts := make([]string, len(s.orders))
	for i, o := range s.orders {
		parts[i] = fmt.Sprintf("%s: %s", o.Property, o.Direction)
	}
	return strings.Join(parts, ",")
}

// MarshalJSON 输出{sorted, unsorted, empty}
func (s Sort) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Sorted   bool `json:"sorted"`
		Unsorted bool `json:"unsorted"`
		Empty    bool `json:"empty"`
	}{
		Sorted:   s.IsSorted(),
		Unsorted: !s.IsSorted(),
		Empty:    !s.IsSorted(),
	})
}

// ErrInvalidSort 排序参数格式错误
var ErrInvalidSort = errors.New("invalid sort parameter")

// ParseSort 解析查询串中的排序参数
// 格式：sort=username,desc&sort=age
// 每个参数中最后一段如果是asc/desc则作用于该参数的全部属性
func ParseSort(params []string) (Sort, error) {
	var sort Sort
	for _, raw := range params {
		parts := strings.Split(raw, ",")
		dir := ASC
		if d, ok := ParseDirection(parts[len(parts)-1]); ok {
			dir = d
			parts = parts[:len(parts)-1]
		}
		if len(parts) == 0 {
			return Sort{}, fmt.Errorf("%w: %q", ErrInvalidSort, raw)
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				return Sort{}, fmt.Errorf("%w: %q", ErrInvalidSort, raw)
			}
			sort.orders = append(sort.orders, Order{Property: p, Direction: dir})
		}
	}
	return sort, nil
}

// PageRequest 分页请求
// Size为0表示不分页（Unpaged）
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// NewPageRequest 创建分页请求并校验参数
func NewPageRequest(page, size int, sort ...Sort) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, fmt.Errorf("page index must not be less than zero: %d", page)
	}
	if size < 1 {
		return PageRequest{}, fmt.Errorf("page size must not be less than one: %d", size)
	}
	// (page+1)*size 不能溢出int（Offset和末页总数推算都会用到）
	if page >= math.MaxInt/size {
		return PageRequest{}, fmt.Errorf("page index too large: %d", page)
	}
	req := PageRequest{Page: page, Size: size}
	for _, s := range sort {
		req.Sort = req.Sort.And(s)
	}
	return req, nil
}

// Of 创建分页请求，参数非法时panic
// 用于常量参数（测试、种子数据），HTTP参数请用NewPageRequest
func Of(page, size int, sort ...Sort) PageRequest {
	req, err := NewPageRequest(page, size, sort...)
	if err != nil {
		panic(err)
	}
	return req
}

// Unpaged 不分页的请求
func Unpaged() PageRequest {
	return PageRequest{}
}

// IsPaged 是否分页
func (p PageRequest) IsPaged() bool {
	return p.Size > 0
}

// Offset 偏移量
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Next 下一页
func (p PageRequest) Next() PageRequest {
	return PageRequest{Page: p.Page + 1, Size: p.Size, Sort: p.Sort}
}

// MarshalJSON 输出{pageNumber, pageSize, offset, paged, unpaged, sort}
func (p PageRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PageNumber int  `json:"pageNumber"`
		PageSize   int  `json:"pageSize"`
		Offset     int  `json:"offset"`
		Paged      bool `json:"paged"`
		Unpaged    bool `json:"unpaged"`
		Sort       Sort `json:"sort"`
	}{
		PageNumber: p.Page,
		PageSize:   p.Size,
		Offset:     p.Offset(),
		Paged:      p.IsPaged(),
		Unpaged:    !p.IsPaged(),
		Sort:       p.Sort,
	})
}

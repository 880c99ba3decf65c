package pagination

import "encoding/json"

// Page 分页结果（含总数）
type Page[T any] struct {
	content  []T
	pageable PageRequest
	total    int64
}

// NewPage 创建分页结果
// 当内容非空且当前页是最后一页时，总数以offset+len(content)为准，
// 防止count查询与内容查询之间数据变化导致的不一致
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	if req.IsPaged() && len(content) > 0 && int64(req.Offset()+req.Size) > total {
		total = int64(req.Offset() + len(content))
	}
	if !req.IsPaged() {
		total = int64(len(content))
	}
	return Page[T]{content: content, pageable: req, total: total}
}

// GetPage 按需执行count查询
// 第一页且内容不满一页、或者内容非空且不满一页时，可以直接推算总数
func GetPage[T any](content []T, req PageRequest, count func() (int64, error)) (Page[T], error) {
	if !req.IsPaged() || req.Offset() == 0 {
		if !req.IsPaged() || len(content) < req.Size {
			return NewPage(content, req, int64(len(content))), nil
		}
		total, err := count()
		if err != nil {
			return Page[T]{}, err
		}
		return NewPage(content, req, total), nil
	}
	if len(content) != 0 && len(content) < req.Size {
		return NewPage(content, req, int64(req.Offset()+len(content))), nil
	}
	total, err := count()
	if err != nil {
		return Page[T]{}, err
	}
	return NewPage(content, req, total), nil
}

// Content 当前页数据
func (p Page[T]) Content() []T { return p.content }

// Pageable 分页请求
func (p Page[T]) Pageable() PageRequest { return p.pageable }

// Sort 排序规则
func (p Page[T]) Sort() Sort { return p.pageable.Sort }

// Number 当前页码（从0开始）
func (p Page[T]) Number() int { return p.pageable.Page }

// Size 页大小，不分页时为内容数量
func (p Page[T]) Size() int {
	if !p.pageable.IsPaged() {
		return len(p.content)
	}
	return p.pageable.Size
}

// NumberOfElements 当前页实际条数
func (p Page[T]) NumberOfElements() int { return len(p.content) }

// TotalElements 总条数
func (p Page[T]) TotalElements() int64 { return p.total }

// TotalPages 总页数
func (p Page[T]) TotalPages() int {
	if p.Size() == 0 {
		return 1
	}
	size := int64(p.Size())
	return int((p.total + size - 1) / size)
}

// HasNext 是否有下一页
func (p Page[T]) HasNext() bool { return p.Number()+1 < p.TotalPages() }

// HasPrevious 是否有上一页
func (p Page[T]) HasPrevious() bool { return p.Number() > 0 }

// IsFirst 是否第一页
func (p Page[T]) IsFirst() bool { return !p.HasPrevious() }

// IsLast 是否最后一页
func (p Page[T]) IsLast() bool { return !p.HasNext() }

// IsEmpty 当前页是否为空
func (p Page[T]) IsEmpty() bool { return len(p.content) == 0 }

// Map 转换内容，保留分页元数据
// 典型用法：实体分页 → DTO分页，不把实体直接暴露给API
func Map[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, len(p.content))
	for i, v := range p.content {
		out[i] = fn(v)
	}
	return Page[R]{content: out, pageable: p.pageable, total: p.total}
}

// MarshalJSON 分页结果的JSON结构
func (p Page[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Content          []T         `json:"content"`
		Pageable         PageRequest `json:"pageable"`
		TotalElements    int64       `json:"totalElements"`
		TotalPages       int         `json:"totalPages"`
		Last             bool        `json:"last"`
		First            bool        `json:"first"`
		Number           int         `json:"number"`
		Size             int         `json:"size"`
		NumberOfElements int         `json:"numberOfElements"`
		Empty            bool        `json:"empty"`
		Sort             Sort        `json:"sort"`
	}{
		Content:          p.content,
		Pageable:         p.pageable,
		TotalElements:    p.total,
		TotalPages:       p.TotalPages(),
		Last:             p.IsLast(),
		First:            p.IsFirst(),
		Number:           p.Number(),
		Size:             p.Size(),
		NumberOfElements: p.NumberOfElements(),
		Empty:            p.IsEmpty(),
		Sort:             p.Sort(),
	})
}

// Slice 不含总数的分页结果
// 查询时多取一条（size+1）判断是否还有下一页，省掉count查询
type Slice[T any] struct {
	content  []T
	pageable PageRequest
	hasNext  bool
}

// NewSlice 由size+1条查询结果创建Slice
func NewSlice[T any](rows []T, req PageRequest) Slice[T] {
	if rows == nil {
		rows = []T{}
	}
	hasNext := false
	if req.IsPaged() && len(rows) > req.Size {
		hasNext = true
		rows = rows[:req.Size]
	}
	return Slice[T]{content: rows, pageable: req, hasNext: hasNext}
}

// Content 当前页数据
func (s Slice[T]) Content() []T { return s.content }

// Number 当前页码
func (s Slice[T]) Number() int { return s.pageable.Page }

// Size 页大小
func (s Slice[T]) Size() int { return s.pageable.Size }

// NumberOfElements 当前页实际条数
func (s Slice[T]) NumberOfElements() int { return len(s.content) }

// HasNext 是否有下一页
func (s Slice[T]) HasNext() bool { return s.hasNext }

// IsFirst 是否第一页
func (s Slice[T]) IsFirst() bool { return s.pageable.Page == 0 }

// IsLast 是否最后一页
func (s Slice[T]) IsLast() bool { return !s.hasNext }

// NextPageable 下一页请求
func (s Slice[T]) NextPageable() PageRequest { return s.pageable.Next() }

package pagination

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	t.Run("5条数据每页3条", func(t *testing.T) {
		req := Of(0, 3, By(DESC, "username"))
		page := NewPage([]string{"member5", "member4", "member3"}, req, 5)

		assert.Len(t, page.Content(), 3)
		assert.EqualValues(t, 5, page.TotalElements())
		assert.Equal(t, 0, page.Number())
		assert.Equal(t, 2, page.TotalPages())
		assert.True(t, page.IsFirst())
		assert.True(t, page.HasNext())
		assert.False(t, page.IsLast())
	})

	t.Run("最后一页", func(t *testing.T) {
		page := NewPage([]string{"member2", "member1"}, Of(1, 3), 5)

		assert.Equal(t, 2, page.NumberOfElements())
		assert.True(t, page.IsLast())
		assert.False(t, page.HasNext())
		assert.True(t, page.HasPrevious())
	})

	t.Run("总数小于已读数据时按内容修正", func(t *testing.T) {
		page := NewPage([]int{1, 2}, Of(1, 3), 4)
		assert.EqualValues(t, 5, page.TotalElements())
	})

	t.Run("空页", func(t *testing.T) {
		page := NewPage[int](nil, Of(0, 10), 0)
		assert.True(t, page.IsEmpty())
		assert.Equal(t, 0, page.TotalPages())
		assert.NotNil(t, page.Content())
	})

	t.Run("不分页", func(t *testing.T) {
		page := NewPage([]int{1, 2, 3}, Unpaged(), 99)
		assert.EqualValues(t, 3, page.TotalElements())
		assert.Equal(t, 1, page.TotalPages())
		assert.Equal(t, 3, page.Size())
	})
}

func TestMap(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, Of(0, 3), 7)

	mapped := Map(page, func(v int) string { return string(rune('a' + v - 1)) })

	assert.Equal(t, []string{"a", "b", "c"}, mapped.Content())
	assert.EqualValues(t, 7, mapped.TotalElements())
	assert.Equal(t, 3, mapped.TotalPages())
}

func TestGetPage(t *testing.T) {
	calls := 0
	count := func() (int64, error) {
		calls++
		return 42, nil
	}

	t.Run("第一页不满时不执行count", func(t *testing.T) {
		calls = 0
		page, err := GetPage([]int{1, 2}, Of(0, 5), count)
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.TotalElements())
		assert.Equal(t, 0, calls)
	})

	t.Run("中间页执行count", func(t *testing.T) {
		calls = 0
		page, err := GetPage([]int{1, 2, 3, 4, 5}, Of(1, 5), count)
		require.NoError(t, err)
		assert.EqualValues(t, 42, page.TotalElements())
		assert.Equal(t, 1, calls)
	})

	t.Run("最后一页按offset推算", func(t *testing.T) {
		calls = 0
		page, err := GetPage([]int{1}, Of(2, 5), count)
		require.NoError(t, err)
		assert.EqualValues(t, 11, page.TotalElements())
		assert.Equal(t, 0, calls)
	})

	t.Run("count失败", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := GetPage([]int{1, 2, 3}, Of(0, 3), func() (int64, error) { return 0, boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestSlice(t *testing.T) {
	// 请求3条，查询多取1条
	s := NewSlice([]int{1, 2, 3, 4}, Of(0, 3))
	assert.Equal(t, []int{1, 2, 3}, s.Content())
	assert.True(t, s.HasNext())
	assert.True(t, s.IsFirst())
	assert.Equal(t, 1, s.NextPageable().Page)

	last := NewSlice([]int{4, 5}, Of(1, 3))
	assert.False(t, last.HasNext())
	assert.True(t, last.IsLast())
}

func TestParseSort(t *testing.T) {
	sort, err := ParseSort([]string{"username,desc", "age"})
	require.NoError(t, err)

	orders := sort.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, Order{Property: "username", Direction: DESC}, orders[0])
	assert.Equal(t, Order{Property: "age", Direction: ASC}, orders[1])
	assert.Equal(t, "username: DESC,age: ASC", sort.String())

	_, err = ParseSort([]string{"desc"})
	assert.ErrorIs(t, err, ErrInvalidSort)

	_, err = ParseSort([]string{"username,,desc"})
	assert.ErrorIs(t, err, ErrInvalidSort)
}

func TestNewPageRequest(t *testing.T) {
	_, err := NewPageRequest(-1, 10)
	assert.Error(t, err)

	_, err = NewPageRequest(0, 0)
	assert.Error(t, err)

	req, err := NewPageRequest(2, 10, By(ASC, "age"))
	require.NoError(t, err)
	assert.Equal(t, 20, req.Offset())
	assert.True(t, req.Sort.IsSorted())

	assert.Panics(t, func() { Of(0, 0) })

	// 页码过大时offset会溢出
	_, err = NewPageRequest(math.MaxInt, 2)
	assert.Error(t, err)
	_, err = NewPageRequest(math.MaxInt/4, 4)
	assert.Error(t, err)
	req, err = NewPageRequest(math.MaxInt/4-1, 4)
	require.NoError(t, err)
	assert.Positive(t, req.Offset())
}

func TestPageJSON(t *testing.T) {
	page := NewPage([]string{"a", "b", "c"}, Of(0, 3), 5)

	raw, err := json.Marshal(page)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.EqualValues(t, 5, got["totalElements"])
	assert.EqualValues(t, 2, got["totalPages"])
	assert.Equal(t, true, got["first"])
	assert.Equal(t, false, got["last"])
	assert.EqualValues(t, 3, got["numberOfElements"])

	pageable := got["pageable"].(map[string]interface{})
	assert.EqualValues(t, 0, pageable["pageNumber"])
	assert.EqualValues(t, 3, pageable["pageSize"])
}

package auditor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, "system", Resolve(ctx, "system"))

	ctx = WithActor(ctx, "admin")
	actor, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin", actor)
	assert.Equal(t, "admin", Resolve(ctx, "system"))

	// 空操作人不覆盖已有值
	assert.Equal(t, "admin", Resolve(WithActor(ctx, ""), "system"))
}

package correlation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FromContext(ctx))
	assert.Equal(t, ctx, WithID(ctx, ""))
	assert.Equal(t, "abc", FromContext(WithID(ctx, "abc")))
	assert.Equal(t, "abc", FromContext(context.WithoutCancel(WithID(ctx, "abc"))))
}

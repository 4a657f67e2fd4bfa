package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAtomicBool(t *testing.T) {
	b := &AtomicBool{}
	assert.False(t, b.Bool())
	b.Set()
	assert.True(t, b.Bool())
	b.Set()
	assert.True(t, b.Bool())
	b.Unset()
	assert.False(t, b.Bool())
}

func TestBackoffRetry(t *testing.T) {
	i := 0
	f := func() error {
		i++
		if i < 4 {
			return errors.New("xxx")
		}
		return nil
	}
	assert.Nil(t, BackoffRetry(context.Background(), 10, f))
	assert.Equal(t, 4, i)
}

func TestAtoi(t *testing.T) {
	assert.Equal(t, 42, Atoi("42", 0))
	assert.Equal(t, 7, Atoi("x", 7))
}

func TestWithTimeout(t *testing.T) {
	done := false
	WithTimeout(context.Background(), time.Second, func(ctx context.Context) {
		<-ctx.Done()
		done = true
	})
	assert.True(t, done)
}

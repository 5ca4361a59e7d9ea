package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanOutCollectsPerIndexErrors(t *testing.T) {
	boom := errors.New("boom")
	var calls int32

	errs := FanOut(context.Background(), 5, 0, func(ctx context.Context, i int) error {
		atomic.AddInt32(&calls, 1)
		if i%2 == 1 {
			return boom
		}
		return nil
	})

	assert.Equal(t, int32(5), calls)
	assert.Len(t, errs, 5)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.NoError(t, errs[2])
	assert.ErrorIs(t, errs[3], boom)
	assert.Equal(t, 3, CountNil(errs))
}

func TestFanOutRespectsLimit(t *testing.T) {
	var inFlight, peak int32

	FanOut(context.Background(), 20, 3, func(ctx context.Context, i int) error {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		atomic.AddInt32(&inFlight, -1)
		return nil
	})

	assert.LessOrEqual(t, peak, int32(3))
}

func TestFanOutCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := FanOut(ctx, 3, 0, func(ctx context.Context, i int) error {
		t.Fatalf("fn must not run after cancellation")
		return nil
	})

	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, 0, CountNil(errs))
}

func TestFanOutEmpty(t *testing.T) {
	assert.Empty(t, FanOut(context.Background(), 0, 0, nil))
}

package lib

import (
	"context"
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleEvery(t *testing.T) {
	s, err := gocron.NewScheduler()
	require.NoError(t, err)
	NewScheduler(s)
	defer func() {
		_ = s.Shutdown()
		NewScheduler(nil)
	}()

	ran := make(chan struct{}, 10)
	id, err := ScheduleEvery("tick", 20*time.Millisecond, func(ctx context.Context) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		ran <- struct{}{}
	})
	require.NoError(t, err)
	assert.NotEmpty(t, *id)
	assert.Len(t, s.Jobs(), 1)
	assert.Equal(t, "tick", s.Jobs()[0].Name())

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

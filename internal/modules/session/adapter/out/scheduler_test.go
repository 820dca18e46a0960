package out

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studyhub/internal/modules/session/domain"
)

func TestTickerSchedulerRunsUntilStopped(t *testing.T) {
	t.Parallel()
	var calls atomic.Int64
	stop := NewTickerScheduler().Every(5*time.Millisecond, func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	stop()
	stop()

	time.Sleep(20 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, settled, calls.Load())
}

func TestChannelNotifierNeverBlocks(t *testing.T) {
	t.Parallel()
	n := NewChannelNotifier()
	for i := 0; i < 10; i++ {
		n.Publish(context.Background(), domain.Timer{Phase: domain.PhaseStudying, Remaining: i})
	}
	require.Len(t, n.C(), 1)
}

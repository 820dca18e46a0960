package id_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studyhub/internal/platform/clock"
	"studyhub/internal/platform/id"
)

func TestTimestampStaysUniqueWithinSameMillisecond(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	gen := id.NewTimestamp(clock.Fixed(at))

	first := gen.New()
	second := gen.New()
	third := gen.New()

	require.Equal(t, at.UnixMilli(), first)
	require.Equal(t, first+1, second)
	require.Equal(t, second+1, third)
}

func TestSequenceCountsFromOne(t *testing.T) {
	t.Parallel()
	seq := &id.Sequence{}
	require.Equal(t, int64(1), seq.New())
	require.Equal(t, int64(2), seq.New())
}

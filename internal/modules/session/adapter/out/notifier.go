package out

import (
	"context"

	"studyhub/internal/modules/session/domain"
	sessionout "studyhub/internal/modules/session/port/out"
)

// ChannelNotifier signals timer changes on a one-slot channel. Signals
// coalesce when the reader is behind; readers fetch the snapshot themselves.
type ChannelNotifier struct {
	ch chan struct{}
}

func NewChannelNotifier() *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan struct{}, 1)}
}

var _ sessionout.Notifier = (*ChannelNotifier)(nil)

func (n *ChannelNotifier) Publish(_ context.Context, _ domain.Timer) {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *ChannelNotifier) C() <-chan struct{} {
	return n.ch
}

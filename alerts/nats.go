package alerts

import (
	"context"
	"fmt"
)

// Publisher is satisfied by bus.Bus
type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
}

// BusNotifier publishes alerts as JSON events on a subject
type BusNotifier struct {
	publisher Publisher
	subject   string
}

func NewBusNotifier(publisher Publisher, subject string) *BusNotifier {
	return &BusNotifier{publisher: publisher, subject: subject}
}

func (n *BusNotifier) Notify(ctx context.Context, alert Alert) error {
	if err := n.publisher.Publish(ctx, n.subject, alert); err != nil {
		return fmt.Errorf("[BusNotifier Notify] publish to %s: %w", n.subject, err)
	}
	return nil
}

package service

import (
	"context"

	"github.com/Skotchmaster/hr_records/pkg/events"
	"github.com/Skotchmaster/hr_records/pkg/logging"
)

// publish is best effort: a broker failure is logged and never fails the request.
func publish(ctx context.Context, pub events.Publisher, topic, key, typ string, build func() any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(context.WithoutCancel(ctx), topic, key, build()); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", typ, "error", err)
	}
}

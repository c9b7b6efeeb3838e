package triggers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iplayapp/iplay-backend/internal/metrics"
	"github.com/iplayapp/iplay-backend/internal/observability"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	ChannelUserCreated      = "user_created"
	ChannelUserDeleted      = "user_deleted"
	ChannelClassroomDeleted = "classroom_deleted"
)

type userEvent struct {
	ID string `json:"id"`
}

// classroomEvent is the last known snapshot of the deleted classroom; the
// row itself is already gone when the handler runs.
type classroomEvent struct {
	ID         string   `json:"id"`
	StudentIDs []string `json:"studentIds"`
}

type Handlers struct {
	UserCreated      func(ctx context.Context, userID string) error
	UserDeleted      func(ctx context.Context, userID string) error
	ClassroomDeleted func(ctx context.Context, classroomID string, studentIDs []string) error
}

// Listen subscribes to the row-change channels and dispatches notifications
// until ctx is cancelled. Handler errors are logged and swallowed: the store
// has no redelivery, so a crash loop would gain nothing.
func Listen(ctx context.Context, dsn string, h Handlers, log *zap.SugaredLogger) error {
	listener := pq.NewListener(dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			observability.CaptureErr(err)
			log.Errorw("notification listener event", "type", ev, "err", err)
		}
	})
	for _, channel := range []string{ChannelUserCreated, ChannelUserDeleted, ChannelClassroomDeleted} {
		if err := listener.Listen(channel); err != nil {
			_ = listener.Close()
			return err
		}
	}

	go func() {
		defer func() { _ = listener.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case n := <-listener.Notify:
				if n == nil {
					// reconnect; missed notifications stay missed (best effort)
					continue
				}
				dispatch(ctx, h, n.Channel, n.Extra, log)
			case <-time.After(90 * time.Second):
				go func() { _ = listener.Ping() }()
			}
		}
	}()
	return nil
}

func dispatch(ctx context.Context, h Handlers, channel, payload string, log *zap.SugaredLogger) {
	metrics.TriggerEvents.WithLabelValues(channel).Inc()

	var err error
	switch channel {
	case ChannelUserCreated:
		var ev userEvent
		if err = json.Unmarshal([]byte(payload), &ev); err == nil && ev.ID != "" && h.UserCreated != nil {
			err = h.UserCreated(ctx, ev.ID)
		}
	case ChannelUserDeleted:
		var ev userEvent
		if err = json.Unmarshal([]byte(payload), &ev); err == nil && ev.ID != "" && h.UserDeleted != nil {
			err = h.UserDeleted(ctx, ev.ID)
		}
	case ChannelClassroomDeleted:
		var ev classroomEvent
		if err = json.Unmarshal([]byte(payload), &ev); err == nil && ev.ID != "" && h.ClassroomDeleted != nil {
			err = h.ClassroomDeleted(ctx, ev.ID, ev.StudentIDs)
		}
	default:
		log.Warnw("notification on unknown channel", "channel", channel)
		return
	}
	if err != nil {
		observability.CaptureErr(err)
		log.Errorw("trigger handler failed", "channel", channel, "err", err)
	}
}

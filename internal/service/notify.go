package service

import (
	"context"

	"github.com/Skotchmaster/userauth/internal/directory"
	"github.com/Skotchmaster/userauth/internal/events"
	"github.com/Skotchmaster/userauth/internal/logging"
	"github.com/Skotchmaster/userauth/internal/models"
)

// notifier fans a user change out to the event stream and the directory index.
// Both are best effort: failures are logged and never returned.
type notifier struct {
	Events    events.Publisher
	Directory directory.Directory
}

func (n notifier) notify(ctx context.Context, t events.Type, u *models.User) {
	l := logging.FromContext(ctx)

	if n.Events != nil {
		if err := n.Events.Publish(ctx, events.New(t, u)); err != nil {
			l.Warn("event_publish_failed", "event", string(t), "user_id", u.ID, "error", err)
		}
	}
	if n.Directory != nil && t != events.UserLoggedIn {
		if err := n.Directory.Index(ctx, u); err != nil {
			l.Warn("directory_index_failed", "user_id", u.ID, "error", err)
		}
	}
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/userauth/internal/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestMessage(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg, err := Message(Event{Type: UserRegistered, UserID: 42, Email: "a@example.com", At: at})
	require.NoError(t, err)

	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.JSONEq(t, `{"type":"user_registered","user_id":42,"email":"a@example.com","at":"2024-05-01T12:00:00Z"}`, string(msg.Value))
}

func TestNew(t *testing.T) {
	t.Parallel()

	ev := New(ProfileUpdated, &models.User{ID: 7, Email: "p@example.com", PasswordHash: "hash"})
	assert.Equal(t, ProfileUpdated, ev.Type)
	assert.Equal(t, int64(7), ev.UserID)
	assert.Equal(t, "p@example.com", ev.Email)
	assert.WithinDuration(t, time.Now(), ev.At, time.Minute)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
}

func TestKafkaPublisher_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	require.NoError(t, p.Publish(context.Background(), Event{Type: UserLoggedIn, UserID: 1, Email: "x@example.com"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "1", string(w.msgs[0].Key))

	w.err = errors.New("broker down")
	err := p.Publish(context.Background(), Event{Type: UserLoggedIn, UserID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_logged_in")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNop(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Close())
}

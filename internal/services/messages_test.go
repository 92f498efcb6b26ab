package services

import (
	"context"
	"testing"

	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/anonto42/socialpulse/backend/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPersistsThenPushes(t *testing.T) {
	repo := &memMessages{}
	pusher := &recordingPusher{}
	ch := NewMessageChannel(repo, pusher)

	msg, err := ch.Send(context.Background(), alice.ID, bob.ID, "  hi bob ")
	require.NoError(t, err)
	assert.Equal(t, "hi bob", msg.Text)
	assert.False(t, msg.ID.IsZero())

	pushes := pusher.all()
	require.Len(t, pushes, 1)
	assert.Equal(t, bob.ID, pushes[0].target)
	assert.Equal(t, realtime.EventNewMessage, pushes[0].event)
	assert.Equal(t, msg, pushes[0].payload)
}

func TestSendRejectsBlankText(t *testing.T) {
	repo := &memMessages{}
	pusher := &recordingPusher{}
	ch := NewMessageChannel(repo, pusher)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := ch.Send(context.Background(), alice.ID, bob.ID, text)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
	_, err := ch.Send(context.Background(), alice.ID, 0, "hello")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = ch.Send(context.Background(), alice.ID, alice.ID, "note to self")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Empty(t, repo.items)
	assert.Empty(t, pusher.all())
}

func TestSendStorageFailureSkipsPush(t *testing.T) {
	pusher := &recordingPusher{}
	ch := NewMessageChannel(&memMessages{createErr: errStoreDown}, pusher)

	_, err := ch.Send(context.Background(), alice.ID, bob.ID, "hello")
	assert.True(t, apperrors.IsStorage(err))
	assert.Empty(t, pusher.all())
}

func TestHistoryCoversBothDirections(t *testing.T) {
	repo := &memMessages{}
	ch := NewMessageChannel(repo, &recordingPusher{})
	ctx := context.Background()

	for _, m := range []struct {
		from, to uint
		text     string
	}{
		{alice.ID, bob.ID, "one"},
		{bob.ID, alice.ID, "two"},
		{alice.ID, carol.ID, "other"},
		{alice.ID, bob.ID, "three"},
	} {
		_, err := ch.Send(ctx, m.from, m.to, m.text)
		require.NoError(t, err)
	}

	history, err := ch.History(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	var texts []string
	for _, m := range history {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"one", "two", "three"}, texts)

	// History is a read: the stored sequence is unchanged by it.
	again, err := ch.History(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, history, again)
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mock_client "omnirag/console/internal/client/mocks"
	"omnirag/console/internal/conversation"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/model"
	"omnirag/console/internal/service"
	"omnirag/console/internal/stream"
)

const botID = "bot-1"

func setupChatService(t *testing.T) (*service.ChatService, *mock_client.MockBackend) {
	backend := mock_client.NewMockBackend(t)
	chatService := service.NewChatService(backend)
	t.Cleanup(chatService.CloseAll)
	return chatService, backend
}

func expectMount(backend *mock_client.MockBackend, welcome string) {
	backend.On("GetBot", mock.Anything, botID).
		Return(&model.Bot{ID: botID, Config: model.BotConfig{WelcomeMessage: welcome}}, nil).Once()
	backend.On("ListSessions", mock.Anything, botID, conversation.DefaultSessionsLimit).
		Return([]model.Session{{ID: "s-1", Title: "Earlier"}}, nil).Once()
}

func TestChatService_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Mounts once and reuses the view", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expectMount(backend, "Hi!")

		state, err := chatService.Open(ctx, botID)
		require.NoError(t, err)
		require.Len(t, state.Messages, 1)
		assert.Equal(t, "Hi!", state.Messages[0].Content)
		assert.Len(t, state.Sessions, 1)

		again, err := chatService.Open(ctx, botID)
		require.NoError(t, err)
		assert.Equal(t, state.Messages, again.Messages)
	})

	t.Run("Success - Reopening with a session switches to it", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expectMount(backend, "Hi!")
		backend.On("GetHistory", mock.Anything, botID, "s-1", conversation.DefaultHistoryLimit).
			Return([]model.ChatMessage{
				{ID: "1", Role: model.RoleUser, Content: "q"},
				{ID: "2", Role: model.RoleAssistant, Content: "a"},
			}, nil).Once()

		_, err := chatService.Open(ctx, botID)
		require.NoError(t, err)

		state, err := chatService.Open(ctx, botID, conversation.WithSession("s-1"))
		require.NoError(t, err)
		assert.Equal(t, "s-1", state.SessionID)
		require.Len(t, state.Messages, 2)
		assert.Equal(t, "a", state.Messages[1].Content)

		// Already active: no second history load.
		state, err = chatService.Open(ctx, botID, conversation.WithSession("s-1"))
		require.NoError(t, err)
		assert.Equal(t, "s-1", state.SessionID)
	})

	t.Run("Failure - Bot not found", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		backend.On("GetBot", mock.Anything, botID).Return(nil, app_errors.ErrNotFound).Once()

		_, err := chatService.Open(ctx, botID)
		assert.ErrorIs(t, err, app_errors.ErrNotFound)

		_, err = chatService.State(botID)
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("Failure - Empty bot id", func(t *testing.T) {
		chatService, _ := setupChatService(t)

		_, err := chatService.Open(ctx, "")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestChatService_Close(t *testing.T) {
	ctx := context.Background()
	chatService, backend := setupChatService(t)
	expectMount(backend, "")
	_, err := chatService.Open(ctx, botID)
	require.NoError(t, err)
	events, _, err := chatService.Subscribe(botID, 1)
	require.NoError(t, err)

	require.NoError(t, chatService.Close(botID))

	_, open := <-events
	assert.False(t, open)
	assert.ErrorIs(t, chatService.Close(botID), app_errors.ErrNotFound)
	assert.ErrorIs(t, chatService.NewChat(botID), app_errors.ErrNotFound)
}

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Reply lands in the view", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expectMount(backend, "Hi!")
		_, err := chatService.Open(ctx, botID)
		require.NoError(t, err)

		backend.On("ChatStream", mock.Anything, botID, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				fn := args.Get(3).(func(stream.Event) error)
				_ = fn(stream.ContentEvent{Content: "Hello"})
				_ = fn(stream.DoneEvent{})
			}).Return(nil).Once()
		backend.On("ListSessions", mock.Anything, botID, conversation.DefaultSessionsLimit).
			Return([]model.Session{}, nil).Once()

		require.NoError(t, chatService.Send(ctx, botID, "hello"))

		state, err := chatService.State(botID)
		require.NoError(t, err)
		require.Len(t, state.Messages, 3)
		assert.Equal(t, "Hello", state.Messages[2].Content)
	})

	t.Run("Failure - View not open", func(t *testing.T) {
		chatService, _ := setupChatService(t)

		err := chatService.Send(ctx, botID, "hello")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestChatService_SessionActions(t *testing.T) {
	ctx := context.Background()

	t.Run("DeleteSession failure is returned", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expectMount(backend, "")
		_, err := chatService.Open(ctx, botID)
		require.NoError(t, err)
		backend.On("DeleteSession", mock.Anything, botID, "s-1").Return(errors.New("boom")).Once()

		err = chatService.DeleteSession(ctx, botID, "s-1")
		require.Error(t, err)

		state, _ := chatService.State(botID)
		assert.Len(t, state.Sessions, 1)
	})

	t.Run("ClearHistory empties the session list", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expectMount(backend, "")
		_, err := chatService.Open(ctx, botID)
		require.NoError(t, err)
		backend.On("ClearHistory", mock.Anything, botID).Return(nil).Once()

		require.NoError(t, chatService.ClearHistory(ctx, botID))

		state, _ := chatService.State(botID)
		assert.Empty(t, state.Sessions)
	})

	t.Run("SelectSession loads history", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expectMount(backend, "")
		_, err := chatService.Open(ctx, botID)
		require.NoError(t, err)
		backend.On("GetHistory", mock.Anything, botID, "s-1", conversation.DefaultHistoryLimit).
			Return([]model.ChatMessage{{ID: "m1", Role: model.RoleUser, Content: "q"}}, nil).Once()

		require.NoError(t, chatService.SelectSession(ctx, botID, "s-1"))

		state, _ := chatService.State(botID)
		assert.Equal(t, "s-1", state.SessionID)
		assert.Len(t, state.Messages, 1)

		ok, err := chatService.SelectEvidence(botID, "m1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestChatService_ListSessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expected := []model.Session{{ID: "s-1"}, {ID: "s-2"}}
		backend.On("ListSessions", ctx, botID, 10).Return(expected, nil).Once()

		sessions, err := chatService.ListSessions(ctx, botID, 10)
		require.NoError(t, err)
		assert.Equal(t, expected, sessions)
	})

	t.Run("Failure - Backend unavailable", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		backend.On("ListSessions", ctx, botID, 10).Return(nil, app_errors.ErrUnavailable).Once()

		_, err := chatService.ListSessions(ctx, botID, 10)
		assert.ErrorIs(t, err, app_errors.ErrUnavailable)
	})
}

func TestChatService_GetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		chatService, backend := setupChatService(t)
		expected := []model.ChatMessage{{ID: "m1", Role: model.RoleUser, Content: "q"}}
		backend.On("GetHistory", ctx, botID, "s-1", 50).Return(expected, nil).Once()

		history, err := chatService.GetHistory(ctx, botID, "s-1", 50)
		require.NoError(t, err)
		assert.Equal(t, expected, history)
	})

	t.Run("Failure - Missing session id", func(t *testing.T) {
		chatService, _ := setupChatService(t)

		_, err := chatService.GetHistory(ctx, botID, "", 50)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

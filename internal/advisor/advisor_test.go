package advisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilhermegouw/agrochat/internal/chat"
	"github.com/guilhermegouw/agrochat/internal/gateway"
	"github.com/guilhermegouw/agrochat/internal/message"
	"github.com/guilhermegouw/agrochat/internal/session"
)

func TestRespond(t *testing.T) {
	tests := []struct {
		name      string
		question  string
		wantText  string
		wantTable bool
		wantAlert message.AlertLevel
	}{
		{"fertilizer", "Which fertilizer for maize?", "fertilizer recommendation", true, message.AlertInfo},
		{"nutrient", "Nutrient deficiency signs", "fertilizer recommendation", true, message.AlertInfo},
		{"pest", "Aphids everywhere, pest control?", "Integrated Pest Management", false, message.AlertWarning},
		{"pest beats fertilizer", "Does fertilizer attract pests?", "Integrated Pest Management", false, message.AlertWarning},
		{"generic", "When should I plant beans?", "soil analysis", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Respond(tt.question)
			assert.Contains(t, r.Text, tt.wantText)
			assert.Equal(t, tt.wantTable, len(r.Tables) > 0)
			if tt.wantAlert == "" {
				assert.Empty(t, r.Alerts)
				return
			}
			require.Len(t, r.Alerts, 1)
			assert.Equal(t, tt.wantAlert, r.Alerts[0].Level)
		})
	}

	t.Run("generic reply quotes the question", func(t *testing.T) {
		assert.Contains(t, Respond("crop rotation").Text, `"crop rotation"`)
	})

	t.Run("fertilizer table is rectangular", func(t *testing.T) {
		r := Respond("fertilizer")
		require.NoError(t, r.Tables[0].Validate())
	})
}

func newClient(t *testing.T) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(NewServer())
	t.Cleanup(srv.Close)

	c, err := gateway.New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestServerConversationLifecycle(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	id, err := c.CreateConversation(ctx, "New Chat")
	require.NoError(t, err)

	ans, err := c.FollowUp(ctx, id, gateway.AskRequest{Question: "fertilizer for soy?"})
	require.NoError(t, err)
	assert.Equal(t, id, ans.ConversationID)
	require.Len(t, ans.Tables, 1)
	assert.Equal(t, []message.AlertLevel{message.AlertInfo}, ans.Alerts)

	hist, err := c.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, gateway.RoleUser, hist.Messages[0].Role)
	assert.Equal(t, gateway.RoleAI, hist.Messages[1].Role)

	page, err := c.HistoryPage(ctx, id, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.False(t, page.HasMore)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, hist.Messages[1].ID, page.Messages[0].ID)

	stats, err := c.ConversationStats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.MessageCount)

	ok, err := c.ClearMessages(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	convs, err := c.ListConversations(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Empty(t, convs[0].Messages)

	ok, err = c.DeleteConversation(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.History(ctx, id)
	var serr *gateway.ServerError
	require.ErrorAs(t, err, &serr)
	assert.True(t, serr.IsNotFound())
}

func TestServerAskCreatesConversation(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	ans, err := c.Ask(ctx, gateway.AskRequest{Question: "pest on tomatoes"})
	require.NoError(t, err)
	require.NotEmpty(t, ans.ConversationID)
	assert.Equal(t, "pest on tomatoes", ans.Question)

	convs, err := c.ListConversations(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "pest on tomatoes", convs[0].Title)
}

func TestServerRejectsBadRequests(t *testing.T) {
	srv := httptest.NewServer(NewServer())
	defer srv.Close()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"empty question", http.MethodPost, "/chat/ask", `{"question":"  "}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/chat/ask", `{`, http.StatusBadRequest},
		{"unknown follow-up", http.MethodPost, "/chat/follow-up/nope", `{"question":"x"}`, http.StatusNotFound},
		{"unknown clear", http.MethodDelete, "/chat/conversations/nope/messages", ``, http.StatusNotFound},
		{"unknown stats", http.MethodGet, "/chat/conversations/nope/stats", ``, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

// TestOrchestratorAgainstServer drives the full client stack over HTTP.
func TestOrchestratorAgainstServer(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	mgr := session.NewManager(session.NewStore(nil))
	orch := chat.New(c, mgr)

	id := orch.NewChat(ctx)
	_, err := orch.SendMessage(ctx, "Which nutrient is my maize missing?")
	require.NoError(t, err)
	_, err = orch.SendMessage(ctx, "And what about pests?")
	require.NoError(t, err)

	s, err := mgr.Store().Get(id)
	require.NoError(t, err)
	require.Len(t, s.Messages, 4)
	_, hasTable := s.Messages[1].Table()
	assert.True(t, hasTable)
	level, _ := s.Messages[3].AlertLevel()
	assert.Equal(t, message.AlertWarning, level)
	assert.Equal(t, "Which nutrient is my maize mis...", s.Title)

	convs, err := orch.ListBackendConversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 1)

	opened, err := orch.SelectBackendConversation(ctx, convs[0])
	require.NoError(t, err)
	assert.NotEqual(t, id, opened)
	assert.Equal(t, 1, mgr.Store().Len(), "reopening replaces the bound session")

	reopened, _ := mgr.Store().Get(opened)
	assert.Len(t, reopened.Messages, 4)

	require.NoError(t, orch.DeleteSession(ctx, opened))
	_, err = c.History(ctx, convs[0].ID)
	assert.Error(t, err, "backend conversation is deleted with the session")
}

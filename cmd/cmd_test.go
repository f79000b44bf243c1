package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilhermegouw/agrochat/internal/advisor"
)

// execute runs the root command against a fresh mock advisor config.
func execute(t *testing.T, baseURL string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "agrochat.json")
	body := `{"base_url": "` + baseURL + `", "options": {"data_directory": "` + dir + `"}}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err = root.Execute()
	return out.String(), errOut.String(), err
}

func newBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(advisor.NewServer())
	t.Cleanup(srv.Close)
	return srv.URL
}

func conversationID(t *testing.T, stderr string) string {
	t.Helper()
	for line := range strings.SplitSeq(stderr, "\n") {
		if id, ok := strings.CutPrefix(line, "conversation: "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no conversation id in stderr: %q", stderr)
	return ""
}

func TestAskPrintsAnswerAndTable(t *testing.T) {
	url := newBackend(t)

	out, stderr, err := execute(t, url, "ask", "--plain", "Which", "fertilizer", "for", "corn?")
	require.NoError(t, err)

	assert.Contains(t, out, "fertilizer recommendation")
	assert.Contains(t, out, "| Nutrient |")
	assert.Contains(t, out, "Nitrogen (N)")
	assert.Contains(t, out, "_Recommended fertilizer application rates for corn production_")
	assert.Contains(t, out, "**[INFO]**")
	assert.NotEmpty(t, conversationID(t, stderr))
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	_, _, err := execute(t, newBackend(t), "ask", "   ")
	assert.Error(t, err)
}

func TestAskFollowUpAndHistory(t *testing.T) {
	url := newBackend(t)

	_, stderr, err := execute(t, url, "ask", "--plain", "How do I manage pests?")
	require.NoError(t, err)
	id := conversationID(t, stderr)

	_, _, err = execute(t, url, "ask", "--plain", "--conversation", id, "And soil?")
	require.NoError(t, err)

	out, _, err := execute(t, url, "history", id, "--format", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "How do I manage pests?")
	assert.Contains(t, out, "And soil?")
	assert.Contains(t, out, "Integrated Pest Management")

	out, stderr, err = execute(t, url, "history", id, "--format", "json", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"conversationId"`)
	assert.Contains(t, stderr, "next page: --offset 1")

	out, _, err = execute(t, url, "history", id, "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Conversation: "+id)
	assert.Contains(t, out, "Messages:      4")
}

func TestHistoryRejectsUnknownFormat(t *testing.T) {
	_, _, err := execute(t, newBackend(t), "history", "abc", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestConversationsTable(t *testing.T) {
	url := newBackend(t)

	out, _, err := execute(t, url, "conversations")
	require.NoError(t, err)
	assert.Contains(t, out, "No conversations yet.")

	_, stderr, err := execute(t, url, "ask", "--plain", "When to plant maize?")
	require.NoError(t, err)
	id := conversationID(t, stderr)

	out, _, err = execute(t, url, "conversations")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, id)
}

func TestStatusReportsBackend(t *testing.T) {
	url := newBackend(t)

	out, _, err := execute(t, url, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend:  "+url)
	assert.Contains(t, out, "reachable, no conversations")

	out, _, err = execute(t, "http://127.0.0.1:1", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "unreachable")
}

func TestBaseURLFlagOverridesConfig(t *testing.T) {
	url := newBackend(t)

	out, _, err := execute(t, "http://127.0.0.1:1", "--base-url", url, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend:  "+url)
}

func TestInvalidBaseURL(t *testing.T) {
	_, _, err := execute(t, "ftp://example.com", "status")
	assert.Error(t, err)
}

func TestConfigKeysSorted(t *testing.T) {
	out, _, err := execute(t, "http://localhost", "config", "keys")
	require.NoError(t, err)

	keys := strings.Fields(out)
	require.NotEmpty(t, keys)
	assert.Equal(t, "base_url", keys[0])
	assert.Contains(t, keys, "request_timeout")
}

func TestConfigSetRejectsBadValue(t *testing.T) {
	_, _, err := execute(t, "http://localhost", "config", "set", "conversation_limit", "many")
	assert.Error(t, err)

	_, _, err = execute(t, "http://localhost", "config", "set", "nope", "1")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "http://localhost", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "agrochat "))
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agrochat.json")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"base_url"`)

	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "config", "init"})
	err = root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// venue is a scripted websocket peer. script runs once per accepted
// connection with the 1-based connection number.
type venue struct {
	srv   *httptest.Server
	conns atomic.Int32
}

func newVenue(t *testing.T, script func(ctx context.Context, t *testing.T, c *websocket.Conn, n int)) *venue {
	t.Helper()
	v := &venue{}
	v.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = c.CloseNow() }()
		n := int(v.conns.Add(1))
		script(r.Context(), t, c, n)
	}))
	t.Cleanup(v.srv.Close)
	return v
}

func (v *venue) url(path string) string {
	return "ws" + strings.TrimPrefix(v.srv.URL, "http") + path
}

func readFrame(ctx context.Context, t *testing.T, c *websocket.Conn) map[string]any {
	t.Helper()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Errorf("venue read: %v", err)
		return nil
	}
	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

func writeFrame(ctx context.Context, t *testing.T, c *websocket.Conn, frame any) {
	t.Helper()
	data, err := json.Marshal(frame)
	require.NoError(t, err)
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		t.Errorf("venue write: %v", err)
	}
}

// drain keeps reading so control frames are answered until the peer leaves.
func drain(ctx context.Context, c *websocket.Conn) {
	for {
		if _, _, err := c.Read(ctx); err != nil {
			return
		}
	}
}

func subscribeAck(args ...string) map[string]any {
	anyArgs := make([]any, len(args))
	for i, a := range args {
		anyArgs[i] = a
	}
	return map[string]any{
		"success": true,
		"ret_msg": "",
		"request": map[string]any{"op": "subscribe", "args": anyArgs},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 5*time.Millisecond)
}

package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

// fakePeer speaks framed JSON-RPC on the far side of the transport pipes
type fakePeer struct {
	in  *io.PipeReader // requests arriving from the transport
	out *io.PipeWriter // responses flowing back to the transport
}

func newTestTransport() (*JsonRpcTransport, *fakePeer) {
	reqReader, reqWriter := io.Pipe()
	respReader, respWriter := io.Pipe()

	tr := NewJsonRpcTransport(reqWriter, respReader)
	peer := &fakePeer{in: reqReader, out: respWriter}
	return tr, peer
}

func (p *fakePeer) close() {
	_ = p.in.Close()
	_ = p.out.Close()
}

// discard consumes everything the transport writes, for tests that never
// answer. Runs until the pipe is closed.
func (p *fakePeer) discard() {
	_, _ = io.Copy(io.Discard, p.in)
}

func (p *fakePeer) readMessage(t *testing.T) map[string]any {
	t.Helper()

	var header []byte
	b := make([]byte, 1)
	for {
		_, err := p.in.Read(b)
		require.NoError(t, err)
		header = append(header, b[0])
		if len(header) >= 4 && string(header[len(header)-4:]) == "\r\n\r\n" {
			break
		}
	}

	var contentLength int
	_, err := fmt.Sscanf(string(header), "Content-Length: %d\r\n\r\n", &contentLength)
	require.NoError(t, err)

	body := make([]byte, contentLength)
	_, err = io.ReadFull(p.in, body)
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(body, &msg))
	return msg
}

func (p *fakePeer) writeMessage(t *testing.T, msg map[string]any) {
	t.Helper()

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	_, err = fmt.Fprintf(p.out, "Content-Length: %d\r\n\r\n%s", len(data), data)
	require.NoError(t, err)
}

type sendResult struct {
	result json.RawMessage
	err    error
}

func TestNewJsonRpcTransport(t *testing.T) {
	tr, peer := newTestTransport()
	defer peer.close()

	require.NotNil(t, tr)
	assert.NotNil(t, tr.responses)
	assert.NotNil(t, tr.done)
}

func TestSendRequestRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr, peer := newTestTransport()
	require.NoError(t, tr.Start())
	defer peer.close()
	defer func() { _ = tr.Stop() }()

	resultCh := make(chan sendResult, 1)
	go func() {
		result, err := tr.SendRequest("test/echo", map[string]any{"value": 42})
		resultCh <- sendResult{result, err}
	}()

	msg := peer.readMessage(t)
	assert.Equal(t, "2.0", msg["jsonrpc"])
	assert.Equal(t, "test/echo", msg["method"])
	assert.Equal(t, map[string]any{"value": float64(42)}, msg["params"])

	peer.writeMessage(t, map[string]any{
		"jsonrpc": "2.0",
		"id":      msg["id"],
		"result":  map[string]any{"ok": true},
	})

	res := <-resultCh
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"ok": true}`, string(res.result))
}

func TestSendRequestRPCError(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr, peer := newTestTransport()
	require.NoError(t, tr.Start())
	defer peer.close()
	defer func() { _ = tr.Stop() }()

	resultCh := make(chan sendResult, 1)
	go func() {
		result, err := tr.SendRequest("workspace/symbol", map[string]any{"query": "Analyzer"})
		resultCh <- sendResult{result, err}
	}()

	msg := peer.readMessage(t)
	peer.writeMessage(t, map[string]any{
		"jsonrpc": "2.0",
		"id":      msg["id"],
		"error": map[string]any{
			"code":    types.CodeRequestCancelled,
			"message": "request cancelled",
		},
	})

	res := <-resultCh
	require.Error(t, res.err)

	var rpcErr *types.RPCError
	require.True(t, errors.As(res.err, &rpcErr))
	assert.Equal(t, types.CodeRequestCancelled, rpcErr.Code)
	assert.Equal(t, "request cancelled", rpcErr.Message)
	assert.True(t, rpcErr.IsCancellation())
}

func TestSendRequestTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr, peer := newTestTransport()
	require.NoError(t, tr.Start())
	defer peer.close()
	defer func() { _ = tr.Stop() }()

	go peer.discard()

	_, err := tr.SendRequestTimeout("test/never", nil, 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for response")
}

func TestStopUnblocksPendingRequest(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr, peer := newTestTransport()
	require.NoError(t, tr.Start())
	defer peer.close()

	go peer.discard()

	resultCh := make(chan sendResult, 1)
	go func() {
		result, err := tr.SendRequestTimeout("test/never", nil, 0)
		resultCh <- sendResult{result, err}
	}()

	// Give the request a moment to become pending before stopping
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, tr.Stop())

	res := <-resultCh
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "transport stopped")
}

func TestNotificationRoutedToHandler(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr, peer := newTestTransport()

	notified := make(chan string, 1)
	tr.SetNotificationHandler(func(method string, params json.RawMessage) {
		notified <- method
	})

	require.NoError(t, tr.Start())
	defer peer.close()
	defer func() { _ = tr.Stop() }()

	peer.writeMessage(t, map[string]any{
		"jsonrpc": "2.0",
		"method":  "window/logMessage",
		"params":  map[string]any{"type": 3, "message": "loaded"},
	})

	select {
	case method := <-notified:
		assert.Equal(t, "window/logMessage", method)
	case <-time.After(time.Second):
		t.Fatal("notification was not delivered")
	}
}

// A server-initiated request may reuse an ID that collides with one of our
// pending requests; the method field marks it as non-response traffic.
func TestServerRequestDoesNotResolveClientRequest(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr, peer := newTestTransport()

	notified := make(chan string, 1)
	tr.SetNotificationHandler(func(method string, params json.RawMessage) {
		notified <- method
	})

	require.NoError(t, tr.Start())
	defer peer.close()
	defer func() { _ = tr.Stop() }()

	resultCh := make(chan sendResult, 1)
	go func() {
		result, err := tr.SendRequest("initialize", nil)
		resultCh <- sendResult{result, err}
	}()

	msg := peer.readMessage(t)

	// Server request colliding with the pending request's ID
	peer.writeMessage(t, map[string]any{
		"jsonrpc": "2.0",
		"id":      msg["id"],
		"method":  "window/workDoneProgress/create",
		"params":  map[string]any{},
	})

	// The real response arrives afterwards
	peer.writeMessage(t, map[string]any{
		"jsonrpc": "2.0",
		"id":      msg["id"],
		"result":  map[string]any{"capabilities": map[string]any{}},
	})

	res := <-resultCh
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"capabilities": {}}`, string(res.result))

	select {
	case method := <-notified:
		assert.Equal(t, "window/workDoneProgress/create", method)
	case <-time.After(time.Second):
		t.Fatal("server request was not routed to the notification handler")
	}
}

func TestSendNotificationFraming(t *testing.T) {
	defer goleak.VerifyNone(t)

	tr, peer := newTestTransport()
	require.NoError(t, tr.Start())
	defer peer.close()
	defer func() { _ = tr.Stop() }()

	errCh := make(chan error, 1)
	go func() {
		errCh <- tr.SendNotification("initialized", map[string]any{})
	}()

	msg := peer.readMessage(t)
	require.NoError(t, <-errCh)

	assert.Equal(t, "2.0", msg["jsonrpc"])
	assert.Equal(t, "initialized", msg["method"])
	_, hasID := msg["id"]
	assert.False(t, hasID, "notifications must not carry an ID")
}

func TestSendAfterStop(t *testing.T) {
	tr, peer := newTestTransport()
	defer peer.close()

	require.NoError(t, tr.Stop())

	_, err := tr.SendRequest("test/echo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport is closed")

	err = tr.SendNotification("test/notify", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport is closed")
}

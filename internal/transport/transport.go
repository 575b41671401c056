package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

const (
	// receiveTimeout bounds ordinary request round trips. Workspace loading
	// uses SendRequestTimeout with no timeout instead.
	receiveTimeout = 10 * time.Second
)

var _ types.Transport = &JsonRpcTransport{}

// response carries one settled JSON-RPC call back to its sender
type response struct {
	result json.RawMessage
	err    *types.RPCError
}

// JsonRpcTransport handles low-level JSON-RPC communication with
// Content-Length framing
type JsonRpcTransport struct {
	writer    io.Writer
	reader    io.Reader
	requestID int64
	notify    func(method string, params json.RawMessage)
	responses map[int64]chan response
	mu        sync.RWMutex
	done      chan struct{}
}

// NewJsonRpcTransport creates a new JSON-RPC transport
func NewJsonRpcTransport(writer io.Writer, reader io.Reader) *JsonRpcTransport {
	return &JsonRpcTransport{
		writer:    writer,
		reader:    reader,
		responses: make(map[int64]chan response),
		done:      make(chan struct{}),
	}
}

// SetNotificationHandler registers fn for server-initiated notifications
// and requests. Must be called before Start.
func (t *JsonRpcTransport) SetNotificationHandler(fn func(method string, params json.RawMessage)) {
	t.notify = fn
}

func (t *JsonRpcTransport) Start() error {
	slog.Debug("Starting JSON-RPC transport")
	go t.readMessages()
	return nil
}

func (t *JsonRpcTransport) Stop() error {
	if !t.isClosed() {
		slog.Debug("Stopping JSON-RPC transport")
		close(t.done)
	}
	return nil
}

func (t *JsonRpcTransport) isClosed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *JsonRpcTransport) readMessages() {
	slog.Debug("Reading JSON-RPC messages")

	defer func() {
		_ = t.Stop()
	}()

	for {
		// Read one message at a time until the transport is closed
		if t.isClosed() {
			return
		}

		var contentLength int
		var header []byte

		for {
			// Read one byte at a time until we find the end of the header
			b := make([]byte, 1)
			if _, err := t.reader.Read(b); err != nil {
				if t.isClosed() || err == io.EOF {
					slog.Debug("JSON-RPC message stream ended", "error", err)
				} else {
					slog.Error("Failed to read JSON-RPC message header", "error", err)
				}
				return
			}
			header = append(header, b[0])

			// Extract the Content-Length from the header, then break
			if len(header) >= 4 && string(header[len(header)-4:]) == "\r\n\r\n" {
				headerStr := string(header)
				if _, err := fmt.Sscanf(headerStr, "Content-Length: %d\r\n\r\n", &contentLength); err != nil {
					slog.Error("Failed to scan JSON-RPC message header", "error", err, "header", headerStr)
					continue
				}
				break
			}
		}

		// Use the Content-Length to read the JSON message body
		body := make([]byte, contentLength)
		if _, err := io.ReadFull(t.reader, body); err != nil {
			slog.Error("Failed to read JSON-RPC message body", "error", err, "content_length", contentLength)
			return
		}
		t.handleMessage(body)
	}
}

func (t *JsonRpcTransport) handleMessage(content []byte) {
	var msg struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
		Result json.RawMessage `json:"result"`
		Error  *types.RPCError `json:"error"`
	}
	if err := json.Unmarshal(content, &msg); err != nil {
		slog.Error("Failed to unmarshal JSON-RPC message", "error", err, "content", string(content))
		return
	}

	// Server-initiated traffic carries a method; it is never a response to
	// one of our requests, even when an ID is present.
	if msg.Method != "" {
		if t.notify != nil {
			t.notify(msg.Method, msg.Params)
		}
		return
	}

	if msg.ID == nil {
		return
	}

	var id int64
	if err := json.Unmarshal(msg.ID, &id); err != nil {
		slog.Error("Failed to unmarshal JSON-RPC response ID", "error", err, "raw_id", string(msg.ID))
		return
	}

	t.mu.RLock()
	ch, ok := t.responses[id]
	t.mu.RUnlock()

	if ok {
		ch <- response{result: msg.Result, err: msg.Error}
	}
}

// SendRequest sends a JSON-RPC request and waits for the response, bounded
// by the default receive timeout
func (t *JsonRpcTransport) SendRequest(method string, params any) (json.RawMessage, error) {
	return t.SendRequestTimeout(method, params, receiveTimeout)
}

// SendRequestTimeout sends a JSON-RPC request and waits up to timeout for
// the response. A non-positive timeout waits until the transport is stopped.
func (t *JsonRpcTransport) SendRequestTimeout(method string, params any, timeout time.Duration) (json.RawMessage, error) {
	if t.isClosed() {
		return nil, fmt.Errorf("cannot send request: transport is closed")
	}

	id := atomic.AddInt64(&t.requestID, 1)
	startTime := time.Now()

	slog.Debug("Sending JSON-RPC request", "request_id", id, "method", method)

	request := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}

	data, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON-RPC request: %w", err)
	}

	ch := make(chan response, 1)
	t.mu.Lock()
	t.responses[id] = ch
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.responses, id)
		t.mu.Unlock()
	}()

	if err := t.writeMessage(data); err != nil {
		return nil, fmt.Errorf("failed to write JSON-RPC request: %w", err)
	}

	var expire <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expire = timer.C
	}

	select {
	case resp := <-ch:
		duration := time.Since(startTime)
		slog.Debug("Received JSON-RPC response",
			"request_id", id,
			"method", method,
			"duration_ms", duration.Milliseconds())
		if resp.err != nil {
			return nil, resp.err
		}
		return resp.result, nil
	case <-t.done:
		return nil, fmt.Errorf("transport stopped while waiting for response to method %s", method)
	case <-expire:
		duration := time.Since(startTime)
		slog.Error("Timeout waiting for JSON-RPC response",
			"request_id", id,
			"method", method,
			"timeout_ms", timeout.Milliseconds(),
			"duration_ms", duration.Milliseconds())
		return nil, fmt.Errorf("timeout waiting for response to method %s", method)
	}
}

// SendNotification sends a JSON-RPC notification (no response expected)
func (t *JsonRpcTransport) SendNotification(method string, params any) error {
	if t.isClosed() {
		return fmt.Errorf("cannot send notification: transport is closed")
	}

	slog.Debug("Sending JSON-RPC notification", "method", method)

	notification := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON-RPC notification: %w", err)
	}

	if err := t.writeMessage(data); err != nil {
		return fmt.Errorf("failed to write JSON-RPC notification: %w", err)
	}

	return nil
}

func (t *JsonRpcTransport) writeMessage(data []byte) error {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := t.writer.Write([]byte(header)); err != nil {
		return fmt.Errorf("failed to write JSON-RPC message header: %w", err)
	}

	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON-RPC message data: %w", err)
	}

	return nil
}

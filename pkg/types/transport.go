package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Transport defines the JSON-RPC transport layer interface
type Transport interface {
	Start() error
	Stop() error
	SendRequest(method string, params any) (json.RawMessage, error)
	SendRequestTimeout(method string, params any, timeout time.Duration) (json.RawMessage, error)
	SendNotification(method string, params any) error
}

// JSON-RPC error codes used by LSP servers to abort in-flight requests.
const (
	CodeRequestCancelled = -32800
	CodeContentModified  = -32801
)

// RPCError is a decoded JSON-RPC error object
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// IsCancellation reports whether the error indicates that the engine
// aborted the request, typically because of a concurrent invalidation
func (e *RPCError) IsCancellation() bool {
	return e.Code == CodeRequestCancelled || e.Code == CodeContentModified
}

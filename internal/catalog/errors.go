package catalog

import (
	"errors"
	"fmt"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

// ErrorCode identifies a class of catalog failure. Codes are part of the
// wire contract: every facade error crosses the protocol boundary as a
// stable code/message pair.
type ErrorCode string

const (
	// CodeProjectLoadError reports that the workspace failed to build
	CodeProjectLoadError ErrorCode = "project_load_error"
	// CodeManifestNotFound reports that no project descriptor governs a path
	CodeManifestNotFound ErrorCode = "manifest_not_found"
	// CodeIoError reports a filesystem failure while resolving a path
	CodeIoError ErrorCode = "io_error"
	// CodeCanceled reports that the engine aborted an in-flight query
	CodeCanceled ErrorCode = "canceled"
	// CodeOther covers everything else, such as files missing from the index
	CodeOther ErrorCode = "other"
)

// Error is a catalog failure with a stable code
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds a catalog error wrapping an underlying cause
func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// classifyQueryError maps an engine query failure to the catalog taxonomy.
// Cancellation is a normal outcome, surfaced as Canceled and never retried.
func classifyQueryError(err error, context string) *Error {
	var rpcErr *types.RPCError
	if errors.As(err, &rpcErr) && rpcErr.IsCancellation() {
		return newError(CodeCanceled, "the engine canceled the request", err)
	}
	return newError(CodeOther, fmt.Sprintf("%s: %v", context, err), err)
}

package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averycrespi/cartographer-mcp/pkg/types"
)

func TestErrorRendersCodeAndMessage(t *testing.T) {
	err := newError(CodeManifestNotFound, "no go.work or go.mod above /tmp/empty", nil)
	assert.Equal(t, "manifest_not_found: no go.work or go.mod above /tmp/empty", err.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := newError(CodeIoError, "failed to resolve /tmp/x", cause)

	assert.ErrorIs(t, err, cause)

	var catErr *Error
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, CodeIoError, catErr.Code)
}

func TestClassifyQueryError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{
			name:     "request cancelled",
			err:      &types.RPCError{Code: types.CodeRequestCancelled, Message: "canceled"},
			wantCode: CodeCanceled,
		},
		{
			name:     "content modified",
			err:      fmt.Errorf("query failed: %w", &types.RPCError{Code: types.CodeContentModified, Message: "modified"}),
			wantCode: CodeCanceled,
		},
		{
			name:     "non-cancellation rpc error",
			err:      &types.RPCError{Code: -32603, Message: "internal error"},
			wantCode: CodeOther,
		},
		{
			name:     "plain error",
			err:      errors.New("engine connection lost"),
			wantCode: CodeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyQueryError(tt.err, "search failed")
			assert.Equal(t, tt.wantCode, classified.Code)
			assert.ErrorIs(t, classified, tt.err)
			if tt.wantCode == CodeOther {
				assert.Contains(t, classified.Message, "search failed")
			}
		})
	}
}

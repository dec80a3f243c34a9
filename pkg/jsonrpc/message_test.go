package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/a2a-go/pkg/a2a"
)

func TestNewResultPopulatesResultNotError(t *testing.T) {
	id := json.RawMessage(`1`)
	resp := NewResult(id, map[string]string{"ok": "true"})

	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, id, resp.ID)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}

func TestNewErrorResponsePopulatesErrorNotResult(t *testing.T) {
	id := json.RawMessage(`"abc"`)
	resp := NewErrorResponse(id, ErrMethodNotFound)

	assert.Equal(t, id, resp.ID)
	assert.Nil(t, resp.Result)
	require.NotNil(t, resp.Error)
	assert.Equal(t, a2a.ErrorCodeMethodNotFound, resp.Error.Code)
}

func TestResponseErrorOmittedWhenResultPopulated(t *testing.T) {
	resp := NewResult(json.RawMessage(`1`), "hello")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"error"`)
}

func TestIsBatchDetectsLeadingArrayBracket(t *testing.T) {
	assert.True(t, IsBatch([]byte(`[{"jsonrpc":"2.0"}]`)))
	assert.True(t, IsBatch([]byte("  \n\t[1,2]")))
}

func TestIsBatchRejectsSingleObject(t *testing.T) {
	assert.False(t, IsBatch([]byte(`{"jsonrpc":"2.0"}`)))
	assert.False(t, IsBatch([]byte("   {}")))
}

func TestIsBatchRejectsEmptyOrWhitespaceOnly(t *testing.T) {
	assert.False(t, IsBatch([]byte("")))
	assert.False(t, IsBatch([]byte("   \n  ")))
}

func TestRequestIDRoundTripsStringAndNumber(t *testing.T) {
	for _, raw := range []string{`1`, `"abc"`, `null`} {
		req := Request{JSONRPC: "2.0", Method: "tasks/get", ID: json.RawMessage(raw)}
		body, err := json.Marshal(req)
		require.NoError(t, err)

		var out Request
		require.NoError(t, json.Unmarshal(body, &out))
		assert.JSONEq(t, raw, string(out.ID))
	}
}

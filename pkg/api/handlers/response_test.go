package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONEncodeFailureLeavesBodyClean(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteJSON(rec, 200, map[string]any{"bad": make(chan int)})

	assert.Equal(t, 200, rec.Code)
	assert.Empty(t, rec.Body.String(), "no fallback payload after headers are out")
}

func TestFailEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	Fail(rec, 404, "Missing Access ID")

	require.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":404,"success":false,"message":"Missing Access ID"}`, rec.Body.String())
}

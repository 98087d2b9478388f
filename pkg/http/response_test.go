package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "eventstay/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"sold out", apperrors.SoldOut("p1", 2, 1), http.StatusConflict, apperrors.CodeInsufficientInventory},
		{"hold expired", apperrors.HoldExpired("b1"), http.StatusGone, apperrors.CodeHoldExpired},
		{"not found", apperrors.NotFoundWithID("Booking", "b1"), http.StatusNotFound, apperrors.CodeNotFound},
		{"validation", apperrors.Validation("bad", nil), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"plain error", errors.New("mongo exploded"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Error, "mongo exploded")
		})
	}
}

func TestWriteJSON_ReportsEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteJSON(rec, http.StatusOK, map[string]any{"ch": make(chan int)})
	assert.Error(t, err)

	assert.NoError(t, WriteSuccess(httptest.NewRecorder(), map[string]int{"n": 1}))
}

func TestExtractLimitOffset(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?limit=5&offset=10", nil)
	limit, offset, err := ExtractLimitOffset(r)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)
	assert.Equal(t, int64(10), offset)

	r = httptest.NewRequest(http.MethodGet, "/x?limit=abc", nil)
	_, _, err = ExtractLimitOffset(r)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Units int `json:"units"`
	}
	r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"units":2,"extra":true}`))
	err := DecodeJSON(r, &dst)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

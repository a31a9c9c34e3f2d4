package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"plottwist/domain/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "validation", err: apperrors.NewValidationError("bad input"), wantStatus: http.StatusBadRequest, wantCode: "validation"},
		{name: "insufficient funds", err: apperrors.ErrInsufficientFunds, wantStatus: http.StatusBadRequest, wantCode: "insufficient_funds"},
		{name: "market expired", err: apperrors.ErrMarketExpired, wantStatus: http.StatusBadRequest, wantCode: "market_expired"},
		{name: "already resolved", err: apperrors.ErrAlreadyResolved, wantStatus: http.StatusBadRequest, wantCode: "already_resolved"},
		{name: "already responded", err: apperrors.ErrAlreadyResponded, wantStatus: http.StatusBadRequest, wantCode: "already_responded"},
		{name: "bonus already claimed", err: apperrors.ErrBonusAlreadyClaimed, wantStatus: http.StatusBadRequest, wantCode: "bonus_already_claimed"},
		{name: "dispute window closed", err: apperrors.ErrDisputeWindowClosed, wantStatus: http.StatusBadRequest, wantCode: "dispute_window_closed"},
		{name: "not authorized", err: apperrors.ErrNotAuthorized, wantStatus: http.StatusForbidden, wantCode: "not_authorized"},
		{name: "not found", err: apperrors.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "wrapped sentinel", err: errors.Join(errors.New("context"), apperrors.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "not_found"},
		{name: "unexpected error", err: errors.New("pg connection refused"), wantStatus: http.StatusInternalServerError, wantCode: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}

func TestRespondError_CreatorBetLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondError(c, &apperrors.CreatorBetLimitError{Max: 200, Current: 150})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "creator_bet_limit", body["code"])
	assert.Equal(t, float64(200), body["max"])
	assert.Equal(t, float64(150), body["current"])
}

func TestRespondError_InternalErrorDoesNotLeak(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	respondError(c, errors.New("password=hunter2 connection refused"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
}

package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/auth"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "nature", Message: "nature is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin without direction", auth.ErrDirectionRequired, http.StatusForbidden, "FORBIDDEN"},
		{"not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("approve 12: %w", leave.ErrLeaveRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"already decided", leave.ErrLeaveRequestAlreadyProcessed, http.StatusBadRequest, "INVALID_STATE"},
		{"out of scope", leave.ErrOutOfScope, http.StatusForbidden, "FORBIDDEN"},
		{"storage", errors.New("connection reset by peer"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decodeBody(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_HidesStorageDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))

	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "start_date", Message: "start_date must be YYYY-MM-DD"},
		{Field: "end_date", Message: "end_date must not be before start_date"},
	})

	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Len(t, resp.Error.Details, 2)
	assert.Contains(t, resp.Error.Details, "end_date")
}

func TestWriteJSON_EncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeBody(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ENCODING_ERROR", resp.Error.Code)
}

func TestFile_EscapesFileName(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, "application/pdf", "congé annuel.pdf", []byte("%PDF"), false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "congé annuel.pdf", params["filename"])
}

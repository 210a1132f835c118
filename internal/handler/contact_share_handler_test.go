package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contactportal/backend/internal/access"
	"github.com/contactportal/backend/internal/model"
	"github.com/contactportal/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareMux(h *ContactShareHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/contacts/{id}/share", h.Share)
	return mux
}

func TestContactShareHandler_Share(t *testing.T) {
	sharer := &mockContactSharer{
		shareURLFunc: func(_ context.Context, actor *model.User, contactID int64) (string, error) {
			assert.Same(t, internalUser, actor)
			return "/my/contacts/6?access_token=abc", nil
		},
	}

	rec := httptest.NewRecorder()
	shareMux(NewContactShareHandler(sharer)).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/contacts/6/share", nil), internalUser, ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "/my/contacts/6?access_token=abc", body["url"])
}

func TestContactShareHandler_Errors(t *testing.T) {
	tests := map[string]struct {
		err      error
		wantCode int
	}{
		"denied":  {err: &access.Error{Model: model.ContactModelName, Operation: access.Write}, wantCode: http.StatusForbidden},
		"missing": {err: service.ErrMissing, wantCode: http.StatusNotFound},
		"other":   {err: errors.New("db down"), wantCode: http.StatusInternalServerError},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sharer := &mockContactSharer{
				shareURLFunc: func(context.Context, *model.User, int64) (string, error) { return "", tt.err },
			}
			rec := httptest.NewRecorder()
			shareMux(NewContactShareHandler(sharer)).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/contacts/6/share", nil), portalUser, ""))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestContactShareHandler_Unauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	shareMux(NewContactShareHandler(&mockContactSharer{})).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/contacts/6/share", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

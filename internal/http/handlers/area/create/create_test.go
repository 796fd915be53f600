package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Create(ctx context.Context, nome string) (int64, error) {
	args := m.Called(ctx, nome)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockID         int64
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "created",
			requestBody:    Request{Nome: "Tecnologia"},
			mockID:         1,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json",
			requestBody:    "{",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "nome too short",
			requestBody:    Request{Nome: "x"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Nome is too short",
		},
		{
			name:           "duplicate nome",
			requestBody:    Request{Nome: "Tecnologia"},
			mockErr:        models.ErrConflict,
			wantStatusCode: http.StatusConflict,
			wantError:      "conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(ServiceMock)
			handler := New(newNoopLogger(), svcMock)

			if tt.mockID != 0 || tt.mockErr != nil {
				svcMock.On("Create", mock.Anything, tt.requestBody.(Request).Nome).
					Return(tt.mockID, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/areas", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
				return
			}

			assert.Equal(t, "OK", got["status"])
			data := got["data"].(map[string]any)
			assert.Equal(t, float64(tt.mockID), data["id"])
		})
	}
}

package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/meuprojeto/portal-estagios/internal/models"
	authservice "github.com/meuprojeto/portal-estagios/internal/services/auth"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) Login(ctx context.Context, email, senha string) (*authservice.LoginResult, error) {
	args := m.Called(ctx, email, senha)
	result, _ := args.Get(0).(*authservice.LoginResult)
	return result, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockResult     *authservice.LoginResult
		mockErr        error
		wantStatusCode int
		wantData       map[string]any
		wantError      string
	}{
		{
			name:        "valid login",
			requestBody: Request{Email: "aluno@teste.com", Senha: "senha123"},
			mockResult: &authservice.LoginResult{
				Token: "tok",
				Tipo:  "Bearer",
				ID:    3,
				Nome:  "Aluno Teste",
				Email: "aluno@teste.com",
				Role:  models.RoleStudent,
			},
			wantStatusCode: http.StatusOK,
			wantData: map[string]any{
				"token": "tok",
				"tipo":  "Bearer",
				"id":    float64(3),
				"nome":  "Aluno Teste",
				"email": "aluno@teste.com",
				"role":  "STUDENT",
			},
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "missing senha",
			requestBody:    Request{Email: "aluno@teste.com"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Senha is a required field",
		},
		{
			name:           "wrong credentials",
			requestBody:    Request{Email: "aluno@teste.com", Senha: "senha errada"},
			mockErr:        models.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
		},
		{
			name:           "missing role profile",
			requestBody:    Request{Email: "aluno@teste.com", Senha: "senha123"},
			mockErr:        models.ErrProfileNotFound,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "role profile not found",
		},
		{
			name:           "storage blows up",
			requestBody:    Request{Email: "aluno@teste.com", Senha: "senha123"},
			mockErr:        errors.New("pq: connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(AuthServiceMock)
			handler := New(newNoopLogger(), svcMock)

			if tt.mockResult != nil || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				svcMock.On("Login", mock.Anything, req.Email, req.Senha).
					Return(tt.mockResult, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(bodyBytes))
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
			data, ok := got["data"].(map[string]any)
			assert.True(t, ok)
			for k, v := range tt.wantData {
				assert.Equal(t, v, data[k])
			}
			svcMock.AssertExpectations(t)
		})
	}
}

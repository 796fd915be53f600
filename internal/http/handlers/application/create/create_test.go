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
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/meuprojeto/portal-estagios/internal/http/middlewarectx"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Create(ctx context.Context, callerEmail string, jobOfferID int64) (int64, error) {
	args := m.Called(ctx, callerEmail, jobOfferID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ServiceMock) Read(ctx context.Context, callerEmail string, callerRole models.Role, id int64) (*models.Application, error) {
	args := m.Called(ctx, callerEmail, callerRole, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = context.WithValue(ctx, middlewarectx.User, "aluno@teste.com")
	ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleStudent)
	return req.WithContext(ctx)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	t.Run("applies to active offer", func(t *testing.T) {
		svcMock := new(ServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("Create", mock.Anything, "aluno@teste.com", int64(10)).
			Return(int64(7), nil).Once()
		svcMock.On("Read", mock.Anything, "aluno@teste.com", models.RoleStudent, int64(7)).
			Return(&models.Application{
				ID:            7,
				StudentID:     3,
				JobOfferID:    10,
				Status:        models.StatusPendente,
				DataInscricao: time.Now(),
			}, nil).Once()

		body, _ := json.Marshal(Request{JobOfferID: 10})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(body))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data := got["data"].(map[string]any)
		assert.Equal(t, float64(7), data["id"])
		assert.Equal(t, "PENDENTE", data["status"])
		svcMock.AssertExpectations(t)
	})

	t.Run("inactive offer is rejected", func(t *testing.T) {
		svcMock := new(ServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("Create", mock.Anything, "aluno@teste.com", int64(10)).
			Return(int64(0), models.ErrInactiveOffer).Once()

		body, _ := json.Marshal(Request{JobOfferID: 10})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "cannot apply to an inactive job offer", got["error"])
	})

	t.Run("second submission conflicts", func(t *testing.T) {
		svcMock := new(ServiceMock)
		handler := New(newNoopLogger(), svcMock)

		svcMock.On("Create", mock.Anything, "aluno@teste.com", int64(10)).
			Return(int64(0), models.ErrConflict).Once()

		body, _ := json.Marshal(Request{JobOfferID: 10})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest(body))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing offer id", func(t *testing.T) {
		svcMock := new(ServiceMock)
		handler := New(newNoopLogger(), svcMock)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, newRequest([]byte(`{}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

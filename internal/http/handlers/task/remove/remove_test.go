package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// MockService реализует интерфейс remove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, callerUID, id string) error {
	args := m.Called(ctx, callerUID, id)
	return args.Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		taskID         string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное удаление задачи",
			taskID:  "task-1",
			userUID: "user_1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "user_1", "task-1").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"task deleted"`,
		},
		{
			name:           "отсутствует авторизация",
			taskID:         "task-1",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:    "задача не найдена",
			taskID:  "missing",
			userUID: "user_1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "user_1", "missing").
					Return(models.ErrTaskNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"task not found"}`,
		},
		{
			name:    "чужая задача",
			taskID:  "task-2",
			userUID: "user_1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "user_1", "task-2").
					Return(models.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:    "ошибка сервиса",
			taskID:  "task-1",
			userUID: "user_1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, "user_1", "task-1").
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not remove task"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/api/todos/"+tt.taskID, nil)

			ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.taskID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}

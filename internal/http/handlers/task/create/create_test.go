package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, userUID, title string) (*models.Task, error) {
	args := m.Called(ctx, userUID, title)
	res, _ := args.Get(0).(*models.Task)
	return res, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание задачи",
			requestBody: models.DummyCreateTask{Title: "buy milk"},
			userUID:     "user_1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user_1", "buy milk").
					Return(&models.Task{ID: "task-1", Title: "buy milk", UserUID: "user_1"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"title":"buy milk"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			userUID:        "user_1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "пустой заголовок",
			requestBody:    models.DummyCreateTask{Title: ""},
			userUID:        "user_1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Title is a required field`,
		},
		{
			name:           "отсутствует авторизация",
			requestBody:    models.DummyCreateTask{Title: "buy milk"},
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "превышен лимит бесплатного тарифа",
			requestBody: models.DummyCreateTask{Title: "buy milk"},
			userUID:     "user_1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user_1", "buy milk").
					Return(nil, models.ErrQuotaExceeded)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `free tier task limit reached`,
		},
		{
			name:        "пользователь не найден",
			requestBody: models.DummyCreateTask{Title: "buy milk"},
			userUID:     "ghost",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "ghost", "buy milk").
					Return(nil, models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: models.DummyCreateTask{Title: "buy milk"},
			userUID:     "user_1",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "user_1", "buy milk").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not create task"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/todos", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}

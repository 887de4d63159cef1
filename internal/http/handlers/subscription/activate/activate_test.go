package activate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/freemium-todo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/freemium-todo/internal/models"
)

// MockService реализует интерфейс activate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Activate(ctx context.Context, uid string) (*models.SubscriptionStatus, error) {
	args := m.Called(ctx, uid)
	res, _ := args.Get(0).(*models.SubscriptionStatus)
	return res, args.Error(1)
}

func TestActivateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ends := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная активация",
			userUID: "user_1",
			setupMock: func(m *MockService) {
				m.On("Activate", mock.Anything, "user_1").Return(&models.SubscriptionStatus{
					IsSubscribed:     true,
					SubscriptionEnds: &ends,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isSubscribed":true`,
		},
		{
			name:           "отсутствует авторизация",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:    "пользователь не найден",
			userUID: "ghost",
			setupMock: func(m *MockService) {
				m.On("Activate", mock.Anything, "ghost").
					Return(nil, models.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"user not found"}`,
		},
		{
			name:    "ошибка сервиса",
			userUID: "user_1",
			setupMock: func(m *MockService) {
				m.On("Activate", mock.Anything, "user_1").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not activate subscription"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/subscription", nil)
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

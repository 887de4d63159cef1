// Package identity реализует клиента внешнего провайдера идентификации.
//
// Провайдер владеет жизненным циклом пользователей и сессий: приложение
// только проверяет сессионный токен (HS256) и запрашивает роль пользователя
// через API провайдера. Ответы о роли кешируются в Redis с небольшим TTL,
// так как роль запрашивается на каждом запросе.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/freemium-todo/internal/config"
	"github.com/magabrotheeeer/freemium-todo/internal/lib/sl"
)

// Роли, которые возвращает провайдер.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrInvalidSession сессионный токен отсутствует, просрочен или не прошёл проверку подписи.
var ErrInvalidSession = errors.New("invalid session token")

// Cache описывает методы кеширования ответов провайдера.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Client клиент провайдера идентификации.
type Client struct {
	apiURL        string
	apiKey        string
	sessionSecret string
	roleCacheTTL  time.Duration
	httpClient    *http.Client
	cache         Cache
	log           *slog.Logger
}

// NewClient создаёт клиента провайдера. cache может быть nil, тогда роли не кешируются.
func NewClient(cfg config.IdentityProvider, cache Cache, log *slog.Logger) *Client {
	return &Client{
		apiURL:        cfg.APIURL,
		apiKey:        cfg.APIKey,
		sessionSecret: cfg.SessionSecret,
		roleCacheTTL:  cfg.RoleCacheTTL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		cache:         cache,
		log:           log,
	}
}

// VerifySession проверяет сессионный токен и возвращает идентификатор
// пользователя из claim sub. Любая ошибка проверки означает отсутствие
// аутентифицированного вызывающего.
func (c *Client) VerifySession(_ context.Context, tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.sessionSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// metadataResponse ответ провайдера на запрос метаданных пользователя.
type metadataResponse struct {
	Role string `json:"role"`
}

// GetRole возвращает роль пользователя по данным провайдера. Пустая роль в
// метаданных означает обычного пользователя.
func (c *Client) GetRole(ctx context.Context, userUID string) (string, error) {
	const op = "identity.GetRole"

	cacheKey := "identity:role:" + userUID
	if c.cache != nil {
		var cached string
		found, err := c.cache.Get(cacheKey, &cached)
		if err != nil {
			c.log.Warn("role cache lookup failed", slog.String("key", cacheKey), sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"/v1/users/"+userUID+"/metadata", nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var meta metadataResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	role := meta.Role
	if role == "" {
		role = RoleUser
	}

	if c.cache != nil {
		if err := c.cache.Set(cacheKey, role, c.roleCacheTTL); err != nil {
			c.log.Warn("failed to cache role", slog.String("key", cacheKey), sl.Err(err))
		}
	}
	return role, nil
}

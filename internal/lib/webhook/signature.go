// Package webhook реализует проверку подписи входящих webhook-сообщений
// провайдера идентификации (схема svix: HMAC-SHA256 по строке
// "id.timestamp.body", секрет с префиксом whsec_ в base64, заголовок с
// подписями вида "v1,<base64>" через пробел).
//
// Проверка выполняется до какого-либо доверия к телу запроса: отсутствие
// заголовков, устаревший timestamp или несовпадение подписи означают отказ.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance допустимое расхождение timestamp сообщения с текущим временем.
const DefaultTolerance = 5 * time.Minute

var (
	// ErrMissingHeaders отсутствует один из обязательных заголовков подписи.
	ErrMissingHeaders = errors.New("missing webhook signature headers")
	// ErrInvalidSignature ни одна из переданных подписей не совпала.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrStaleTimestamp timestamp сообщения вне допустимого окна.
	ErrStaleTimestamp = errors.New("webhook timestamp outside tolerance")
)

// Verifier проверяет подписи сообщений одним общим секретом.
type Verifier struct {
	key       []byte
	tolerance time.Duration
}

// NewVerifier создаёт Verifier из секрета провайдера. Префикс whsec_
// отбрасывается, остаток декодируется из base64.
func NewVerifier(secret string) (*Verifier, error) {
	const op = "webhook.NewVerifier"
	raw := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Verifier{key: key, tolerance: DefaultTolerance}, nil
}

// Sign подписывает содержимое сообщения; возвращает подпись в формате
// заголовка "v1,<base64>". Используется провайдером и тестами.
func (v *Verifier) Sign(id, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(payload)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify проверяет подпись сообщения. id, timestamp и signatures берутся из
// заголовков запроса, payload — сырое тело. Сравнение подписи устойчиво ко
// времени выполнения.
func (v *Verifier) Verify(payload []byte, id, timestamp, signatures string, now time.Time) error {
	if id == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrStaleTimestamp
	}
	sent := time.Unix(ts, 0)
	if diff := now.Sub(sent); diff > v.tolerance || diff < -v.tolerance {
		return ErrStaleTimestamp
	}

	expected := v.Sign(id, timestamp, payload)
	expectedSig := strings.TrimPrefix(expected, "v1,")

	// Заголовок может содержать несколько подписей для ротации секрета.
	for _, candidate := range strings.Split(signatures, " ") {
		version, sig, found := strings.Cut(candidate, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expectedSig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

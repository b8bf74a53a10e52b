// Package testutil содержит вспомогательные функции для тестов
package testutil

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyNoLeaks проверяет, что тест не оставил запущенных горутин.
// Вызывается через defer в начале теста.
func VerifyNoLeaks(t *testing.T, opts ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, opts...)
}

// IgnoreHTTPGoroutines возвращает опции goleak для фоновых горутин net/http,
// которые остаются в пуле соединений после httptest.Server.
func IgnoreHTTPGoroutines() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	}
}

package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

type statusErr struct{ code int }

func (e *statusErr) Error() string       { return "status error" }
func (e *statusErr) HTTPStatusCode() int { return e.code }

func TestIsRetryableError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"http 429", &statusErr{code: 429}, true},
		{"http 408", &statusErr{code: 408}, true},
		{"http 503", &statusErr{code: 503}, true},
		{"http 400", &statusErr{code: 400}, false},
		{"http 404", &statusErr{code: 404}, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryableError(tc.err); got != tc.want {
				t.Fatalf("IsRetryableError(%v)=%v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetryAfterDuration(t *testing.T) {
	t.Parallel()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 3*time.Second {
		t.Fatalf("header value ignored: got=%v", got)
	}
	if got := RetryAfterDuration(resp, time.Second, 2*time.Second); got != 2*time.Second {
		t.Fatalf("max not applied: got=%v", got)
	}
	if got := RetryAfterDuration(nil, time.Second, 10*time.Second); got != time.Second {
		t.Fatalf("fallback not applied: got=%v", got)
	}
}

func TestJitterSleep(t *testing.T) {
	t.Parallel()

	if got := JitterSleep(0); got != 0 {
		t.Fatalf("zero base should not sleep, got %v", got)
	}
	base := time.Second
	for i := 0; i < 50; i++ {
		got := JitterSleep(base)
		if got < 800*time.Millisecond || got > 1200*time.Millisecond {
			t.Fatalf("jitter out of band: %v", got)
		}
	}
}

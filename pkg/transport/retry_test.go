package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher 호출 횟수를 기록하며 준비된 결과를 순서대로 반환하는 테스트용 Fetcher입니다.
type fakeFetcher struct {
	attempts  int
	responses []fakeResult
}

type fakeResult struct {
	resp *http.Response
	err  error
}

func (f *fakeFetcher) Do(_ *http.Request) (*http.Response, error) {
	idx := f.attempts
	f.attempts++

	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx].resp, f.responses[idx].err
}

func okResponse() *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader("{}")),
		Header:     http.Header{},
	}
}

// newFastRetryFetcher 테스트 속도를 위해 정규화를 우회하고 밀리초 단위 대기 시간을 사용하는 RetryFetcher를 생성합니다.
func newFastRetryFetcher(delegate Fetcher, maxRetries int) *RetryFetcher {
	return &RetryFetcher{
		delegate:      delegate,
		maxRetries:    maxRetries,
		minRetryDelay: time.Millisecond,
		maxRetryDelay: 10 * time.Millisecond,
	}
}

func TestNormalizeMaxRetries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"Negative", -1, 0},
		{"Zero", 0, 0},
		{"InRange", 3, 3},
		{"OverMax", 100, maxAllowedRetries},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, normalizeMaxRetries(tt.input))
		})
	}
}

func TestNormalizeRetryDelays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		min         time.Duration
		max         time.Duration
		expectedMin time.Duration
		expectedMax time.Duration
	}{
		{"SubSecondMinCorrected", 100 * time.Millisecond, time.Minute, time.Second, time.Minute},
		{"ZeroMaxUsesDefault", 2 * time.Second, 0, 2 * time.Second, defaultMaxRetryDelay},
		{"MaxBelowMinCorrected", 5 * time.Second, 2 * time.Second, 5 * time.Second, 5 * time.Second},
		{"ValidRangePreserved", 2 * time.Second, 20 * time.Second, 2 * time.Second, 20 * time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotMin, gotMax := normalizeRetryDelays(tt.min, tt.max)

			assert.Equal(t, tt.expectedMin, gotMin)
			assert.Equal(t, tt.expectedMax, gotMax)
		})
	}
}

func TestIsIdempotentMethod(t *testing.T) {
	t.Parallel()

	idempotent := []string{http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete}
	for _, method := range idempotent {
		assert.True(t, isIdempotentMethod(method), method)
	}

	nonIdempotent := []string{http.MethodPost, http.MethodPatch, http.MethodConnect}
	for _, method := range nonIdempotent {
		assert.False(t, isIdempotentMethod(method), method)
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	t.Run("Seconds", func(t *testing.T) {
		t.Parallel()

		delay, ok := parseRetryAfter("120")

		require.True(t, ok)
		assert.Equal(t, 120*time.Second, delay)
	})

	t.Run("HTTPDateInFuture", func(t *testing.T) {
		t.Parallel()

		future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
		delay, ok := parseRetryAfter(future)

		require.True(t, ok)
		assert.Greater(t, delay, 20*time.Second)
		assert.LessOrEqual(t, delay, 30*time.Second)
	})

	t.Run("HTTPDateInPast", func(t *testing.T) {
		t.Parallel()

		past := time.Now().Add(-time.Hour).UTC().Format(http.TimeFormat)
		delay, ok := parseRetryAfter(past)

		require.True(t, ok)
		assert.Equal(t, time.Duration(0), delay)
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Parallel()

		_, ok := parseRetryAfter("잘못된 값")
		assert.False(t, ok)

		_, ok = parseRetryAfter("")
		assert.False(t, ok)
	})
}

func TestIsRetriable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"NilError", nil, false},
		{"ContextCanceled", context.Canceled, false},
		{"UnavailableError", apperrors.New(apperrors.Unavailable, "일시적 오류"), true},
		{"InvalidInput", apperrors.New(apperrors.InvalidInput, "잘못된 요청"), false},
		{"Unauthorized", apperrors.New(apperrors.Unauthorized, "인증 실패"), false},
		{"NotFound", apperrors.New(apperrors.NotFound, "없음"), false},
		{"Conflict", apperrors.New(apperrors.Conflict, "충돌"), false},
		{"ParsingFailed", apperrors.New(apperrors.ParsingFailed, "파싱 실패"), false},
		{"GenericError", errors.New("connection refused"), true},
		{
			name: "NotImplementedExcluded",
			err: apperrors.Wrap(&HTTPStatusError{
				StatusCode: http.StatusNotImplemented,
				Status:     "501 Not Implemented",
				Header:     http.Header{},
			}, apperrors.Unavailable, "서버 오류"),
			expected: false,
		},
		{
			name: "ServiceUnavailableRetried",
			err: apperrors.Wrap(&HTTPStatusError{
				StatusCode: http.StatusServiceUnavailable,
				Status:     "503 Service Unavailable",
				Header:     http.Header{},
			}, apperrors.Unavailable, "서버 오류"),
			expected: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isRetriable(tt.err))
		})
	}
}

func TestRetryFetcher_Do(t *testing.T) {
	t.Parallel()

	t.Run("SucceedsAfterTransientErrors", func(t *testing.T) {
		t.Parallel()

		delegate := &fakeFetcher{
			responses: []fakeResult{
				{err: apperrors.New(apperrors.Unavailable, "일시적 오류 1")},
				{err: apperrors.New(apperrors.Unavailable, "일시적 오류 2")},
				{resp: okResponse()},
			},
		}
		fetcher := newFastRetryFetcher(delegate, 3)

		req, err := http.NewRequest(http.MethodGet, "http://store.example.com/api/products", nil)
		require.NoError(t, err)

		resp, err := fetcher.Do(req)

		require.NoError(t, err)
		require.NotNil(t, resp)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 3, delegate.attempts)
	})

	t.Run("MaxRetriesExceeded", func(t *testing.T) {
		t.Parallel()

		delegate := &fakeFetcher{
			responses: []fakeResult{
				{err: apperrors.New(apperrors.Unavailable, "계속되는 오류")},
			},
		}
		fetcher := newFastRetryFetcher(delegate, 2)

		req, err := http.NewRequest(http.MethodGet, "http://store.example.com/api/products", nil)
		require.NoError(t, err)

		_, err = fetcher.Do(req)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
		assert.Contains(t, err.Error(), "최대 재시도 횟수를 초과했습니다")
		assert.Equal(t, 3, delegate.attempts, "첫 시도 + 재시도 2회")
	})

	t.Run("NonRetriableErrorStopsImmediately", func(t *testing.T) {
		t.Parallel()

		delegate := &fakeFetcher{
			responses: []fakeResult{
				{err: apperrors.New(apperrors.NotFound, "없는 리소스")},
			},
		}
		fetcher := newFastRetryFetcher(delegate, 3)

		req, err := http.NewRequest(http.MethodGet, "http://store.example.com/api/products", nil)
		require.NoError(t, err)

		_, err = fetcher.Do(req)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
		assert.Equal(t, 1, delegate.attempts)
	})

	t.Run("NonIdempotentMethodNotRetried", func(t *testing.T) {
		t.Parallel()

		delegate := &fakeFetcher{
			responses: []fakeResult{
				{err: apperrors.New(apperrors.Unavailable, "일시적 오류")},
			},
		}
		fetcher := newFastRetryFetcher(delegate, 3)

		req, err := http.NewRequest(http.MethodPost, "http://store.example.com/api/cart/items", strings.NewReader(`{}`))
		require.NoError(t, err)

		_, err = fetcher.Do(req)

		require.Error(t, err)
		assert.Equal(t, 1, delegate.attempts, "POST는 재시도 없이 즉시 실패해야 합니다")
	})

	t.Run("ContextCancelStopsRetry", func(t *testing.T) {
		t.Parallel()

		delegate := &fakeFetcher{
			responses: []fakeResult{
				{err: apperrors.New(apperrors.Unavailable, "일시적 오류")},
			},
		}
		fetcher := &RetryFetcher{
			delegate:      delegate,
			maxRetries:    3,
			minRetryDelay: time.Minute, // 취소가 대기를 중단시키는지 확인하기 위해 긴 대기 시간 사용
			maxRetryDelay: time.Minute,
		}

		ctx, cancel := context.WithCancel(context.Background())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://store.example.com/api/products", nil)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		_, err = fetcher.Do(req)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("RetryAfterExceedsMaxDelay", func(t *testing.T) {
		t.Parallel()

		header := http.Header{}
		header.Set("Retry-After", "3600")

		statusErr := &HTTPStatusError{
			StatusCode: http.StatusTooManyRequests,
			Status:     "429 Too Many Requests",
			Header:     header,
		}

		delegate := &fakeFetcher{
			responses: []fakeResult{
				{err: apperrors.Wrap(statusErr, apperrors.Unavailable, "요청 제한")},
			},
		}
		fetcher := newFastRetryFetcher(delegate, 3)

		req, err := http.NewRequest(http.MethodGet, "http://store.example.com/api/products", nil)
		require.NoError(t, err)

		_, err = fetcher.Do(req)

		require.Error(t, err)
		assert.Equal(t, 1, delegate.attempts, "Retry-After가 상한을 초과하면 재시도를 포기해야 합니다")
	})
}

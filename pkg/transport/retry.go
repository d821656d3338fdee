package transport

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
)

const (
	// minAllowedRetries 허용 가능한 최소 재시도 횟수입니다. (0: 재시도 안 함)
	minAllowedRetries = 0

	// maxAllowedRetries 허용 가능한 최대 재시도 횟수입니다.
	maxAllowedRetries = 10

	// defaultMaxRetryDelay 사용자가 재시도 대기 시간의 최대값을 지정하지 않았을 때 사용되는 기본값(30초)입니다.
	defaultMaxRetryDelay = 30 * time.Second
)

// RetryFetcher HTTP 요청 실패 시 자동으로 재시도를 수행하는 미들웨어입니다.
//
// 주요 특징:
//   - 지수 백오프(Exponential Backoff): 재시도 간격을 지수적으로 증가시켜 서버 부하를 분산
//   - Jitter: 무작위 지연을 추가하여 동시 다발적인 재시도로 인한 "Thundering Herd" 문제 방지
//   - Retry-After 헤더 지원: 서버가 명시한 재시도 시간을 우선적으로 준수
//   - 멱등성 검증: 비멱등 메서드(POST, PATCH)는 자동으로 재시도 제외
//   - 컨텍스트 취소 감지: 사용자 요청 취소 시 즉시 재시도 중단
type RetryFetcher struct {
	delegate Fetcher

	// maxRetries 최대 재시도 횟수입니다. (minAllowedRetries ~ maxAllowedRetries 범위로 정규화됨)
	maxRetries int

	// minRetryDelay 재시도 대기 시간의 최소값입니다. (지수 백오프의 시작점, 항상 1초 이상으로 보정됨)
	minRetryDelay time.Duration

	// maxRetryDelay 재시도 대기 시간의 최대값입니다. (지수 백오프 증가 시 상한선)
	maxRetryDelay time.Duration
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher 새로운 RetryFetcher 인스턴스를 생성합니다.
func NewRetryFetcher(delegate Fetcher, maxRetries int, minRetryDelay, maxRetryDelay time.Duration) *RetryFetcher {
	maxRetries = normalizeMaxRetries(maxRetries)
	minRetryDelay, maxRetryDelay = normalizeRetryDelays(minRetryDelay, maxRetryDelay)

	return &RetryFetcher{
		delegate:      delegate,
		maxRetries:    maxRetries,
		minRetryDelay: minRetryDelay,
		maxRetryDelay: maxRetryDelay,
	}
}

// Do HTTP 요청을 수행하며, 실패 시 설정된 정책에 따라 자동으로 재시도합니다.
//
// 재시도 대상:
//   - 네트워크 오류 (타임아웃, 연결 실패 등)
//   - 일시적 서버 오류 (apperrors.Unavailable로 분류된 5xx, 429 등)
//
// 재시도 제외:
//   - 컨텍스트 취소 (context.Canceled)
//   - 비멱등 메서드 (POST, PATCH)
//   - 클라이언트 에러 (InvalidInput, Unauthorized, Forbidden, NotFound, Conflict)
//
// 주의사항:
//   - 요청 객체의 Body가 있는 경우 재시도를 위해 GetBody 필드가 설정되어 있어야 합니다.
//   - 반환된 응답 객체의 Body는 호출자가 반드시 닫아야 합니다.
func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	effectiveMaxRetries := f.maxRetries

	// [사전 검증 1] 멱등성 확인
	// 비멱등 메서드(POST, PATCH)는 재시도 시 데이터 중복 생성/수정 위험이 있으므로 재시도 비활성화!!
	if !isIdempotentMethod(req.Method) {
		effectiveMaxRetries = 0
	}

	// [사전 검증 2] 요청 객체의 Body 재구성 가능 여부 확인
	// 재시도 시 요청 객체의 Body를 다시 읽어야 하므로, GetBody가 없으면 데이터 유실 위험이 있습니다.
	// 따라서 재시도 기능만 비활성화하고 요청 처리는 계속 진행합니다.
	if req.Body != nil && req.GetBody == nil && effectiveMaxRetries > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"url":         redactURL(req.URL),
			"method":      req.Method,
			"max_retries": f.maxRetries,
		}).Warn("재시도 비활성화: 요청 본문 재생성 불가 (GetBody nil)")

		effectiveMaxRetries = 0
	}

	var lastErr error // 마지막 시도에서 발생한 에러

	// [재시도 루프] 첫 번째 시도와 재시도를 포함하여 최대 `effectiveMaxRetries + 1`회 반복합니다.
	for i := 0; i <= effectiveMaxRetries; i++ {
		// [재시도 대기]
		// 첫 번째 시도(i=0)가 실패한 경우, 다음 시도 전에 일정 시간 대기합니다.
		if i > 0 {
			// [단계 1: 지수 백오프 계산]
			// 재시도 횟수가 늘어날수록 대기 시간을 2배씩 증가시켜 서버 부하를 줄입니다.
			delay := f.minRetryDelay * time.Duration(1<<(i-1))
			if delay > f.maxRetryDelay {
				delay = f.maxRetryDelay
			}

			// [단계 2: 지터(Jitter) 적용]
			// 모든 클라이언트가 동시에 재시도하는 것을 방지하기 위해 무작위성을 추가합니다.
			if delay > 0 {
				delay = time.Duration(rand.Int64N(int64(delay) + 1))
			}

			// [단계 3: Retry-After 헤더 우선 적용]
			// 서버가 재시도 가능한 시점을 명시한 경우, 계산된 백오프 대신 해당 값을 우선 사용합니다.
			// 단, 요구된 대기 시간이 최대 재시도 대기 시간(maxRetryDelay)을 초과하면 재시도를 포기합니다.
			var retryAfter string
			var explicitDelayFound bool

			var statusErr *HTTPStatusError
			if errors.As(lastErr, &statusErr) {
				retryAfter = statusErr.Header.Get("Retry-After")
			}

			if retryAfter != "" {
				if retryAfterDelay, ok := parseRetryAfter(retryAfter); ok {
					if retryAfterDelay > f.maxRetryDelay {
						return nil, newErrRetryAfterExceeded(retryAfterDelay.String(), f.maxRetryDelay.String())
					}

					delay = retryAfterDelay
					explicitDelayFound = true
				}
			}

			// [단계 4: 최소 재시도 대기 시간 보장]
			// 지터 적용으로 대기 시간이 지나치게 짧아지는 것을 방지합니다.
			if !explicitDelayFound && delay < time.Millisecond {
				delay = f.minRetryDelay
			}

			fields := applog.Fields{
				"url":               redactURL(req.URL),
				"retry":             i,
				"max_retries":       f.maxRetries,
				"remaining_retries": effectiveMaxRetries - i,
				"delay":             delay.String(),
			}
			if lastErr != nil {
				fields["error"] = lastErr.Error()
			}
			if retryAfter != "" {
				fields["retry_after_header"] = retryAfter
			}

			applog.WithComponentAndFields(component, fields).
				Warn("재시도 대기 중: 일시적 오류로 인해 요청 재시도를 준비합니다")

			// [단계 5: 재시도 대기 및 취소 감지]
			timer := time.NewTimer(delay)

			select {
			case <-req.Context().Done():
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}

				return nil, req.Context().Err()

			case <-timer.C:
			}
		}

		// [요청 본문 재생성] 이전 시도에서 소진된 Body를 다시 읽을 수 있도록 복구
		// 원본 요청 객체를 변경하지 않기 위해 복제본 사용
		if i > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, newErrGetBodyFailed(err)
			}

			req = req.Clone(req.Context())
			req.Body = body
		}

		// [HTTP 요청 실행]
		resp, err := f.delegate.Do(req)
		if err == nil {
			return resp, nil
		}

		// [에러 처리 1: 컨텍스트 타임아웃 확인]
		// 전체 요청 제한 시간(Deadline)이 초과된 경우, 재시도를 해도 성공할 수 없으므로 즉시 중단합니다.
		if errors.Is(err, context.DeadlineExceeded) && req.Context().Err() != nil {
			if resp != nil && resp.Body != nil {
				resp.Body.Close()
			}

			return nil, err
		}

		// [에러 처리 2: 재시도 가능성 판단]
		if !isRetriable(err) {
			if resp != nil && resp.Body != nil {
				if errors.Is(err, context.Canceled) {
					// 컨텍스트가 취소된 경우, 빠른 반환을 위해 drain 과정을 생략하고 즉시 닫습니다.
					resp.Body.Close()
				} else {
					// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
					drainAndCloseBody(resp.Body)
				}
			}

			return nil, err
		}

		// [재시도 준비: 상태 저장 및 리소스 정리]
		lastErr = err
		if resp != nil {
			// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
			drainAndCloseBody(resp.Body)
		}
	}

	// [최종 실패] 모든 재시도 횟수를 소진한 경우입니다.
	return nil, newErrMaxRetriesExceeded(lastErr)
}

// normalizeMaxRetries 최대 재시도 횟수를 정규화합니다.
//   - 허용 범위 미만: 최소값으로 보정
//   - 허용 범위 초과: 최대값으로 제한
func normalizeMaxRetries(maxRetries int) int {
	if maxRetries < minAllowedRetries {
		return minAllowedRetries
	}

	// 허용 범위 초과 시 최대값으로 제한 (과도한 재시도로 인한 지연 방지)
	if maxRetries > maxAllowedRetries {
		return maxAllowedRetries
	}

	return maxRetries
}

// normalizeRetryDelays 재시도 대기 시간의 최소값과 최대값을 정규화합니다.
//   - minRetryDelay 1초 미만: 1초로 보정
//   - maxRetryDelay 0: 기본값(30초)으로 보정
//   - maxRetryDelay < minRetryDelay: minRetryDelay로 보정
func normalizeRetryDelays(minRetryDelay, maxRetryDelay time.Duration) (time.Duration, time.Duration) {
	if minRetryDelay < time.Second {
		// 너무 짧은 대기 시간(1초 미만)은 서버에 부담을 줄 수 있으므로 1초로 보정
		minRetryDelay = 1 * time.Second
	}

	if maxRetryDelay == 0 {
		maxRetryDelay = defaultMaxRetryDelay
	}

	// 최대 재시도 대기 시간(maxRetryDelay)은 최소 재시도 대기 시간(minRetryDelay)보다 작을 수 없음!
	if maxRetryDelay < minRetryDelay {
		maxRetryDelay = minRetryDelay
	}

	return minRetryDelay, maxRetryDelay
}

// isRetriable 발생한 에러가 재시도 가능한 일시적인 오류인지 판단합니다.
//
// 재시도 대상:
//   - 네트워크 타임아웃 (net.Error.Timeout())
//   - 서버 일시적 오류 (apperrors.Unavailable: 5xx, 429 등)
//   - 분류되지 않은 일반 에러 (DNS 조회 실패, 연결 거부 등)
//
// 재시도 제외:
//   - 컨텍스트 취소 (context.Canceled): 사용자의 명시적 취소 의도
//   - SSL/TLS 인증서 오류: 영구적 보안 문제
//   - 클라이언트 에러: InvalidInput, Unauthorized, Forbidden, NotFound, Conflict
func isRetriable(err error) bool {
	if err == nil {
		return false
	}

	// [검사 1] 컨텍스트 취소 확인
	// context.Canceled는 사용자가 명시적으로 요청을 취소한 것이므로 재시도 제외!
	if errors.Is(err, context.Canceled) {
		return false
	}

	// [검사 2] SSL/TLS 인증서 에러 확인
	// 인증서 에러(유효기간 만료, 신뢰할 수 없는 CA 등)는 재시도해도 해결되지 않는 문제로 간주!
	var x509HostnameErr x509.HostnameError
	var x509UnknownAuthorityErr x509.UnknownAuthorityError
	var x509CertificateInvalidErr x509.CertificateInvalidError
	if errors.As(err, &x509HostnameErr) || errors.As(err, &x509UnknownAuthorityErr) || errors.As(err, &x509CertificateInvalidErr) {
		return false
	}

	// [검사 3] 네트워크 일시적 오류 확인
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		// 타임아웃은 일시적인 네트워크 지연으로 간주하여 재시도
		return true
	}

	// [검사 4] 서버 측 일시적 오류 확인
	// 단, 501(Not Implemented), 505(HTTP Version Not Supported), 511(Network Authentication Required)은
	// 영구적인 설정 문제이므로 재시도 대상에서 제외합니다.
	if apperrors.Is(err, apperrors.Unavailable) {
		var statusErr *HTTPStatusError
		if errors.As(err, &statusErr) {
			switch statusErr.StatusCode {
			case http.StatusNotImplemented, http.StatusHTTPVersionNotSupported, http.StatusNetworkAuthenticationRequired:
				return false
			}
		}

		return true
	}

	// [검사 5] 클라이언트 에러 확인
	// 명확한 클라이언트 측 에러는 재시도해도 동일한 결과가 나오므로 재시도 제외!
	if apperrors.Is(err, apperrors.InvalidInput) ||
		apperrors.Is(err, apperrors.Unauthorized) ||
		apperrors.Is(err, apperrors.Forbidden) ||
		apperrors.Is(err, apperrors.NotFound) ||
		apperrors.Is(err, apperrors.Conflict) ||
		apperrors.Is(err, apperrors.ExecutionFailed) ||
		apperrors.Is(err, apperrors.ParsingFailed) {
		return false
	}

	// 명확한 실패 사유가 없다면, 일시적 오류(네트워크 문제 등)로 간주하고 재시도합니다.
	return true
}

// isIdempotentMethod 지정된 HTTP 메서드가 멱등한지(재시도가 안전한지) 여부를 반환합니다.
//
// 멱등 메서드(GET, HEAD, OPTIONS, TRACE, PUT, DELETE)는 재시도해도
// 데이터 중복 생성/수정 위험이 없으므로 안전하게 재시도할 수 있습니다.
//
// 참고: RFC 7231 Section 4.2.2 (Idempotent Methods)
func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace, http.MethodPut, http.MethodDelete:
		return true

	default:
		return false
	}
}

// parseRetryAfter Retry-After 헤더 값을 파싱하여 대기해야 할 시간을 반환합니다.
//
// 지원 형식 (RFC 7231 Section 7.1.3):
//  1. 초 단위 정수: "120" → 120초 후 재시도
//  2. HTTP-date 형식: "Wed, 21 Oct 2015 07:28:00 GMT" → 해당 시각까지 대기
func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}

	// [형식 1] 초 단위 정수 파싱
	var seconds int
	if _, err := fmt.Sscanf(value, "%d", &seconds); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}

	// [형식 2] HTTP-date 형식 파싱
	if date, err := http.ParseTime(value); err == nil {
		duration := time.Until(date)
		if duration < 0 {
			// 과거 시간이면 즉시 재시도 (서버와 클라이언트의 시간 차이로 발생 가능)
			duration = 0
		}

		return duration, true
	}

	return 0, false
}

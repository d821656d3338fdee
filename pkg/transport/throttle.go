package transport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// ThrottleFetcher 스토어프론트 API 서버로 전송되는 요청의 속도를 제한하는 미들웨어입니다.
//
// 토큰 버킷(Token Bucket) 알고리즘을 사용하여 초당 요청 수를 제한하며,
// 토큰이 소진된 경우 다음 토큰이 채워질 때까지 대기합니다.
// 스토어 측 요청 제한(429 Too Many Requests)을 사전에 회피하기 위한 클라이언트 측 안전장치입니다.
type ThrottleFetcher struct {
	delegate Fetcher
	limiter  *rate.Limiter
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*ThrottleFetcher)(nil)

// NewThrottleFetcher 새로운 ThrottleFetcher 인스턴스를 생성합니다.
//
// 매개변수:
//   - requestsPerSecond: 초당 허용할 요청 수 (0 이하: 제한 없음으로 간주하여 rate.Inf 적용)
//   - burst: 순간적으로 허용할 최대 요청 수 (0 이하: 1로 보정)
func NewThrottleFetcher(delegate Fetcher, requestsPerSecond float64, burst int) *ThrottleFetcher {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	return &ThrottleFetcher{
		delegate: delegate,
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// Do 토큰을 획득할 때까지 대기한 후 HTTP 요청을 수행합니다.
// 대기 중 컨텍스트가 취소되면 요청을 수행하지 않고 즉시 에러를 반환합니다.
func (f *ThrottleFetcher) Do(req *http.Request) (*http.Response, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	return f.delegate.Do(req)
}

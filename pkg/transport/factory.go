package transport

import (
	"time"
)

// Config Fetcher 체인을 구성하기 위한 설정 옵션을 정의하는 구조체입니다.
type Config struct {
	// ========================================
	// 네트워크 연결 설정
	// ========================================

	// Timeout HTTP 요청 전체에 대한 타임아웃입니다. (0: 기본값 30초 사용)
	Timeout time.Duration

	// ProxyURL 프록시 서버 주소입니다.
	// 빈 문자열이면 기본 설정(환경 변수 HTTP_PROXY 등)을 따릅니다.
	ProxyURL string

	// MaxIdleConnsPerHost 호스트당 유휴 연결의 최대 개수입니다. (0: 기본값 10개 사용)
	MaxIdleConnsPerHost int

	// ========================================
	// 재시도(Retry) 정책
	// ========================================

	// MaxRetries 최대 재시도 횟수입니다.
	//   - 0: 재시도 안 함
	//   - 양수: 실패 시(5xx 에러 또는 네트워크 오류 등) 지정된 횟수만큼 재시도
	//   - 보정: 허용 범위(0~10)를 벗어나면 경계값으로 보정
	MaxRetries int

	// MinRetryDelay 재시도 대기 시간의 최소값입니다. (1초 미만: 1초로 보정)
	MinRetryDelay time.Duration

	// MaxRetryDelay 재시도 대기 시간의 최대값입니다. (0: 기본값 30초로 보정)
	MaxRetryDelay time.Duration

	// ========================================
	// 요청 속도 제한(Throttle) 정책
	// ========================================

	// RequestsPerSecond 초당 허용할 요청 수입니다. (0 이하: 속도 제한 비활성화)
	RequestsPerSecond float64

	// Burst 순간적으로 허용할 최대 요청 수입니다. (0 이하: 1로 보정)
	Burst int

	// ========================================
	// 응답 검증 및 제한
	// ========================================

	// AllowedStatusCodes 허용할 HTTP 응답 상태 코드 목록입니다.
	//   - nil/빈 슬라이스: 2xx 성공 범위만 허용
	//   - 값 지정: 지정된 코드들만 허용
	AllowedStatusCodes []int

	// MaxBytes HTTP 응답 본문의 최대 허용 크기입니다. (단위: 바이트)
	//   - NoLimit(-1): 크기 제한을 적용하지 않음 (주의: 메모리 고갈 위험 있음)
	//   - 0 이하: 유효하지 않은 값으로 간주하여 기본값(10MB)으로 보정
	MaxBytes int64

	// ========================================
	// 미들웨어 체인 구성
	// ========================================

	// DisableLogging HTTP 요청/응답 로깅 사용 여부를 제어합니다.
	//   - false (기본값): 로깅 활성화 (URL, 상태 코드, 실행 시간 등을 기록)
	//   - true: 로깅 비활성화
	DisableLogging bool
}

// New Config를 기반으로 최적화된 Fetcher 실행 체인을 생성합니다.
//
// Fetcher 체인은 책임 연쇄 패턴(Chain of Responsibility)을 따르며, 다음과 같은 순서로 미들웨어가 구성됩니다 (바깥쪽 -> 안쪽):
//
//  1. [관찰] LoggingFetcher    (최외곽): 모든 시도와 지연을 포함한 전체 요청 생애주기를 기록합니다.
//  2. [제어] RetryFetcher      (핵심): 실패 시 지수 백오프 전략에 따라 재시도를 총괄 제어합니다.
//  3. [제한] ThrottleFetcher   (보호): 각 시도마다 토큰 버킷 기반의 요청 속도 제한을 적용합니다.
//  4. [검증] StatusCodeFetcher (검증): HTTP 응답 상태 코드의 유효성을 검사합니다.
//  5. [제한] MaxBytesFetcher   (보호): 응답 본문의 크기를 감시하여 메모리 고갈을 방지합니다.
//  6. [전송] HTTPFetcher       (최내곽): 최하단에서 실제 네트워크 I/O를 담당합니다.
//
// 설계 의도:
//   - LoggingFetcher는 재시도를 포함한 전체 흐름을 기록하기 위해 가장 바깥에 위치합니다.
//   - RetryFetcher는 하위 검증 로직(상태 코드) 실패 시에도 재시도를 수행해야 하므로 검증 미들웨어보다 바깥에 위치합니다.
//   - ThrottleFetcher는 재시도로 인한 추가 요청에도 속도 제한을 적용해야 하므로 RetryFetcher 안쪽에 위치합니다.
func New(cfg Config, opts ...Option) Fetcher {
	// ========================================
	// 0단계: Config 기반 옵션 및 추가 옵션 통합
	// ========================================
	var mergedOpts []Option

	if cfg.Timeout > 0 {
		mergedOpts = append(mergedOpts, WithTimeout(cfg.Timeout))
	}
	if cfg.ProxyURL != "" {
		mergedOpts = append(mergedOpts, WithProxy(cfg.ProxyURL))
	}
	if cfg.MaxIdleConnsPerHost > 0 {
		mergedOpts = append(mergedOpts, WithMaxIdleConnsPerHost(cfg.MaxIdleConnsPerHost))
	}

	// 추가 옵션을 마지막에 추가하여 Config 기반 옵션을 덮어쓸 수 있도록 함!!
	mergedOpts = append(mergedOpts, opts...)

	// ========================================
	// 1단계: 기본 HTTPFetcher 생성 (체인의 가장 안쪽)
	// ========================================
	var f Fetcher = NewHTTPFetcher(mergedOpts...)

	// ========================================
	// 2단계: HTTP 응답 본문의 크기 제한 미들웨어
	// ========================================
	f = NewMaxBytesFetcher(f, cfg.MaxBytes)

	// ========================================
	// 3단계: HTTP 응답 상태 코드 검증 미들웨어
	// ========================================
	f = NewStatusCodeFetcher(f, cfg.AllowedStatusCodes...)

	// ========================================
	// 4단계: 요청 속도 제한 미들웨어
	// ========================================
	if cfg.RequestsPerSecond > 0 {
		f = NewThrottleFetcher(f, cfg.RequestsPerSecond, cfg.Burst)
	}

	// ========================================
	// 5단계: HTTP 요청 재시도 수행 미들웨어
	// ========================================
	f = NewRetryFetcher(f, cfg.MaxRetries, cfg.MinRetryDelay, cfg.MaxRetryDelay)

	// ========================================
	// 6단계: 로깅 미들웨어 (체인의 가장 바깥쪽)
	// ========================================
	if !cfg.DisableLogging {
		f = NewLoggingFetcher(f)
	}

	return f
}

// Package config 스토어프론트 프록시 서버의 설정 로드와 검증을 담당합니다.
//
// 설정은 기본값 → JSON 설정 파일 → 환경 변수 순서로 병합되며,
// 뒤쪽 단계가 앞쪽 단계의 값을 덮어씁니다.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "storefront-proxy"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// ------------------------------------------------------------------------------------------------
	// HTTP 통신 정책 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultMaxRetries HTTP 요청 실패 시 최대 재시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 대기 시간 기본값
	DefaultRetryDelay = "2s"

	// DefaultRequestTimeout HTTP 요청 전체 타임아웃 기본값
	DefaultRequestTimeout = "30s"

	// ------------------------------------------------------------------------------------------------
	// API 서버 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultListenPort API 서버의 기본 수신 포트
	DefaultListenPort = 8080

	// DefaultRateLimitRPS 클라이언트 IP당 초당 허용 요청 수 기본값
	DefaultRateLimitRPS = 10.0

	// DefaultRateLimitBurst 클라이언트 IP당 순간 최대 허용 요청 수 기본값
	DefaultRateLimitBurst = 20

	// DefaultRefreshTimeSpec 설정 캐시 주기 갱신의 기본 Cron 표현식 (10분 간격)
	DefaultRefreshTimeSpec = "*/10 * * * *"
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug   bool          `json:"debug"`
	Store   StoreConfig   `json:"store"`
	HTTP    HTTPConfig    `json:"http"`
	API     APIConfig     `json:"api"`
	Refresh RefreshConfig `json:"refresh"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	if err := c.Store.validate(); err != nil {
		return err
	}

	if err := c.HTTP.validate(); err != nil {
		return err
	}

	if err := c.API.validate(); err != nil {
		return err
	}

	if err := c.Refresh.validate(); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	warnings = append(warnings, c.API.VerifyRecommendations()...)

	// 평문 HTTP로 스토어 API에 접근하는 경우 경고
	if strings.HasPrefix(c.Store.BaseURL, "http://") {
		warnings = append(warnings, fmt.Sprintf("스토어프론트 API 주소가 평문 HTTP로 설정되었습니다(base_url: %s). 스토어 키가 네트워크에 노출될 수 있으므로 HTTPS 사용을 권장합니다", c.Store.BaseURL))
	}

	return warnings
}

// StoreConfig 대상 스토어 접속 정보를 정의하는 설정 구조체
type StoreConfig struct {
	BaseURL  string `json:"base_url" validate:"required,url"`
	StoreKey string `json:"store_key" validate:"required"`
	Locale   string `json:"locale" validate:"omitempty,locale_code"`
	Currency string `json:"currency" validate:"omitempty,currency_code"`
}

func (c *StoreConfig) validate() error {
	return checkStruct(validate, c, "Store")
}

// HTTPConfig 스토어프론트 API와의 HTTP 통신 정책을 정의하는 설정 구조체
type HTTPConfig struct {
	RequestTimeout    string  `json:"request_timeout"`
	MaxRetries        int     `json:"max_retries" validate:"min=0,max=10"`
	RetryDelay        string  `json:"retry_delay"`
	RequestsPerSecond float64 `json:"requests_per_second" validate:"min=0"`
	Burst             int     `json:"burst" validate:"min=0"`
}

func (c *HTTPConfig) validate() error {
	if err := checkStruct(validate, c, "HTTP"); err != nil {
		return err
	}

	if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 요청 타임아웃(request_timeout) 설정이 올바르지 않습니다: '%s' (예: 30s)", c.RequestTimeout))
	}

	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.RetryDelay))
	}

	return nil
}

// RequestTimeoutDuration 파싱된 HTTP 요청 타임아웃을 반환합니다. (validate 통과 이후에만 호출해야 함)
func (c *HTTPConfig) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// RetryDelayDuration 파싱된 재시도 대기 시간을 반환합니다. (validate 통과 이후에만 호출해야 함)
func (c *HTTPConfig) RetryDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.RetryDelay)
	return d
}

// APIConfig 프록시 API 서버의 포트 및 보호 정책을 정의하는 설정 구조체
type APIConfig struct {
	ListenPort     int      `json:"listen_port" validate:"min=1,max=65535"`
	AllowOrigins   []string `json:"allow_origins"`
	RateLimitRPS   float64  `json:"rate_limit_rps" validate:"min=0"`
	RateLimitBurst int      `json:"rate_limit_burst" validate:"min=0"`
}

func (c *APIConfig) validate() error {
	if err := checkStruct(validate, c, "API"); err != nil {
		return err
	}

	// 와일드카드(*)는 단독으로만 사용할 수 있습니다.
	for _, origin := range c.AllowOrigins {
		if origin == "*" && len(c.AllowOrigins) > 1 {
			return apperrors.New(apperrors.InvalidInput, "CORS 와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
		}
	}

	return nil
}

func (c *APIConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// RefreshConfig 설정 캐시의 주기 갱신 스케줄을 정의하는 설정 구조체
type RefreshConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

func (c *RefreshConfig) validate() error {
	if !c.Runnable {
		return nil
	}

	if _, err := cron.ParseStandard(c.TimeSpec); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 갱신 스케줄(time_spec)의 Cron 표현식이 유효하지 않습니다: '%s'", c.TimeSpec))
	}

	return nil
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"http.request_timeout": DefaultRequestTimeout,
		"http.max_retries":     DefaultMaxRetries,
		"http.retry_delay":     DefaultRetryDelay,
		"api.listen_port":      DefaultListenPort,
		"api.rate_limit_rps":   DefaultRateLimitRPS,
		"api.rate_limit_burst": DefaultRateLimitBurst,
		"refresh.time_spec":    DefaultRefreshTimeSpec,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: STOREFRONT_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: STOREFRONT_STORE__STORE_KEY -> store.store_key
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOREFRONT_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}

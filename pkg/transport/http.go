package transport

import (
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
)

const (
	// defaultTimeout HTTP 요청 전체에 대한 기본 타임아웃 (30초)
	defaultTimeout = 30 * time.Second

	// defaultMaxIdleConnsPerHost 호스트당 유휴 연결의 기본 최대 개수
	// 스토어프론트 API는 항상 동일한 호스트로 요청하므로 기본값(2)보다 크게 설정합니다.
	defaultMaxIdleConnsPerHost = 10

	// defaultMaxRedirects HTTP 클라이언트의 기본 최대 리다이렉트 횟수
	defaultMaxRedirects = 10
)

// HTTPFetcher 실제 네트워크 I/O를 수행하는 Fetcher 체인의 최내곽 구현체입니다.
type HTTPFetcher struct {
	client *http.Client
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*HTTPFetcher)(nil)

// Option HTTPFetcher의 내부 동작을 제어하기 위한 함수형 옵션 타입입니다.
type Option func(*httpFetcherConfig)

// httpFetcherConfig HTTPFetcher 생성에 필요한 설정값을 모아두는 비공개 구조체입니다.
type httpFetcherConfig struct {
	timeout             time.Duration
	proxyURL            string
	maxIdleConnsPerHost int
	maxRedirects        int
}

// WithTimeout HTTP 요청 전체에 대한 타임아웃을 설정합니다.
// 음수가 지정되면 기본값(30초)으로 보정됩니다.
func WithTimeout(timeout time.Duration) Option {
	return func(c *httpFetcherConfig) {
		if timeout < 0 {
			timeout = defaultTimeout
		}
		c.timeout = timeout
	}
}

// WithProxy 프록시 서버 주소를 설정합니다.
// 빈 문자열이면 기본 설정(환경 변수 HTTP_PROXY 등)을 따릅니다.
func WithProxy(proxyURL string) Option {
	return func(c *httpFetcherConfig) {
		c.proxyURL = proxyURL
	}
}

// WithMaxIdleConnsPerHost 호스트당 유휴 연결의 최대 개수를 설정합니다.
func WithMaxIdleConnsPerHost(n int) Option {
	return func(c *httpFetcherConfig) {
		if n < 0 {
			n = defaultMaxIdleConnsPerHost
		}
		c.maxIdleConnsPerHost = n
	}
}

// WithMaxRedirects HTTP 클라이언트의 최대 리다이렉트(3xx) 횟수를 설정합니다.
func WithMaxRedirects(n int) Option {
	return func(c *httpFetcherConfig) {
		if n < 0 {
			n = defaultMaxRedirects
		}
		c.maxRedirects = n
	}
}

// NewHTTPFetcher 새로운 HTTPFetcher 인스턴스를 생성합니다.
//
// 기본적으로 30초 타임아웃, 호스트당 10개의 유휴 연결, 최대 10회의 리다이렉트가 적용되며,
// 옵션을 통해 동작을 세부 조정할 수 있습니다.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	cfg := &httpFetcherConfig{
		timeout:             defaultTimeout,
		maxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		maxRedirects:        defaultMaxRedirects,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	// http.DefaultTransport를 기반으로 필요한 항목만 덮어씁니다.
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConnsPerHost = cfg.maxIdleConnsPerHost

	if cfg.proxyURL != "" {
		if proxy, err := url.Parse(cfg.proxyURL); err == nil {
			tr.Proxy = http.ProxyURL(proxy)
		}
	}

	maxRedirects := cfg.maxRedirects

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   cfg.timeout,
			Transport: tr,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return apperrors.Newf(apperrors.ExecutionFailed, "최대 리다이렉트 횟수(%d)를 초과했습니다", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Do 커스텀 HTTP 요청을 실행합니다.
// 요청 헤더에 User-Agent가 없는 경우, 기본값을 자동으로 추가합니다.
func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "storefront-sdk-go")
	}
	return f.client.Do(req)
}

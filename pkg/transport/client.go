package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/iancoleman/strcase"
	"golang.org/x/net/html/charset"
)

const (
	// 스토어프론트 API 인증 및 세션 유지에 사용되는 HTTP 헤더 이름
	headerStoreKey = "X-Public-Store-Key"
	headerSession  = "X-Session"

	// 응답 현지화 제어에 사용되는 HTTP 헤더 이름
	headerLocale   = "X-Locale"
	headerCurrency = "X-Currency"
)

// Query API 요청의 쿼리 파라미터를 표현하는 타입입니다.
//
// 키는 직렬화 시점에 snake_case로 변환되며, 중첩된 맵은 대괄호 표기법으로 평탄화됩니다.
// 예: {"expandItems": true, "filter": {"priceMin": 10}} → "expand_items=true&filter[price_min]=10"
type Query map[string]any

// ClientConfig Client 생성에 필요한 설정값을 정의하는 구조체입니다.
type ClientConfig struct {
	// BaseURL 스토어프론트 API 서버의 기본 주소입니다. (예: "https://store.example.com/api")
	BaseURL string

	// StoreKey 스토어 식별 및 인증에 사용되는 공개 키입니다.
	StoreKey string

	// Locale 응답 현지화에 사용할 로캘 코드입니다. (예: "ko-KR", 빈 문자열: 스토어 기본값)
	Locale string

	// Currency 가격 표시에 사용할 통화 코드입니다. (예: "KRW", 빈 문자열: 스토어 기본값)
	Currency string

	// Fetcher HTTP 요청을 실제로 수행할 Fetcher 체인입니다. (nil: 기본 체인 사용)
	Fetcher Fetcher
}

// Client 스토어프론트 API 서버와의 통신을 담당하는 HTTP 클라이언트입니다.
//
// 인증 헤더 주입, 세션 토큰 유지, 쿼리 파라미터 직렬화, JSON 응답 디코딩을 처리하며,
// 실제 네트워크 I/O는 내부의 Fetcher 체인에 위임합니다.
// 모든 메서드는 고루틴 안전(goroutine-safe)합니다.
type Client struct {
	baseURL  *url.URL
	storeKey string
	fetcher  Fetcher

	mu       sync.RWMutex
	session  string // 서버가 발급한 세션 토큰 (응답 헤더를 통해 갱신됨)
	locale   string
	currency string
}

// NewClient 새로운 Client 인스턴스를 생성합니다.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "스토어프론트 API 서버의 기본 주소(BaseURL)가 설정되지 않았습니다")
	}
	if cfg.StoreKey == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "스토어 공개 키(StoreKey)가 설정되지 않았습니다")
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.InvalidInput, "스토어프론트 API 서버의 기본 주소(%s) 파싱에 실패했습니다", cfg.BaseURL)
	}
	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 URL 스킴(%s)입니다", baseURL.Scheme)
	}

	f := cfg.Fetcher
	if f == nil {
		f = New(Config{})
	}

	return &Client{
		baseURL:  baseURL,
		storeKey: cfg.StoreKey,
		fetcher:  f,
		locale:   cfg.Locale,
		currency: cfg.Currency,
	}, nil
}

// SessionToken 현재 보유 중인 세션 토큰을 반환합니다. (세션이 없으면 빈 문자열)
func (c *Client) SessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetSessionToken 세션 토큰을 설정합니다.
// 이전에 발급받은 세션을 복원(장바구니 유지 등)할 때 사용합니다.
func (c *Client) SetSessionToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = token
}

// SetLocale 이후 요청에 적용할 로캘 코드를 설정합니다.
func (c *Client) SetLocale(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = locale
}

// SetCurrency 이후 요청에 적용할 통화 코드를 설정합니다.
func (c *Client) SetCurrency(currency string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currency = currency
}

// Get 지정된 경로로 GET 요청을 전송하고 응답을 out에 디코딩합니다.
func (c *Client) Get(ctx context.Context, path string, query Query, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post 지정된 경로로 POST 요청을 전송하고 응답을 out에 디코딩합니다.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put 지정된 경로로 PUT 요청을 전송하고 응답을 out에 디코딩합니다.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete 지정된 경로로 DELETE 요청을 전송하고 응답을 out에 디코딩합니다.
func (c *Client) Delete(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, out)
}

// Fetch 지정된 경로로 GET 요청을 전송하고 응답 본문을 원시 JSON으로 반환합니다.
// 응답 구조가 유동적이어서 구조체 바인딩이 어려운 경우(설정 스냅샷 등)에 사용합니다.
func (c *Client) Fetch(ctx context.Context, path string, query Query) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// do HTTP 요청의 생성, 전송, 응답 디코딩까지의 전체 과정을 수행합니다.
//
//  1. 경로와 쿼리 파라미터를 조합하여 요청 URL을 생성합니다.
//  2. 요청 본문(body)이 있으면 JSON으로 직렬화합니다. (재시도를 위한 GetBody 설정 포함)
//  3. 인증/세션/현지화 헤더를 주입한 후 Fetcher 체인에 전달합니다.
//  4. 응답 헤더의 세션 토큰을 갱신하고, 응답 본문을 out에 디코딩합니다.
func (c *Client) do(ctx context.Context, method, path string, query Query, body, out any) error {
	reqURL, err := c.buildURL(path, query)
	if err != nil {
		return err
	}

	var bodyReader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.Internal, "요청 본문의 JSON 직렬화에 실패했습니다")
		}
		bodyReader = bytes.NewReader(encoded)
	}

	var req *http.Request
	if bodyReader != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL, nil)
	}
	if err != nil {
		return apperrors.Wrapf(err, apperrors.Internal, "HTTP 요청 생성에 실패했습니다 (URL: %s)", reqURL)
	}

	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerStoreKey, c.storeKey)

	c.mu.RLock()
	if c.session != "" {
		req.Header.Set(headerSession, c.session)
	}
	if c.locale != "" {
		req.Header.Set(headerLocale, c.locale)
	}
	if c.currency != "" {
		req.Header.Set(headerCurrency, c.currency)
	}
	c.mu.RUnlock()

	resp, err := c.fetcher.Do(req)
	if err != nil {
		if resp != nil {
			// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
			drainAndCloseBody(resp.Body)
		}

		return apperrors.Wrapf(err, apperrors.UnderlyingType(err), "스토어프론트 API(%s %s) 요청이 실패했습니다", method, path)
	}
	defer resp.Body.Close() // 응답을 받은 즉시 defer 설정하여 메모리 누수 방지

	// 서버가 새로운 세션 토큰을 발급한 경우 갱신합니다. (장바구니, 로그인 상태 유지)
	if token := resp.Header.Get(headerSession); token != "" {
		c.mu.Lock()
		c.session = token
		c.mu.Unlock()
	}

	if out == nil {
		// 결과가 필요 없는 요청은 커넥션 재사용을 위해 Body만 비웁니다.
		drainAndCloseBody(resp.Body)
		return nil
	}

	// Content-Type 헤더를 기반으로 비 UTF-8 인코딩 응답도 UTF-8로 변환하여 처리합니다.
	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "응답(%s %s)의 인코딩 변환에 실패했습니다", method, path)
	}

	// json.Decoder를 사용하여 스트림 방식으로 JSON 파싱 (메모리 효율적)
	if err := json.NewDecoder(utf8Reader).Decode(out); err != nil {
		return apperrors.Wrapf(err, apperrors.ParsingFailed, "응답(%s %s)의 JSON 파싱에 실패했습니다", method, path)
	}

	return nil
}

// buildURL 기본 주소, 요청 경로, 쿼리 파라미터를 조합하여 최종 요청 URL을 생성합니다.
func (c *Client) buildURL(path string, query Query) (string, error) {
	ref, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", apperrors.Wrapf(err, apperrors.InvalidInput, "요청 경로(%s) 파싱에 실패했습니다", path)
	}

	// 기본 주소의 경로를 유지한 채 요청 경로를 이어 붙입니다.
	resolved := *c.baseURL
	resolved.Path = strings.TrimRight(resolved.Path, "/") + "/" + ref.Path

	values := url.Values{}
	encodeQuery(values, "", query)
	resolved.RawQuery = values.Encode()

	return resolved.String(), nil
}

// encodeQuery Query 맵을 url.Values로 변환합니다.
//
// 키는 snake_case로 변환되며, 중첩된 맵은 "parent[child]" 형태로 평탄화됩니다.
// 슬라이스 값은 동일한 키로 반복 추가됩니다.
// 결정적인 직렬화 결과를 위해 키를 정렬된 순서로 처리합니다.
func encodeQuery(values url.Values, prefix string, query map[string]any) {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := strcase.ToSnake(key)
		if prefix != "" {
			name = fmt.Sprintf("%s[%s]", prefix, name)
		}

		switch v := query[key].(type) {
		case nil:
			continue

		case map[string]any:
			encodeQuery(values, name, v)

		case Query:
			encodeQuery(values, name, v)

		case []string:
			for _, item := range v {
				values.Add(name, item)
			}

		case []any:
			for _, item := range v {
				values.Add(name, fmt.Sprint(item))
			}

		default:
			values.Add(name, fmt.Sprint(v))
		}
	}
}

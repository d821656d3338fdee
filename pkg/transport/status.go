package transport

import (
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
)

// maxBodySnippetBytes 에러 객체에 포함시킬 응답 본문의 최대 크기 (4KB)
const maxBodySnippetBytes = 4096

// HTTPStatusError HTTP 요청 실패 시 상태 코드와 응답 정보를 포함하는 구조화된 에러입니다.
//
// 상태 코드, URL, 응답 헤더, 응답 본문 일부 등을 구조화된 필드로 제공하여,
// 호출자가 에러 상황을 정확히 파악하고 적절한 대응(재시도, 로깅 등)을 할 수 있도록 돕습니다.
// Cause 필드를 통해 errors.Is / errors.As 기반의 표준 에러 체이닝을 지원합니다.
type HTTPStatusError struct {
	// StatusCode 서버가 반환한 HTTP 상태 코드입니다.
	StatusCode int

	// Status HTTP 상태 코드에 대응하는 텍스트 설명입니다. (예: "404 Not Found")
	Status string

	// URL 요청을 보낸 대상 URL입니다. 민감한 정보는 마스킹된 상태로 저장됩니다.
	URL string

	// Header 서버가 반환한 HTTP 응답 헤더입니다. 민감한 헤더는 마스킹된 상태로 저장됩니다.
	Header http.Header

	// BodySnippet 응답 본문의 일부(최대 4KB)입니다. 에러 원인 파악 및 디버깅 용도로 사용됩니다.
	BodySnippet string

	// Cause 이 HTTP 에러의 근본 원인이 되는 내부 도메인 에러입니다.
	Cause error
}

// Error 표준 error 인터페이스를 구현합니다.
func (e *HTTPStatusError) Error() string {
	msg := fmt.Sprintf("HTTP %d (%s)", e.StatusCode, e.Status)
	if e.URL != "" {
		msg += fmt.Sprintf(" URL: %s", e.URL)
	}
	if e.BodySnippet != "" {
		msg += fmt.Sprintf(", Body: %s", e.BodySnippet)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap 래핑된 원인 에러(Cause)를 반환하여 표준 에러 체이닝 기능을 지원합니다.
func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}

// errorTypeForStatusCode HTTP 상태 코드를 도메인 에러 타입으로 분류합니다.
//
// 분류 결과는 재시도 미들웨어의 재시도 가능 여부 판단과
// 호출자의 에러 처리 분기(errors.Is)에 사용됩니다.
func errorTypeForStatusCode(statusCode int) apperrors.ErrorType {
	switch {
	case statusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized

	case statusCode == http.StatusForbidden:
		return apperrors.Forbidden

	case statusCode == http.StatusNotFound:
		return apperrors.NotFound

	case statusCode == http.StatusConflict:
		return apperrors.Conflict

	case statusCode == http.StatusTooManyRequests:
		return apperrors.Unavailable // 일시적 과부하로 간주하여 재시도 대상

	case statusCode == http.StatusRequestTimeout:
		return apperrors.Timeout

	case statusCode >= 400 && statusCode < 500:
		return apperrors.InvalidInput

	case statusCode >= 500:
		return apperrors.Unavailable

	default:
		return apperrors.Unknown
	}
}

// CheckResponseStatus HTTP 응답의 상태 코드가 허용 목록에 포함되는지 검증합니다.
//
// allowedStatusCodes가 비어 있으면 2xx 성공 범위만 허용합니다.
// 검증 실패 시 응답 객체의 Body 일부를 읽어 HTTPStatusError를 생성하여 반환합니다.
// 이때 Body는 일부가 소진되므로, 에러 반환 후 응답 객체를 재사용해서는 안 됩니다.
func CheckResponseStatus(resp *http.Response, allowedStatusCodes ...int) error {
	if resp == nil {
		return apperrors.New(apperrors.Internal, "HTTP 응답 객체가 nil입니다")
	}

	// 허용 목록이 지정된 경우 해당 목록만 확인
	if len(allowedStatusCodes) > 0 {
		for _, code := range allowedStatusCodes {
			if resp.StatusCode == code {
				return nil
			}
		}
	} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		// 기본값: 2xx 성공 범위 허용
		return nil
	}

	// 디버깅 편의를 위해 응답 객체의 Body 일부만 읽어서 에러 객체에 포함시킵니다.
	var bodySnippet string
	if resp.Body != nil {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodySnippetBytes))
		if len(bodyBytes) > 0 {
			bodySnippet = string(bodyBytes)
		}
	}

	var redactedURL string
	if resp.Request != nil {
		redactedURL = redactURL(resp.Request.URL)
	}

	errType := errorTypeForStatusCode(resp.StatusCode)

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         redactedURL,
		Header:      redactHeaders(resp.Header),
		BodySnippet: bodySnippet,
		Cause:       apperrors.Newf(errType, "허용되지 않은 HTTP 상태 코드(%d)가 반환되었습니다", resp.StatusCode),
	}
}

// StatusCodeFetcher HTTP 응답의 상태 코드를 검증하는 미들웨어입니다.
//
// 허용되지 않은 상태 코드를 조기에 감지하여 에러로 변환하고,
// 실패한 응답의 리소스를 안전하게 정리하여 커넥션 재사용을 보장합니다.
type StatusCodeFetcher struct {
	delegate Fetcher

	// allowedStatusCodes 허용할 HTTP 상태 코드 목록입니다.
	// nil 또는 빈 슬라이스인 경우 2xx 성공 범위만 허용합니다.
	allowedStatusCodes []int
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 새로운 StatusCodeFetcher 인스턴스를 생성합니다.
// allowedStatusCodes를 지정하지 않으면 2xx 성공 범위만 허용합니다.
func NewStatusCodeFetcher(delegate Fetcher, allowedStatusCodes ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate:           delegate,
		allowedStatusCodes: allowedStatusCodes,
	}
}

// Do HTTP 요청을 수행하고 응답 상태 코드를 검증합니다.
//
// 에러 발생 시(Delegate 에러 또는 상태 코드 검증 실패) 응답 객체의 Body는 이 함수 내부에서
// 자동으로 정리되므로, 호출자가 별도로 닫을 필요가 없습니다.
// 성공 시에는 호출자가 반드시 응답 객체의 Body를 닫아야 합니다.
func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		// 에러가 발생했더라도 응답 객체가 있을 수 있음 (예: 리다이렉트 에러)
		if resp != nil {
			// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
			drainAndCloseBody(resp.Body)
		}

		return nil, err
	}

	if statusErr := CheckResponseStatus(resp, f.allowedStatusCodes...); statusErr != nil {
		// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
		drainAndCloseBody(resp.Body)

		return nil, statusErr
	}

	return resp, nil
}

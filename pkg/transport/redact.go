package transport

import (
	"net/http"
	"net/url"
	"strings"

	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
)

// sensitiveQueryKeys 로그 출력 시 값을 마스킹해야 하는 쿼리 파라미터 키 목록 (소문자)
var sensitiveQueryKeys = map[string]struct{}{
	"key":      {},
	"token":    {},
	"password": {},
	"secret":   {},
	"session":  {},
}

// sensitiveHeaderKeys 로그 출력 시 값을 마스킹해야 하는 HTTP 헤더 키 목록 (정규화된 형태)
var sensitiveHeaderKeys = map[string]struct{}{
	"Authorization":      {},
	"Cookie":             {},
	"Set-Cookie":         {},
	"X-Session":          {},
	"X-Store-Key":        {},
	"X-Public-Store-Key": {},
}

// redactURL URL에 포함된 민감 정보(인증 정보, 토큰 등)를 마스킹한 문자열을 반환합니다.
//
// 마스킹 대상:
//   - userinfo (user:password@host 형식의 인증 정보)
//   - 민감한 쿼리 파라미터 값 (key, token, password, secret, session)
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	// 원본 URL을 변경하지 않기 위해 복제본 사용
	clone := *u

	if clone.User != nil {
		clone.User = url.User("***")
	}

	if clone.RawQuery != "" {
		query := clone.Query()
		for key := range query {
			if _, ok := sensitiveQueryKeys[strings.ToLower(key)]; ok {
				query.Set(key, "***")
			}
		}
		clone.RawQuery = query.Encode()
	}

	return clone.String()
}

// redactHeaders HTTP 헤더에서 민감한 값(인증 토큰, 쿠키 등)을 마스킹한 복제본을 반환합니다.
func redactHeaders(header http.Header) http.Header {
	if header == nil {
		return nil
	}

	redacted := make(http.Header, len(header))
	for key, values := range header {
		if _, ok := sensitiveHeaderKeys[http.CanonicalHeaderKey(key)]; ok {
			masked := make([]string, len(values))
			for i, v := range values {
				masked[i] = applog.MaskSensitiveData(v)
			}
			redacted[key] = masked
			continue
		}
		redacted[key] = values
	}

	return redacted
}

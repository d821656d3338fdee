package proxy

import (
	"errors"
	"net/http"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	"github.com/labstack/echo/v4"
)

// statusCodeForError SDK 에러를 프록시 응답의 HTTP 상태 코드로 변환합니다.
//
// 스토어프론트 API가 반환한 상태 코드(HTTPStatusError)는 그대로 전달하고,
// SDK 내부에서 발생한 에러는 에러 타입에 따라 적절한 상태 코드로 변환합니다.
func statusCodeForError(err error) int {
	// 업스트림 API의 상태 코드는 그대로 전달 (Passthrough)
	var statusErr *transport.HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}

	switch apperrors.UnderlyingType(err) {
	case apperrors.InvalidInput:
		return http.StatusBadRequest
	case apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.Forbidden:
		return http.StatusForbidden
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.Timeout:
		return http.StatusGatewayTimeout
	case apperrors.Unavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// toHTTPError SDK 에러를 Echo의 HTTPError로 변환합니다.
// 핸들러에서 SDK 호출 실패 시 이 함수를 거쳐 전역 에러 핸들러로 전달합니다.
func toHTTPError(err error) error {
	code := statusCodeForError(err)

	// 5xx 에러의 상세 내용은 클라이언트에 노출하지 않습니다.
	message := errMsgInternalServer
	if code < http.StatusInternalServerError {
		message = err.Error()
	}

	return echo.NewHTTPError(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	}).SetInternal(err)
}

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// 모든 HTTP 에러를 가로채서 표준 ErrorResponse JSON 형식으로 변환하여 반환합니다.
// 에러 발생 시 적절한 로그 레벨(Error/Warn)로 상세 정보를 기록합니다.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := errMsgInternalServer

	// Echo HTTPError 타입 확인
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else if resp, ok := he.Message.(ErrorResponse); ok {
			message = resp.Message
		}
	}

	// 등록되지 않은 경로의 404 에러(Echo 기본 메시지)는 사용자 친화적인 한국어 메시지로 통일
	if code == http.StatusNotFound && (message == errMsgInternalServer || message == http.StatusText(http.StatusNotFound)) {
		message = errMsgNotFound
	}

	// 에러 로깅 (보안 및 디버깅 용도)
	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		// 5xx: 서버 내부 오류 - 즉시 조치 필요
		applog.WithComponentAndFields(component, fields).Error("HTTP 5xx 서버 에러")
	} else if code >= http.StatusBadRequest {
		// 4xx: 클라이언트 요청 오류 - 정상적인 거부 응답
		applog.WithComponentAndFields(component, fields).Warn("HTTP 4xx 클라이언트 에러")
	}

	// 이중 응답 방지: 이미 응답이 전송된 경우 추가 응답 시도하지 않음
	if c.Response().Committed {
		return
	}

	// HEAD 요청 처리: HTTP 명세에 따라 헤더만 반환하고 본문은 생략
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}

	// 일반 요청: 표준 ErrorResponse JSON 형식으로 응답
	c.JSON(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// Package proxy 스토어프론트 SDK를 HTTP API로 노출하는 프록시 서버를 제공합니다.
//
// 브라우저나 모바일 앱이 스토어 키를 직접 다루지 않도록, 프록시 서버가 SDK를 통해
// 스토어프론트 API와 통신하고 그 결과를 JSON으로 전달합니다.
package proxy

// component proxy 패키지의 로깅용 컴포넌트 이름
const component = "proxy"

// 에러 메시지 상수입니다.
const (
	errMsgInternalServer = "서버 내부 오류가 발생했습니다"
	errMsgNotFound       = "요청하신 리소스를 찾을 수 없습니다"
)

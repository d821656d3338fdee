// Package transport 스토어프론트 API 서버와의 HTTP 통신을 담당하는 클라이언트 계층을 제공합니다.
//
// 재시도, 상태 코드 검증, 응답 크기 제한, 요청 속도 제한, 로깅 등의 기능을
// 데코레이터 패턴으로 조합할 수 있는 Fetcher 체인과,
// 인증 헤더 및 쿼리 직렬화를 처리하는 상위 Client를 포함합니다.
package transport

import (
	"context"
	"io"
	"net/http"
	"sync"
)

// component transport 패키지의 로깅용 컴포넌트 이름
const component = "transport"

// Fetcher HTTP 요청을 수행하는 핵심 인터페이스입니다.
//
// 이 인터페이스는 다양한 HTTP 클라이언트 구현체들이 공통으로 따르는 규약을 정의합니다.
// 재시도, 로깅, 속도 제한 등의 기능을 데코레이터 패턴으로 조합할 수 있도록 설계되었습니다.
//
// 구현 시 주의사항:
//   - 반환된 응답 객체의 Body는 반드시 호출자가 닫아야 합니다.
//   - 에러가 발생해도 응답 객체가 nil이 아닐 수 있습니다 (예: HTTP 상태 코드 에러).
//   - Context 취소 시 즉시 요청을 중단하고 적절한 에러를 반환해야 합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// Get 지정된 URL로 HTTP GET 요청을 전송하는 헬퍼 함수입니다.
//
// 요청 실패 시 커넥션 재사용을 위해 응답 객체의 Body를 자동으로 읽어서 버리고 닫습니다.
// 성공 시 반환된 응답 객체의 Body는 호출자가 반드시 닫아야 합니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			// 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫음
			drainAndCloseBody(resp.Body)
		}

		return nil, err
	}

	return resp, nil
}

const (
	// maxDrainBytes 커넥션 재사용을 위해 응답 객체의 Body를 비울 때 읽을 최대 바이트 수 (64KB)
	// HTTP 커넥션 풀링을 위해 응답 객체의 Body를 완전히 읽어야 하지만,
	// 너무 큰 응답은 성능 저하를 유발하므로 64KB로 제한
	maxDrainBytes = 64 * 1024
)

// drainBufPool drainAndCloseBody에서 사용할 바이트 버퍼 풀
var drainBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 32*1024) // 32KB 버퍼 (대부분의 응답 처리에 충분)
		return &b
	},
}

// drainAndCloseBody HTTP 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫습니다.
//
// HTTP Keep-Alive 커넥션 풀링을 위해서는 응답 객체의 Body를 완전히 읽어야 합니다.
// Body를 읽지 않고 닫으면 커넥션이 재사용되지 않아 매번 새 TCP 연결이 필요하므로,
// 일정량(maxDrainBytes)을 읽어서 버린 후 닫아 커넥션 풀에 반환합니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	defer body.Close()

	bufPtr := drainBufPool.Get().(*[]byte)
	defer drainBufPool.Put(bufPtr)

	// maxDrainBytes(64KB)만큼만 읽고 나머지는 버림!
	// 이 범위를 초과하는 바디를 가진 커넥션은 재사용되지 않고 닫힘!
	_, _ = io.CopyBuffer(io.Discard, io.LimitReader(body, maxDrainBytes), *bufPtr)
}

package transport

import (
	"io"
	"net/http"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
)

const (
	// NoLimit 응답 본문 크기 제한을 적용하지 않음을 나타내는 값입니다.
	NoLimit int64 = -1

	// defaultMaxBytes 응답 본문의 기본 최대 허용 크기 (10MB)
	defaultMaxBytes int64 = 10 * 1024 * 1024
)

// MaxBytesFetcher HTTP 응답 본문의 크기를 제한하는 미들웨어입니다.
//
// 비정상적으로 큰 응답(무한 스트림, 악의적 응답 등)으로 인한 메모리 고갈을 방지하기 위해,
// 응답 객체의 Body를 크기 제한이 적용된 Reader로 감쌉니다.
// 제한을 초과하여 읽으려고 하면 Read 시점에 에러가 반환됩니다.
type MaxBytesFetcher struct {
	delegate Fetcher
	maxBytes int64
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*MaxBytesFetcher)(nil)

// NewMaxBytesFetcher 새로운 MaxBytesFetcher 인스턴스를 생성합니다.
//
// maxBytes 설정 규칙:
//   - NoLimit(-1): 크기 제한을 적용하지 않음
//   - 0 이하: 유효하지 않은 값으로 간주하여 기본값(10MB)으로 보정
//   - 양수: 지정된 크기만큼 허용
func NewMaxBytesFetcher(delegate Fetcher, maxBytes int64) *MaxBytesFetcher {
	maxBytes = normalizeByteLimit(maxBytes)

	return &MaxBytesFetcher{
		delegate: delegate,
		maxBytes: maxBytes,
	}
}

// normalizeByteLimit 응답 본문 크기 제한 설정값을 정규화합니다.
func normalizeByteLimit(maxBytes int64) int64 {
	if maxBytes == NoLimit {
		return NoLimit
	}
	if maxBytes <= 0 {
		return defaultMaxBytes
	}
	return maxBytes
}

// Do HTTP 요청을 수행하고 응답 객체의 Body를 크기 제한이 적용된 Reader로 교체합니다.
func (f *MaxBytesFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return resp, err
	}

	if f.maxBytes != NoLimit && resp != nil && resp.Body != nil {
		resp.Body = &limitedReadCloser{
			body:      resp.Body,
			remaining: f.maxBytes,
		}
	}

	return resp, nil
}

// limitedReadCloser 읽을 수 있는 바이트 수를 제한하는 io.ReadCloser 구현체입니다.
type limitedReadCloser struct {
	body      io.ReadCloser
	remaining int64
}

// Read 제한 범위 내에서 데이터를 읽습니다. 제한을 초과하면 에러를 반환합니다.
func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, apperrors.New(apperrors.ExecutionFailed, "HTTP 응답 본문이 최대 허용 크기를 초과했습니다")
	}

	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}

	n, err := l.body.Read(p)
	l.remaining -= int64(n)

	return n, err
}

// Close 원본 Body를 닫습니다.
func (l *limitedReadCloser) Close() error {
	return l.body.Close()
}

package log

import (
	"io"
)

// closer 로깅 시스템이 점유한 모든 리소스(파일 핸들 등)를 일괄 해제하는 객체입니다.
type closer struct {
	closers []io.Closer
	hook    *hook
}

// Close 등록된 모든 리소스를 해제합니다. 여러 번 호출해도 안전합니다.
func (c *closer) Close() error {
	// Hook이 닫힌 파일에 쓰는 것을 방지하기 위해 먼저 차단합니다.
	if c.hook != nil {
		c.hook.markClosed()
	}

	var firstErr error
	for _, cl := range c.closers {
		if cl == nil {
			continue
		}
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.closers = nil

	return firstErr
}

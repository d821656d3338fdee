package log

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// silentFormatter 아무런 동작도 하지 않는 포맷터입니다.
// Logrus는 io.Discard로 출력을 버리더라도 포맷팅 연산은 수행하므로, 이를 방지하기 위해 사용합니다.
// (실제 포맷팅은 hook에서 수행)
type silentFormatter struct{}

// Format 아무런 변환도 수행하지 않고 nil을 반환합니다.
func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}

// hook 로그 엔트리를 레벨에 따라 메인/중요/상세/콘솔 Writer로 분배하는 중앙 라우팅 Hook입니다.
//
// 라우팅 정책:
//   - 메인 Writer: 모든 레벨
//   - 중요(Critical) Writer: Error, Fatal, Panic
//   - 상세(Verbose) Writer: Debug, Trace
//   - 콘솔 Writer: 모든 레벨
type hook struct {
	mu sync.Mutex

	formatter logrus.Formatter

	mainWriter     io.Writer
	criticalWriter io.Writer
	verboseWriter  io.Writer
	consoleWriter  io.Writer

	closed bool
}

// Levels 이 Hook이 처리할 로그 레벨 목록을 반환합니다. (전체 레벨)
func (h *hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire 로그 엔트리를 포맷팅하여 대상 Writer들에 기록합니다.
func (h *hook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 리소스 해제 이후에 도착한 로그는 무시합니다. (Close 이후 Write 방지)
	if h.closed {
		return nil
	}

	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	if h.mainWriter != nil {
		if _, err := h.mainWriter.Write(line); err != nil {
			return err
		}
	}

	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		if h.criticalWriter != nil {
			if _, err := h.criticalWriter.Write(line); err != nil {
				return err
			}
		}

	case logrus.DebugLevel, logrus.TraceLevel:
		if h.verboseWriter != nil {
			if _, err := h.verboseWriter.Write(line); err != nil {
				return err
			}
		}
	}

	if h.consoleWriter != nil {
		if _, err := h.consoleWriter.Write(line); err != nil {
			return err
		}
	}

	return nil
}

// markClosed 이후의 Fire 호출을 무시하도록 표시합니다.
func (h *hook) markClosed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
}

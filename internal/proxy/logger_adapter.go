package proxy

import (
	"io"

	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
	"github.com/labstack/gommon/log"
)

// echoLogger Echo의 log.Logger 인터페이스를 구현하는 어댑터입니다.
// 이 어댑터 패턴을 통해 Echo 프레임워크의 내부 로그를 애플리케이션 로거로 통합합니다.
//
// Echo는 자체 Logger 인터페이스(github.com/labstack/gommon/log.Logger)를 정의하고 있으며,
// 이 인터페이스의 모든 메서드를 구현해야 Echo와 통합할 수 있습니다.
// 아래의 메서드들은 대부분 해당 메서드로 단순 위임하는 보일러플레이트 코드입니다.
type echoLogger struct {
	*applog.Logger
}

// Output 현재 출력 Writer를 반환합니다.
func (l echoLogger) Output() io.Writer {
	return l.Logger.Out
}

func (l echoLogger) SetOutput(w io.Writer) {
	l.Logger.SetOutput(w)
}

func (l echoLogger) Prefix() string {
	return ""
}

func (l echoLogger) SetPrefix(string) {
	// Echo의 Prefix 기능은 사용하지 않음
}

// Level 애플리케이션 로거의 로그 레벨을 Echo의 로그 레벨로 변환합니다.
func (l echoLogger) Level() log.Lvl {
	switch l.Logger.Level {
	case applog.DebugLevel:
		return log.DEBUG
	case applog.WarnLevel:
		return log.WARN
	case applog.ErrorLevel:
		return log.ERROR
	case applog.InfoLevel:
		return log.INFO
	case applog.PanicLevel:
		// Echo에 대응하는 레벨이 없으므로 OFF 반환
	case applog.FatalLevel:
		// Echo에 대응하는 레벨이 없으므로 OFF 반환
	case applog.TraceLevel:
		// Echo에 대응하는 레벨이 없으므로 OFF 반환
	}

	return log.OFF
}

// SetLevel Echo의 로그 레벨을 애플리케이션 로거의 로그 레벨로 변환하여 설정합니다.
func (l echoLogger) SetLevel(lvl log.Lvl) {
	switch lvl {
	case log.DEBUG:
		l.Logger.SetLevel(applog.DebugLevel)
	case log.WARN:
		l.Logger.SetLevel(applog.WarnLevel)
	case log.ERROR:
		l.Logger.SetLevel(applog.ErrorLevel)
	case log.INFO:
		l.Logger.SetLevel(applog.InfoLevel)
	case log.OFF:
		// log.OFF는 대응하는 레벨이 없으므로 무시
	}
}

func (l echoLogger) SetHeader(string) {
	// Echo의 Header 기능은 사용하지 않음
}

// 아래 메서드들은 Echo의 Logger 인터페이스 요구사항을 충족하기 위해
// 애플리케이션 로거의 해당 메서드로 단순 위임합니다.

func (l echoLogger) Print(i ...interface{}) {
	l.Logger.Print(i...)
}

func (l echoLogger) Printf(format string, args ...interface{}) {
	l.Logger.Printf(format, args...)
}

func (l echoLogger) Printj(j log.JSON) {
	l.Logger.WithFields(applog.Fields(j)).Print()
}

func (l echoLogger) Debug(i ...interface{}) {
	l.Logger.Debug(i...)
}

func (l echoLogger) Debugf(format string, args ...interface{}) {
	l.Logger.Debugf(format, args...)
}

func (l echoLogger) Debugj(j log.JSON) {
	l.Logger.WithFields(applog.Fields(j)).Debug()
}

func (l echoLogger) Info(i ...interface{}) {
	l.Logger.Info(i...)
}

func (l echoLogger) Infof(format string, args ...interface{}) {
	l.Logger.Infof(format, args...)
}

func (l echoLogger) Infoj(j log.JSON) {
	l.Logger.WithFields(applog.Fields(j)).Info()
}

func (l echoLogger) Warn(i ...interface{}) {
	l.Logger.Warn(i...)
}

func (l echoLogger) Warnf(format string, args ...interface{}) {
	l.Logger.Warnf(format, args...)
}

func (l echoLogger) Warnj(j log.JSON) {
	l.Logger.WithFields(applog.Fields(j)).Warn()
}

func (l echoLogger) Error(i ...interface{}) {
	l.Logger.Error(i...)
}

func (l echoLogger) Errorf(format string, args ...interface{}) {
	l.Logger.Errorf(format, args...)
}

func (l echoLogger) Errorj(j log.JSON) {
	l.Logger.WithFields(applog.Fields(j)).Error()
}

func (l echoLogger) Fatal(i ...interface{}) {
	l.Logger.Fatal(i...)
}

func (l echoLogger) Fatalf(format string, args ...interface{}) {
	l.Logger.Fatalf(format, args...)
}

func (l echoLogger) Fatalj(j log.JSON) {
	l.Logger.WithFields(applog.Fields(j)).Fatal()
}

func (l echoLogger) Panic(i ...interface{}) {
	l.Logger.Panic(i...)
}

func (l echoLogger) Panicf(format string, args ...interface{}) {
	l.Logger.Panicf(format, args...)
}

func (l echoLogger) Panicj(j log.JSON) {
	l.Logger.WithFields(applog.Fields(j)).Panic()
}

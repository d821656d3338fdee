package catalog

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 변형 계산은 전부 동기 순수 함수이므로, 테스트 종료 시점에
// 살아있는 고루틴이 없어야 합니다.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

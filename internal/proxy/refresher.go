package proxy

import (
	"context"
	"sync"
	"time"

	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
	"github.com/darkkaiser/storefront-sdk/pkg/store"
	"github.com/robfig/cron/v3"
)

// refreshTimeout 설정 갱신 1회 실행의 최대 대기 시간
const refreshTimeout = 60 * time.Second

// Refresher 스토어 설정, 메뉴, 결제 설정 캐시를 Cron 스케줄에 맞춰 주기적으로 갱신하는 서비스입니다.
//
// 캐시의 각 슬롯은 원자적으로 교체되므로, 갱신이 진행되는 동안에도
// API 핸들러의 설정 조회는 항상 일관된 스냅샷을 반환합니다.
type Refresher struct {
	store *store.Store

	// timeSpec 갱신 주기를 정의하는 Cron 표현식 (예: "*/10 * * * *")
	timeSpec string

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewRefresher 새로운 Refresher 인스턴스를 생성합니다.
func NewRefresher(s *store.Store, timeSpec string) *Refresher {
	if s == nil {
		panic("[NewRefresher] store는 nil일 수 없습니다")
	}

	return &Refresher{
		store:    s,
		timeSpec: timeSpec,
	}
}

// Start 갱신 스케줄을 Cron 엔진에 등록하고 스케줄러를 시작합니다.
//
// 매개변수:
//   - serviceStopCtx: 서비스 종료 신호를 받기 위한 Context
//   - serviceStopWG: 서비스 종료 완료를 알리기 위한 WaitGroup
func (r *Refresher) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	r.runningMu.Lock()
	defer r.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: 설정 갱신 서비스 초기화 프로세스를 시작합니다")

	if r.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("설정 갱신 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// 1. Cron 엔진 초기화
	// - Recover: Panic 발생 시 복구하여 스케줄러 전체가 중단되지 않도록 함
	// - SkipIfStillRunning: 이전 갱신이 끝나지 않았으면 다음 갱신을 건너뜀
	r.cron = cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	// 2. 갱신 작업 등록
	if _, err := r.cron.AddFunc(r.timeSpec, r.refresh); err != nil {
		serviceStopWG.Done()
		return err
	}

	// 3. 스케줄러 시작
	r.cron.Start()
	r.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec": r.timeSpec,
	}).Info("서비스 시작 완료: 설정 갱신 서비스가 정상적으로 초기화되었습니다")

	// 4. 종료 신호 대기 (고루틴)
	// 종료 시그널 수신 시 Stop() 메서드를 호출하여 리소스를 안전하게 해제합니다.
	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		r.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
func (r *Refresher) Stop() {
	r.runningMu.Lock()
	defer r.runningMu.Unlock()

	if !r.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: 설정 갱신 서비스 중지 시그널을 수신했습니다")

	// Cron 엔진 중지 및 실행 중인 갱신 완료 대기
	if r.cron != nil {
		ctx := r.cron.Stop()
		<-ctx.Done()
	}

	r.cron = nil
	r.running = false

	applog.WithComponent(component).Info("설정 갱신 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

// refresh 설정, 메뉴, 결제 설정 캐시를 병렬로 다시 가져옵니다.
//
// 갱신의 생명주기는 서비스 종료 시그널과 분리합니다. Graceful Shutdown 시
// cron.Stop()이 실행 중인 갱신의 완료를 대기하므로, 갱신 도중 컨텍스트 취소로 인한
// 캐시 불일치를 방지합니다. 무한 대기를 막기 위해 타임아웃만 적용합니다.
func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()

	if err := r.store.Init(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("설정 캐시 주기 갱신에 실패했습니다 (기존 캐시 유지)")
		return
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"elapsed": time.Since(start).String(),
	}).Debug("설정 캐시 주기 갱신을 완료했습니다")
}

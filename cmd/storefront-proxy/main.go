package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/darkkaiser/storefront-sdk/internal/config"
	"github.com/darkkaiser/storefront-sdk/internal/proxy"
	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
	"github.com/darkkaiser/storefront-sdk/pkg/store"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	log "github.com/sirupsen/logrus"
)

// initTimeout 기동 시 설정 캐시 초기화의 최대 대기 시간
const initTimeout = 60 * time.Second

// 빌드 정보 변수 (Dockerfile의 ldflags로 주입됨)
var (
	Version   = "dev"     // Git 커밋 해시
	BuildDate = "unknown" // 빌드 날짜
)

func main() {
	// 실행 인자 파싱
	configFile := flag.String("config", config.DefaultFilename, "설정 파일 경로")
	flag.Parse()

	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := config.LoadWithFile(*configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentConfig(config.AppName)
	} else {
		logOpts = applog.NewProductionConfig(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	applog.WithComponentAndFields("main", log.Fields{
		"version":    Version,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"env":        map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 4. 권장 설정 준수 여부 진단 (경고만 출력, 기동은 계속)
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 5. 스토어프론트 API와의 통신에 사용할 Fetcher 체인 구성
	fetcher := transport.New(transport.Config{
		Timeout:           appConfig.HTTP.RequestTimeoutDuration(),
		MaxRetries:        appConfig.HTTP.MaxRetries,
		MinRetryDelay:     appConfig.HTTP.RetryDelayDuration(),
		RequestsPerSecond: appConfig.HTTP.RequestsPerSecond,
		Burst:             appConfig.HTTP.Burst,
	})

	// 6. 스토어 세션 생성
	s, err := store.New(store.Config{
		BaseURL:  appConfig.Store.BaseURL,
		StoreKey: appConfig.Store.StoreKey,
		Locale:   appConfig.Store.Locale,
		Currency: appConfig.Store.Currency,
		Fetcher:  fetcher,
	})
	if err != nil {
		log.Fatalf("스토어 세션 생성 실패: %v", err)
	}

	// 7. 설정 캐시 초기화 (설정/메뉴/결제 설정 병렬 로드)
	// 실패하더라도 캐시는 기본값으로 동작하므로 기동은 계속하되, 경고를 남긴다.
	initCtx, initCancel := context.WithTimeout(context.Background(), initTimeout)
	if err := s.Init(initCtx); err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Warn("설정 캐시 초기 로드에 실패했습니다. 기본값으로 기동을 계속합니다")
	}
	initCancel()

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 8. 서비스 생성
	services := []interface {
		Start(context.Context, *sync.WaitGroup) error
	}{
		proxy.NewService(appConfig, s),
	}
	if appConfig.Refresh.Runnable {
		services = append(services, proxy.NewRefresher(s, appConfig.Refresh.TimeSpec))
	}

	// 9. 서비스를 시작한다.
	for _, svc := range services {
		serviceStopWG.Add(1)
		if err := svc.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done
}

// Package store 스토어프론트 SDK의 최상위 진입점(Facade)을 제공합니다.
//
// Store 객체 하나가 하나의 스토어 세션을 표현하며, 카탈로그 조회, 장바구니,
// 계정, 정기 구독 리소스와 설정 캐시, 변형 결정 엔진을 한곳에 모읍니다.
// 전역 상태는 없으므로 한 프로세스에서 여러 스토어 세션을 충돌 없이 사용할 수 있습니다.
package store

import (
	"context"
	"sync"

	"github.com/darkkaiser/storefront-sdk/pkg/catalog"
	"github.com/darkkaiser/storefront-sdk/pkg/currency"
	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
	"github.com/darkkaiser/storefront-sdk/pkg/settings"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
)

// component store 패키지의 로깅용 컴포넌트 이름
const component = "store"

// Config Store 생성에 필요한 설정값입니다.
type Config struct {
	// BaseURL 스토어프론트 API 서버의 기본 주소입니다.
	BaseURL string

	// StoreKey 스토어 식별 및 인증에 사용되는 공개 키입니다.
	StoreKey string

	// Locale 응답 현지화에 사용할 로캘 코드입니다. (빈 문자열: 스토어 기본값)
	Locale string

	// Currency 가격 표시에 사용할 통화 코드입니다. (빈 문자열: 스토어 기본값)
	Currency string

	// SettingsDefaults 설정을 가져오기 전의 조회 요청에 응답할 기본 설정값입니다.
	SettingsDefaults map[string]any

	// Fetcher HTTP 요청을 수행할 Fetcher 체인입니다. (nil: 기본 체인 사용)
	Fetcher transport.Fetcher
}

// Store 하나의 스토어 세션을 표현하는 SDK의 최상위 객체입니다.
type Store struct {
	client *transport.Client

	// Settings 스토어 설정, 메뉴, 결제 설정의 클라이언트 측 캐시입니다.
	Settings *settings.Cache

	// Products 상품 카탈로그 리소스입니다.
	Products *ProductsResource

	// Categories 카테고리 리소스입니다.
	Categories *CategoriesResource

	// Cart 장바구니 리소스입니다.
	Cart *CartResource

	// Account 고객 계정 리소스입니다.
	Account *AccountResource

	// Subscriptions 정기 구독 리소스입니다.
	Subscriptions *SubscriptionsResource
}

// New 새로운 Store 인스턴스를 생성합니다.
func New(cfg Config) (*Store, error) {
	client, err := transport.NewClient(transport.ClientConfig{
		BaseURL:  cfg.BaseURL,
		StoreKey: cfg.StoreKey,
		Locale:   cfg.Locale,
		Currency: cfg.Currency,
		Fetcher:  cfg.Fetcher,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.UnderlyingType(err), "스토어프론트 API 클라이언트 생성에 실패했습니다")
	}

	cache, err := settings.NewCache(client, cfg.SettingsDefaults)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.UnderlyingType(err), "설정 캐시 생성에 실패했습니다")
	}

	s := &Store{
		client:   client,
		Settings: cache,
	}
	s.Products = &ProductsResource{client: client}
	s.Categories = &CategoriesResource{client: client}
	s.Cart = &CartResource{client: client}
	s.Account = &AccountResource{client: client}
	s.Subscriptions = &SubscriptionsResource{client: client}

	return s, nil
}

// Client 내부의 transport.Client를 반환합니다.
// 세션 토큰 관리(SessionToken/SetSessionToken)나 로캘 변경이 필요한 경우 사용합니다.
func (s *Store) Client() *transport.Client {
	return s.client
}

// Init 스토어 설정, 메뉴, 결제 설정을 병렬로 가져와 캐시를 초기화합니다.
//
// 각 캐시 슬롯의 교체는 원자적이므로, 일부만 성공하더라도 조회 동작은 항상 일관된
// 스냅샷(성공한 슬롯) 또는 기본값(실패한 슬롯)을 반환합니다.
// 하나라도 실패하면 첫 번째 에러를 반환합니다.
func (s *Store) Init(ctx context.Context) error {
	fetchers := []struct {
		name  string
		fetch func(context.Context) error
	}{
		{name: "settings", fetch: s.Settings.FetchSettings},
		{name: "menus", fetch: s.Settings.FetchMenus},
		{name: "payments", fetch: s.Settings.FetchPaymentSettings},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(fetchers))

	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, name string, fetch func(context.Context) error) {
			defer wg.Done()

			if err := fetch(ctx); err != nil {
				errs[i] = err

				applog.WithComponentAndFields(component, applog.Fields{
					"target": name,
					"error":  err.Error(),
				}).Error("스토어 초기화 중 설정 데이터를 가져오지 못했습니다")
			}
		}(i, f.name, f.fetch)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

// Variation 상품을 조회한 뒤 고객의 옵션 선택을 적용한 복합 결과를 계산합니다.
//
// input은 ParseSelection이 지원하는 모든 형태(맵, 목록, nil)를 받습니다.
// 변형 계산 자체는 순수 함수이므로, 이미 조회된 상품이 있다면
// catalog.ComputeVariation을 직접 호출하는 편이 네트워크 왕복을 줄입니다.
func (s *Store) Variation(ctx context.Context, productID string, input any) (catalog.Variation, error) {
	sel, err := catalog.ParseSelection(input)
	if err != nil {
		return catalog.Variation{}, err
	}

	product, err := s.Products.Get(ctx, productID, nil)
	if err != nil {
		return catalog.Variation{}, err
	}

	return catalog.ComputeVariation(product, sel)
}

// FormatPrice 금액을 스토어의 통화/로캘 설정에 따라 표시 문자열로 변환합니다.
func (s *Store) FormatPrice(amount float64) string {
	return currency.Format(amount, currency.SnapshotFromSettings(s.Settings))
}

// Package settings 스토어 설정, 메뉴, 결제 설정의 클라이언트 측 캐시를 제공합니다.
//
// 설정 데이터는 스토어프론트 API 서버에서 통째로 가져와 원시 JSON 스냅샷으로 보관되며,
// 점(.)으로 구분된 경로 표현식을 통해 개별 값을 조회할 수 있습니다.
// 스냅샷 교체는 원자적으로 수행되므로, 조회 중인 고루틴은 항상 일관된 버전의 설정을 바라봅니다.
package settings

import (
	"context"
	"encoding/json"
	"sync/atomic"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	"github.com/tidwall/gjson"
)

// component settings 패키지의 로깅용 컴포넌트 이름
const component = "settings"

// API 요청 경로
const (
	settingsPath = "settings"
	menusPath    = "settings/menus"
	paymentsPath = "settings/payments"
)

// APIClient 설정 데이터를 가져오기 위해 필요한 API 클라이언트의 동작을 정의하는 인터페이스입니다.
// *transport.Client가 이 인터페이스를 구현합니다.
type APIClient interface {
	Fetch(ctx context.Context, path string, query transport.Query) (json.RawMessage, error)
}

// Menu 스토어 관리 화면에서 구성한 내비게이션 메뉴를 표현합니다.
type Menu struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// MenuItem 메뉴를 구성하는 개별 항목입니다. 하위 항목을 통해 트리 구조를 형성할 수 있습니다.
type MenuItem struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	URL   string     `json:"url"`
	Items []MenuItem `json:"items"`
}

// Cache 스토어 설정 데이터의 클라이언트 측 캐시입니다.
//
// 세 종류의 스냅샷(일반 설정, 메뉴, 결제 설정)을 독립적으로 보관하며,
// 각 스냅샷은 Fetch 계열 메서드 호출 시 통째로 교체됩니다.
// 모든 메서드는 고루틴 안전(goroutine-safe)합니다.
type Cache struct {
	client APIClient

	// defaults 최초 Fetch 이전의 조회 요청에 응답하기 위한 기본 설정 스냅샷입니다.
	defaults []byte

	settings atomic.Pointer[[]byte]
	menus    atomic.Pointer[map[string]Menu]
	payments atomic.Pointer[json.RawMessage]
}

// NewCache 새로운 Cache 인스턴스를 생성합니다.
//
// defaults는 최초 FetchSettings 호출 전까지 Get 계열 메서드가 참조할 기본 설정값입니다.
// nil을 전달하면 빈 설정으로 간주되어 모든 조회가 호출자의 기본값으로 대체됩니다.
func NewCache(client APIClient, defaults map[string]any) (*Cache, error) {
	if client == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "API 클라이언트가 설정되지 않았습니다")
	}

	var defaultsJSON []byte
	if defaults != nil {
		encoded, err := json.Marshal(defaults)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.Internal, "기본 설정값의 JSON 직렬화에 실패했습니다")
		}
		defaultsJSON = encoded
	}

	return &Cache{
		client:   client,
		defaults: defaultsJSON,
	}, nil
}

// FetchSettings 스토어프론트 API 서버에서 전체 설정을 가져와 캐시의 스냅샷을 통째로 교체합니다.
//
// 요청이 실패하면 기존 스냅샷은 그대로 유지되므로, 조회 동작에는 영향이 없습니다.
func (c *Cache) FetchSettings(ctx context.Context) error {
	raw, err := c.client.Fetch(ctx, settingsPath, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.UnderlyingType(err), "스토어 설정을 가져오는 데 실패했습니다")
	}

	// 유효하지 않은 응답으로 스냅샷을 교체하면 이후의 모든 조회가 기본값으로
	// 대체되므로, 최상위가 JSON 객체인 경우에만 교체를 수행합니다.
	snapshot := []byte(raw)
	if !gjson.ValidBytes(snapshot) || !gjson.ParseBytes(snapshot).IsObject() {
		return apperrors.New(apperrors.ParsingFailed, "스토어 설정 응답이 유효한 JSON 객체가 아닙니다")
	}

	c.settings.Store(&snapshot)

	applog.WithComponentAndFields(component, applog.Fields{
		"bytes": len(snapshot),
	}).Debug("스토어 설정 스냅샷 갱신 완료")

	return nil
}

// Get 점(.)으로 구분된 경로에 해당하는 설정값을 조회합니다.
//
// 경로가 존재하지 않거나 값이 null인 경우 defaultValue를 반환합니다.
// 최초 FetchSettings 호출 전에는 생성 시 전달된 기본 설정 스냅샷에서 조회합니다.
//
// 사용 예시:
//
//	name := cache.Get("store.name", "이름 없는 스토어")
func (c *Cache) Get(path string, defaultValue any) any {
	result := gjson.GetBytes(c.currentSettings(), path)
	if !result.Exists() || result.Type == gjson.Null {
		return defaultValue
	}
	return result.Value()
}

// GetString 경로에 해당하는 설정값을 문자열로 조회합니다.
// 경로가 존재하지 않거나 값이 null인 경우 defaultValue를 반환합니다.
func (c *Cache) GetString(path string, defaultValue string) string {
	result := gjson.GetBytes(c.currentSettings(), path)
	if !result.Exists() || result.Type == gjson.Null {
		return defaultValue
	}
	return result.String()
}

// GetFloat 경로에 해당하는 설정값을 float64로 조회합니다.
// 경로가 존재하지 않거나 값이 null인 경우 defaultValue를 반환합니다.
func (c *Cache) GetFloat(path string, defaultValue float64) float64 {
	result := gjson.GetBytes(c.currentSettings(), path)
	if !result.Exists() || result.Type == gjson.Null {
		return defaultValue
	}
	return result.Float()
}

// GetBool 경로에 해당하는 설정값을 bool로 조회합니다.
// 경로가 존재하지 않거나 값이 null인 경우 defaultValue를 반환합니다.
func (c *Cache) GetBool(path string, defaultValue bool) bool {
	result := gjson.GetBytes(c.currentSettings(), path)
	if !result.Exists() || result.Type == gjson.Null {
		return defaultValue
	}
	return result.Bool()
}

// Raw 현재 설정 스냅샷의 원시 JSON을 반환합니다. (스냅샷이 없으면 기본 설정)
// 반환된 슬라이스는 읽기 전용으로 취급해야 합니다.
func (c *Cache) Raw() json.RawMessage {
	return json.RawMessage(c.currentSettings())
}

// currentSettings 현재 유효한 설정 스냅샷을 반환합니다.
// 최초 Fetch 이전에는 기본 설정 스냅샷을 반환합니다.
func (c *Cache) currentSettings() []byte {
	if snapshot := c.settings.Load(); snapshot != nil {
		return *snapshot
	}
	return c.defaults
}

// FetchMenus 스토어프론트 API 서버에서 전체 메뉴를 가져와 캐시의 메뉴 스냅샷을 통째로 교체합니다.
func (c *Cache) FetchMenus(ctx context.Context) error {
	raw, err := c.client.Fetch(ctx, menusPath, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.UnderlyingType(err), "스토어 메뉴를 가져오는 데 실패했습니다")
	}

	var menus []Menu
	if err := json.Unmarshal(raw, &menus); err != nil {
		return apperrors.Wrap(err, apperrors.ParsingFailed, "스토어 메뉴 응답의 JSON 파싱에 실패했습니다")
	}

	// 조회 편의를 위해 메뉴 ID를 키로 하는 맵으로 변환하여 보관합니다.
	indexed := make(map[string]Menu, len(menus))
	for _, menu := range menus {
		if menu.ID == "" {
			applog.WithComponentAndFields(component, applog.Fields{
				"menu_name": menu.Name,
			}).Warn("ID가 없는 메뉴 항목을 건너뜁니다")
			continue
		}
		indexed[menu.ID] = menu
	}

	c.menus.Store(&indexed)

	applog.WithComponentAndFields(component, applog.Fields{
		"count": len(indexed),
	}).Debug("스토어 메뉴 스냅샷 갱신 완료")

	return nil
}

// Menu 지정된 ID의 메뉴를 반환합니다.
//
// 메뉴가 존재하지 않거나 아직 FetchMenus가 호출되지 않은 경우 두 번째 반환값이 false입니다.
func (c *Cache) Menu(id string) (Menu, bool) {
	menus := c.menus.Load()
	if menus == nil {
		return Menu{}, false
	}

	menu, ok := (*menus)[id]
	return menu, ok
}

// Menus 현재 메뉴 스냅샷의 전체 메뉴를 반환합니다. (FetchMenus 호출 전: nil)
func (c *Cache) Menus() map[string]Menu {
	menus := c.menus.Load()
	if menus == nil {
		return nil
	}

	// 내부 스냅샷의 변조를 방지하기 위해 복제본을 반환합니다.
	cloned := make(map[string]Menu, len(*menus))
	for id, menu := range *menus {
		cloned[id] = menu
	}
	return cloned
}

// FetchPaymentSettings 스토어프론트 API 서버에서 결제 설정을 가져와 스냅샷을 통째로 교체합니다.
//
// 결제 설정은 게이트웨이별로 구조가 달라 구조체 바인딩 대신 원시 JSON으로 보관하며,
// 해석은 payment 패키지에서 수행합니다.
func (c *Cache) FetchPaymentSettings(ctx context.Context) error {
	raw, err := c.client.Fetch(ctx, paymentsPath, nil)
	if err != nil {
		return apperrors.Wrap(err, apperrors.UnderlyingType(err), "결제 설정을 가져오는 데 실패했습니다")
	}

	c.payments.Store(&raw)

	applog.WithComponentAndFields(component, applog.Fields{
		"bytes": len(raw),
	}).Debug("결제 설정 스냅샷 갱신 완료")

	return nil
}

// PaymentSettings 현재 결제 설정 스냅샷의 원시 JSON을 반환합니다.
// 아직 FetchPaymentSettings가 호출되지 않은 경우 nil을 반환합니다.
func (c *Cache) PaymentSettings() json.RawMessage {
	raw := c.payments.Load()
	if raw == nil {
		return nil
	}
	return *raw
}

// Package payment 스토어의 결제 설정 해석 기능을 제공합니다.
//
// 결제 위젯 로더(외부 통합 코드)는 이 패키지를 통해 어떤 결제 게이트웨이가
// 활성화되어 있는지, 그리고 위젯 초기화에 필요한 공개 식별자가 무엇인지 조회합니다.
// 실제 결제 토큰화와 게이트웨이 프로토콜은 이 SDK의 범위 밖입니다.
package payment

import (
	"encoding/json"
	"sort"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/maputil"
	"github.com/darkkaiser/storefront-sdk/pkg/settings"
)

// 지원하는 결제 게이트웨이 식별자
const (
	GatewayStripe    = "stripe"
	GatewayPayPal    = "paypal"
	GatewayBraintree = "braintree"
)

// Gateway 결제 게이트웨이 하나의 공개 설정입니다.
//
// 비밀 키는 서버 측에만 존재하며, 이 구조체에는 위젯 초기화에 필요한
// 공개 식별자만 포함됩니다.
type Gateway struct {
	// ID 게이트웨이 식별자입니다. (예: "stripe")
	ID string `json:"id"`

	// Enabled 스토어 관리 화면에서 이 게이트웨이가 활성화되어 있는지 여부입니다.
	Enabled bool `json:"enabled"`

	// PublicKey 클라이언트 측 위젯 초기화에 사용되는 공개 키입니다.
	PublicKey string `json:"public_key"`

	// Methods 이 게이트웨이가 지원하는 결제 수단 목록입니다. (예: "card", "apple_pay")
	Methods []string `json:"methods"`
}

// Settings 스토어의 전체 결제 설정입니다.
type Settings struct {
	// Currency 결제에 사용되는 통화 코드입니다.
	Currency string `json:"currency"`

	// Gateways 게이트웨이 식별자를 키로 하는 게이트웨이 설정 맵입니다.
	Gateways map[string]Gateway `json:"gateways"`
}

// ParseSettings 설정 캐시가 보관 중인 원시 결제 설정 JSON을 해석합니다.
//
// 캐시에 결제 설정이 아직 없으면(FetchPaymentSettings 미호출) NotFound 에러를 반환합니다.
func ParseSettings(cache *settings.Cache) (*Settings, error) {
	if cache == nil {
		return nil, apperrors.New(apperrors.InvalidInput, "설정 캐시가 nil입니다")
	}

	raw := cache.PaymentSettings()
	if raw == nil {
		return nil, apperrors.New(apperrors.NotFound, "결제 설정이 아직 캐시에 없습니다. FetchPaymentSettings를 먼저 호출해야 합니다")
	}

	// 게이트웨이별로 구조가 달라질 수 있으므로, 먼저 느슨한 맵으로 풀어낸 뒤
	// maputil을 통해 알 수 없는 필드에 관대한 방식으로 바인딩합니다.
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "결제 설정 JSON 해석에 실패했습니다")
	}

	parsed, err := maputil.Decode[Settings](loose)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, "결제 설정 구조 변환에 실패했습니다")
	}

	// 게이트웨이 맵의 키와 각 게이트웨이의 ID 필드를 일치시킵니다.
	for id, gw := range parsed.Gateways {
		if gw.ID == "" {
			gw.ID = id
			parsed.Gateways[id] = gw
		}
	}

	return parsed, nil
}

// EnabledGateways 활성화된 게이트웨이 목록을 식별자 기준 정렬 순서로 반환합니다.
func (s *Settings) EnabledGateways() []Gateway {
	enabled := make([]Gateway, 0, len(s.Gateways))
	for _, gw := range s.Gateways {
		if gw.Enabled {
			enabled = append(enabled, gw)
		}
	}

	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].ID < enabled[j].ID
	})

	return enabled
}

// Gateway 지정된 식별자의 게이트웨이 설정을 반환합니다.
// 게이트웨이가 존재하지 않으면 두 번째 반환값이 false입니다.
func (s *Settings) Gateway(id string) (Gateway, bool) {
	gw, ok := s.Gateways[id]
	return gw, ok
}

// Package currency 스토어 설정에 따른 가격 표시 문자열 포맷팅 기능을 제공합니다.
//
// 변형 결정 엔진(catalog)은 숫자 필드만 생성하며, 화면에 표시할 문자열 변환은
// 항상 이 패키지에 위임됩니다. 로캘별 숫자 표기와 통화 기호는
// golang.org/x/text의 CLDR 데이터를 따릅니다.
package currency

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/darkkaiser/storefront-sdk/pkg/settings"
)

// 스토어 설정에서 통화 정보를 조회할 때 사용하는 경로와 기본값
const (
	settingCurrencyPath = "store.currency"
	settingLocalePath   = "store.locale"

	defaultCurrencyCode = "USD"
	defaultLocale       = "en-US"
)

// Snapshot 가격 포맷팅에 필요한 통화 설정의 한 시점 스냅샷입니다.
//
// 설정 캐시에서 한 번 추출한 뒤 여러 번의 포맷팅 호출에 재사용할 수 있으며,
// 설정 캐시가 갱신되어도 이미 추출된 스냅샷은 영향을 받지 않습니다.
type Snapshot struct {
	// Code ISO 4217 통화 코드입니다. (예: "KRW", "USD")
	Code string

	// Locale 숫자 표기에 사용할 BCP 47 로캘 코드입니다. (예: "ko-KR")
	Locale string
}

// SnapshotFromSettings 설정 캐시에서 통화 설정 스냅샷을 추출합니다.
// 설정이 없거나 아직 가져오지 않은 경우 기본값(USD, en-US)이 적용됩니다.
func SnapshotFromSettings(cache *settings.Cache) Snapshot {
	if cache == nil {
		return Snapshot{Code: defaultCurrencyCode, Locale: defaultLocale}
	}

	return Snapshot{
		Code:   cache.GetString(settingCurrencyPath, defaultCurrencyCode),
		Locale: cache.GetString(settingLocalePath, defaultLocale),
	}
}

// Format 금액을 스냅샷의 통화/로캘 설정에 따라 표시 문자열로 변환합니다.
//
// 통화 코드나 로캘이 유효하지 않은 경우 기본값(USD, en-US)으로 대체하여
// 항상 사람이 읽을 수 있는 문자열을 반환합니다. (포맷팅 실패로 화면 렌더링이 중단되지 않도록)
func Format(amount float64, snap Snapshot) string {
	unit, err := currency.ParseISO(snap.Code)
	if err != nil {
		unit = currency.USD
	}

	tag, err := language.Parse(snap.Locale)
	if err != nil {
		tag = language.AmericanEnglish
	}

	p := message.NewPrinter(tag)

	return p.Sprintf("%v", currency.NarrowSymbol(unit.Amount(amount)))
}

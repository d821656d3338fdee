package catalog

import (
	"github.com/iancoleman/strcase"
)

// SelectedOption 변형 계산에 실제로 적용된 옵션 선택 하나를 표현합니다.
//
// 호출자가 "현재 선택: 사이즈=Medium" 같은 화면을 렌더링할 수 있도록
// 옵션과 값의 식별자 및 표시 이름을 함께 담습니다.
type SelectedOption struct {
	OptionID   string `json:"option_id"`
	OptionName string `json:"option_name"`

	// Key 옵션 이름을 snake_case로 변환한 키입니다. (예: "Ring Size" → "ring_size")
	// 템플릿이나 쿼리 파라미터에서 옵션을 안정적으로 참조할 때 사용합니다.
	Key string `json:"key"`

	ValueID   string `json:"value_id"`
	ValueName string `json:"value_name"`

	// PriceDelta 이 선택이 가격에 더한 증감분입니다. (변형 플래그 옵션: 항상 0)
	PriceDelta float64 `json:"price_delta"`

	// Variant 이 옵션이 변형(Variant) 매칭에 참여했는지 여부입니다.
	Variant bool `json:"variant"`
}

// Variation 변형 계산의 최종 복합 결과입니다.
//
// Product는 기본 상품의 얕은 복사본에 매칭된 변형과 옵션 증감분이 반영된 파생 뷰이며,
// 입력으로 전달된 원본 상품은 절대 변경되지 않습니다.
type Variation struct {
	// Product 가격, 할인가, 재고 상태가 병합 규칙에 따라 덮어써진 상품 뷰입니다.
	Product Product `json:"product"`

	// VariantID 매칭된 변형의 ID입니다. (매칭 없음: 빈 문자열)
	VariantID string `json:"variant_id,omitempty"`

	// Selected 계산에 실제로 적용된 정규화된 옵션 선택 목록입니다. (상품의 옵션 선언 순서)
	Selected []SelectedOption `json:"options"`
}

// mergeAttributes 기본 상품, 매칭된 변형, 옵션 증감분을 하나의 복합 결과로 병합합니다.
//
// 각 출력 필드의 우선순위 (높은 순):
//  1. 매칭된 변형이 명시적으로 가진 값 (가격, 할인가, 정가, 재고 상태, 재고 수량)
//  2. 변형 플래그가 없는 옵션값들의 증감분 누적 적용
//     (가격: 증감분 합산, 재고 상태: 더 제한적인 상태 우선 — "out_of_stock"이 "in_stock"을 지배)
//  3. 기본 상품의 값
//
// 이 함수는 (product, variant, pairs)의 순수 함수이며, 입력을 절대 변경하지 않습니다.
func mergeAttributes(product *Product, variant *Variant, pairs []resolvedPair) Variation {
	// 기본 상품의 얕은 복사본에서 시작합니다.
	merged := *product

	// [1단계] 매칭된 변형이 명시적으로 가진 필드를 덮어씁니다.
	if variant != nil {
		if variant.Price != nil {
			merged.Price = *variant.Price
		}
		if variant.SalePrice != nil {
			merged.SalePrice = cloneFloat(*variant.SalePrice)
		}
		if variant.OrigPrice != nil {
			merged.OrigPrice = cloneFloat(*variant.OrigPrice)
		}
		if variant.StockStatus != "" {
			merged.StockStatus = variant.StockStatus
		}
		if variant.StockLevel != nil && product.StockTracking {
			merged.StockLevel = *variant.StockLevel
		}
	}

	// [2단계] 변형 플래그가 없는 옵션값들의 증감분을 누적 적용합니다.
	var priceDelta float64
	for _, pair := range pairs {
		if pair.option.Variant {
			continue
		}

		priceDelta += pair.value.Price

		if pair.value.StockStatus != "" {
			merged.StockStatus = mostRestrictiveStock(merged.StockStatus, pair.value.StockStatus)
		}
	}

	if priceDelta != 0 {
		merged.Price += priceDelta

		// 할인 판매 중인 경우 할인가에도 동일한 증감분을 적용합니다.
		// 원본 상품과 포인터를 공유하지 않도록 새로운 값을 할당합니다.
		if merged.SalePrice != nil {
			merged.SalePrice = cloneFloat(*merged.SalePrice + priceDelta)
		}
	}

	// [3단계] 적용된 옵션 선택 목록을 기록합니다.
	selected := make([]SelectedOption, 0, len(pairs))
	for _, pair := range pairs {
		delta := pair.value.Price
		if pair.option.Variant {
			// 변형 플래그 옵션의 가격은 변형 자체에 책정되어 있으므로 증감분은 기록하지 않습니다.
			delta = 0
		}

		selected = append(selected, SelectedOption{
			OptionID:   pair.option.ID,
			OptionName: pair.option.Name,
			Key:        strcase.ToSnake(pair.option.Name),
			ValueID:    pair.value.ID,
			ValueName:  pair.value.Name,
			PriceDelta: delta,
			Variant:    pair.option.Variant,
		})
	}

	result := Variation{
		Product:  merged,
		Selected: selected,
	}
	if variant != nil {
		result.VariantID = variant.ID
	}

	return result
}

// cloneFloat float64 값을 새로운 포인터에 담아 반환합니다. (원본과의 포인터 공유 방지)
func cloneFloat(v float64) *float64 {
	return &v
}

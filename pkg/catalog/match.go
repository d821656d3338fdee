package catalog

import (
	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
)

// matchVariant 정규화된 선택 쌍을 기반으로 상품의 변형(Variant) 목록에서 정확히 일치하는 변형을 찾습니다.
//
// 매칭 규칙:
//   - 변형 플래그가 켜진 옵션에 대한 선택만 매칭에 참여합니다.
//   - 변형이 선언한 옵션값 조합 전체가 선택과 정확히 일치해야만 매칭으로 간주합니다.
//     (선택이 변형 플래그 옵션의 일부만 포함하는 "부분 선택" 상태에서는 어떤 변형도 매칭되지 않으며,
//     기본 상품의 속성이 사용됩니다 — 잘못된 변형의 가격이 기본 가격을 가리는 것을 방지)
//   - 동일한 조합을 선언한 변형이 여러 개인 경우(데이터 무결성 위반), 목록 순서상
//     첫 번째 변형이 선택되며 경고 로그로 진단 신호를 남깁니다.
//
// 반환값: 매칭된 변형 (매칭 없음: nil)
func matchVariant(product *Product, pairs []resolvedPair) *Variant {
	if len(product.Variants) == 0 {
		return nil
	}

	// 변형 플래그가 켜진 옵션에 대해 선택된 옵션값 ID 집합을 만듭니다.
	selectedValueIDs := make(map[string]struct{})
	for _, pair := range pairs {
		if pair.option.Variant {
			selectedValueIDs[pair.value.ID] = struct{}{}
		}
	}

	if len(selectedValueIDs) == 0 {
		return nil
	}

	var matched *Variant
	for i := range product.Variants {
		variant := &product.Variants[i]

		if !exactMatch(variant, selectedValueIDs) {
			continue
		}

		if matched == nil {
			matched = variant
			continue
		}

		// 데이터 무결성 위반: 동일한 옵션값 조합을 선언한 변형이 두 개 이상 존재합니다.
		// 첫 번째 매칭을 유지하되, 진단을 위해 경고 로그를 남깁니다.
		applog.WithComponentAndFields(component, applog.Fields{
			"product_id":         product.ID,
			"matched_variant_id": matched.ID,
			"ignored_variant_id": variant.ID,
		}).Warn("동일한 옵션값 조합을 가진 변형이 중복 감지되어 첫 번째 변형을 사용합니다")
	}

	return matched
}

// exactMatch 변형이 선언한 옵션값 조합이 선택된 옵션값 ID 집합과 정확히 일치하는지 검사합니다.
func exactMatch(variant *Variant, selectedValueIDs map[string]struct{}) bool {
	if len(variant.OptionValueIDs) != len(selectedValueIDs) {
		return false
	}

	for _, valueID := range variant.OptionValueIDs {
		if _, ok := selectedValueIDs[valueID]; !ok {
			return false
		}
	}

	return true
}

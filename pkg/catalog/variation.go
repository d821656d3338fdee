package catalog

import (
	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
)

// ComputeVariation 상품 정의와 고객의 옵션 선택으로부터 복합 결과(Variation)를 계산합니다.
//
// 처리 순서:
//  1. 선택 입력을 상품의 옵션 정의에 대해 해석하여 정규화합니다. (알 수 없는 엔트리는 제외)
//  2. 정규화된 선택으로 변형(Variant) 목록에서 정확히 일치하는 변형을 찾습니다.
//  3. 기본 상품, 매칭된 변형, 옵션 증감분을 우선순위에 따라 병합합니다.
//
// 특성:
//   - 순수 함수: 동일한 입력은 항상 구조적으로 동일한 결과를 만들며, 입력 상품은 절대 변경되지 않습니다.
//   - 동기 실행: 네트워크 호출이나 대기 지점이 없으므로 여러 고루틴에서 조정 없이 호출해도 안전합니다.
//   - 옵션이 없는 상품은 선택 입력과 무관하게 기본 상품의 얕은 복사본을 그대로 반환합니다.
//   - "변형 매칭 없음"은 에러가 아니라 기본 상품 속성에 비변형 증감분만 적용된 정상 상태입니다.
//
// 에러는 상품이 nil인 경우에만 반환됩니다.
func ComputeVariation(product *Product, sel Selection) (Variation, error) {
	if product == nil {
		return Variation{}, apperrors.New(apperrors.InvalidInput, "변형을 계산할 상품이 nil입니다")
	}

	// 옵션이 없는 상품은 변형이 불가능하므로 기본 상품을 그대로 반환합니다.
	if len(product.Options) == 0 {
		return Variation{Product: *product}, nil
	}

	pairs := resolveSelection(product, sel)
	variant := matchVariant(product, pairs)

	return mergeAttributes(product, variant, pairs), nil
}

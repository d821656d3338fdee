package catalog

import (
	applog "github.com/darkkaiser/storefront-sdk/pkg/log"
)

// resolvedPair 선택 입력 하나가 상품의 옵션 정의에 성공적으로 해석된 결과입니다.
type resolvedPair struct {
	option *Option
	value  *OptionValue
}

// resolveSelection 고객의 선택 입력을 상품의 옵션 정의에 대해 해석하여
// 정규화된 (옵션, 옵션값) 쌍의 목록을 만듭니다.
//
// 해석 규칙:
//   - 각 엔트리의 키는 옵션 ID 우선, 그다음 대소문자를 구분하는 이름으로 매칭됩니다.
//   - 매칭된 옵션 내에서 값도 동일한 규칙(ID 우선, 이름 차선)으로 해석됩니다.
//   - 상품에 존재하지 않는 옵션이나 값을 가리키는 엔트리는 조용히 제외됩니다.
//     (알 수 없는 입력이 전체 계산을 실패시키지 않도록 하는 의도된 관대함)
//   - 동일한 옵션을 가리키는 엔트리가 여러 개인 경우 첫 번째 엔트리가 사용됩니다.
//
// 결과 목록의 순서는 호출자의 입력 순서가 아니라 상품의 옵션 선언 순서를 따릅니다.
// 이 고정된 순서가 이후 변형 매칭 단계의 결정적인 동작을 보장합니다.
func resolveSelection(product *Product, sel Selection) []resolvedPair {
	if sel.IsEmpty() || len(product.Options) == 0 {
		return nil
	}

	// 1. 각 엔트리를 옵션에 매핑합니다. (옵션 ID를 키로 사용, 첫 번째 엔트리 우선)
	entryByOptionID := make(map[string]SelectionEntry, len(sel.entries))
	for _, entry := range sel.entries {
		option := resolveOption(product.Options, entry.Key)
		if option == nil {
			// 상품에 존재하지 않는 옵션은 제외합니다.
			applog.WithComponentAndFields(component, applog.Fields{
				"product_id": product.ID,
				"key":        entry.Key,
			}).Debug("알 수 없는 옵션 선택 엔트리를 제외합니다")
			continue
		}

		if _, exists := entryByOptionID[option.ID]; exists {
			continue
		}
		entryByOptionID[option.ID] = entry
	}

	// 2. 상품의 옵션 선언 순서대로 값을 해석하여 정규화된 쌍을 만듭니다.
	pairs := make([]resolvedPair, 0, len(entryByOptionID))
	for i := range product.Options {
		option := &product.Options[i]

		entry, ok := entryByOptionID[option.ID]
		if !ok {
			// 선택되지 않은 옵션은 결과에서 단순히 빠집니다. (부분 선택 허용)
			continue
		}

		value := resolveValue(option.Values, entry.Value)
		if value == nil {
			// 옵션에 존재하지 않는 값도 동일하게 제외합니다.
			applog.WithComponentAndFields(component, applog.Fields{
				"product_id": product.ID,
				"option_id":  option.ID,
				"value":      entry.Value,
			}).Debug("알 수 없는 옵션값 선택 엔트리를 제외합니다")
			continue
		}

		pairs = append(pairs, resolvedPair{option: option, value: value})
	}

	return pairs
}

// resolveOption 토큰(ID 또는 이름)으로 옵션을 찾습니다. ID 매칭이 이름 매칭보다 우선합니다.
// 이름 매칭은 대소문자를 구분합니다.
func resolveOption(options []Option, token string) *Option {
	if token == "" {
		return nil
	}

	for i := range options {
		if options[i].ID == token {
			return &options[i]
		}
	}

	for i := range options {
		if options[i].Name == token {
			return &options[i]
		}
	}

	return nil
}

// resolveValue 토큰(ID 또는 이름)으로 옵션값을 찾습니다. ID 매칭이 이름 매칭보다 우선합니다.
// 이름 매칭은 대소문자를 구분합니다.
func resolveValue(values []OptionValue, token string) *OptionValue {
	if token == "" {
		return nil
	}

	for i := range values {
		if values[i].ID == token {
			return &values[i]
		}
	}

	for i := range values {
		if values[i].Name == token {
			return &values[i]
		}
	}

	return nil
}

// Package catalog 상품 데이터 모델과 상품 변형(Variation) 결정 엔진을 제공합니다.
//
// 결정 엔진은 상품 정의(옵션, 변형 목록)와 고객이 선택한 옵션값을 입력받아,
// 실제 구매 대상이 되는 복합 결과(가격, 할인가, 재고 상태, 적용된 옵션)를
// 결정적으로 계산합니다. 입력된 상품 데이터는 절대 변경되지 않습니다.
package catalog

// component catalog 패키지의 로깅용 컴포넌트 이름
const component = "catalog"

// 재고 상태 값
//
// 스토어프론트 API가 내려주는 문자열 그대로 사용하며,
// 재고 상태 병합 시 더 제한적인 상태가 우선합니다. (out_of_stock > limited > in_stock)
const (
	StockInStock    = "in_stock"
	StockLimited    = "limited"
	StockOutOfStock = "out_of_stock"
)

// 옵션 입력 유형
const (
	OptionInputSelect = "select" // 단일 선택
	OptionInputToggle = "toggle" // 켜기/끄기
)

// Product 스토어프론트 API가 내려주는 상품 정의입니다.
//
// 이 구조체는 결정 엔진 입장에서 읽기 전용이며,
// 엔진은 매 호출마다 파생된 결과만 계산할 뿐 상품 데이터를 절대 변경하지 않습니다.
type Product struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`

	Description string `json:"description"`

	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price"`
	OrigPrice *float64 `json:"orig_price"`

	Currency string `json:"currency"`

	StockStatus   string `json:"stock_status"`
	StockLevel    int    `json:"stock_level"`
	StockTracking bool   `json:"stock_tracking"`

	// Options 상품에 선언된 옵션 목록입니다. 선언 순서가 정규화 결과의 순서를 결정합니다.
	Options []Option `json:"options"`

	// Variants 사전에 가격이 책정된 옵션값 조합 목록입니다. 비어 있으면 변형 매칭이 수행되지 않습니다.
	Variants []Variant `json:"variants"`
}

// Option 상품의 구성 가능한 속성(예: 사이즈, 색상)입니다.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// InputType 옵션의 입력 유형입니다. (select, toggle 등)
	InputType string `json:"input_type"`

	// Variant true이면 이 옵션이 변형(Variant) 매칭에 참여합니다.
	// false이면 선택된 옵션값의 증감분(Delta)이 변형 매칭 없이 직접 적용됩니다.
	Variant bool `json:"variant"`

	// Required true이면 구매 시 반드시 값을 선택해야 하는 옵션입니다.
	Required bool `json:"required"`

	// Values 옵션에 선언된 값 목록입니다.
	// 값의 ID와 이름은 각각 옵션 내에서 유일합니다. (이름은 ID 대신 사용할 수 있는 보조 키)
	Values []OptionValue `json:"values"`
}

// OptionValue 옵션의 구체적인 선택지 하나입니다.
type OptionValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Price 이 값을 선택했을 때 상품 가격에 더해지는 증감분입니다. (0: 가격 변동 없음)
	Price float64 `json:"price"`

	// StockStatus 이 값을 선택했을 때 적용되는 재고 상태 재정의입니다. (빈 문자열: 재정의 없음)
	StockStatus string `json:"stock_status"`
}

// Variant 사전에 가격이 책정된 특정 옵션값 조합입니다.
//
// 변형이 매칭되면 변형이 명시적으로 가지고 있는 필드(가격, 할인가, 재고 상태 등)가
// 기본 상품의 값을 대체합니다. 명시하지 않은 필드는 기본 상품의 값이 유지됩니다.
type Variant struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// OptionValueIDs 이 변형이 나타내는 옵션값 조합입니다.
	// 변형 플래그가 켜진 옵션마다 하나씩의 값 ID를 가집니다.
	// 동일한 상품의 두 변형이 같은 조합을 선언해서는 안 되지만,
	// 데이터 무결성이 깨진 경우 목록 순서상 첫 번째 변형이 매칭됩니다.
	OptionValueIDs []string `json:"option_value_ids"`

	Price     *float64 `json:"price"`
	SalePrice *float64 `json:"sale_price"`
	OrigPrice *float64 `json:"orig_price"`

	StockStatus string `json:"stock_status"`
	StockLevel  *int   `json:"stock_level"`
}

// stockRestrictiveness 재고 상태의 제한 수준을 반환합니다. 값이 클수록 더 제한적인 상태입니다.
func stockRestrictiveness(status string) int {
	switch status {
	case StockOutOfStock:
		return 3
	case StockLimited:
		return 2
	case StockInStock:
		return 1
	default:
		return 0
	}
}

// mostRestrictiveStock 두 재고 상태 중 더 제한적인 쪽을 반환합니다.
// "out_of_stock"은 항상 "in_stock"을 지배합니다.
func mostRestrictiveStock(a, b string) string {
	if stockRestrictiveness(b) > stockRestrictiveness(a) {
		return b
	}
	return a
}

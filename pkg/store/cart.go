package store

import (
	"context"

	"github.com/darkkaiser/storefront-sdk/pkg/catalog"
	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
)

// Cart 현재 세션의 장바구니 상태입니다. 세션 토큰을 통해 서버 측에서 유지됩니다.
type Cart struct {
	ID string `json:"id"`

	Items []CartItem `json:"items"`

	SubTotal      float64 `json:"sub_total"`
	ShipmentTotal float64 `json:"shipment_total"`
	TaxTotal      float64 `json:"tax_total"`
	DiscountTotal float64 `json:"discount_total"`
	GrandTotal    float64 `json:"grand_total"`

	Currency   string `json:"currency"`
	CouponCode string `json:"coupon_code"`

	CheckoutURL string `json:"checkout_url"`
}

// CartItem 장바구니에 담긴 상품 한 줄입니다.
type CartItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`

	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`

	// Options 이 항목에 적용된 옵션 선택입니다. (변형 결정 엔진의 결과 형식과 동일)
	Options []catalog.SelectedOption `json:"options"`
}

// AddItemInput 장바구니 항목 추가 요청입니다.
type AddItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`

	// Options 고객의 옵션 선택입니다. ParseSelection이 지원하는 형태(맵, 목록)를 그대로 전달합니다.
	Options any `json:"options,omitempty"`
}

// CartResource 장바구니 조작을 담당하는 리소스입니다.
// 가격 계산과 재고 검증은 모두 서버 측에서 수행되며, 이 리소스는 요청 전달만 담당합니다.
type CartResource struct {
	client *transport.Client
}

// Get 현재 세션의 장바구니를 조회합니다. 장바구니가 없으면 서버가 빈 장바구니를 반환합니다.
func (r *CartResource) Get(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := r.client.Get(ctx, "cart", nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddItem 장바구니에 항목을 추가합니다.
func (r *CartResource) AddItem(ctx context.Context, input AddItemInput) (*Cart, error) {
	if input.ProductID == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "장바구니에 추가할 상품의 ID가 비어 있습니다")
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var cart Cart
	if err := r.client.Post(ctx, "cart/items", input, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// UpdateItem 장바구니 항목의 수량을 변경합니다.
func (r *CartResource) UpdateItem(ctx context.Context, itemID string, quantity int) (*Cart, error) {
	if itemID == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "변경할 장바구니 항목의 ID가 비어 있습니다")
	}
	if quantity <= 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "장바구니 항목의 수량은 1 이상이어야 합니다")
	}

	var cart Cart
	if err := r.client.Put(ctx, "cart/items/"+itemID, map[string]any{"quantity": quantity}, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// RemoveItem 장바구니에서 항목을 제거합니다.
func (r *CartResource) RemoveItem(ctx context.Context, itemID string) (*Cart, error) {
	if itemID == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "제거할 장바구니 항목의 ID가 비어 있습니다")
	}

	var cart Cart
	if err := r.client.Delete(ctx, "cart/items/"+itemID, nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// Empty 장바구니의 모든 항목을 제거합니다.
func (r *CartResource) Empty(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := r.client.Delete(ctx, "cart/items", nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// ApplyCoupon 장바구니에 쿠폰 코드를 적용합니다.
func (r *CartResource) ApplyCoupon(ctx context.Context, code string) (*Cart, error) {
	if code == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "적용할 쿠폰 코드가 비어 있습니다")
	}

	var cart Cart
	if err := r.client.Put(ctx, "cart/coupon", map[string]any{"code": code}, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// RemoveCoupon 장바구니에 적용된 쿠폰을 해제합니다.
func (r *CartResource) RemoveCoupon(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := r.client.Delete(ctx, "cart/coupon", nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// ApplyGiftcard 장바구니에 기프트카드 코드를 적용합니다.
func (r *CartResource) ApplyGiftcard(ctx context.Context, code string) (*Cart, error) {
	if code == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "적용할 기프트카드 코드가 비어 있습니다")
	}

	var cart Cart
	if err := r.client.Put(ctx, "cart/giftcard", map[string]any{"code": code}, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// RemoveGiftcard 장바구니에 적용된 기프트카드를 해제합니다.
func (r *CartResource) RemoveGiftcard(ctx context.Context, giftcardID string) (*Cart, error) {
	if giftcardID == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "해제할 기프트카드의 ID가 비어 있습니다")
	}

	var cart Cart
	if err := r.client.Delete(ctx, "cart/giftcard/"+giftcardID, nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// Update 장바구니의 배송지, 청구 정보 등 임의의 필드를 갱신합니다.
// values에는 서버 API가 허용하는 장바구니 필드를 그대로 전달합니다.
// 결제 위젯이 생성한 결제 토큰도 이 메서드를 통해 전달됩니다. (예: {"billing": {"card": {...}}})
func (r *CartResource) Update(ctx context.Context, values map[string]any) (*Cart, error) {
	if len(values) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "갱신할 장바구니 필드가 비어 있습니다")
	}

	var cart Cart
	if err := r.client.Put(ctx, "cart", values, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// Order 제출된 주문의 요약 정보입니다.
type Order struct {
	ID         string  `json:"id"`
	Number     string  `json:"number"`
	GrandTotal float64 `json:"grand_total"`
	Currency   string  `json:"currency"`
	Status     string  `json:"status"`
}

// SubmitOrder 현재 장바구니로 주문을 제출합니다.
// 주문 검증(재고, 결제 등)은 전적으로 서버 측에서 수행됩니다.
func (r *CartResource) SubmitOrder(ctx context.Context) (*Order, error) {
	var order Order
	if err := r.client.Post(ctx, "cart/order", nil, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

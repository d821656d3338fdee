package store

import (
	"context"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
)

// Subscription 고객의 정기 구독 정보입니다.
type Subscription struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`

	Status   string `json:"status"`
	Interval string `json:"interval"`
	Quantity int    `json:"quantity"`

	Price      float64 `json:"price"`
	GrandTotal float64 `json:"grand_total"`
	Currency   string  `json:"currency"`
}

// SubscriptionList 정기 구독 목록 조회 결과입니다.
type SubscriptionList struct {
	Count   int            `json:"count"`
	Results []Subscription `json:"results"`
}

// SubscriptionsResource 정기 구독 관리를 담당하는 리소스입니다.
// 결제 주기 처리와 상태 전이는 모두 서버 측에서 수행됩니다.
type SubscriptionsResource struct {
	client *transport.Client
}

// List 현재 세션 계정의 정기 구독 목록을 조회합니다.
func (r *SubscriptionsResource) List(ctx context.Context, query transport.Query) (*SubscriptionList, error) {
	var list SubscriptionList
	if err := r.client.Get(ctx, "subscriptions", query, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// Get 정기 구독 하나를 조회합니다.
func (r *SubscriptionsResource) Get(ctx context.Context, id string) (*Subscription, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "조회할 정기 구독의 ID가 비어 있습니다")
	}

	var sub Subscription
	if err := r.client.Get(ctx, "subscriptions/"+id, nil, &sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

// Create 새로운 정기 구독을 생성합니다.
// values에는 서버 API가 허용하는 구독 필드(product_id, interval 등)를 전달합니다.
func (r *SubscriptionsResource) Create(ctx context.Context, values map[string]any) (*Subscription, error) {
	if len(values) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "생성할 정기 구독 정보가 비어 있습니다")
	}

	var sub Subscription
	if err := r.client.Post(ctx, "subscriptions", values, &sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

// Update 정기 구독의 정보를 갱신합니다.
func (r *SubscriptionsResource) Update(ctx context.Context, id string, values map[string]any) (*Subscription, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "갱신할 정기 구독의 ID가 비어 있습니다")
	}
	if len(values) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "갱신할 정기 구독 정보가 비어 있습니다")
	}

	var sub Subscription
	if err := r.client.Put(ctx, "subscriptions/"+id, values, &sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

// Cancel 정기 구독을 해지합니다.
func (r *SubscriptionsResource) Cancel(ctx context.Context, id string) (*Subscription, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "해지할 정기 구독의 ID가 비어 있습니다")
	}

	var sub Subscription
	if err := r.client.Put(ctx, "subscriptions/"+id, map[string]any{"canceled": true}, &sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

package store

import (
	"context"

	"github.com/darkkaiser/storefront-sdk/pkg/catalog"
	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/htmltext"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
)

// ProductList 상품 목록 조회 결과입니다.
type ProductList struct {
	Count   int               `json:"count"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Results []catalog.Product `json:"results"`
}

// ProductsResource 상품 카탈로그 조회를 담당하는 리소스입니다.
// 모든 메서드는 스토어프론트 API로의 단순 전달(Passthrough)입니다.
type ProductsResource struct {
	client *transport.Client
}

// Get 상품 ID 또는 슬러그로 상품 하나를 조회합니다.
func (r *ProductsResource) Get(ctx context.Context, idOrSlug string, query transport.Query) (*catalog.Product, error) {
	if idOrSlug == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "조회할 상품의 ID 또는 슬러그가 비어 있습니다")
	}

	var product catalog.Product
	if err := r.client.Get(ctx, "products/"+idOrSlug, query, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// List 상품 목록을 조회합니다.
// 필터링, 페이지네이션 등의 조건은 query를 통해 전달합니다. (예: {"limit": 25, "page": 2})
func (r *ProductsResource) List(ctx context.Context, query transport.Query) (*ProductList, error) {
	var list ProductList
	if err := r.client.Get(ctx, "products", query, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// Excerpt 상품 설명(HTML)에서 태그를 제거한 요약문을 생성합니다.
// 목록 화면이나 검색 결과의 미리보기 텍스트로 사용합니다.
func (r *ProductsResource) Excerpt(product *catalog.Product, maxRunes int) string {
	if product == nil {
		return ""
	}
	return htmltext.Excerpt(product.Description, maxRunes)
}

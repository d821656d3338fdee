package store

import (
	"context"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
)

// Category 상품 분류 카테고리입니다. ParentID를 통해 트리 구조를 형성합니다.
type Category struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id"`
	Sorting     int    `json:"sorting"`
}

// CategoryList 카테고리 목록 조회 결과입니다.
type CategoryList struct {
	Count   int        `json:"count"`
	Page    int        `json:"page"`
	Results []Category `json:"results"`
}

// CategoriesResource 카테고리 조회를 담당하는 리소스입니다.
type CategoriesResource struct {
	client *transport.Client
}

// Get 카테고리 ID 또는 슬러그로 카테고리 하나를 조회합니다.
func (r *CategoriesResource) Get(ctx context.Context, idOrSlug string, query transport.Query) (*Category, error) {
	if idOrSlug == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "조회할 카테고리의 ID 또는 슬러그가 비어 있습니다")
	}

	var category Category
	if err := r.client.Get(ctx, "categories/"+idOrSlug, query, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

// List 카테고리 목록을 조회합니다.
func (r *CategoriesResource) List(ctx context.Context, query transport.Query) (*CategoryList, error) {
	var list CategoryList
	if err := r.client.Get(ctx, "categories", query, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

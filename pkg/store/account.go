package store

import (
	"context"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
)

// Account 로그인한 고객의 계정 정보입니다.
type Account struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Group     string `json:"group"`
}

// AccountResource 고객 계정 관리를 담당하는 리소스입니다.
// 인증 상태는 세션 토큰을 통해 서버 측에서 유지됩니다.
type AccountResource struct {
	client *transport.Client
}

// Get 현재 세션의 계정 정보를 조회합니다. 로그인 상태가 아니면 서버가 에러를 반환합니다.
func (r *AccountResource) Get(ctx context.Context) (*Account, error) {
	var account Account
	if err := r.client.Get(ctx, "account", nil, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// Create 새로운 고객 계정을 생성합니다.
// values에는 서버 API가 허용하는 계정 필드(email, password, first_name 등)를 전달합니다.
func (r *AccountResource) Create(ctx context.Context, values map[string]any) (*Account, error) {
	if len(values) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "생성할 계정 정보가 비어 있습니다")
	}

	var account Account
	if err := r.client.Post(ctx, "account", values, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// Update 현재 세션 계정의 정보를 갱신합니다.
func (r *AccountResource) Update(ctx context.Context, values map[string]any) (*Account, error) {
	if len(values) == 0 {
		return nil, apperrors.New(apperrors.InvalidInput, "갱신할 계정 정보가 비어 있습니다")
	}

	var account Account
	if err := r.client.Put(ctx, "account", values, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// Login 이메일과 비밀번호로 로그인합니다. 성공 시 세션 토큰이 갱신됩니다.
func (r *AccountResource) Login(ctx context.Context, email, password string) (*Account, error) {
	if email == "" || password == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "로그인에 필요한 이메일 또는 비밀번호가 비어 있습니다")
	}

	var account Account
	if err := r.client.Post(ctx, "account/login", map[string]any{
		"email":    email,
		"password": password,
	}, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// Logout 현재 세션을 로그아웃합니다.
func (r *AccountResource) Logout(ctx context.Context) error {
	return r.client.Post(ctx, "account/logout", nil, nil)
}

// OrderList 계정의 주문 내역 조회 결과입니다.
type OrderList struct {
	Count   int     `json:"count"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	Results []Order `json:"results"`
}

// Orders 현재 세션 계정의 주문 내역을 조회합니다.
// 페이지네이션 등의 조건은 query를 통해 전달합니다.
func (r *AccountResource) Orders(ctx context.Context, query transport.Query) (*OrderList, error) {
	var list OrderList
	if err := r.client.Get(ctx, "account/orders", query, &list); err != nil {
		return nil, err
	}

	return &list, nil
}

// Recover 비밀번호 재설정 메일 발송을 요청합니다.
func (r *AccountResource) Recover(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.New(apperrors.InvalidInput, "비밀번호 재설정을 요청할 이메일이 비어 있습니다")
	}

	return r.client.Post(ctx, "account/recover", map[string]any{"email": email}, nil)
}

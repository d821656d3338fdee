package proxy

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/darkkaiser/storefront-sdk/pkg/payment"
	"github.com/darkkaiser/storefront-sdk/pkg/store"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	"github.com/labstack/echo/v4"
)

// Handler 프록시 API 요청을 스토어프론트 SDK 호출로 변환하는 핸들러입니다.
type Handler struct {
	store *store.Store
}

// NewHandler 새로운 Handler를 생성합니다.
func NewHandler(s *store.Store) *Handler {
	if s == nil {
		panic("[NewHandler] store는 nil일 수 없습니다")
	}

	return &Handler{store: s}
}

// queryFromContext 프록시로 들어온 쿼리 파라미터를 스토어프론트 API 쿼리로 변환합니다.
// 같은 키가 여러 번 전달된 경우 모든 값을 유지합니다.
func queryFromContext(c echo.Context) transport.Query {
	params := c.QueryParams()
	if len(params) == 0 {
		return nil
	}

	query := make(transport.Query, len(params))
	for key, values := range params {
		if len(values) == 1 {
			query[key] = values[0]
		} else {
			query[key] = values
		}
	}

	return query
}

// ------------------------------------------------------------------------------------------------
// 상품 (Products)
// ------------------------------------------------------------------------------------------------

// ListProducts 상품 목록을 조회합니다.
// GET /api/v1/products
func (h *Handler) ListProducts(c echo.Context) error {
	list, err := h.store.Products.List(c.Request().Context(), queryFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, list)
}

// GetProduct 상품 하나를 조회합니다.
// GET /api/v1/products/:id
func (h *Handler) GetProduct(c echo.Context) error {
	product, err := h.store.Products.Get(c.Request().Context(), c.Param("id"), queryFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, product)
}

// variationRequest 변형 계산 요청의 본문입니다.
// selection은 맵({"색상": "파랑"})과 목록([{"id": "...", "value": "..."}]) 형태를 모두 허용합니다.
type variationRequest struct {
	Selection any `json:"selection"`
}

// ComputeVariation 상품에 고객의 옵션 선택을 적용한 변형 결과를 계산합니다.
// POST /api/v1/products/:id/variation
func (h *Handler) ComputeVariation(c echo.Context) error {
	var req variationRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	variation, err := h.store.Variation(c.Request().Context(), c.Param("id"), req.Selection)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, variation)
}

// ------------------------------------------------------------------------------------------------
// 카테고리 (Categories)
// ------------------------------------------------------------------------------------------------

// ListCategories 카테고리 목록을 조회합니다.
// GET /api/v1/categories
func (h *Handler) ListCategories(c echo.Context) error {
	list, err := h.store.Categories.List(c.Request().Context(), queryFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, list)
}

// GetCategory 카테고리 하나를 조회합니다.
// GET /api/v1/categories/:id
func (h *Handler) GetCategory(c echo.Context) error {
	category, err := h.store.Categories.Get(c.Request().Context(), c.Param("id"), queryFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, category)
}

// ------------------------------------------------------------------------------------------------
// 설정 (Settings)
// ------------------------------------------------------------------------------------------------

// GetSettings 캐시된 스토어 설정을 조회합니다.
//
// path 쿼리 파라미터가 주어지면 점(.)으로 구분된 경로의 값만 반환하고,
// 없으면 설정 전체를 반환합니다. 네트워크 요청은 발생하지 않습니다.
// GET /api/v1/settings?path=store.name
func (h *Handler) GetSettings(c echo.Context) error {
	if path := c.QueryParam("path"); path != "" {
		return c.JSON(http.StatusOK, map[string]any{
			"path":  path,
			"value": h.store.Settings.Get(path, nil),
		})
	}

	raw := h.store.Settings.Raw()
	if raw == nil {
		raw = json.RawMessage("{}")
	}

	return c.JSONBlob(http.StatusOK, raw)
}

// ListMenus 캐시된 내비게이션 메뉴 전체를 조회합니다.
// GET /api/v1/settings/menus
func (h *Handler) ListMenus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Settings.Menus())
}

// GetMenu 캐시된 내비게이션 메뉴 하나를 ID로 조회합니다.
// GET /api/v1/settings/menus/:id
func (h *Handler) GetMenu(c echo.Context) error {
	menu, ok := h.store.Settings.Menu(c.Param("id"))
	if !ok {
		return NewNotFoundError("해당 ID의 메뉴를 찾을 수 없습니다")
	}

	return c.JSON(http.StatusOK, menu)
}

// GetPaymentSettings 캐시된 결제 설정을 파싱하여 조회합니다.
// GET /api/v1/settings/payments
func (h *Handler) GetPaymentSettings(c echo.Context) error {
	settings, err := payment.ParseSettings(h.store.Settings)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, settings)
}

// ------------------------------------------------------------------------------------------------
// 장바구니 (Cart)
// ------------------------------------------------------------------------------------------------

// GetCart 현재 세션의 장바구니를 조회합니다.
// GET /api/v1/cart
func (h *Handler) GetCart(c echo.Context) error {
	cart, err := h.store.Cart.Get(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// AddCartItem 장바구니에 항목을 추가합니다.
// POST /api/v1/cart/items
func (h *Handler) AddCartItem(c echo.Context) error {
	var input store.AddItemInput
	if err := c.Bind(&input); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	cart, err := h.store.Cart.AddItem(c.Request().Context(), input)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// updateItemRequest 장바구니 항목 수량 변경 요청의 본문입니다.
type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem 장바구니 항목의 수량을 변경합니다.
// PUT /api/v1/cart/items/:id
func (h *Handler) UpdateCartItem(c echo.Context) error {
	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	cart, err := h.store.Cart.UpdateItem(c.Request().Context(), c.Param("id"), req.Quantity)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// RemoveCartItem 장바구니에서 항목을 제거합니다.
// DELETE /api/v1/cart/items/:id
func (h *Handler) RemoveCartItem(c echo.Context) error {
	cart, err := h.store.Cart.RemoveItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// EmptyCart 장바구니의 모든 항목을 제거합니다.
// DELETE /api/v1/cart/items
func (h *Handler) EmptyCart(c echo.Context) error {
	cart, err := h.store.Cart.Empty(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// couponRequest 쿠폰 적용 요청의 본문입니다.
type couponRequest struct {
	Code string `json:"code"`
}

// ApplyCoupon 장바구니에 쿠폰 코드를 적용합니다.
// PUT /api/v1/cart/coupon
func (h *Handler) ApplyCoupon(c echo.Context) error {
	var req couponRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	cart, err := h.store.Cart.ApplyCoupon(c.Request().Context(), req.Code)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// RemoveCoupon 장바구니에 적용된 쿠폰을 해제합니다.
// DELETE /api/v1/cart/coupon
func (h *Handler) RemoveCoupon(c echo.Context) error {
	cart, err := h.store.Cart.RemoveCoupon(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// ApplyGiftcard 장바구니에 기프트카드 코드를 적용합니다.
// PUT /api/v1/cart/giftcard
func (h *Handler) ApplyGiftcard(c echo.Context) error {
	var req couponRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	cart, err := h.store.Cart.ApplyGiftcard(c.Request().Context(), req.Code)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// RemoveGiftcard 장바구니에 적용된 기프트카드를 해제합니다.
// DELETE /api/v1/cart/giftcard/:id
func (h *Handler) RemoveGiftcard(c echo.Context) error {
	cart, err := h.store.Cart.RemoveGiftcard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// UpdateCart 장바구니의 배송지, 청구 정보 등 임의의 필드를 갱신합니다.
// PUT /api/v1/cart
func (h *Handler) UpdateCart(c echo.Context) error {
	var values map[string]any
	if err := c.Bind(&values); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	cart, err := h.store.Cart.Update(c.Request().Context(), values)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// SubmitOrder 현재 장바구니로 주문을 제출합니다.
// POST /api/v1/cart/order
func (h *Handler) SubmitOrder(c echo.Context) error {
	order, err := h.store.Cart.SubmitOrder(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, order)
}

// ------------------------------------------------------------------------------------------------
// 계정 (Account)
// ------------------------------------------------------------------------------------------------

// GetAccount 현재 세션의 계정 정보를 조회합니다.
// GET /api/v1/account
func (h *Handler) GetAccount(c echo.Context) error {
	account, err := h.store.Account.Get(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, account)
}

// CreateAccount 새로운 고객 계정을 생성합니다.
// POST /api/v1/account
func (h *Handler) CreateAccount(c echo.Context) error {
	var values map[string]any
	if err := c.Bind(&values); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	account, err := h.store.Account.Create(c.Request().Context(), values)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, account)
}

// UpdateAccount 현재 세션 계정의 정보를 갱신합니다.
// PUT /api/v1/account
func (h *Handler) UpdateAccount(c echo.Context) error {
	var values map[string]any
	if err := c.Bind(&values); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	account, err := h.store.Account.Update(c.Request().Context(), values)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, account)
}

// ListAccountOrders 현재 세션 계정의 주문 내역을 조회합니다.
// GET /api/v1/account/orders
func (h *Handler) ListAccountOrders(c echo.Context) error {
	list, err := h.store.Account.Orders(c.Request().Context(), queryFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, list)
}

// loginRequest 로그인 요청의 본문입니다.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 이메일과 비밀번호로 로그인합니다.
// POST /api/v1/account/login
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	account, err := h.store.Account.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, account)
}

// Logout 현재 세션을 로그아웃합니다.
// POST /api/v1/account/logout
func (h *Handler) Logout(c echo.Context) error {
	if err := h.store.Account.Logout(c.Request().Context()); err != nil {
		return toHTTPError(err)
	}

	return Success(c)
}

// recoverRequest 비밀번호 재설정 요청의 본문입니다.
type recoverRequest struct {
	Email string `json:"email"`
}

// RecoverAccount 비밀번호 재설정 메일 발송을 요청합니다.
// POST /api/v1/account/recover
func (h *Handler) RecoverAccount(c echo.Context) error {
	var req recoverRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	if err := h.store.Account.Recover(c.Request().Context(), req.Email); err != nil {
		return toHTTPError(err)
	}

	return Success(c)
}

// ------------------------------------------------------------------------------------------------
// 정기 구독 (Subscriptions)
// ------------------------------------------------------------------------------------------------

// ListSubscriptions 현재 세션 계정의 정기 구독 목록을 조회합니다.
// GET /api/v1/subscriptions
func (h *Handler) ListSubscriptions(c echo.Context) error {
	list, err := h.store.Subscriptions.List(c.Request().Context(), queryFromContext(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, list)
}

// GetSubscription 정기 구독 하나를 조회합니다.
// GET /api/v1/subscriptions/:id
func (h *Handler) GetSubscription(c echo.Context) error {
	sub, err := h.store.Subscriptions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, sub)
}

// CreateSubscription 새로운 정기 구독을 생성합니다.
// POST /api/v1/subscriptions
func (h *Handler) CreateSubscription(c echo.Context) error {
	var values map[string]any
	if err := c.Bind(&values); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	sub, err := h.store.Subscriptions.Create(c.Request().Context(), values)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, sub)
}

// UpdateSubscription 정기 구독의 정보를 갱신합니다.
// PUT /api/v1/subscriptions/:id
func (h *Handler) UpdateSubscription(c echo.Context) error {
	var values map[string]any
	if err := c.Bind(&values); err != nil {
		return NewBadRequestError("요청 본문을 해석할 수 없습니다")
	}

	sub, err := h.store.Subscriptions.Update(c.Request().Context(), c.Param("id"), values)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, sub)
}

// CancelSubscription 정기 구독을 해지합니다.
// DELETE /api/v1/subscriptions/:id
func (h *Handler) CancelSubscription(c echo.Context) error {
	sub, err := h.store.Subscriptions.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, sub)
}

// ------------------------------------------------------------------------------------------------
// 시스템 (System)
// ------------------------------------------------------------------------------------------------

// HealthCheck 서비스의 구동 상태를 반환합니다.
// GET /health
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

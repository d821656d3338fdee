package proxy

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 프록시 API의 전역 라우트를 등록합니다.
//
// 등록되는 엔드포인트:
//   - 시스템: 서비스 상태 확인(/health)
//   - v1 API: /api/v1 하위의 스토어프론트 리소스 엔드포인트
func RegisterRoutes(e *echo.Echo, h *Handler) {
	// 시스템 엔드포인트
	e.GET("/health", h.HealthCheck)

	// API v1 그룹 생성 (/api/v1 prefix)
	v1 := e.Group("/api/v1")

	// 상품
	v1.GET("/products", h.ListProducts)
	v1.GET("/products/:id", h.GetProduct)
	v1.POST("/products/:id/variation", h.ComputeVariation)

	// 카테고리
	v1.GET("/categories", h.ListCategories)
	v1.GET("/categories/:id", h.GetCategory)

	// 설정 (캐시 조회, 네트워크 요청 없음)
	v1.GET("/settings", h.GetSettings)
	v1.GET("/settings/menus", h.ListMenus)
	v1.GET("/settings/menus/:id", h.GetMenu)
	v1.GET("/settings/payments", h.GetPaymentSettings)

	// 장바구니
	v1.GET("/cart", h.GetCart)
	v1.PUT("/cart", h.UpdateCart)
	v1.POST("/cart/items", h.AddCartItem)
	v1.PUT("/cart/items/:id", h.UpdateCartItem)
	v1.DELETE("/cart/items/:id", h.RemoveCartItem)
	v1.DELETE("/cart/items", h.EmptyCart)
	v1.PUT("/cart/coupon", h.ApplyCoupon)
	v1.DELETE("/cart/coupon", h.RemoveCoupon)
	v1.PUT("/cart/giftcard", h.ApplyGiftcard)
	v1.DELETE("/cart/giftcard/:id", h.RemoveGiftcard)
	v1.POST("/cart/order", h.SubmitOrder)

	// 계정
	v1.GET("/account", h.GetAccount)
	v1.POST("/account", h.CreateAccount)
	v1.PUT("/account", h.UpdateAccount)
	v1.GET("/account/orders", h.ListAccountOrders)
	v1.POST("/account/login", h.Login)
	v1.POST("/account/logout", h.Logout)
	v1.POST("/account/recover", h.RecoverAccount)

	// 정기 구독
	v1.GET("/subscriptions", h.ListSubscriptions)
	v1.GET("/subscriptions/:id", h.GetSubscription)
	v1.POST("/subscriptions", h.CreateSubscription)
	v1.PUT("/subscriptions/:id", h.UpdateSubscription)
	v1.DELETE("/subscriptions/:id", h.CancelSubscription)
}

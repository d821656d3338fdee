package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler echo.HandlerFunc
	}{
		{
			name: "PanicWithString",
			handler: func(c echo.Context) error {
				panic("예기치 않은 오류")
			},
		},
		{
			name: "PanicWithError",
			handler: func(c echo.Context) error {
				panic(apperrors.New(apperrors.Internal, "내부 상태 불일치"))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			h := PanicRecovery()(tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			// panic이 복구되어 서버 전체로 전파되지 않아야 한다.
			require.NotPanics(t, func() {
				assert.NoError(t, h(c))
			})

			// 복구된 panic은 500 응답으로 변환되어야 한다.
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
		})
	}
}

func TestPanicRecovery_NormalRequestPassesThrough(t *testing.T) {
	t.Parallel()

	e := echo.New()
	h := PanicRecovery()(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

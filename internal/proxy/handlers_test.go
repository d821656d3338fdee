package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darkkaiser/storefront-sdk/pkg/store"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// fakeUpstream 경로별로 준비된 JSON 응답을 반환하는 테스트용 Fetcher입니다.
// 준비되지 않은 경로에 대해서는 404 응답을 반환합니다.
type fakeUpstream struct {
	responses map[string]string
}

func (f *fakeUpstream) Do(req *http.Request) (*http.Response, error) {
	body, ok := f.responses[req.URL.Path]
	status := http.StatusOK
	if !ok {
		body = `{"message": "not found"}`
		status = http.StatusNotFound
	}

	resp := &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}

	if status != http.StatusOK {
		return nil, transport.CheckResponseStatus(resp)
	}
	return resp, nil
}

// newTestHandler 네트워크 없이 동작하는 테스트용 Handler를 생성합니다.
func newTestHandler(t *testing.T, responses map[string]string) *Handler {
	t.Helper()

	s, err := store.New(store.Config{
		BaseURL:  "http://upstream.test",
		StoreKey: "pk_test",
		SettingsDefaults: map[string]any{
			"store": map[string]any{"name": "기본 스토어"},
		},
		Fetcher: &fakeUpstream{responses: responses},
	})
	require.NoError(t, err)

	return NewHandler(s)
}

// testProductJSON 변형 옵션(사이즈)과 비변형 옵션(선물 포장)을 가진 테스트 상품입니다.
const testProductJSON = `{
	"id": "p-1",
	"name": "머그컵",
	"price": 30,
	"currency": "KRW",
	"stock_status": "in_stock",
	"options": [
		{
			"id": "opt-size", "name": "사이즈", "variant": true, "required": true,
			"values": [
				{"id": "val-small", "name": "Small"},
				{"id": "val-large", "name": "Large"}
			]
		},
		{
			"id": "opt-wrap", "name": "선물 포장", "variant": false,
			"values": [
				{"id": "val-yes", "name": "Yes", "price": 5}
			]
		}
	],
	"variants": [
		{"id": "var-large", "option_value_ids": ["val-large"], "price": 40}
	]
}`

func TestHandler_GetProduct(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, map[string]string{
		"/products/p-1": testProductJSON,
	})

	t.Run("Found", func(t *testing.T) {
		t.Parallel()

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("p-1")

		require.NoError(t, h.GetProduct(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "머그컵", gjson.Get(rec.Body.String(), "name").String())
	})

	t.Run("NotFoundPassthrough", func(t *testing.T) {
		t.Parallel()

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := h.GetProduct(c)

		require.Error(t, err)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestHandler_ComputeVariation(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, map[string]string{
		"/products/p-1": testProductJSON,
	})

	tests := []struct {
		name          string
		body          string
		expectedPrice float64
		expectedID    string
	}{
		{
			// 변형 매칭: 변형의 가격이 기본 가격을 대체해야 한다.
			name:          "VariantMatch",
			body:          `{"selection": {"사이즈": "Large"}}`,
			expectedPrice: 40,
			expectedID:    "var-large",
		},
		{
			// 비변형 옵션: 증감분이 기본 가격에 더해져야 한다.
			name:          "NonVariantDelta",
			body:          `{"selection": {"선물 포장": "Yes"}}`,
			expectedPrice: 35,
			expectedID:    "",
		},
		{
			// 변형 + 비변형 조합: 변형 가격에 증감분이 더해져야 한다.
			name:          "Combined",
			body:          `{"selection": [{"id": "opt-size", "value": "val-large"}, {"id": "opt-wrap", "value": "val-yes"}]}`,
			expectedPrice: 45,
			expectedID:    "var-large",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues("p-1")

			require.NoError(t, h.ComputeVariation(c))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expectedPrice, gjson.Get(rec.Body.String(), "product.price").Float())
			assert.Equal(t, tt.expectedID, gjson.Get(rec.Body.String(), "variant_id").String())
		})
	}
}

func TestHandler_GetSettings(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, nil)

	t.Run("PathLookupUsesDefaults", func(t *testing.T) {
		t.Parallel()

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?path=store.name", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.GetSettings(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "기본 스토어", gjson.Get(rec.Body.String(), "value").String())
	})

	t.Run("FullSnapshot", func(t *testing.T) {
		t.Parallel()

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, h.GetSettings(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "기본 스토어", gjson.Get(rec.Body.String(), "store.name").String())
	})
}

func TestHandler_GetMenu_NotFound(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("header")

	err := h.GetMenu(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

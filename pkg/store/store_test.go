package store

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// capturedRequest 테스트용 Fetcher가 기록한 요청 한 건입니다.
type capturedRequest struct {
	method string
	path   string
	body   string
}

// fakeFetcher 경로별로 준비된 JSON 응답을 반환하고 수신한 요청을 기록하는 테스트용 Fetcher입니다.
// 준비되지 않은 경로에 대해서는 404 응답을 반환합니다.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	requests  []capturedRequest
}

func (f *fakeFetcher) Do(req *http.Request) (*http.Response, error) {
	var reqBody string
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		reqBody = string(data)
	}

	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{
		method: req.Method,
		path:   req.URL.Path,
		body:   reqBody,
	})
	body, ok := f.responses[req.URL.Path]
	f.mu.Unlock()

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

// requestCount 지금까지 기록된 요청 수를 반환합니다.
func (f *fakeFetcher) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// newTestStore 네트워크 없이 동작하는 테스트용 Store를 생성합니다.
func newTestStore(t *testing.T, responses map[string]string) (*Store, *fakeFetcher) {
	t.Helper()

	fetcher := &fakeFetcher{responses: responses}
	s, err := New(Config{
		BaseURL:  "http://upstream.test",
		StoreKey: "pk_test",
		SettingsDefaults: map[string]any{
			"store": map[string]any{"name": "기본 스토어"},
		},
		Fetcher: fetcher,
	})
	require.NoError(t, err)

	return s, fetcher
}

func TestStore_Init(t *testing.T) {
	t.Parallel()

	t.Run("AllSucceed", func(t *testing.T) {
		t.Parallel()

		s, fetcher := newTestStore(t, map[string]string{
			"/settings":          `{"store": {"name": "실제 스토어"}}`,
			"/settings/menus":    `[{"id": "header", "name": "상단 메뉴"}]`,
			"/settings/payments": `{"currency": "KRW", "gateways": {}}`,
		})

		require.NoError(t, s.Init(context.Background()))

		assert.Equal(t, 3, fetcher.requestCount())
		assert.Equal(t, "실제 스토어", s.Settings.GetString("store.name", ""))
		_, ok := s.Settings.Menu("header")
		assert.True(t, ok)
		assert.NotNil(t, s.Settings.PaymentSettings())
	})

	t.Run("PartialFailureKeepsSuccessfulSlots", func(t *testing.T) {
		t.Parallel()

		// 메뉴 경로만 준비하지 않아 해당 슬롯의 갱신이 실패하도록 한다.
		s, _ := newTestStore(t, map[string]string{
			"/settings":          `{"store": {"name": "실제 스토어"}}`,
			"/settings/payments": `{"currency": "KRW", "gateways": {}}`,
		})

		err := s.Init(context.Background())

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))

		// 실패한 슬롯과 무관하게 성공한 슬롯의 스냅샷은 조회 가능해야 한다.
		assert.Equal(t, "실제 스토어", s.Settings.GetString("store.name", ""))
		assert.NotNil(t, s.Settings.PaymentSettings())
		assert.Nil(t, s.Settings.Menus())
	})
}

// TestStore_ConcurrentReadsDuringFetch 설정 스냅샷 갱신 중에도 조회가 차단되지 않고
// 항상 일관된 버전(기본값 또는 갱신된 스냅샷)을 반환하는지 검증합니다. (-race 전용 시나리오)
func TestStore_ConcurrentReadsDuringFetch(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t, map[string]string{
		"/settings": `{"store": {"name": "실제 스토어"}}`,
	})

	const readers = 8

	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start

			for j := 0; j < 200; j++ {
				name := s.Settings.GetString("store.name", "")
				assert.Contains(t, []string{"기본 스토어", "실제 스토어"}, name)
			}
		}()
	}

	close(start)
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Settings.FetchSettings(context.Background()))
	}
	wg.Wait()

	assert.Equal(t, "실제 스토어", s.Settings.GetString("store.name", ""))
}

func TestCartResource_AddItem(t *testing.T) {
	t.Parallel()

	t.Run("QuantityDefaultedToOne", func(t *testing.T) {
		t.Parallel()

		s, fetcher := newTestStore(t, map[string]string{
			"/cart/items": `{"id": "cart-1"}`,
		})

		cart, err := s.Cart.AddItem(context.Background(), AddItemInput{
			ProductID: "p-1",
			Quantity:  0,
		})

		require.NoError(t, err)
		assert.Equal(t, "cart-1", cart.ID)

		require.Equal(t, 1, fetcher.requestCount())
		req := fetcher.requests[0]
		assert.Equal(t, http.MethodPost, req.method)
		assert.EqualValues(t, 1, gjson.Get(req.body, "quantity").Int())
	})

	t.Run("QuantityPreserved", func(t *testing.T) {
		t.Parallel()

		s, fetcher := newTestStore(t, map[string]string{
			"/cart/items": `{"id": "cart-1"}`,
		})

		_, err := s.Cart.AddItem(context.Background(), AddItemInput{
			ProductID: "p-1",
			Quantity:  3,
		})

		require.NoError(t, err)
		require.Equal(t, 1, fetcher.requestCount())
		assert.EqualValues(t, 3, gjson.Get(fetcher.requests[0].body, "quantity").Int())
	})
}

// TestResources_InputValidation 각 리소스가 잘못된 입력을 네트워크 요청 없이
// InvalidInput 에러로 거부하는지 검증합니다.
func TestResources_InputValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		call func(ctx context.Context, s *Store) error
	}{
		{
			name: "CartAddItemEmptyProductID",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.AddItem(ctx, AddItemInput{Quantity: 1})
				return err
			},
		},
		{
			name: "CartUpdateItemEmptyID",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.UpdateItem(ctx, "", 1)
				return err
			},
		},
		{
			name: "CartUpdateItemZeroQuantity",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.UpdateItem(ctx, "item-1", 0)
				return err
			},
		},
		{
			name: "CartRemoveItemEmptyID",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.RemoveItem(ctx, "")
				return err
			},
		},
		{
			name: "CartApplyCouponEmptyCode",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.ApplyCoupon(ctx, "")
				return err
			},
		},
		{
			name: "CartApplyGiftcardEmptyCode",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.ApplyGiftcard(ctx, "")
				return err
			},
		},
		{
			name: "CartRemoveGiftcardEmptyID",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.RemoveGiftcard(ctx, "")
				return err
			},
		},
		{
			name: "CartUpdateEmptyValues",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Cart.Update(ctx, nil)
				return err
			},
		},
		{
			name: "AccountCreateEmptyValues",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Account.Create(ctx, nil)
				return err
			},
		},
		{
			name: "AccountUpdateEmptyValues",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Account.Update(ctx, nil)
				return err
			},
		},
		{
			name: "AccountLoginEmptyEmail",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Account.Login(ctx, "", "password")
				return err
			},
		},
		{
			name: "AccountLoginEmptyPassword",
			call: func(ctx context.Context, s *Store) error {
				_, err := s.Account.Login(ctx, "user@example.com", "")
				return err
			},
		},
		{
			name: "AccountRecoverEmptyEmail",
			call: func(ctx context.Context, s *Store) error {
				return s.Account.Recover(ctx, "")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, fetcher := newTestStore(t, nil)

			err := tt.call(context.Background(), s)

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

			// 입력 검증 실패 시에는 네트워크 요청이 발생하지 않아야 한다.
			assert.Equal(t, 0, fetcher.requestCount())
		})
	}
}

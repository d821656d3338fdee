package settings

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPIClient 경로별로 준비된 응답을 반환하는 테스트용 APIClient 구현입니다.
type fakeAPIClient struct {
	responses map[string]json.RawMessage
	errs      map[string]error
	calls     []string
}

func (f *fakeAPIClient) Fetch(_ context.Context, path string, _ transport.Query) (json.RawMessage, error) {
	f.calls = append(f.calls, path)

	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	return f.responses[path], nil
}

func TestNewCache(t *testing.T) {
	t.Parallel()

	t.Run("NilClient", func(t *testing.T) {
		t.Parallel()

		_, err := NewCache(nil, nil)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("WithDefaults", func(t *testing.T) {
		t.Parallel()

		cache, err := NewCache(&fakeAPIClient{}, map[string]any{
			"store": map[string]any{"name": "기본 스토어"},
		})

		require.NoError(t, err)
		assert.Equal(t, "기본 스토어", cache.GetString("store.name", "없음"))
	})
}

func TestCache_Get(t *testing.T) {
	t.Parallel()

	client := &fakeAPIClient{
		responses: map[string]json.RawMessage{
			settingsPath: json.RawMessage(`{
				"store": {
					"name": "테스트 스토어",
					"currency": "KRW",
					"tax_rate": 0.1,
					"open": true,
					"banner": null
				}
			}`),
		},
	}

	cache, err := NewCache(client, map[string]any{
		"store": map[string]any{"name": "기본 스토어"},
	})
	require.NoError(t, err)

	// 최초 Fetch 이전에는 기본 설정 스냅샷에서 조회되어야 한다.
	assert.Equal(t, "기본 스토어", cache.GetString("store.name", "없음"))
	assert.Equal(t, "없음", cache.GetString("store.slogan", "없음"))

	require.NoError(t, cache.FetchSettings(context.Background()))

	tests := []struct {
		name     string
		assertFn func(t *testing.T)
	}{
		{
			name: "StringValue",
			assertFn: func(t *testing.T) {
				assert.Equal(t, "테스트 스토어", cache.GetString("store.name", "없음"))
			},
		},
		{
			name: "FloatValue",
			assertFn: func(t *testing.T) {
				assert.InDelta(t, 0.1, cache.GetFloat("store.tax_rate", 0), 1e-9)
			},
		},
		{
			name: "BoolValue",
			assertFn: func(t *testing.T) {
				assert.True(t, cache.GetBool("store.open", false))
			},
		},
		{
			name: "MissingPathReturnsDefault",
			assertFn: func(t *testing.T) {
				assert.Equal(t, "대체값", cache.GetString("store.slogan", "대체값"))
				assert.Equal(t, 42.0, cache.GetFloat("store.nope", 42.0))
			},
		},
		{
			name: "NullLeafReturnsDefault",
			assertFn: func(t *testing.T) {
				assert.Equal(t, "배너 없음", cache.GetString("store.banner", "배너 없음"))
				assert.Equal(t, "기본", cache.Get("store.banner", "기본"))
			},
		},
		{
			name: "GenericValue",
			assertFn: func(t *testing.T) {
				assert.Equal(t, "KRW", cache.Get("store.currency", nil))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.assertFn)
	}
}

func TestCache_FetchSettings_ErrorKeepsSnapshot(t *testing.T) {
	t.Parallel()

	client := &fakeAPIClient{
		responses: map[string]json.RawMessage{
			settingsPath: json.RawMessage(`{"store": {"name": "첫 번째"}}`),
		},
	}

	cache, err := NewCache(client, nil)
	require.NoError(t, err)
	require.NoError(t, cache.FetchSettings(context.Background()))
	require.Equal(t, "첫 번째", cache.GetString("store.name", ""))

	// 이후의 Fetch 실패는 기존 스냅샷에 영향을 주지 않아야 한다.
	client.errs = map[string]error{
		settingsPath: apperrors.New(apperrors.Unavailable, "일시적인 서버 오류"),
	}

	err = cache.FetchSettings(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	assert.Equal(t, "첫 번째", cache.GetString("store.name", ""))
}

func TestCache_FetchSettings_InvalidBodyKeepsSnapshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body json.RawMessage
	}{
		{
			name: "MalformedJSON",
			body: json.RawMessage(`{"store": `),
		},
		{
			name: "NullBody",
			body: json.RawMessage(`null`),
		},
		{
			name: "NonObjectBody",
			body: json.RawMessage(`["store"]`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeAPIClient{
				responses: map[string]json.RawMessage{
					settingsPath: json.RawMessage(`{"store": {"name": "첫 번째"}}`),
				},
			}

			cache, err := NewCache(client, nil)
			require.NoError(t, err)
			require.NoError(t, cache.FetchSettings(context.Background()))
			require.Equal(t, "첫 번째", cache.GetString("store.name", ""))

			// 유효하지 않은 응답은 ParsingFailed로 거부되고 기존 스냅샷은 유지되어야 한다.
			client.responses[settingsPath] = tt.body

			err = cache.FetchSettings(context.Background())

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
			assert.Equal(t, "첫 번째", cache.GetString("store.name", ""))
		})
	}
}

func TestCache_Raw(t *testing.T) {
	t.Parallel()

	t.Run("NoDefaultsNoFetch", func(t *testing.T) {
		t.Parallel()

		cache, err := NewCache(&fakeAPIClient{}, nil)
		require.NoError(t, err)

		assert.Nil(t, cache.Raw())
	})

	t.Run("AfterFetch", func(t *testing.T) {
		t.Parallel()

		client := &fakeAPIClient{
			responses: map[string]json.RawMessage{
				settingsPath: json.RawMessage(`{"a": 1}`),
			},
		}
		cache, err := NewCache(client, nil)
		require.NoError(t, err)
		require.NoError(t, cache.FetchSettings(context.Background()))

		assert.JSONEq(t, `{"a": 1}`, string(cache.Raw()))
	})
}

func TestCache_Menus(t *testing.T) {
	t.Parallel()

	client := &fakeAPIClient{
		responses: map[string]json.RawMessage{
			menusPath: json.RawMessage(`[
				{"id": "header", "name": "상단 메뉴", "items": [
					{"name": "홈", "type": "home", "url": "/"},
					{"name": "카테고리", "type": "category", "url": "/categories", "items": [
						{"name": "신상품", "type": "category", "url": "/categories/new"}
					]}
				]},
				{"id": "footer", "name": "하단 메뉴", "items": []},
				{"id": "", "name": "ID 없는 메뉴"}
			]`),
		},
	}

	cache, err := NewCache(client, nil)
	require.NoError(t, err)

	// FetchMenus 호출 전에는 조회가 모두 실패해야 한다.
	_, ok := cache.Menu("header")
	assert.False(t, ok)
	assert.Nil(t, cache.Menus())

	require.NoError(t, cache.FetchMenus(context.Background()))

	// ID가 없는 메뉴는 건너뛰므로 2개만 보관되어야 한다.
	menus := cache.Menus()
	require.Len(t, menus, 2)

	header, ok := cache.Menu("header")
	require.True(t, ok)
	assert.Equal(t, "상단 메뉴", header.Name)
	require.Len(t, header.Items, 2)
	assert.Equal(t, "신상품", header.Items[1].Items[0].Name)

	_, ok = cache.Menu("sidebar")
	assert.False(t, ok)

	// Menus()가 반환한 맵을 변조하더라도 내부 스냅샷에는 영향이 없어야 한다.
	delete(menus, "header")
	_, ok = cache.Menu("header")
	assert.True(t, ok)
}

func TestCache_PaymentSettings(t *testing.T) {
	t.Parallel()

	client := &fakeAPIClient{
		responses: map[string]json.RawMessage{
			paymentsPath: json.RawMessage(`{"currency": "KRW", "gateways": {}}`),
		},
	}

	cache, err := NewCache(client, nil)
	require.NoError(t, err)

	// FetchPaymentSettings 호출 전에는 nil이어야 한다.
	assert.Nil(t, cache.PaymentSettings())

	require.NoError(t, cache.FetchPaymentSettings(context.Background()))

	assert.JSONEq(t, `{"currency": "KRW", "gateways": {}}`, string(cache.PaymentSettings()))
}

package payment

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/settings"
	"github.com/darkkaiser/storefront-sdk/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePaymentsClient 결제 설정 경로에 대해 준비된 JSON을 반환하는 테스트용 APIClient입니다.
type fakePaymentsClient struct {
	payments json.RawMessage
}

func (f *fakePaymentsClient) Fetch(_ context.Context, path string, _ transport.Query) (json.RawMessage, error) {
	if path == "settings/payments" {
		return f.payments, nil
	}
	return json.RawMessage("{}"), nil
}

// newFetchedCache 결제 설정까지 가져온 상태의 캐시를 생성합니다.
func newFetchedCache(t *testing.T, payments string) *settings.Cache {
	t.Helper()

	cache, err := settings.NewCache(&fakePaymentsClient{payments: json.RawMessage(payments)}, nil)
	require.NoError(t, err)
	require.NoError(t, cache.FetchPaymentSettings(context.Background()))

	return cache
}

func TestParseSettings(t *testing.T) {
	t.Parallel()

	t.Run("NilCache", func(t *testing.T) {
		t.Parallel()

		_, err := ParseSettings(nil)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("NotFetchedYet", func(t *testing.T) {
		t.Parallel()

		cache, err := settings.NewCache(&fakePaymentsClient{}, nil)
		require.NoError(t, err)

		_, err = ParseSettings(cache)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		t.Parallel()

		cache := newFetchedCache(t, `{invalid`)

		_, err := ParseSettings(cache)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("Success", func(t *testing.T) {
		t.Parallel()

		cache := newFetchedCache(t, `{
			"currency": "KRW",
			"gateways": {
				"stripe": {
					"enabled": true,
					"public_key": "pk_test_stripe",
					"methods": ["card", "apple_pay"],
					"webhook_endpoint": "https://example.com/hooks"
				},
				"paypal": {
					"id": "paypal",
					"enabled": false,
					"public_key": "client-id-paypal"
				}
			}
		}`)

		parsed, err := ParseSettings(cache)
		require.NoError(t, err)

		assert.Equal(t, "KRW", parsed.Currency)
		require.Len(t, parsed.Gateways, 2)

		// 게이트웨이의 ID 필드가 비어 있으면 맵의 키로 채워져야 한다.
		stripe, ok := parsed.Gateway(GatewayStripe)
		require.True(t, ok)
		assert.Equal(t, GatewayStripe, stripe.ID)
		assert.True(t, stripe.Enabled)
		assert.Equal(t, "pk_test_stripe", stripe.PublicKey)
		assert.Equal(t, []string{"card", "apple_pay"}, stripe.Methods)

		paypal, ok := parsed.Gateway(GatewayPayPal)
		require.True(t, ok)
		assert.False(t, paypal.Enabled)
	})
}

func TestSettings_EnabledGateways(t *testing.T) {
	t.Parallel()

	s := &Settings{
		Gateways: map[string]Gateway{
			"stripe":    {ID: "stripe", Enabled: true},
			"paypal":    {ID: "paypal", Enabled: false},
			"braintree": {ID: "braintree", Enabled: true},
		},
	}

	enabled := s.EnabledGateways()

	// 활성화된 게이트웨이만, 식별자 기준 정렬 순서로 반환되어야 한다.
	require.Len(t, enabled, 2)
	assert.Equal(t, "braintree", enabled[0].ID)
	assert.Equal(t, "stripe", enabled[1].ID)
}

func TestSettings_Gateway(t *testing.T) {
	t.Parallel()

	s := &Settings{
		Gateways: map[string]Gateway{
			"stripe": {ID: "stripe", Enabled: true},
		},
	}

	_, ok := s.Gateway("braintree")
	assert.False(t, ok)

	gw, ok := s.Gateway("stripe")
	require.True(t, ok)
	assert.Equal(t, "stripe", gw.ID)
}

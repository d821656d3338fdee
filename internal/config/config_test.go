package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile 임시 디렉토리에 설정 파일을 생성하고 경로를 반환합니다.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// validConfigJSON 필수 항목만 채운 최소한의 유효한 설정 파일입니다.
const validConfigJSON = `{
	"store": {
		"base_url": "https://store.example.com/api",
		"store_key": "pk_live_abcdef"
	}
}`

func TestLoadWithFile(t *testing.T) {
	t.Run("DefaultsApplied", func(t *testing.T) {
		path := writeConfigFile(t, validConfigJSON)

		appConfig, err := LoadWithFile(path)
		require.NoError(t, err)

		// 파일에 명시된 값
		assert.Equal(t, "https://store.example.com/api", appConfig.Store.BaseURL)
		assert.Equal(t, "pk_live_abcdef", appConfig.Store.StoreKey)

		// 파일에 없는 항목은 기본값으로 채워져야 한다.
		assert.Equal(t, DefaultRequestTimeout, appConfig.HTTP.RequestTimeout)
		assert.Equal(t, DefaultMaxRetries, appConfig.HTTP.MaxRetries)
		assert.Equal(t, DefaultListenPort, appConfig.API.ListenPort)
		assert.Equal(t, DefaultRateLimitRPS, appConfig.API.RateLimitRPS)
		assert.Equal(t, DefaultRateLimitBurst, appConfig.API.RateLimitBurst)
		assert.Equal(t, DefaultRefreshTimeSpec, appConfig.Refresh.TimeSpec)

		assert.Equal(t, 30*time.Second, appConfig.HTTP.RequestTimeoutDuration())
		assert.Equal(t, 2*time.Second, appConfig.HTTP.RetryDelayDuration())
	})

	t.Run("FileOverridesDefaults", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"debug": true,
			"store": {
				"base_url": "https://store.example.com/api",
				"store_key": "pk_live_abcdef",
				"locale": "ko-KR",
				"currency": "KRW"
			},
			"http": {
				"request_timeout": "10s",
				"max_retries": 5
			},
			"api": {
				"listen_port": 9090,
				"allow_origins": ["https://shop.example.com"]
			}
		}`)

		appConfig, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.True(t, appConfig.Debug)
		assert.Equal(t, "ko-KR", appConfig.Store.Locale)
		assert.Equal(t, "KRW", appConfig.Store.Currency)
		assert.Equal(t, "10s", appConfig.HTTP.RequestTimeout)
		assert.Equal(t, 5, appConfig.HTTP.MaxRetries)
		assert.Equal(t, 9090, appConfig.API.ListenPort)
		assert.Equal(t, []string{"https://shop.example.com"}, appConfig.API.AllowOrigins)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		// STOREFRONT_ 접두사 + 이중 언더스코어 구분자가 계층 구조로 변환되어야 한다.
		t.Setenv("STOREFRONT_STORE__STORE_KEY", "pk_from_env")

		path := writeConfigFile(t, validConfigJSON)

		appConfig, err := LoadWithFile(path)
		require.NoError(t, err)

		assert.Equal(t, "pk_from_env", appConfig.Store.StoreKey)
	})

	t.Run("FileNotFound", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(t.TempDir(), "없는파일.json"))

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.System))
		assert.Contains(t, err.Error(), "설정 파일을 찾을 수 없습니다")
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		path := writeConfigFile(t, `{ "store": `)

		_, err := LoadWithFile(path)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
	})

	t.Run("UnknownFieldRejected", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"store": {
				"base_url": "https://store.example.com/api",
				"store_key": "pk_live_abcdef"
			},
			"stroe": {}
		}`)

		_, err := LoadWithFile(path)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.System))
	})
}

func TestLoadWithFile_ValidationFailures(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectedMsg string
	}{
		{
			name:        "MissingStoreKey",
			content:     `{"store": {"base_url": "https://store.example.com/api"}}`,
			expectedMsg: "store_key",
		},
		{
			name: "InvalidBaseURL",
			content: `{"store": {
				"base_url": "스토어주소",
				"store_key": "pk_live_abcdef"
			}}`,
			expectedMsg: "base_url",
		},
		{
			name: "InvalidCurrencyCode",
			content: `{"store": {
				"base_url": "https://store.example.com/api",
				"store_key": "pk_live_abcdef",
				"currency": "krw"
			}}`,
			expectedMsg: "currency",
		},
		{
			name: "InvalidLocaleCode",
			content: `{"store": {
				"base_url": "https://store.example.com/api",
				"store_key": "pk_live_abcdef",
				"locale": "KOREAN"
			}}`,
			expectedMsg: "locale",
		},
		{
			name: "InvalidRequestTimeout",
			content: `{
				"store": {"base_url": "https://store.example.com/api", "store_key": "pk_live_abcdef"},
				"http": {"request_timeout": "서른초"}
			}`,
			expectedMsg: "request_timeout",
		},
		{
			name: "MaxRetriesOverLimit",
			content: `{
				"store": {"base_url": "https://store.example.com/api", "store_key": "pk_live_abcdef"},
				"http": {"max_retries": 100}
			}`,
			expectedMsg: "max_retries",
		},
		{
			name: "ListenPortOutOfRange",
			content: `{
				"store": {"base_url": "https://store.example.com/api", "store_key": "pk_live_abcdef"},
				"api": {"listen_port": 70000}
			}`,
			expectedMsg: "listen_port",
		},
		{
			name: "WildcardOriginMixedWithDomains",
			content: `{
				"store": {"base_url": "https://store.example.com/api", "store_key": "pk_live_abcdef"},
				"api": {"allow_origins": ["*", "https://shop.example.com"]}
			}`,
			expectedMsg: "와일드카드",
		},
		{
			name: "InvalidRefreshTimeSpec",
			content: `{
				"store": {"base_url": "https://store.example.com/api", "store_key": "pk_live_abcdef"},
				"refresh": {"runnable": true, "time_spec": "매 10분마다"}
			}`,
			expectedMsg: "time_spec",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.content)

			_, err := LoadWithFile(path)

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			assert.Contains(t, err.Error(), tt.expectedMsg)
		})
	}
}

func TestRefreshConfig_Validate_SkippedWhenNotRunnable(t *testing.T) {
	t.Parallel()

	// runnable이 아니면 time_spec이 비어 있거나 잘못되어도 에러가 아니어야 한다.
	c := RefreshConfig{Runnable: false, TimeSpec: "잘못된 표현식"}
	assert.NoError(t, c.validate())
}

func TestVerifyRecommendations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		config           AppConfig
		expectedWarnings int
	}{
		{
			name: "NoWarnings",
			config: AppConfig{
				Store: StoreConfig{BaseURL: "https://store.example.com/api"},
				API:   APIConfig{ListenPort: 8080},
			},
			expectedWarnings: 0,
		},
		{
			name: "PlainHTTPBaseURL",
			config: AppConfig{
				Store: StoreConfig{BaseURL: "http://store.example.com/api"},
				API:   APIConfig{ListenPort: 8080},
			},
			expectedWarnings: 1,
		},
		{
			name: "PrivilegedPort",
			config: AppConfig{
				Store: StoreConfig{BaseURL: "https://store.example.com/api"},
				API:   APIConfig{ListenPort: 80},
			},
			expectedWarnings: 1,
		},
		{
			name: "Both",
			config: AppConfig{
				Store: StoreConfig{BaseURL: "http://store.example.com/api"},
				API:   APIConfig{ListenPort: 443},
			},
			expectedWarnings: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, tt.config.VerifyRecommendations(), tt.expectedWarnings)
		})
	}
}

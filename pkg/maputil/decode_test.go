package maputil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleAddress struct {
	City string `json:"city"`
	Zip  string `json:"zip"`
}

type sampleCustomer struct {
	sampleAddress

	Name    string        `json:"name"`
	Age     int           `json:"age"`
	Active  bool          `json:"active"`
	Timeout time.Duration `json:"timeout"`
	Tags    []string      `json:"tags"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("BasicMapping", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleCustomer](map[string]any{
			"name":   "홍길동",
			"age":    30,
			"active": true,
		})
		require.NoError(t, err)

		assert.Equal(t, "홍길동", got.Name)
		assert.Equal(t, 30, got.Age)
		assert.True(t, got.Active)
	})

	t.Run("WeaklyTypedConversion", func(t *testing.T) {
		t.Parallel()

		// 문자열로 전달된 숫자/불리언 값이 자동으로 보정되어야 한다.
		got, err := Decode[sampleCustomer](map[string]any{
			"name":   "홍길동",
			"age":    "30",
			"active": 1,
		})
		require.NoError(t, err)

		assert.Equal(t, 30, got.Age)
		assert.True(t, got.Active)
	})

	t.Run("StringToDurationHook", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleCustomer](map[string]any{
			"timeout": "10s",
		})
		require.NoError(t, err)

		assert.Equal(t, 10*time.Second, got.Timeout)
	})

	t.Run("StringToSliceHook", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleCustomer](map[string]any{
			"tags": "vip,신규",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"vip", "신규"}, got.Tags)
	})

	t.Run("EmbeddedStructSquashed", func(t *testing.T) {
		t.Parallel()

		// 임베디드 구조체의 필드는 상위 맵 필드와 직접 매핑되어야 한다.
		got, err := Decode[sampleCustomer](map[string]any{
			"name": "홍길동",
			"city": "서울",
			"zip":  "04524",
		})
		require.NoError(t, err)

		assert.Equal(t, "서울", got.City)
		assert.Equal(t, "04524", got.Zip)
	})

	t.Run("UnknownFieldsIgnoredByDefault", func(t *testing.T) {
		t.Parallel()

		got, err := Decode[sampleCustomer](map[string]any{
			"name":          "홍길동",
			"unknown_field": "무시됨",
		})
		require.NoError(t, err)

		assert.Equal(t, "홍길동", got.Name)
	})

	t.Run("WithErrorUnusedRejectsUnknownFields", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[sampleCustomer](map[string]any{
			"name":          "홍길동",
			"unknown_field": "거부됨",
		}, WithErrorUnused(true))

		require.Error(t, err)
	})

	t.Run("WithWeaklyTypedInputDisabled", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[sampleCustomer](map[string]any{
			"age": "30",
		}, WithWeaklyTypedInput(false))

		require.Error(t, err)
	})

	t.Run("IncompatibleTypeFails", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[sampleCustomer](map[string]any{
			"age": []string{"서른"},
		})

		require.Error(t, err)
	})
}

func TestDecodeTo(t *testing.T) {
	t.Parallel()

	t.Run("NilOutput", func(t *testing.T) {
		t.Parallel()

		err := DecodeTo[sampleCustomer](map[string]any{}, nil)

		require.Error(t, err)
	})

	t.Run("MergesIntoExistingValues", func(t *testing.T) {
		t.Parallel()

		// 입력에 없는 필드의 기존 값은 유지되어야 한다.
		output := sampleCustomer{Name: "기존 이름", Age: 20}
		err := DecodeTo(map[string]any{"age": 30}, &output)
		require.NoError(t, err)

		assert.Equal(t, "기존 이름", output.Name)
		assert.Equal(t, 30, output.Age)
	})
}

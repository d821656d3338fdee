// Package maputil 맵(Map) 데이터 처리 및 구조체 변환을 위한 유틸리티 기능을 제공합니다.
package maputil

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode 입력된 맵(Map)이나 인터페이스 데이터를 지정된 제네릭 타입 T의 구조체로 변환하여 반환합니다.
//
// 내부적으로 `mapstructure` 라이브러리를 활용하며, 안전하고 유연한 디코딩을 위한 기본 설정이 적용되어 있습니다.
//
// [주요 특징 및 기본 동작]
//   - 유연한 타입 변환 (Weakly Typed): "123" -> 123 (int), 1 -> true (bool) 등 타입을 자동으로 보정합니다.
//   - 구조체 평탄화 (Squash): 임베디드 구조체를 자동으로 평탄화하여 상위 맵 필드와 매핑합니다.
//   - 태그 지원: 기본적으로 구조체의 `json` 태그를 기준으로 필드를 매핑합니다.
//
// [주의사항]
// 기본적으로 `ErrorUnused` 옵션이 꺼져 있습니다. 따라서 구조체에 정의되지 않은 필드가
// 입력 데이터에 포함되어 있어도 에러 없이 무시됩니다. (원격 API 응답의 확장에 대한 내성)
//
// [사용 예시]
//
//	gw, err := maputil.Decode[StripeGateway](inputMap)
func Decode[T any](input any, opts ...Option) (*T, error) {
	output := new(T)
	if err := DecodeTo(input, output, opts...); err != nil {
		return nil, err
	}
	return output, nil
}

// DecodeTo 입력된 데이터를 대상 구조체 포인터(output)에 디코딩하여 값을 채웁니다.
//
// output 인자는 반드시 nil이 아닌 포인터여야 합니다.
// 기존 output 구조체에 값이 있다면 유지하며, 입력 데이터와 병합(Merge)합니다.
func DecodeTo[T any](input any, output *T, opts ...Option) error {
	if output == nil {
		return errors.New("디코딩 결과를 저장할 output 포인터가 nil입니다")
	}

	// 1. 기본 설정값으로 초기화합니다.
	cfg := &decodingConfig{
		tagName:          "json",
		weaklyTypedInput: true,
		errorUnused:      false,
		squash:           true,
	}

	// 2. 사용자 정의 옵션 적용
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	// 3. mapstructure.DecoderConfig 생성
	msConfig := &mapstructure.DecoderConfig{
		Result: output,

		TagName: cfg.tagName,

		WeaklyTypedInput: cfg.weaklyTypedInput,
		ErrorUnused:      cfg.errorUnused,
		Squash:           cfg.squash,

		DecodeHook: cfg.buildDecodeHook(),
	}

	decoder, err := mapstructure.NewDecoder(msConfig)
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("입력 데이터를 %T(으)로 디코딩하는 데 실패했습니다: %w", output, err)
	}

	return nil
}

// decodingConfig 디코딩에 필요한 모든 옵션을 한곳에 모아 관리하는 비공개 설정 구조체입니다.
type decodingConfig struct {
	tagName string // Go 표준 json 패키지와의 호환성을 위해 "json" 태그 사용

	weaklyTypedInput bool // 유연한 타입 변환 허용 (예: string -> int)
	errorUnused      bool // 알 수 없는 필드 무시 여부
	squash           bool // 임베디드 구조체 평탄화 지원

	extraHooks []mapstructure.DecodeHookFunc
}

// buildDecodeHook 설정된 옵션을 기반으로 mapstructure.DecodeHookFunc를 생성하여 반환합니다.
//
// 실행 순서: [사용자 정의 훅] -> [기본 내장 훅] 순으로 실행됩니다.
// 즉, 사용자가 추가한 로직이 가장 높은 우선순위를 가집니다.
func (c *decodingConfig) buildDecodeHook() mapstructure.DecodeHookFunc {
	hooks := make([]mapstructure.DecodeHookFunc, 0, len(c.extraHooks)+3)

	// 1. User Custom Hooks
	hooks = append(hooks, c.extraHooks...)

	// 2. Default Hooks
	hooks = append(hooks,
		mapstructure.TextUnmarshallerHookFunc(),       // encoding.TextUnmarshaler 지원
		mapstructure.StringToTimeDurationHookFunc(),   // "10s" -> time.Duration
		mapstructure.StringToSliceHookFunc(","),       // "a,b" -> []string
	)

	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

// Option 디코딩 설정을 커스터마이징하기 위한 함수형 옵션 타입입니다.
type Option func(*decodingConfig)

// WithTagName 구조체 필드 매핑에 사용할 태그 이름을 지정합니다. (기본값: "json")
func WithTagName(tagName string) Option {
	return func(c *decodingConfig) {
		c.tagName = tagName
	}
}

// WithWeaklyTypedInput 타입이 달라도 가능한 경우 자동으로 변환할지 설정합니다. (기본값: true)
func WithWeaklyTypedInput(enable bool) Option {
	return func(c *decodingConfig) {
		c.weaklyTypedInput = enable
	}
}

// WithErrorUnused 대상 구조체에 없는 필드가 입력 데이터에 존재할 경우 에러를 발생시킵니다. (기본값: false)
func WithErrorUnused(enable bool) Option {
	return func(c *decodingConfig) {
		c.errorUnused = enable
	}
}

// WithSquash 임베디드 구조체를 평탄화(Flattening)하여 처리할지 설정합니다. (기본값: true)
func WithSquash(enable bool) Option {
	return func(c *decodingConfig) {
		c.squash = enable
	}
}

// WithDecodeHook 기본 제공되는 변환 로직 외에 사용자 정의 변환 훅(Hook)을 추가합니다.
func WithDecodeHook(hooks ...mapstructure.DecodeHookFunc) Option {
	return func(c *decodingConfig) {
		c.extraHooks = append(c.extraHooks, hooks...)
	}
}

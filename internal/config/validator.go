package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	// ISO 4217 통화 코드 검증을 위한 정규식 (예: KRW, USD)
	currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

	// BCP 47 로캘 코드 검증을 위한 정규식 (예: ko, ko-KR, en-US)
	localeCodeRegex = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z]{2,4})?$`)
)

// validate 패키지 전역에서 공유하는 Validator 인스턴스
var validate = newValidator()

// newValidator 새로운 Validator 인스턴스를 생성하고 커스텀 유효성 검사 함수를 등록합니다.
func newValidator() *validator.Validate {
	v := validator.New()

	// 검증 에러가 났을 때, 에러 메시지에 Go 구조체 필드명(예: StoreKey) 대신 JSON 이름(예: store_key)을 보여주도록 설정합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// 커스텀 유효성 검사 함수 등록
	if err := v.RegisterValidation("currency_code", validateCurrencyCode); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'currency_code' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}
	if err := v.RegisterValidation("locale_code", validateLocaleCode); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'locale_code' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	return v
}

// validateCurrencyCode 입력된 문자열이 유효한 ISO 4217 통화 코드 형식인지 검증합니다.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRegex.MatchString(fl.Field().String())
}

// validateLocaleCode 입력된 문자열이 유효한 BCP 47 로캘 코드 형식인지 검증합니다.
func validateLocaleCode(fl validator.FieldLevel) bool {
	return localeCodeRegex.MatchString(fl.Field().String())
}

// checkStruct 구조체의 유효성을 검사하고, 사용자 친화적인 에러 메시지를 반환합니다.
func checkStruct(v *validator.Validate, s interface{}, contextName string) error {
	if err := v.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			// 첫 번째 에러만 상세히 보고
			firstErr := validationErrors[0]

			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("%s의 설정이 올바르지 않습니다: %s (조건: %s)", contextName, firstErr.Field(), firstErr.Tag()))
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("%s 유효성 검증에 실패했습니다", contextName))
	}
	return nil
}

package transport

import (
	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
)

// ErrMaxRetriesExceeded 최대 재시도 횟수를 초과하여 요청이 최종 실패했음을 나타내는 센티널 에러입니다.
var ErrMaxRetriesExceeded = apperrors.New(apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")

// newErrMaxRetriesExceeded 마지막 시도에서 발생한 에러를 원인으로 포함하는 재시도 초과 에러를 생성합니다.
func newErrMaxRetriesExceeded(cause error) error {
	if cause == nil {
		return ErrMaxRetriesExceeded
	}
	return apperrors.Wrap(cause, apperrors.Unavailable, "최대 재시도 횟수를 초과했습니다")
}

// newErrRetryAfterExceeded 서버가 요구한 재시도 대기 시간이 정책 상한을 초과했음을 나타내는 에러를 생성합니다.
func newErrRetryAfterExceeded(requested, limit string) error {
	return apperrors.Newf(apperrors.Unavailable,
		"서버가 요구한 재시도 대기 시간(%s)이 최대 재시도 대기 시간(%s)을 초과하여 재시도를 포기합니다", requested, limit)
}

// newErrGetBodyFailed 재시도를 위한 요청 본문 재생성에 실패했음을 나타내는 에러를 생성합니다.
func newErrGetBodyFailed(cause error) error {
	return apperrors.Wrap(cause, apperrors.Internal, "재시도를 위한 요청 본문 재생성에 실패했습니다")
}

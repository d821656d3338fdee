package catalog

import (
	"sort"

	apperrors "github.com/darkkaiser/storefront-sdk/pkg/errors"
	"github.com/darkkaiser/storefront-sdk/pkg/maputil"
)

// SelectionEntry 고객이 선택한 옵션 하나를 표현합니다.
//
// Key는 옵션의 ID 또는 이름, Value는 옵션값의 ID 또는 이름입니다.
// ID가 이름보다 우선하여 해석됩니다.
type SelectionEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Selection 한 번의 변형(Variation) 계산에 사용되는 고객의 옵션 선택 입력입니다.
//
// 순서가 있는 목록 형태(SelectionFromList)와 맵 형태(SelectionFromMap) 두 가지 입력을
// 하나의 정규화된 엔트리 목록으로 수렴시킵니다. 이후의 모든 처리 단계는
// 입력 형태를 구분하지 않고 이 정규화된 목록만 바라봅니다.
type Selection struct {
	entries []SelectionEntry
}

// SelectionFromList 순서가 있는 엔트리 목록으로부터 Selection을 생성합니다.
func SelectionFromList(entries []SelectionEntry) Selection {
	cloned := make([]SelectionEntry, len(entries))
	copy(cloned, entries)

	return Selection{entries: cloned}
}

// SelectionFromMap 옵션 키(ID 또는 이름)에서 값(ID 또는 이름)으로의 맵으로부터 Selection을 생성합니다.
//
// Go의 맵 순회 순서는 비결정적이므로, 결정적인 처리 결과를 위해 키를 정렬하여 수렴시킵니다.
// (최종 정규화 단계에서 상품의 옵션 선언 순서로 재정렬되므로 이 정렬은 중간 결과의 안정성만 보장합니다)
func SelectionFromMap(m map[string]string) Selection {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]SelectionEntry, 0, len(m))
	for _, key := range keys {
		entries = append(entries, SelectionEntry{Key: key, Value: m[key]})
	}

	return Selection{entries: entries}
}

// Entries 정규화된 엔트리 목록의 복제본을 반환합니다.
func (s Selection) Entries() []SelectionEntry {
	cloned := make([]SelectionEntry, len(s.entries))
	copy(cloned, s.entries)
	return cloned
}

// IsEmpty 선택된 엔트리가 하나도 없는지 여부를 반환합니다.
func (s Selection) IsEmpty() bool {
	return len(s.entries) == 0
}

// selectionEntryPayload ParseSelection이 목록 형태의 외부 입력을 해석할 때 사용하는 중간 구조체입니다.
type selectionEntryPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ParseSelection 외부(API 요청 본문 등)에서 전달된 비정형 입력을 Selection으로 변환합니다.
//
// 지원하는 입력 형태:
//   - map[string]any: 옵션 키 → 값 매핑 (값은 문자열로 변환 가능해야 함)
//   - []any: {"id"|"name", "value"} 형태의 맵 목록 (id가 name보다 우선)
//
// 그 외의 형태는 InvalidInput 에러를 반환합니다. nil 입력은 빈 Selection으로 처리됩니다.
func ParseSelection(input any) (Selection, error) {
	if input == nil {
		return Selection{}, nil
	}

	switch v := input.(type) {
	case map[string]any:
		decoded, err := maputil.Decode[map[string]string](v)
		if err != nil {
			return Selection{}, apperrors.Wrap(err, apperrors.InvalidInput, "맵 형태의 옵션 선택 입력을 해석할 수 없습니다")
		}
		return SelectionFromMap(*decoded), nil

	case map[string]string:
		return SelectionFromMap(v), nil

	case []any:
		entries := make([]SelectionEntry, 0, len(v))
		for _, item := range v {
			payload, err := maputil.Decode[selectionEntryPayload](item)
			if err != nil {
				return Selection{}, apperrors.Wrap(err, apperrors.InvalidInput, "목록 형태의 옵션 선택 입력을 해석할 수 없습니다")
			}

			// ID가 이름보다 우선합니다.
			key := payload.ID
			if key == "" {
				key = payload.Name
			}

			entries = append(entries, SelectionEntry{Key: key, Value: payload.Value})
		}
		return SelectionFromList(entries), nil

	case []SelectionEntry:
		return SelectionFromList(v), nil

	default:
		return Selection{}, apperrors.Newf(apperrors.InvalidInput, "지원하지 않는 옵션 선택 입력 형태(%T)입니다", input)
	}
}

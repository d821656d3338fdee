package htmltext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "EmptyInput",
			html:     "",
			expected: "",
		},
		{
			name:     "WhitespaceOnly",
			html:     "  \n\t  ",
			expected: "",
		},
		{
			name:     "PlainTextPassthrough",
			html:     "태그 없는 설명",
			expected: "태그 없는 설명",
		},
		{
			name:     "TagsStripped",
			html:     "<p>부드러운 <strong>면</strong> 소재의 티셔츠</p>",
			expected: "부드러운 면 소재의 티셔츠",
		},
		{
			name:     "ScriptAndStyleRemoved",
			html:     `<style>p { color: red; }</style><p>상품 설명</p><script>alert("x")</script>`,
			expected: "상품 설명",
		},
		{
			name:     "WhitespaceCollapsed",
			html:     "<div>첫 번째 줄</div>\n\n<div>   두 번째   줄</div>",
			expected: "첫 번째 줄 두 번째 줄",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractText(tt.html)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		maxRunes int
		expected string
	}{
		{
			name:     "ZeroMaxRunes",
			html:     "<p>상품 설명</p>",
			maxRunes: 0,
			expected: "",
		},
		{
			name:     "NegativeMaxRunes",
			html:     "<p>상품 설명</p>",
			maxRunes: -1,
			expected: "",
		},
		{
			name:     "ShorterThanLimit",
			html:     "<p>짧은 설명</p>",
			maxRunes: 100,
			expected: "짧은 설명",
		},
		{
			// 멀티바이트 글자도 바이트가 아닌 글자 수 기준으로 잘려야 한다.
			name:     "TruncatedWithEllipsis",
			html:     "<p>아주 길고 상세한 상품 설명입니다</p>",
			maxRunes: 5,
			expected: "아주 길고...",
		},
		{
			// 잘린 끝의 공백은 말줄임표 앞에서 제거되어야 한다.
			name:     "TrailingSpaceTrimmedBeforeEllipsis",
			html:     "<p>아주 길고 상세한 상품 설명입니다</p>",
			maxRunes: 3,
			expected: "아주...",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Excerpt(tt.html, tt.maxRunes))
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", collapseWhitespace(""))
	assert.Equal(t, "한 칸", collapseWhitespace("  한 \n\t 칸  "))
	assert.Equal(t, "a b c", collapseWhitespace("a  b\nc"))
}

// Package htmltext 상품 설명과 같은 HTML 문자열을 일반 텍스트로 변환하는 기능을 제공합니다.
//
// 스토어 관리 화면에서 작성된 상품 설명은 HTML 조각으로 내려오므로,
// 목록 화면의 요약문이나 검색 색인 생성 시 태그가 제거된 순수 텍스트가 필요합니다.
package htmltext

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// ExtractText HTML 문자열에서 모든 태그를 제거하고 순수 텍스트만 추출하여 반환합니다.
//
// script, style, noscript 요소는 내용까지 통째로 제거되며,
// 연속된 공백 문자는 하나의 공백으로 축약됩니다.
func ExtractText(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	// 텍스트 추출에 불필요한 요소를 제거합니다.
	doc.Find("script, style, noscript").Remove()

	return collapseWhitespace(doc.Text()), nil
}

// Excerpt HTML 문자열에서 텍스트를 추출한 뒤, 최대 maxRunes 글자 길이의 요약문을 반환합니다.
//
// 잘려나간 경우 말줄임표("...")가 덧붙습니다. maxRunes가 0 이하이면 빈 문자열을 반환합니다.
// HTML 파싱에 실패하더라도 요약문 용도에서는 치명적이지 않으므로 빈 문자열로 대체합니다.
func Excerpt(html string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	text, err := ExtractText(html)
	if err != nil {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	return strings.TrimRightFunc(string(runes[:maxRunes]), unicode.IsSpace) + "..."
}

// collapseWhitespace 연속된 공백(개행, 탭 포함)을 하나의 공백으로 축약하고 양 끝 공백을 제거합니다.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			prevSpace = true
			continue
		}
		if prevSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		prevSpace = false
		b.WriteRune(r)
	}

	return b.String()
}

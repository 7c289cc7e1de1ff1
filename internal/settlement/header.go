package settlement

import "strings"

type textMatcher func(text string) bool

func containsText(marker string) textMatcher {
	return func(text string) bool {
		return strings.Contains(text, marker)
	}
}

func exactText(marker string) textMatcher {
	return func(text string) bool {
		return strings.TrimSpace(text) == marker
	}
}

// findHeaderRow 는 행 우선으로 훑어 match 를 만족하는 첫 셀의 행 번호를 돌려준다.
func findHeaderRow(s *sheet, match textMatcher) (int, bool) {
	for r, row := range s.rows {
		for _, c := range row {
			if !c.IsEmpty() && match(c.Text) {
				return r, true
			}
		}
	}
	return -1, false
}

// findColumn 은 헤더 행에서 match 를 만족하는 첫 열을 찾는다. 없으면 -1.
func findColumn(s *sheet, headerRow int, match textMatcher) int {
	if headerRow < 0 || headerRow >= len(s.rows) {
		return -1
	}
	for c, cell := range s.rows[headerRow] {
		if !cell.IsEmpty() && match(cell.Text) {
			return c
		}
	}
	return -1
}

func (s *sheet) text(row, col int) string {
	return strings.TrimSpace(s.cell(row, col).Text)
}

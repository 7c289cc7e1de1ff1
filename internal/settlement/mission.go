package settlement

import (
	"fmt"

	"github.com/jungsanbot/backend/internal/domain"
)

const (
	MissionSheetName = "협력사 자체 미션"

	emptyHeaderKey = "__EMPTY"
)

// missions 는 첫 번째 비어 있지 않은 행을 헤더로 삼아 나머지 행을 레코드로 바꾼다.
// 시트가 없거나 헤더만 있으면 빈 목록이다.
func (p *parser) missions() []domain.MissionRow {
	missions := make([]domain.MissionRow, 0)

	s, ok := p.wb.sheet(MissionSheetName)
	if !ok {
		p.warnf("%s 시트가 없습니다", MissionSheetName)
		return missions
	}

	header := -1
	for r, row := range s.rows {
		if !isBlankRow(row) {
			header = r
			break
		}
	}
	if header < 0 {
		return missions
	}

	width := 0
	for r := header; r < len(s.rows); r++ {
		width = max(width, len(s.rows[r]))
	}
	keys := missionKeys(s, header, width)

	for r := header + 1; r < len(s.rows); r++ {
		row := s.rows[r]
		if isBlankRow(row) {
			continue
		}

		mission := make(domain.MissionRow, width)
		for c, key := range keys {
			mission[key] = s.cell(r, c)
		}
		missions = append(missions, mission)
	}

	return missions
}

// missionKeys 는 빈 헤더에 __EMPTY 를, 중복 헤더에 _1, _2 … 접미사를 붙인다.
func missionKeys(s *sheet, header, width int) []string {
	keys := make([]string, width)
	seen := make(map[string]int, width)

	for c := 0; c < width; c++ {
		base := s.cell(header, c).Text
		if base == "" {
			base = emptyHeaderKey
		}

		key := base
		if n := seen[base]; n > 0 {
			key = fmt.Sprintf("%s_%d", base, n)
		}
		seen[base]++
		keys[c] = key
	}

	return keys
}

func isBlankRow(row []domain.CellValue) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

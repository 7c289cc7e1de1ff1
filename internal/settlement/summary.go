package settlement

import (
	"math"
	"strings"

	"github.com/jungsanbot/backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	SummarySheetName = "종합"

	summaryLicenseHeader = "라이선스 ID"
	summaryNameHeader    = "성함"
	summaryOrdersHeader  = "총 정산 오더수"

	missingLicenseID = "-"
)

// 종합 시트의 헤더는 부분 일치로 찾는다
func (p *parser) summaries() []domain.RiderSummary {
	summaries := make([]domain.RiderSummary, 0)

	s, ok := p.wb.sheet(SummarySheetName)
	if !ok {
		p.warnf("%s 시트가 없습니다", SummarySheetName)
		return summaries
	}

	header, ok := findHeaderRow(s, containsText(summaryLicenseHeader))
	if !ok {
		p.warnf("%s 시트에서 '%s' 헤더를 찾지 못했습니다", SummarySheetName, summaryLicenseHeader)
		return summaries
	}

	licenseCol := findColumn(s, header, containsText(summaryLicenseHeader))
	nameCol := findColumn(s, header, containsText(summaryNameHeader))
	ordersCol := findColumn(s, header, containsText(summaryOrdersHeader))

	for r := header + 1; r < len(s.rows); r++ {
		licenseID := s.text(r, licenseCol)
		rawName := s.text(r, nameCol)
		if licenseID == "" && rawName == "" {
			continue
		}

		name, _ := splitRiderName(rawName)
		if licenseID == "" {
			licenseID = missingLicenseID
		}

		summaries = append(summaries, domain.RiderSummary{
			LicenseID:   licenseID,
			RiderName:   name,
			TotalOrders: parseOrderCount(s.cell(r, ordersCol)),
		})
	}

	return summaries
}

// parseOrderCount 는 숫자 셀이면 반올림, 문자열이면 십진수로 읽는다. 읽을 수 없으면 0.
func parseOrderCount(c domain.CellValue) int64 {
	switch c.Kind {
	case domain.CellNumber:
		return int64(math.Round(c.Number))
	case domain.CellString:
		text := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
		d, err := decimal.NewFromString(text)
		if err != nil {
			return 0
		}
		return d.Round(0).IntPart()
	default:
		return 0
	}
}

// licenseIndex 는 이름 → 라이선스 ID 맵이다. 같은 이름이 여러 번 나오면 마지막 행이 이긴다.
func licenseIndex(summaries []domain.RiderSummary) map[string]string {
	index := make(map[string]string, len(summaries))
	for _, s := range summaries {
		index[s.RiderName] = s.LicenseID
	}
	return index
}

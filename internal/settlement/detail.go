package settlement

import (
	"github.com/jungsanbot/backend/internal/domain"
)

const (
	DetailSheetName = "오더별 상세 내역서"

	detailNameHeader       = "이름"
	detailOrderNoHeader    = "축약형 주문번호"
	detailAcceptedAtHeader = "수락시간"
	detailPeakTimeHeader   = "피크타임"
)

// 상세 시트의 헤더는 완전 일치로 찾는다
func (p *parser) details(licenses map[string]string) []domain.OrderDetail {
	details := make([]domain.OrderDetail, 0)

	s, ok := p.wb.sheet(DetailSheetName)
	if !ok {
		p.warnf("%s 시트가 없습니다", DetailSheetName)
		return details
	}

	header, ok := findHeaderRow(s, exactText(detailNameHeader))
	if !ok {
		p.warnf("%s 시트에서 '%s' 헤더를 찾지 못했습니다", DetailSheetName, detailNameHeader)
		return details
	}

	nameCol := findColumn(s, header, exactText(detailNameHeader))
	orderNoCol := findColumn(s, header, exactText(detailOrderNoHeader))
	acceptedAtCol := findColumn(s, header, exactText(detailAcceptedAtHeader))
	peakTimeCol := findColumn(s, header, exactText(detailPeakTimeHeader))

	skipped := 0
	for r := header + 1; r < len(s.rows); r++ {
		rawName := s.text(r, nameCol)
		if rawName == "" {
			continue
		}

		ot, ok := decodeSerial(s.cell(r, acceptedAtCol), p.wb.date1904)
		if !ok {
			skipped++
			continue
		}

		name, suffix := splitRiderName(rawName)
		licenseID, ok := licenses[name]
		if !ok {
			licenseID = missingLicenseID
		}

		details = append(details, domain.OrderDetail{
			LicenseID:     licenseID,
			RiderName:     name,
			RiderSuffix:   suffix,
			BranchName:    p.branchName,
			OrderNo:       s.text(r, orderNoCol),
			AcceptedAt:    ot.acceptedAt,
			AcceptedAtMs:  ot.acceptedAtMs,
			PeakTime:      s.text(r, peakTimeCol),
			JudgementDate: ot.judgementDate,
		})
	}

	if skipped > 0 {
		p.warnf("%s 시트에서 수락시간을 해석할 수 없는 %d개 행을 제외했습니다", DetailSheetName, skipped)
	}

	return details
}

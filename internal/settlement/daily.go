package settlement

import (
	"cmp"
	"slices"

	"github.com/jungsanbot/backend/internal/domain"
)

// DailyOrders 는 상세 행을 (라이선스, 이름, 판정일) 로 묶어 건수를 센다.
// 판정일, 이름, 라이선스 순으로 정렬된다.
func DailyOrders(details []domain.OrderDetail) []domain.RiderDailyOrders {
	type key struct {
		licenseID, riderName, date string
	}

	counts := make(map[key]int64)
	for _, d := range details {
		counts[key{d.LicenseID, d.RiderName, d.JudgementDate}]++
	}

	daily := make([]domain.RiderDailyOrders, 0, len(counts))
	for k, n := range counts {
		daily = append(daily, domain.RiderDailyOrders{
			LicenseID:     k.licenseID,
			RiderName:     k.riderName,
			JudgementDate: k.date,
			Orders:        n,
		})
	}

	slices.SortFunc(daily, func(a, b domain.RiderDailyOrders) int {
		return cmp.Or(
			cmp.Compare(a.JudgementDate, b.JudgementDate),
			cmp.Compare(a.RiderName, b.RiderName),
			cmp.Compare(a.LicenseID, b.LicenseID),
		)
	})

	return daily
}

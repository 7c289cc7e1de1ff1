package utils

import (
	"fmt"
	"time"

	"github.com/jungsanbot/backend/internal/domain"
)

const DateLayout = "2006-01-02"

// ValidatePeriod 는 YYYY-MM-DD 형식의 기간을 검사하고 파싱된 값을 돌려준다.
func ValidatePeriod(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("시작일 형식이 올바르지 않습니다: %s", start)
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("종료일 형식이 올바르지 않습니다: %s", end)
	}

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("시작일은 종료일보다 늦을 수 없습니다")
	}

	return startDate, endDate, nil
}

// ValidateDetailsInPeriod 는 모든 주문의 판정일이 정산 기간 안에 있는지 확인한다.
// 판정일은 YYYY-MM-DD 라서 문자열 비교로 충분하다.
func ValidateDetailsInPeriod(details []domain.OrderDetail, start, end string) error {
	if _, _, err := ValidatePeriod(start, end); err != nil {
		return err
	}

	for _, d := range details {
		if d.JudgementDate < start || d.JudgementDate > end {
			return fmt.Errorf("주문 %s 의 판정일 %s 이 정산 기간 %s ~ %s 밖에 있습니다", d.OrderNo, d.JudgementDate, start, end)
		}
	}

	return nil
}

// ValidateBranchAccess 는 지사관리자가 자기 지사 자료만 다루는지 확인한다.
func ValidateBranchAccess(user *domain.User, branchName string) error {
	if user.Role == domain.RoleSuperAdmin {
		return nil
	}
	if user.BranchName != branchName {
		return fmt.Errorf("%s 지사의 정산 자료에 접근할 권한이 없습니다", branchName)
	}
	return nil
}

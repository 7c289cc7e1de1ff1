package settlement

import (
	"time"

	"github.com/jungsanbot/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	// 06:00 이전 주문은 전날 영업일로 본다
	judgementCutoffHour = 6

	acceptedAtLayout    = "2006-01-02 15:04:05"
	judgementDateLayout = "2006-01-02"
)

type orderTime struct {
	acceptedAt    string
	acceptedAtMs  int64
	judgementDate string
}

// decodeSerial 은 숫자 셀만 받는다. 이미 문자열이거나 빈 셀이면 ok 가 false 다.
func decodeSerial(c domain.CellValue, date1904 bool) (orderTime, bool) {
	if c.Kind != domain.CellNumber {
		return orderTime{}, false
	}

	t, err := excelize.ExcelDateToTime(c.Number, date1904)
	if err != nil {
		return orderTime{}, false
	}
	t = t.UTC()

	return orderTime{
		acceptedAt:    t.Format(acceptedAtLayout),
		acceptedAtMs:  t.UnixMilli(),
		judgementDate: judgementDate(t),
	}, true
}

func judgementDate(t time.Time) string {
	if t.Hour() < judgementCutoffHour {
		t = t.AddDate(0, 0, -1)
	}
	return t.Format(judgementDateLayout)
}

package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jungsanbot/backend/internal/utils"
	"github.com/xuri/excelize/v2"
)

type SummaryRow struct {
	LicenseID   string
	Name        string // 표시 이름. 전화번호 뒷자리 4자리가 붙을 수 있다
	TotalOrders any    // 숫자 또는 문자열
}

type OrderRow struct {
	Name       string
	OrderNo    string
	AcceptedAt any // time.Time 이면 날짜 시리얼로, 그 외에는 값 그대로 기록한다
	PeakTime   string
}

// SettlementWorkbook 은 배달 대행사 정산 파일과 같은 모양의 시트 구성이다.
// Missions 가 nil 이면 미션 시트를 만들지 않는다.
type SettlementWorkbook struct {
	Title     string
	Summaries []SummaryRow
	Orders    []OrderRow
	Missions  [][]any
}

var (
	summaryHeaders = []any{"No", "라이선스 ID", "라이더 성함", "총 정산 오더수"}
	detailHeaders  = []any{"이름", "축약형 주문번호", "수락시간", "피크타임"}
)

var excel1900Epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ExcelSerial 은 1900 날짜 체계의 시리얼 값이다. 1900-03-01 이후만 정확하다.
func ExcelSerial(t time.Time) float64 {
	return float64(t.UTC().Sub(excel1900Epoch)) / float64(24*time.Hour)
}

// BuildSettlementWorkbook 은 xlsx 를 만든다. password 가 비어 있지 않으면 암호화한다.
func BuildSettlementWorkbook(wb SettlementWorkbook, password string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "종합"); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, wb); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("오더별 상세 내역서"); err != nil {
		return nil, err
	}
	if err := writeDetailSheet(f, wb.Orders); err != nil {
		return nil, err
	}

	if wb.Missions != nil {
		if _, err := f.NewSheet("협력사 자체 미션"); err != nil {
			return nil, err
		}
		for i, row := range wb.Missions {
			if err := f.SetSheetRow("협력사 자체 미션", fmt.Sprintf("A%d", i+1), &row); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	if password == "" {
		return buf.Bytes(), nil
	}

	return excelize.Encrypt(buf.Bytes(), &excelize.Options{Password: password})
}

// 실제 파일처럼 제목 행과 빈 행 뒤에 헤더가 오고, 첫 열은 비어 있다
func writeSummarySheet(f *excelize.File, wb SettlementWorkbook) error {
	const sheet = "종합"

	if wb.Title != "" {
		if err := f.SetCellValue(sheet, "B1", wb.Title); err != nil {
			return err
		}
	}
	if err := f.SetSheetRow(sheet, "B3", &summaryHeaders); err != nil {
		return err
	}

	for i, s := range wb.Summaries {
		row := []any{i + 1, s.LicenseID, s.Name, s.TotalOrders}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("B%d", i+4), &row); err != nil {
			return err
		}
	}

	return nil
}

func writeDetailSheet(f *excelize.File, orders []OrderRow) error {
	const sheet = "오더별 상세 내역서"

	if err := f.SetSheetRow(sheet, "A1", &detailHeaders); err != nil {
		return err
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return err
	}

	for i, o := range orders {
		r := i + 2
		row := []any{o.Name, o.OrderNo, nil, o.PeakTime}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", r), &row); err != nil {
			return err
		}

		cell := fmt.Sprintf("C%d", r)
		switch v := o.AcceptedAt.(type) {
		case nil:
		case time.Time:
			if err := f.SetCellFloat(sheet, cell, ExcelSerial(v), -1, 64); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
				return err
			}
		default:
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return nil
}

// RandomSettlementWorkbook 은 n 명의 라이더와 start 부터 7일간의 주문을 만든다.
// 새벽 주문을 일부 섞어 판정일 경계를 확인할 수 있게 한다.
func RandomSettlementWorkbook(n int, start time.Time) SettlementWorkbook {
	wb := SettlementWorkbook{
		Title: fmt.Sprintf("%s 주간 정산 내역", start.Format("2006-01-02")),
	}

	peaks := []string{"아침", "점심", "오후", "저녁", "심야"}

	for i := 0; i < n; i++ {
		display := utils.GenerateRandomKoreanName() + utils.GenerateRandomPhoneSuffix()
		orders := rand.Intn(20) + 1

		for j := 0; j < orders; j++ {
			day := start.AddDate(0, 0, rand.Intn(7))
			at := day.Add(time.Duration(rand.Intn(24*60)) * time.Minute)
			wb.Orders = append(wb.Orders, OrderRow{
				Name:       display,
				OrderNo:    utils.GenerateRandomOrderNo(),
				AcceptedAt: at,
				PeakTime:   peaks[rand.Intn(len(peaks))],
			})
		}

		wb.Summaries = append(wb.Summaries, SummaryRow{
			LicenseID:   "L" + utils.GenerateRandomDigits(6),
			Name:        display,
			TotalOrders: orders,
		})
	}

	wb.Missions = [][]any{
		{"라이더명", "미션명", "달성 건수", "지급액"},
	}
	for _, s := range wb.Summaries {
		wb.Missions = append(wb.Missions, []any{s.Name, "주간 100건 달성", s.TotalOrders, rand.Intn(5) * 10000})
	}

	return wb
}

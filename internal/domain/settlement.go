package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
)

// CellValue 는 셀 하나의 값이다. Kind 로 빈 값/문자열/숫자를 구분한다.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
}

func StringCell(s string) CellValue {
	if s == "" {
		return CellValue{}
	}
	return CellValue{Kind: CellString, Text: s}
}

func NumberCell(n float64) CellValue {
	return CellValue{Kind: CellNumber, Text: strconv.FormatFloat(n, 'f', -1, 64), Number: n}
}

func (c CellValue) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// 빈 셀은 "" 로 직렬화한다
func (c CellValue) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return json.Marshal(c.Number)
	case CellString:
		return json.Marshal(c.Text)
	default:
		return []byte(`""`), nil
	}
}

func (c *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = CellValue{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = StringCell(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = NumberCell(n)
	return nil
}

type RiderSummary struct {
	LicenseID   string `json:"licenseId"`
	RiderName   string `json:"riderName"`
	TotalOrders int64  `json:"totalOrders"`
}

type OrderDetail struct {
	LicenseID     string `json:"licenseId"`
	RiderName     string `json:"riderName"`
	RiderSuffix   string `json:"riderSuffix"`
	BranchName    string `json:"branchName"`
	OrderNo       string `json:"orderNo"`
	AcceptedAt    string `json:"acceptedAt"`
	AcceptedAtMs  int64  `json:"acceptedAtMs"`
	PeakTime      string `json:"peakTime"`
	JudgementDate string `json:"judgementDate"`
}

// MissionRow 는 고정 스키마가 없다. 키는 시트의 헤더 텍스트 그대로다.
type MissionRow map[string]CellValue

type SettlementParseResult struct {
	Summaries []RiderSummary `json:"summaries"`
	Details   []OrderDetail  `json:"details"`
	Missions  []MissionRow   `json:"missions"`
	Warnings  []string       `json:"warnings"`
}

type RiderDailyOrders struct {
	LicenseID     string `json:"licenseId"`
	RiderName     string `json:"riderName"`
	JudgementDate string `json:"judgementDate"`
	Orders        int64  `json:"orders"`
}

// SettlementPreview 는 확정 전까지 캐시에 머무는 파싱 결과다
type SettlementPreview struct {
	ID         string    `json:"previewID"`
	FileName   string    `json:"fileName"`
	BranchName string    `json:"branchName"`
	UploadedBy int64     `json:"uploadedBy"`
	ExpiresAt  time.Time `json:"expiresAt"`
	SettlementParseResult
	Daily []RiderDailyOrders `json:"dailyOrders"`
}

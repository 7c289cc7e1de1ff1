package settlement

import (
	"errors"
	"testing"
	"time"

	"github.com/jungsanbot/backend/internal/domain"
	"github.com/jungsanbot/backend/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "1234"

func buildWorkbook(t *testing.T, wb seed.SettlementWorkbook, password string) []byte {
	t.Helper()

	data, err := seed.BuildSettlementWorkbook(wb, password)
	require.NoError(t, err)
	return data
}

func TestParse_EndToEnd(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, seed.SettlementWorkbook{
		Title: "2024년 1월 정산",
		Summaries: []seed.SummaryRow{
			{LicenseID: "L1", Name: "김철수9999", TotalOrders: 12},
		},
		Orders: []seed.OrderRow{
			{Name: "김철수9999", OrderNo: "A1", AcceptedAt: time.Date(2024, 1, 5, 5, 30, 0, 0, time.UTC), PeakTime: "아침"},
		},
	}, testPassword)

	result, err := Parse(data, testPassword, "강남지사")
	require.NoError(t, err)

	assert.Equal(t, []domain.RiderSummary{
		{LicenseID: "L1", RiderName: "김철수", TotalOrders: 12},
	}, result.Summaries)

	require.Len(t, result.Details, 1)
	assert.Equal(t, domain.OrderDetail{
		LicenseID:     "L1",
		RiderName:     "김철수",
		RiderSuffix:   "9999",
		BranchName:    "강남지사",
		OrderNo:       "A1",
		AcceptedAt:    "2024-01-05 05:30:00",
		AcceptedAtMs:  time.Date(2024, 1, 5, 5, 30, 0, 0, time.UTC).UnixMilli(),
		PeakTime:      "아침",
		JudgementDate: "2024-01-04",
	}, result.Details[0])
}

func TestParse_LicenseResolution(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	data := buildWorkbook(t, seed.SettlementWorkbook{
		Summaries: []seed.SummaryRow{
			{LicenseID: "L100", Name: "홍길동", TotalOrders: 3},
			{LicenseID: "", Name: "이영희5555", TotalOrders: "7"},
			{LicenseID: "", Name: "", TotalOrders: 1},
		},
		Orders: []seed.OrderRow{
			{Name: "홍길동1234", OrderNo: "B1", AcceptedAt: at},
			{Name: "박모름0000", OrderNo: "B2", AcceptedAt: at},
			{Name: "이영희5555", OrderNo: "B3", AcceptedAt: at},
		},
	}, testPassword)

	result, err := Parse(data, testPassword, "")
	require.NoError(t, err)

	require.Len(t, result.Summaries, 2)
	assert.Equal(t, domain.RiderSummary{LicenseID: "-", RiderName: "이영희", TotalOrders: 7}, result.Summaries[1])

	require.Len(t, result.Details, 3)
	assert.Equal(t, "L100", result.Details[0].LicenseID)
	assert.Equal(t, "-", result.Details[1].LicenseID)
	assert.Equal(t, "-", result.Details[2].LicenseID)
}

func TestParse_DuplicateNameLastWins(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, seed.SettlementWorkbook{
		Summaries: []seed.SummaryRow{
			{LicenseID: "L1", Name: "홍길동1111", TotalOrders: 1},
			{LicenseID: "L2", Name: "홍길동2222", TotalOrders: 2},
		},
		Orders: []seed.OrderRow{
			{Name: "홍길동1111", OrderNo: "C1", AcceptedAt: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
		},
	}, testPassword)

	result, err := Parse(data, testPassword, "")
	require.NoError(t, err)

	assert.Len(t, result.Summaries, 2)
	require.Len(t, result.Details, 1)
	assert.Equal(t, "L2", result.Details[0].LicenseID)
}

func TestParse_SkipsRowsWithBadTimestamp(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, seed.SettlementWorkbook{
		Orders: []seed.OrderRow{
			{Name: "홍길동1234", OrderNo: "D1", AcceptedAt: time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)},
			{Name: "홍길동1234", OrderNo: "D2", AcceptedAt: "2024-03-10 07:00"},
			{Name: "홍길동1234", OrderNo: "D3"},
			{Name: "", OrderNo: "D4", AcceptedAt: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)},
			{Name: "홍길동1234", OrderNo: "D5", AcceptedAt: time.Date(2024, 3, 10, 5, 59, 0, 0, time.UTC)},
		},
	}, testPassword)

	result, err := Parse(data, testPassword, "")
	require.NoError(t, err)

	require.Len(t, result.Details, 2)
	assert.Equal(t, "D1", result.Details[0].OrderNo)
	assert.Equal(t, "2024-03-10", result.Details[0].JudgementDate)
	assert.Equal(t, "D5", result.Details[1].OrderNo)
	assert.Equal(t, "2024-03-09", result.Details[1].JudgementDate)
	assert.NotEmpty(t, result.Warnings)
}

func TestParse_MissingMissionSheet(t *testing.T) {
	t.Parallel()

	wb := seed.SettlementWorkbook{
		Summaries: []seed.SummaryRow{{LicenseID: "L1", Name: "김철수9999", TotalOrders: 1}},
		Orders: []seed.OrderRow{
			{Name: "김철수9999", OrderNo: "E1", AcceptedAt: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)},
		},
	}

	without, err := Parse(buildWorkbook(t, wb, testPassword), testPassword, "")
	require.NoError(t, err)
	assert.NotNil(t, without.Missions)
	assert.Empty(t, without.Missions)

	wb.Missions = [][]any{{"라이더명", "지급액"}, {"김철수9999", 10000}}
	with, err := Parse(buildWorkbook(t, wb, testPassword), testPassword, "")
	require.NoError(t, err)
	assert.Len(t, with.Missions, 1)

	assert.Equal(t, with.Summaries, without.Summaries)
	assert.Equal(t, with.Details, without.Details)
}

func TestParse_MissingSummaryHeader(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, seed.SettlementWorkbook{
		Orders: []seed.OrderRow{
			{Name: "김철수9999", OrderNo: "F1", AcceptedAt: time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)},
		},
	}, testPassword)

	// 헤더를 지운 종합 시트와 같다: 라이선스 헤더가 없으면 요약은 비어야 한다
	wb, err := loadWorkbook(mustDecrypt(t, data))
	require.NoError(t, err)
	s, ok := wb.sheet(SummarySheetName)
	require.True(t, ok)
	for r := range s.rows {
		for c := range s.rows[r] {
			if s.rows[r][c].Text == "라이선스 ID" {
				s.rows[r][c] = domain.StringCell("ID")
			}
		}
	}

	p := &parser{wb: wb}
	assert.Empty(t, p.summaries())
	assert.NotEmpty(t, p.warnings)

	details := p.details(licenseIndex(nil))
	require.Len(t, details, 1)
	assert.Equal(t, "-", details[0].LicenseID)
}

func TestParse_WrongPassword(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, seed.SettlementWorkbook{
		Summaries: []seed.SummaryRow{{LicenseID: "L1", Name: "김철수9999", TotalOrders: 1}},
	}, testPassword)

	result, err := Parse(data, "wrong-password", "")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrParseFailure))
	assert.False(t, errors.Is(err, ErrInvalidInput))
}

func TestParse_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Parse(nil, testPassword, "")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, MsgMissingFile, err.Error())

	_, err = Parse([]byte("data"), "", "")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, MsgMissingPassword, err.Error())
}

func TestParse_NotASpreadsheet(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("this is not a workbook"), testPassword, "")
	require.ErrorIs(t, err, ErrParseFailure)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.NotNil(t, parseErr.Err)
}

func TestParse_UnencryptedWorkbookPassesThrough(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, seed.SettlementWorkbook{
		Summaries: []seed.SummaryRow{{LicenseID: "L1", Name: "김철수9999", TotalOrders: 4.6}},
	}, "")

	result, err := Parse(data, testPassword, "")
	require.NoError(t, err)
	require.Len(t, result.Summaries, 1)
	assert.Equal(t, int64(5), result.Summaries[0].TotalOrders)
}

func TestParse_RandomWorkbookIsConsistent(t *testing.T) {
	t.Parallel()

	wb := seed.RandomSettlementWorkbook(5, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	result, err := Parse(buildWorkbook(t, wb, testPassword), testPassword, "송파지사")
	require.NoError(t, err)

	assert.Len(t, result.Summaries, 5)
	assert.Len(t, result.Details, len(wb.Orders))
	assert.Len(t, result.Missions, 5)

	var total int64
	for _, s := range result.Summaries {
		total += s.TotalOrders
	}
	assert.Equal(t, int64(len(result.Details)), total)

	for _, d := range result.Details {
		assert.NotEqual(t, "-", d.LicenseID)
		assert.Equal(t, "송파지사", d.BranchName)
		assert.Len(t, d.RiderSuffix, 4)
	}
}

func mustDecrypt(t *testing.T, data []byte) []byte {
	t.Helper()

	plain, err := decrypt(data, testPassword)
	require.NoError(t, err)
	return plain
}

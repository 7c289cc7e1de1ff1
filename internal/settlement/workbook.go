package settlement

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jungsanbot/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

// sheet 는 0 부터 시작하는 행/열로 접근하는 셀 격자다. 행마다 길이가 다를 수 있다.
type sheet struct {
	name string
	rows [][]domain.CellValue
}

func (s *sheet) cell(row, col int) domain.CellValue {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.rows[row]) {
		return domain.CellValue{}
	}
	return s.rows[row][col]
}

type workbook struct {
	sheets   map[string]*sheet
	date1904 bool
	warnings []string
}

func (wb *workbook) sheet(name string) (*sheet, bool) {
	s, ok := wb.sheets[name]
	return s, ok
}

// loadWorkbook 은 복호화된 xlsx 를 메모리 격자로 옮긴다. 호출이 끝나면 버려진다.
func loadWorkbook(plain []byte) (*workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(plain))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := &workbook{
		sheets: make(map[string]*sheet),
	}

	props, err := f.GetWorkbookProps()
	if err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}

	for _, name := range f.GetSheetList() {
		s, err := readSheet(f, name)
		if err != nil {
			// 차트 시트처럼 셀이 없는 시트는 건너뛴다
			wb.warnings = append(wb.warnings, fmt.Sprintf("%s 시트를 읽지 못했습니다: %v", name, err))
			continue
		}
		wb.sheets[name] = s
	}

	return wb, nil
}

func readSheet(f *excelize.File, name string) (*sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	s := &sheet{
		name: name,
		rows: make([][]domain.CellValue, len(rows)),
	}

	for r, row := range rows {
		cells := make([]domain.CellValue, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}

			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, cellName)
			if err != nil {
				return nil, err
			}
			cells[c] = classifyCell(raw, typ)
		}
		s.rows[r] = cells
	}

	return s, nil
}

// classifyCell 은 셀 타입을 보고 숫자와 문자열을 구분한다.
// 타입 속성이 없는 셀은 엑셀 규칙상 숫자다.
func classifyCell(raw string, typ excelize.CellType) domain.CellValue {
	if raw == "" {
		return domain.CellValue{}
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.CellValue{Kind: domain.CellNumber, Text: raw, Number: n}
		}
	}

	return domain.CellValue{Kind: domain.CellString, Text: raw}
}

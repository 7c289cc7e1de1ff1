// Package settlement 는 배달 대행사가 내려주는 암호화된 정산 엑셀을 읽어
// 라이더별 요약, 주문별 상세, 협력사 미션 행으로 바꾼다.
package settlement

import (
	"fmt"

	"github.com/jungsanbot/backend/internal/domain"
)

type parser struct {
	wb         *workbook
	branchName string
	warnings   []string
}

func (p *parser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// Parse 는 복호화 → 로드 → 요약 → 이름 맵 → 상세 → 미션 순서로 한 번에 처리한다.
// 복호화와 로드 실패만 오류로 돌려주고, 행 단위 문제는 해당 행을 빼고 Warnings 에 남긴다.
func Parse(file []byte, password, branchName string) (*domain.SettlementParseResult, error) {
	if len(file) == 0 {
		return nil, invalidInput(MsgMissingFile)
	}
	if password == "" {
		return nil, invalidInput(MsgMissingPassword)
	}

	plain, err := decrypt(file, password)
	if err != nil {
		return nil, parseFailure(MsgDecryptFailed, err)
	}

	wb, err := loadWorkbook(plain)
	if err != nil {
		return nil, parseFailure(MsgLoadFailed, err)
	}

	p := &parser{
		wb:         wb,
		branchName: branchName,
		warnings:   append([]string{}, wb.warnings...),
	}

	summaries := p.summaries()
	details := p.details(licenseIndex(summaries))
	missions := p.missions()

	return &domain.SettlementParseResult{
		Summaries: summaries,
		Details:   details,
		Missions:  missions,
		Warnings:  p.warnings,
	}, nil
}

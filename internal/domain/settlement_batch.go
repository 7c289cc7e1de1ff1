package domain

import "time"

// SettlementBatch 는 확정된 정산 파일 하나다. 기간 경계는 YYYY-MM-DD 문자열로 다룬다.
type SettlementBatch struct {
	ID           int64          `json:"id"`
	BranchName   string         `json:"branchName"`
	FileName     string         `json:"fileName"`
	PeriodStart  string         `json:"periodStart"`
	PeriodEnd    string         `json:"periodEnd"`
	SummaryCount int            `json:"summaryCount"`
	DetailCount  int            `json:"detailCount"`
	MissionCount int            `json:"missionCount"`
	UploadedBy   int64          `json:"uploadedBy"`
	Summaries    []RiderSummary `json:"summaries,omitempty"`
	Details      []OrderDetail  `json:"details,omitempty"`
	Missions     []MissionRow   `json:"missions,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	Version      int32          `json:"-"`
}

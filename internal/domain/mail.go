package domain

const MailQueueName = "email_queue"

const (
	MailTypeSettlementConfirmed = "settlement_confirmed"
	MailTypeSettlementDeleted   = "settlement_deleted"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type SettlementConfirmedMailData struct {
	FullName      string `json:"fullName"`
	BatchID       int64  `json:"batchID"`
	BranchName    string `json:"branchName"`
	PeriodStart   string `json:"periodStart"`
	PeriodEnd     string `json:"periodEnd"`
	RiderCount    int    `json:"riderCount"`
	OrderCount    int    `json:"orderCount"`
	WarningsCount int    `json:"warningsCount"`
}

type SettlementDeletedMailData struct {
	FullName    string `json:"fullName"`
	BatchID     int64  `json:"batchID"`
	BranchName  string `json:"branchName"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	DeletedBy   string `json:"deletedBy"`
}

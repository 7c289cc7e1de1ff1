package handler

type ContextKey string

var (
	RoleCtxKey           ContextKey = "role"
	SubCtxKey            ContextKey = "sub"
	MyInfoCtx            ContextKey = "myInfo"
	SettlementPreviewCtx ContextKey = "settlementPreview"
	SettlementBatchCtx   ContextKey = "settlementBatch"
)

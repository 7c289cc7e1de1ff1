package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jungsanbot/backend/internal/domain"
	"github.com/jungsanbot/backend/internal/settlement"
	"github.com/jungsanbot/backend/internal/utils"
)

// resolveBranch 는 업로드 대상 지사를 정한다. 지사관리자는 비워 두면 자기 지사가 된다.
func resolveBranch(user *domain.User, requested string) (string, error) {
	branchName := strings.TrimSpace(requested)
	if branchName == "" {
		if user.Role == domain.RoleSuperAdmin {
			return "", errors.New("지사명이 필요합니다")
		}
		branchName = user.BranchName
	}

	if err := utils.ValidateBranchAccess(user, branchName); err != nil {
		return "", err
	}
	return branchName, nil
}

func (h *Handler) ParseSettlement(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	maxBytes := h.config.Upload.MaxSize << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.errorResponse(w, r, fmt.Sprintf("파일 크기는 %dMB 를 넘을 수 없습니다", h.config.Upload.MaxSize))
			return
		case errors.Is(err, http.ErrNotMultipart):
			// 파일 없이 들어온 요청은 아래 Parse 가 걸러 낸다
		default:
			h.badRequest(w, r, err)
			return
		}
	}

	var (
		data     []byte
		fileName string
	)
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		fileName = header.Filename
		if data, err = io.ReadAll(file); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		h.internalServerError(w, r, err)
		return
	}

	branchName, err := resolveBranch(myInfo, r.FormValue("branchName"))
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	result, err := settlement.Parse(data, r.FormValue("password"), branchName)
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInvalidInput), errors.Is(err, settlement.ErrParseFailure):
			slog.Info("정산 파일 파싱 실패", "file", fileName, "branch", branchName, "error", err)
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	slog.Info("정산 파일 파싱 완료",
		"file", fileName,
		"branch", branchName,
		"summaries", len(result.Summaries),
		"details", len(result.Details),
		"missions", len(result.Missions),
		"warnings", len(result.Warnings),
	)

	preview := &domain.SettlementPreview{
		ID:                    uuid.NewString(),
		FileName:              fileName,
		BranchName:            branchName,
		UploadedBy:            myInfo.ID,
		ExpiresAt:             time.Now().Add(h.previewTTL()),
		SettlementParseResult: *result,
		Daily:                 settlement.DailyOrders(result.Details),
	}

	if err := h.savePreview(preview); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "정산 파일 파싱 성공", preview)
}

func (h *Handler) GetSettlementPreview(w http.ResponseWriter, r *http.Request) {
	preview := r.Context().Value(SettlementPreviewCtx).(*domain.SettlementPreview)
	h.successResponse(w, r, "미리보기 조회 성공", preview)
}

func (h *Handler) ConfirmSettlementPreview(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	preview := r.Context().Value(SettlementPreviewCtx).(*domain.SettlementPreview)

	var req struct {
		FileName    *string `json:"fileName" validate:"omitempty,max=255"`
		PeriodStart string  `json:"periodStart" validate:"required,datetime=2006-01-02"`
		PeriodEnd   string  `json:"periodEnd" validate:"required,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateDetailsInPeriod(preview.Details, req.PeriodStart, req.PeriodEnd); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	batch := &domain.SettlementBatch{
		BranchName:  preview.BranchName,
		FileName:    preview.FileName,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		UploadedBy:  myInfo.ID,
		Summaries:   preview.Summaries,
		Details:     preview.Details,
		Missions:    preview.Missions,
	}
	if req.FileName != nil {
		batch.FileName = *req.FileName
	}

	if err := h.repository.InsertSettlementBatch(batch); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "settlement_batches_branch_period_key":
				h.errorResponse(w, r, "같은 지사와 기간의 정산 자료가 이미 있습니다")
			case "settlement_batches_period_check":
				h.errorResponse(w, r, "시작일은 종료일보다 늦을 수 없습니다")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 여기부터는 이미 커밋됐으므로 실패해도 기록만 남긴다
	if err := h.deletePreview(preview.ID); err != nil {
		slog.Error("미리보기 삭제 실패", "previewID", preview.ID, "error", err)
	}

	if err := h.publishMail(domain.MailMessage{
		Type: domain.MailTypeSettlementConfirmed,
		To:   myInfo.Email,
		Data: domain.SettlementConfirmedMailData{
			FullName:      myInfo.FullName,
			BatchID:       batch.ID,
			BranchName:    batch.BranchName,
			PeriodStart:   batch.PeriodStart,
			PeriodEnd:     batch.PeriodEnd,
			RiderCount:    len(batch.Summaries),
			OrderCount:    len(batch.Details),
			WarningsCount: len(preview.Warnings),
		},
	}); err != nil {
		slog.Error("정산 확정 메일 발행 실패", "batchID", batch.ID, "error", err)
	}

	batch.Summaries, batch.Details, batch.Missions = nil, nil, nil
	h.successResponse(w, r, "정산 확정 성공", batch)
}

func (h *Handler) GetAllSettlementBatches(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	query := r.URL.Query()
	req := struct {
		From   string `json:"from" validate:"omitempty,datetime=2006-01-02"`
		To     string `json:"to" validate:"omitempty,datetime=2006-01-02"`
		Branch string `json:"branch" validate:"omitempty,max=100"`
	}{
		From:   query.Get("from"),
		To:     query.Get("to"),
		Branch: strings.TrimSpace(query.Get("branch")),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.From != "" && req.To != "" {
		if _, _, err := utils.ValidatePeriod(req.From, req.To); err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
	}

	if myInfo.Role != domain.RoleSuperAdmin {
		req.Branch = myInfo.BranchName
	}

	batches, err := h.repository.GetAllSettlementBatches(req.From, req.To, req.Branch)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "정산 목록 조회 성공", batches)
}

func (h *Handler) GetSettlementBatch(w http.ResponseWriter, r *http.Request) {
	batch := r.Context().Value(SettlementBatchCtx).(*domain.SettlementBatch)

	if err := h.repository.GetSettlementBatchRows(batch); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "정산 자료 조회 성공", batch)
}

func (h *Handler) GetSettlementBatchDailyOrders(w http.ResponseWriter, r *http.Request) {
	batch := r.Context().Value(SettlementBatchCtx).(*domain.SettlementBatch)

	daily, err := h.repository.GetSettlementBatchDailyOrders(batch.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "일별 오더수 조회 성공", daily)
}

func (h *Handler) DeleteSettlementBatch(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	batch := r.Context().Value(SettlementBatchCtx).(*domain.SettlementBatch)

	if err := h.repository.DeleteSettlementBatch(batch.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "정산 자료가 존재하지 않습니다")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	admins, err := h.repository.GetActiveSuperAdmins()
	if err != nil {
		slog.Error("최고관리자 목록 조회 실패", "error", err)
	}
	for _, admin := range admins {
		if err := h.publishMail(domain.MailMessage{
			Type: domain.MailTypeSettlementDeleted,
			To:   admin.Email,
			Data: domain.SettlementDeletedMailData{
				FullName:    admin.FullName,
				BatchID:     batch.ID,
				BranchName:  batch.BranchName,
				PeriodStart: batch.PeriodStart,
				PeriodEnd:   batch.PeriodEnd,
				DeletedBy:   myInfo.FullName,
			},
		}); err != nil {
			slog.Error("정산 삭제 메일 발행 실패", "batchID", batch.ID, "to", admin.Email, "error", err)
		}
	}

	h.successResponse(w, r, "정산 자료 삭제 성공", nil)
}

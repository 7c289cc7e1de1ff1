package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jungsanbot/backend/internal/config"
	"github.com/jungsanbot/backend/internal/domain"
	"github.com/jungsanbot/backend/internal/seed"
	"github.com/jungsanbot/backend/internal/settlement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret
	cfg.JWT.Expiration = 3600
	cfg.Upload.MaxSize = 1
	cfg.Upload.PreviewExpiration = 60

	h, err := NewHandler(cfg, nil, nil, nil)
	require.NoError(t, err)
	return h
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func withUser(r *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), MyInfoCtx, user)
	ctx = context.WithValue(ctx, RoleCtxKey, string(user.Role))
	return r.WithContext(ctx)
}

var (
	superAdmin = &domain.User{ID: 1, Username: "admin", FullName: "관리자", Role: domain.RoleSuperAdmin, IsActive: true}
	gangnam    = &domain.User{ID: 2, Username: "gangnam", FullName: "김지사", Role: domain.RoleBranchManager, BranchName: "강남지사", IsActive: true}
)

func TestAuth(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	valid, _, err := h.issueToken(gangnam, time.Now())
	require.NoError(t, err)
	expired, _, err := h.issueToken(gangnam, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	other := newTestHandler(t)
	other.config.JWT.Secret = "another-secret"
	forged, _, err := other.issueToken(superAdmin, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		passed  bool
		message string
	}{
		{
			name:    "토큰 없음",
			prepare: func(r *http.Request) {},
			message: "로그인이 필요합니다",
		},
		{
			name:    "형식이 틀린 토큰",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-token") },
			message: "유효하지 않은 토큰입니다",
		},
		{
			name:    "다른 키로 서명한 토큰",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forged) },
			message: "유효하지 않은 토큰입니다",
		},
		{
			name:    "만료된 토큰",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) },
			message: "로그인이 만료되었습니다",
		},
		{
			name:    "Bearer 헤더",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			passed:  true,
		},
		{
			name:    "쿠키",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: tokenCookieName, Value: valid}) },
			passed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var role, sub string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				role = r.Context().Value(RoleCtxKey).(string)
				sub = r.Context().Value(SubCtxKey).(string)
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/my-info", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			h.auth(next).ServeHTTP(rec, req)

			if tt.passed {
				assert.Equal(t, http.StatusNoContent, rec.Code)
				assert.Equal(t, string(domain.RoleBranchManager), role)
				assert.Equal(t, "2", sub)
				return
			}

			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestRequiredRole(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mw := h.RequiredRole([]domain.Role{domain.RoleSuperAdmin})

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodDelete, "/settlements/batches/1", nil), superAdmin))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodDelete, "/settlements/batches/1", nil), gangnam))
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "권한이 부족합니다", resp.Message)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin"}`)))

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "password은(는) 필수 항목입니다", resp.Message)
}

func multipartRequest(t *testing.T, file []byte, fields map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if file != nil {
		part, err := mw.CreateFormFile("file", "정산.xlsx")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/settlements/parse", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestParseSettlement_Rejections(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	workbook, err := seed.BuildSettlementWorkbook(seed.SettlementWorkbook{
		Summaries: []seed.SummaryRow{{LicenseID: "L1", Name: "김철수9999", TotalOrders: 1}},
		Orders: []seed.OrderRow{
			{Name: "김철수9999", OrderNo: "A1", AcceptedAt: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		},
	}, "1234")
	require.NoError(t, err)

	tests := []struct {
		name    string
		user    *domain.User
		req     func() *http.Request
		message string
	}{
		{
			name:    "파일 없음",
			user:    gangnam,
			req:     func() *http.Request { return multipartRequest(t, nil, map[string]string{"password": "1234"}) },
			message: settlement.MsgMissingFile,
		},
		{
			name:    "multipart 가 아님",
			user:    gangnam,
			req:     func() *http.Request { return httptest.NewRequest(http.MethodPost, "/settlements/parse", nil) },
			message: settlement.MsgMissingFile,
		},
		{
			name:    "비밀번호 없음",
			user:    gangnam,
			req:     func() *http.Request { return multipartRequest(t, workbook, nil) },
			message: settlement.MsgMissingPassword,
		},
		{
			name:    "최고관리자는 지사명이 필요",
			user:    superAdmin,
			req:     func() *http.Request { return multipartRequest(t, workbook, map[string]string{"password": "1234"}) },
			message: "지사명이 필요합니다",
		},
		{
			name: "다른 지사",
			user: gangnam,
			req: func() *http.Request {
				return multipartRequest(t, workbook, map[string]string{"password": "1234", "branchName": "서초지사"})
			},
			message: "서초지사 지사의 정산 자료에 접근할 권한이 없습니다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			h.ParseSettlement(rec, withUser(tt.req(), tt.user))

			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}

	t.Run("비밀번호 틀림", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := multipartRequest(t, workbook, map[string]string{"password": "0000"})
		h.ParseSettlement(rec, withUser(req, gangnam))

		resp := decodeResponse(t, rec)
		assert.False(t, resp.Success)
		assert.True(t, strings.HasPrefix(resp.Message, settlement.MsgDecryptFailed), resp.Message)
	})
}

func TestConfirmSettlementPreview_Validation(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	preview := &domain.SettlementPreview{
		ID:         "9b2f6c1e-8a4d-4f7e-9c1a-2d3e4f5a6b7c",
		BranchName: "강남지사",
		UploadedBy: gangnam.ID,
		SettlementParseResult: domain.SettlementParseResult{
			Details: []domain.OrderDetail{{OrderNo: "A1", JudgementDate: "2024-01-04"}},
		},
	}

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "시작일 누락",
			body:    `{"periodEnd":"2024-01-31"}`,
			message: "periodStart은(는) 필수 항목입니다",
		},
		{
			name:    "날짜 형식",
			body:    `{"periodStart":"2024/01/01","periodEnd":"2024-01-31"}`,
			message: "periodStart은(는) 2006-01-02 형식이어야 합니다",
		},
		{
			name:    "역순 기간",
			body:    `{"periodStart":"2024-01-31","periodEnd":"2024-01-01"}`,
			message: "시작일은 종료일보다 늦을 수 없습니다",
		},
		{
			name:    "기간 밖 주문",
			body:    `{"periodStart":"2024-01-05","periodEnd":"2024-01-31"}`,
			message: "주문 A1 의 판정일 2024-01-04 이 정산 기간 2024-01-05 ~ 2024-01-31 밖에 있습니다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/settlements/previews/"+preview.ID+"/confirm", strings.NewReader(tt.body))
			req = withUser(req, gangnam)
			req = req.WithContext(context.WithValue(req.Context(), SettlementPreviewCtx, preview))

			rec := httptest.NewRecorder()
			h.ConfirmSettlementPreview(rec, req)

			resp := decodeResponse(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestGetAllSettlementBatches_Validation(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.GetAllSettlementBatches(rec, withUser(httptest.NewRequest(http.MethodGet, "/settlements/batches?from=20240101", nil), superAdmin))
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "from은(는) 2006-01-02 형식이어야 합니다", resp.Message)

	rec = httptest.NewRecorder()
	h.GetAllSettlementBatches(rec, withUser(httptest.NewRequest(http.MethodGet, "/settlements/batches?from=2024-02-01&to=2024-01-01", nil), superAdmin))
	resp = decodeResponse(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "시작일은 종료일보다 늦을 수 없습니다", resp.Message)
}

func TestResolveBranch(t *testing.T) {
	t.Parallel()

	branch, err := resolveBranch(gangnam, "")
	require.NoError(t, err)
	assert.Equal(t, "강남지사", branch)

	branch, err = resolveBranch(superAdmin, " 서초지사 ")
	require.NoError(t, err)
	assert.Equal(t, "서초지사", branch)

	_, err = resolveBranch(superAdmin, "")
	assert.Error(t, err)
}

package handler

import (
	"net/http"

	"github.com/jungsanbot/backend/internal/domain"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "내 정보 조회 성공", myInfo)
}

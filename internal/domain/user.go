package domain

import (
	"time"
)

type Role string

const (
	RoleBranchManager Role = "지사관리자"
	RoleSuperAdmin    Role = "최고관리자"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	BranchName   string    `json:"branchName"` // 최고관리자는 빈 문자열
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

package utils

import (
	"fmt"
	"math/rand"

	"github.com/jungsanbot/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"김", "이", "박", "최", "정", "강", "조", "윤", "장", "임",
	"한", "오", "서", "신", "권", "황", "안", "송", "류", "홍",
}
var commonNameSyllables = []string{
	"민", "서", "준", "지", "현", "우", "예", "도", "하", "윤",
	"수", "진", "영", "호", "성", "은", "재", "경", "태", "혁",
	"철", "희", "동", "규", "석", "빈", "훈", "연", "아", "원",
}

func GenerateRandomKoreanName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	name := ""

	for i := 0; i < 2; i++ {
		name += commonNameSyllables[rand.Intn(len(commonNameSyllables))]
	}
	return surname + name
}

var digits = "0123456789"

// 라이더 표시 이름 뒤에 붙는 전화번호 뒷자리
func GenerateRandomPhoneSuffix() string {
	return GenerateRandomDigits(4)
}

func GenerateRandomDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}

var roles = []domain.Role{
	domain.RoleBranchManager,
	domain.RoleSuperAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var branchNames = []string{"강남지사", "송파지사", "마포지사", "분당지사", "수원지사", "부천지사"}

func GenerateRandomBranchName() string {
	return branchNames[rand.Intn(len(branchNames))]
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomKoreanName()
	username := "admin" + GenerateRandomDigits(6)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}
	if user.Role == domain.RoleBranchManager {
		user.BranchName = GenerateRandomBranchName()
	}

	return user, nil
}

var orderNoLetters = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// 축약형 주문번호: 영문 2자 + 숫자 4자
func GenerateRandomOrderNo() string {
	return fmt.Sprintf("%c%c%s",
		orderNoLetters[rand.Intn(len(orderNoLetters))],
		orderNoLetters[rand.Intn(len(orderNoLetters))],
		GenerateRandomDigits(4),
	)
}

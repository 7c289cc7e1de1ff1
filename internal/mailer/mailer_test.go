package mailer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jungsanbot/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, msg domain.MailMessage) []byte {
	t.Helper()

	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func TestDecodeAndRender_Confirmed(t *testing.T) {
	t.Parallel()

	body := encode(t, domain.MailMessage{
		Type: domain.MailTypeSettlementConfirmed,
		To:   "gangnam@example.com",
		Data: domain.SettlementConfirmedMailData{
			FullName:      "김지사",
			BatchID:       7,
			BranchName:    "강남지사",
			PeriodStart:   "2024-01-01",
			PeriodEnd:     "2024-01-31",
			RiderCount:    3,
			OrderCount:    120,
			WarningsCount: 2,
		},
	})

	m, err := Decode(body)
	require.NoError(t, err)
	assert.Equal(t, "gangnam@example.com", m.To)
	require.IsType(t, &domain.SettlementConfirmedMailData{}, m.Data)

	var sb strings.Builder
	require.NoError(t, Render(&sb, m))
	html := sb.String()
	assert.Contains(t, html, "김지사 님")
	assert.Contains(t, html, "2024-01-01 ~ 2024-01-31")
	assert.Contains(t, html, "<td>120</td>")
	assert.Contains(t, html, "2 건")
}

func TestRender_ConfirmedWithoutWarnings(t *testing.T) {
	t.Parallel()

	m := &Message{
		Type: domain.MailTypeSettlementConfirmed,
		Data: &domain.SettlementConfirmedMailData{FullName: "김지사"},
	}

	var sb strings.Builder
	require.NoError(t, Render(&sb, m))
	assert.NotContains(t, sb.String(), "경고")
}

func TestRender_EscapesHTML(t *testing.T) {
	t.Parallel()

	m := &Message{
		Type: domain.MailTypeSettlementDeleted,
		Data: &domain.SettlementDeletedMailData{FullName: "관리자", BranchName: "<b>강남</b>", DeletedBy: "최고"},
	}

	var sb strings.Builder
	require.NoError(t, Render(&sb, m))
	assert.Contains(t, sb.String(), "&lt;b&gt;강남&lt;/b&gt;")
}

func TestDecode_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := Decode(encode(t, domain.MailMessage{Type: "reset_password", To: "a@example.com"}))
	assert.True(t, errors.Is(err, ErrUnknownType))

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	t.Parallel()

	m := &Message{
		Type: domain.MailTypeSettlementDeleted,
		To:   "admin@example.com",
		Data: &domain.SettlementDeletedMailData{FullName: "관리자", BatchID: 3},
	}

	msg, err := Compose("noreply@example.com", m)
	require.NoError(t, err)

	recipients, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin@example.com"}, recipients)
	assert.Equal(t, "정산봇 - 정산 삭제 안내", Subject(domain.MailTypeSettlementDeleted))

	_, err = Compose("not an address", m)
	assert.Error(t, err)
}

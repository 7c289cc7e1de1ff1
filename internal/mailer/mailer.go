// Package mailer 는 큐에 쌓인 메일 작업을 go-mail 메시지로 바꾼다.
package mailer

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/jungsanbot/backend/internal/domain"
	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrUnknownType = errors.New("지원하지 않는 메일 종류입니다")

type kind struct {
	subject  string
	template string
	data     func() any
}

var kinds = map[string]kind{
	domain.MailTypeSettlementConfirmed: {
		subject:  "정산봇 - 정산 확정 안내",
		template: "settlement_confirmed.html",
		data:     func() any { return &domain.SettlementConfirmedMailData{} },
	},
	domain.MailTypeSettlementDeleted: {
		subject:  "정산봇 - 정산 삭제 안내",
		template: "settlement_deleted.html",
		data:     func() any { return &domain.SettlementDeletedMailData{} },
	},
}

// Message 는 Data 가 종류별 구조체로 풀린 메일 작업이다
type Message struct {
	Type string
	To   string
	Data any
}

func Decode(body []byte) (*Message, error) {
	var raw struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	k, ok := kinds[raw.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, raw.Type)
	}

	data := k.data()
	if len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			return nil, err
		}
	}

	return &Message{Type: raw.Type, To: raw.To, Data: data}, nil
}

func Subject(msgType string) string {
	return kinds[msgType].subject
}

func Render(w io.Writer, m *Message) error {
	k, ok := kinds[m.Type]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownType, m.Type)
	}
	return templates.ExecuteTemplate(w, k.template, m.Data)
}

func Compose(from string, m *Message) (*gomail.Msg, error) {
	k, ok := kinds[m.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, m.Type)
	}

	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(m.To); err != nil {
		return nil, err
	}
	msg.Subject(k.subject)
	if err := msg.SetBodyHTMLTemplate(templates.Lookup(k.template), m.Data); err != nil {
		return nil, err
	}

	return msg, nil
}

package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jungsanbot/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// publishMail 은 메일 작업을 큐에 넣는다. 실제 발송은 cmd/mail 이 맡는다.
func (h *Handler) publishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		domain.MailQueueName,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jungsanbot/backend/internal/config"
	"github.com/jungsanbot/backend/internal/domain"
	"github.com/jungsanbot/backend/internal/mailer"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

func main() {
	/**********************************************
	 * logger 생성
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 설정 읽기
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("설정을 읽을 수 없습니다", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 메일 클라이언트 생성
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("메일 클라이언트를 만들 수 없습니다", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("메일 서버에 연결할 수 없습니다", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * RabbitMQ 연결
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("RabbitMQ 에 연결할 수 없습니다", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("채널을 만들 수 없습니다", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		domain.MailQueueName,
		true,  // durable
		false, // 소비자가 없어도 지우지 않는다
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		logger.Error("큐를 선언할 수 없습니다", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",    // 소비자 태그는 서버가 정한다
		false, // 수동 ack
		false,
		false, // RabbitMQ 는 no-local 을 지원하지 않는다
		false,
		nil,
	)
	if err != nil {
		logger.Error("메시지를 소비할 수 없습니다", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-msgs:
				if !ok {
					logger.Error("메시지 채널이 닫혔습니다")
					return
				}

				m, err := mailer.Decode(delivery.Body)
				if err != nil {
					logger.Error("메일 작업을 해석할 수 없습니다", slog.String("error", err.Error()))
					_ = delivery.Nack(false, false)
					continue
				}
				logger.Info("메일 작업 수신", slog.String("type", m.Type), slog.String("to", m.To))

				msg, err := mailer.Compose(cfg.Email.SMTP.Username, m)
				if err != nil {
					logger.Error("메일을 만들 수 없습니다", slog.String("type", m.Type), slog.String("error", err.Error()))
					_ = delivery.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(msg); err != nil {
					logger.Error("메일 발송 실패", slog.String("error", err.Error()))
					_ = delivery.Nack(false, true) // 다시 큐에 넣는다
					continue
				}

				_ = delivery.Ack(false)
			}
		}
	}()

	logger.Info("메일 작업 대기 중... (CTRL+C 로 종료)")
	<-sigChan

	slog.Info("mail worker 종료 중...")
	cancel()
	wg.Wait()
	slog.Info("mail worker 종료 완료")
}

package handler

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/campus-media-dev/equipment-manager/backend/internal/domain"
)

// publishMail 把邮件任务投递到消息队列，由 cmd/mail 异步发送
func (h *Handler) publishMail(mailType string, to string, data any) error {
	mailMessage := domain.MailMessage{
		Type: mailType,
		To:   to,
		Data: data,
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

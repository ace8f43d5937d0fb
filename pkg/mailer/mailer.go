package mailer

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/alexpase322/jornixs-backend/config"
)

// Sender 邮件发送接口
// 业务层只依赖此接口，测试时用 Nop 实现替换
type Sender interface {
	// Send 发送一封 HTML 邮件；调用方负责异步化
	Send(to, subject, htmlBody string) error
}

// SMTPSender 基于 gomail 的 SMTP 实现
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPSender 创建 SMTP 发送器
func NewSMTPSender(cfg *config.MailConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// Send 发送邮件（同步阻塞，由调用方放入 goroutine）
func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

// NopSender 空实现：未启用邮件功能或单元测试时使用
type NopSender struct{}

func (NopSender) Send(string, string, string) error { return nil }

package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"campus-complaints/backend/config"
)

// Mailer SMTP 邮件发送器
// 状态变更通知属于尽力而为：发送失败只记日志，不影响业务事务
type Mailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewMailer 创建 Mailer 实例
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send 发送纯文本邮件；未启用或配置不全时静默跳过
func (m *Mailer) Send(to, subject, body string) {
	if !m.cfg.Enabled || m.cfg.SMTPHost == "" || to == "" {
		return
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		m.logger.Warn("邮件发送失败",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}

package email

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"github.com/qs3c/academy_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// Enabled 未配置 SMTP 时不发送
func (s *Service) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.SMTPHost != "" && s.cfg.From != ""
}

// Receipt 缴费收据内容
type Receipt struct {
	StudentName string
	Package     string
	Reference   string
	Amount      int64
	PaymentDate time.Time
	Method      string
	AmountDue   int64
}

// SendPaymentReceipt 发送缴费收据
func (s *Service) SendPaymentReceipt(to string, r *Receipt) error {
	subject := fmt.Sprintf("Payment receipt %s - %s", r.Reference, s.cfg.AcademyName)
	return s.sendHTML(to, subject, RenderReceipt(s.cfg.AcademyName, r))
}

// RenderReceipt 生成收据 HTML
func RenderReceipt(academy string, r *Receipt) string {
	balance := "Fully paid"
	if r.AmountDue > 0 {
		balance = fmt.Sprintf("Outstanding balance: %d", r.AmountDue)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">%s</h2>
        <p>Dear %s,</p>
        <p>We have received your payment for the <strong>%s</strong> package.</p>
        <table style="width: 100%%; border-collapse: collapse;">
            <tr><td>Reference</td><td>%s</td></tr>
            <tr><td>Amount</td><td>%d</td></tr>
            <tr><td>Date</td><td>%s</td></tr>
            <tr><td>Method</td><td>%s</td></tr>
        </table>
        <p>%s</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This email was sent automatically, please do not reply.</p>
    </div>
</body>
</html>
`,
		html.EscapeString(academy),
		html.EscapeString(r.StudentName),
		html.EscapeString(r.Package),
		html.EscapeString(r.Reference),
		r.Amount,
		r.PaymentDate.Format("2006-01-02"),
		html.EscapeString(r.Method),
		balance,
	)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	var msg strings.Builder
	for _, h := range [][2]string{
		{"From", s.cfg.From},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	} {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}

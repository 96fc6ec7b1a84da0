package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/qs3c/academy_server/config"
)

func TestService_Enabled(t *testing.T) {
	assert.False(t, (*Service)(nil).Enabled())
	assert.False(t, NewService(&config.EmailConfig{}).Enabled())
	assert.True(t, NewService(&config.EmailConfig{SMTPHost: "smtp.example.com", From: "coach@example.com"}).Enabled())
}

func TestRenderReceipt(t *testing.T) {
	r := &Receipt{
		StudentName: "Kasun <K>",
		Package:     "3 Months",
		Reference:   "PAY-1",
		Amount:      6000,
		PaymentDate: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC),
		Method:      "Cash",
		AmountDue:   4000,
	}

	body := RenderReceipt("Table Tennis Academy", r)

	assert.Contains(t, body, "Table Tennis Academy")
	assert.Contains(t, body, "Kasun &lt;K&gt;")
	assert.Contains(t, body, "2024-05-02")
	assert.Contains(t, body, "Outstanding balance: 4000")

	r.AmountDue = 0
	assert.Contains(t, RenderReceipt("A", r), "Fully paid")
}

package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends mail through a plain SMTP relay.
type SMTPNotifier struct {
	host string
	port string
	from string
	auth smtp.Auth
}

func NewSMTPNotifier(host, port, username, password, from string) *SMTPNotifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPNotifier{host: host, port: port, from: from, auth: auth}
}

func (n *SMTPNotifier) OrderCompleted(ctx context.Context, recipient, kind, orderNumber string) error {
	subject := fmt.Sprintf("%s order %s completed", capitalize(kind), orderNumber)
	body := fmt.Sprintf("The %s order %s has been completed and inventory has been updated.", kind, orderNumber)
	return n.send(recipient, subject, body)
}

func (n *SMTPNotifier) LowStockDigest(ctx context.Context, recipient string, items []LowStockItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d item(s) are at or below their minimum stock level:\r\n\r\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (SKU: %s): %d on hand, minimum %d\r\n",
			item.Name, item.SKU, item.Quantity, item.MinStockLevel)
	}
	return n.send(recipient, "Low stock alert", b.String())
}

func (n *SMTPNotifier) send(recipient, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + recipient,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	addr := n.host + ":" + n.port
	if err := smtp.SendMail(addr, n.auth, n.from, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

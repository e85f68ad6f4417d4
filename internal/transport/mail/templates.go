package mail

import (
	"context"
	"fmt"
	"html"
	"time"
)

func (m *Mailer) SendOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return m.Send(ctx, Message{
		To:      email,
		Subject: fmt.Sprintf("Your %s verification code", m.appName),
		Text: fmt.Sprintf("Your verification code is %s.\nIt expires in %d minutes.\n\nIf you did not request this, ignore this email.",
			code, minutes),
		HTML: fmt.Sprintf(`<div style="font-family:sans-serif">
<p>Your verification code is</p>
<p style="font-size:24px;letter-spacing:4px"><strong>%s</strong></p>
<p>It expires in %d minutes.</p>
<p>If you did not request this, ignore this email.</p>
</div>`, html.EscapeString(code), minutes),
	})
}

func (m *Mailer) SendPasswordReset(ctx context.Context, email, link string) error {
	return m.Send(ctx, Message{
		To:      email,
		Subject: fmt.Sprintf("Reset your %s password", m.appName),
		Text: fmt.Sprintf("Use the link below to reset your password:\n%s\n\nThe link works once. If you did not request this, ignore this email.",
			link),
	})
}

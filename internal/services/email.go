package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	frontendURL string
	devMode     bool
}

func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

func (s *EmailService) SendVerificationEmail(to, token string) error {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)

	subject := "Verify your SkillShare Hub account"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; overflow: hidden;">
    <div style="background: #0f766e; padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">SkillShare Hub</h1>
      <p style="color: rgba(255,255,255,0.85); margin: 8px 0 0; font-size: 14px;">Peer Learning Sessions</p>
    </div>
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Verify Your Email</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        Welcome to SkillShare Hub! Click the button below to verify your email address and start learning with peers.
      </p>
      <a href="%s" style="display: inline-block; background: #0f766e; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        Verify Email
      </a>
      <p style="color: #94a3b8; font-size: 12px; margin: 24px 0 0;">
        This link expires in 24 hours.
      </p>
    </div>
  </div>
</body>
</html>`, verifyURL)

	return s.sendHTML(to, subject, body)
}

func (s *EmailService) SendParticipantJoinedEmail(to, participantName, sessionTitle string, scheduledAt time.Time) error {
	subject := fmt.Sprintf("%s joined your session", participantName)
	body := s.sessionCard(
		"New participant",
		fmt.Sprintf("%s has joined your session <strong>%s</strong>, scheduled for %s.",
			participantName, sessionTitle, scheduledAt.Format("Monday, January 2 at 15:04")),
	)
	return s.sendHTML(to, subject, body)
}

func (s *EmailService) SendSessionCancelledEmail(to, hostName, sessionTitle string) error {
	subject := fmt.Sprintf("Session cancelled: %s", sessionTitle)
	body := s.sessionCard(
		"Session cancelled",
		fmt.Sprintf("%s has cancelled the session <strong>%s</strong>. It has been removed from your joined sessions.",
			hostName, sessionTitle),
	)
	return s.sendHTML(to, subject, body)
}

func (s *EmailService) SendSessionReminderEmail(to, sessionTitle string, scheduledAt time.Time) error {
	subject := fmt.Sprintf("Starting soon: %s", sessionTitle)
	body := s.sessionCard(
		"Session starting soon",
		fmt.Sprintf("Your session <strong>%s</strong> starts at %s. See you there!",
			sessionTitle, scheduledAt.Format("15:04")),
	)
	return s.sendHTML(to, subject, body)
}

func (s *EmailService) sessionCard(heading, text string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; overflow: hidden;">
    <div style="background: #0f766e; padding: 24px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 20px; font-weight: 700;">SkillShare Hub</h1>
    </div>
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 18px; color: #1e293b;">%s</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">%s</p>
      <a href="%s/my-sessions" style="display: inline-block; background: #0f766e; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        View My Sessions
      </a>
    </div>
  </div>
</body>
</html>`, heading, text, s.frontendURL)
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}

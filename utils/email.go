package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// sendMail delivers an HTML email through the configured SMTP server. Email
// is best effort; callers log failures rather than failing the request.
func sendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP not configured")
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")

	m := gomail.NewMessage()
	m.SetHeader("From", username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, username, password)
	return d.DialAndSend(m)
}

// SendRegistrationConfirmation emails a user after signing up for an event
func SendRegistrationConfirmation(to, eventTitle, eventDate string) error {
	body := fmt.Sprintf(`
		<h2>You're registered!</h2>
		<p>We've saved your spot for <strong>%s</strong> on %s.</p>
		<p>See you there.</p>`, eventTitle, eventDate)
	return sendMail(to, "Registration confirmed: "+eventTitle, body)
}

// SendWaitlistNotification emails a user promoted off an event waitlist
func SendWaitlistNotification(to, eventTitle string) error {
	body := fmt.Sprintf(`
		<h2>A spot opened up</h2>
		<p>You've been moved off the waitlist for <strong>%s</strong>.
		Your registration is now confirmed.</p>`, eventTitle)
	return sendMail(to, "You're off the waitlist: "+eventTitle, body)
}

// SendOrderConfirmation emails a user after their order is finalized
func SendOrderConfirmation(to, orderNumber, total string) error {
	body := fmt.Sprintf(`
		<h2>Order confirmed</h2>
		<p>Your order <strong>%s</strong> has been placed.</p>
		<p>Total charged: $%s</p>
		<p>We'll email tracking details once your order ships.</p>`, orderNumber, total)
	return sendMail(to, "Order confirmation "+orderNumber, body)
}

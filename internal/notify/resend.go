package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends booking confirmation emails via the Resend API
type ResendNotifier struct {
	client      *resend.Client
	fromAddress string
	toAddress   string
}

// NewResendNotifier creates a new Resend email notifier. Returns nil when no
// API key is configured so callers can treat email as an optional feature.
func NewResendNotifier(apiKey, from, to string) *ResendNotifier {
	if apiKey == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
		toAddress:   to,
	}
}

// IsConfigured returns true if the notifier has everything needed to send
func (r *ResendNotifier) IsConfigured() bool {
	return r != nil && r.client != nil && r.fromAddress != "" && r.toAddress != ""
}

// Send emails the booking confirmation to the configured recipient
func (r *ResendNotifier) Send(_ context.Context, confirmation BookingConfirmation) error {
	if !r.IsConfigured() {
		return fmt.Errorf("resend notifier is not fully configured")
	}

	when := confirmation.StartTime.Format("Monday, January 2, 2006 at 3:04 PM MST")
	subject := fmt.Sprintf("Call booked: %s", when)
	html := r.formatEmailHTML(confirmation, when)

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{r.toAddress},
		Subject: subject,
		Html:    html,
	}

	_, err := r.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	fmt.Printf("Booking confirmation emailed to %s for %s\n", r.toAddress, when)
	return nil
}

// Name returns the notifier name
func (r *ResendNotifier) Name() string {
	return "resend"
}

// formatEmailHTML creates the HTML email body
func (r *ResendNotifier) formatEmailHTML(confirmation BookingConfirmation, when string) string {
	linkHTML := ""
	if confirmation.MeetLink != "" {
		linkHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Meet link:</strong> <a href="%s">%s</a></p>`,
			confirmation.MeetLink, confirmation.MeetLink)
	}

	return fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px;">
			<h2>Your TailorTalk call is booked</h2>
			<p style="margin: 8px 0;"><strong>When:</strong> %s</p>
			<p style="margin: 8px 0;"><strong>Duration:</strong> %d minutes</p>
			%s
		</div>
	`, when, confirmation.DurationMinutes, linkHTML)
}

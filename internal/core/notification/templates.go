package notification

import (
	"fmt"
	"strings"
)

const signature = "Best regards,\nThe support team"

// Message is a rendered subject/body pair.
type Message struct {
	Subject string
	Body    string
}

// Render builds the fixed per-type message for a recipient and reclamation.
// An empty recipient name falls back to a generic greeting.
func Render(t Type, recipientName, reclamationID string) (Message, error) {
	var label, line string
	switch t {
	case TypeReceived:
		label = "Received"
		line = "We have received your reclamation #%s. Our team will review it shortly."
	case TypeTakenInCharge:
		label = "Taken in charge"
		line = "Your reclamation #%s has been taken in charge by our team and is being worked on."
	case TypeProcessed:
		label = "Processed"
		line = "Your reclamation #%s has been processed. Thank you for your patience."
	default:
		return Message{}, fmt.Errorf("no template for notification type %q", t)
	}

	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "customer"
	}

	return Message{
		Subject: fmt.Sprintf("Reclamation #%s - %s", reclamationID, label),
		Body: fmt.Sprintf("Hello %s,\n\n", name) +
			fmt.Sprintf(line, reclamationID) +
			"\n\n" + signature,
	}, nil
}

package mail

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a message to an address. Implementations report only
// whether the hand-off succeeded; the caller never inspects delivery
// mechanics.
type Mailer interface {
	Deliver(ctx context.Context, msg Message) error
}

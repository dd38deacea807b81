package email

import (
	"context"
)

// Message is one outgoing email. Attachment is optional.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

type Service interface {
	Send(ctx context.Context, msg Message) error
}

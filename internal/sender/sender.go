// Package sender delivers messages through the SMS/WhatsApp transport.
package sender

import (
	"context"
	"errors"
	"fmt"

	"github.com/teamline/unibox/internal/models"
)

// ErrTransportUnavailable means the channel cannot be used because required
// configuration (the sender phone number) is absent. Retrying without a
// config change will not help, but the dispatcher treats it like any other
// send failure and leaves the record pending.
var ErrTransportUnavailable = errors.New("transport unavailable: channel is not configured")

// TransportError is a rejection reported by the provider (invalid number,
// quota, auth failure).
type TransportError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *TransportError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("transport rejected send: %s (code %d, http %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("transport rejected send: %s (http %d)", e.Message, e.StatusCode)
}

// Sender hands a message off to the transport for a single destination.
// A returned provider reference confirms hand-off, not end-to-end delivery.
type Sender interface {
	Send(ctx context.Context, to, body string, channel models.Channel) (providerRef string, err error)
}

// Package models defines data structures used throughout the application.
package models

import (
	"database/sql"
	"strings"
	"time"
)

// Channel is the messaging transport a message travels over.
type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelEmail    Channel = "EMAIL"
)

// ParseChannel normalizes a user-supplied channel value.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToUpper(s)) {
	case ChannelSMS:
		return ChannelSMS, true
	case ChannelWhatsApp:
		return ChannelWhatsApp, true
	case ChannelEmail:
		return ChannelEmail, true
	}
	return "", false
}

// Dispatchable reports whether the scheduled dispatcher can send over this
// channel. Email has no transport wired in and is treated as ineligible.
func (c Channel) Dispatchable() bool {
	return c == ChannelSMS || c == ChannelWhatsApp
}

// Direction distinguishes messages received from a contact from messages
// sent to one.
type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

// Message is a single inbox message tied to a contact.
type Message struct {
	ID        string         `db:"id" json:"id"`
	ContactID string         `db:"contact_id" json:"contact_id"`
	SenderID  sql.NullString `db:"sender_id" json:"sender_id,omitempty"`
	Body      string         `db:"body" json:"body"`
	Channel   Channel        `db:"channel" json:"channel"`
	Direction Direction      `db:"direction" json:"direction"`
	MediaURL  sql.NullString `db:"media_url" json:"media_url,omitempty"`
	Read      bool           `db:"read" json:"read"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Contact is a person the team talks to. The dispatcher only reads the
// phone field; contact writes happen on the API side.
type Contact struct {
	ID        string         `db:"id" json:"id"`
	Name      sql.NullString `db:"name" json:"name,omitempty"`
	Phone     sql.NullString `db:"phone" json:"phone,omitempty"`
	Email     sql.NullString `db:"email" json:"email,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// HasPhone reports whether the contact has a routable phone identifier.
func (c *Contact) HasPhone() bool {
	return c.Phone.Valid && c.Phone.String != ""
}

// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const MaxLabelLen = 36

var ErrLabelTooLong = errors.New("label too long")

// ConnID is the transport-assigned identity of a live connection.
type ConnID string

func NewConnID() ConnID { return ConnID(uuid.NewString()) }

// Connection is the participant meta kept next to a live connection.
// No transport or lifecycle logic here.
type Connection struct {
	ID          ConnID    `json:"id"`
	Label       string    `json:"label"`
	ClientToken string    `json:"-"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NewConnection is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewConnection(id ConnID, clientToken string) *Connection {
	return &Connection{
		ID:          id,
		Label:       string(id),
		ClientToken: clientToken,
		ConnectedAt: time.Now(),
	}
}

// SetLabel replaces the display label. An empty label falls back to the id.
func (c *Connection) SetLabel(label string) error {
	if len(label) > MaxLabelLen {
		return ErrLabelTooLong
	}
	if label == "" {
		label = string(c.ID)
	}
	c.Label = label
	return nil
}

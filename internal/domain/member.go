package domain

// Member is a read-only view of a room participant for APIs.
type Member struct {
	ID    ConnID `json:"id"`
	Label string `json:"label"`
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(c *Connection) Member {
	return Member{ID: c.ID, Label: c.Label}
}

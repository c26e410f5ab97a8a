package app

import (
	"fmt"

	"github.com/dkeye/huddle/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a recipient whose outbound queue refused a frame.
type Policy interface {
	OnBackPressure(id domain.ConnID, err error) BackpressureAction
}

// DropPolicy logs and drops the frame; the recipient stays connected.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.ConnID, error) BackpressureAction {
	return DropFrame
}

// KickPolicy disconnects a recipient that cannot keep up.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.ConnID, error) BackpressureAction {
	return KickMember
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown backpressure policy %q", name)
}

package server

import (
	"encoding/json"
	"fmt"

	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/platform"
	"github.com/zeusync/vecview/internal/core/renderer"
	"github.com/zeusync/vecview/internal/core/touch"
)

// Client message types.
const (
	TypeHello   = "hello"
	TypePointer = "pointer"
	TypeWheel   = "wheel"
	TypeTouch   = "touch"
	TypeGesture = "gesture"
	TypeResize  = "resize"
	TypeOpen    = "open"
)

// Server message types.
const (
	TypeReady = "ready"
	TypeFatal = "fatal"
	TypeState = "state"
	TypeError = "error"
)

// Gesture phases.
const (
	PhaseStart  = "start"
	PhaseChange = "change"
	PhaseEnd    = "end"
)

// ClientMessage is the flat union of every client message.
type ClientMessage struct {
	Type string `json:"type"`

	// hello
	UserAgent      string                `json:"userAgent,omitempty"`
	MaxTouchPoints int                   `json:"maxTouchPoints,omitempty"`
	PixelRatio     float64               `json:"pixelRatio,omitempty"`
	Capabilities   platform.Capabilities `json:"capabilities"`

	// pointer, wheel, gesture
	DX      float64 `json:"dx,omitempty"`
	DY      float64 `json:"dy,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Buttons int     `json:"buttons,omitempty"`
	Ctrl    bool    `json:"ctrl,omitempty"`
	Phase   string  `json:"phase,omitempty"`
	Scale   float64 `json:"scale,omitempty"`

	// touch
	Touches []touch.Raw `json:"touches,omitempty"`

	// resize
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// open
	Name string `json:"name,omitempty"`
}

func decodeClientMessage(p []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(p, &msg); err != nil {
		return ClientMessage{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if msg.Type == "" {
		return ClientMessage{}, fmt.Errorf("%w: missing type", ErrInvalidMessage)
	}
	return msg, nil
}

// Client returns the platform description carried by a hello.
func (m ClientMessage) Client() platform.Client {
	return platform.Client{
		UserAgent:      m.UserAgent,
		MaxTouchPoints: m.MaxTouchPoints,
		PixelRatio:     m.PixelRatio,
		Capabilities:   m.Capabilities,
	}
}

// Event converts an input message to a gesture event.
func (m ClientMessage) Event() (gesture.Event, error) {
	switch m.Type {
	case TypePointer:
		return gesture.PointerMove{DX: m.DX, DY: m.DY, Buttons: m.Buttons}, nil
	case TypeWheel:
		return gesture.Wheel{DX: m.DX, DY: m.DY, X: m.X, Y: m.Y, Ctrl: m.Ctrl}, nil
	case TypeTouch:
		return gesture.TouchUpdate{Touches: m.Touches}, nil
	case TypeResize:
		return gesture.Resize{Width: m.Width, Height: m.Height}, nil
	case TypeGesture:
		switch m.Phase {
		case PhaseStart:
			return gesture.GestureStart{}, nil
		case PhaseChange:
			return gesture.GestureChange{Scale: m.Scale, X: m.X, Y: m.Y}, nil
		case PhaseEnd:
			return gesture.GestureEnd{}, nil
		}
		return nil, fmt.Errorf("%w: gesture phase %q", ErrInvalidMessage, m.Phase)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, m.Type)
}

type readyMessage struct {
	Type        string   `json:"type"`
	Session     string   `json:"session"`
	Variant     string   `json:"variant"`
	Family      string   `json:"family"`
	Plan        []string `json:"plan"`
	PixelRatio  float64  `json:"pixelRatio"`
	WheelFactor float64  `json:"wheelFactor"`
}

type fatalMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type stateMessage struct {
	Type     string             `json:"type"`
	State    renderer.ViewState `json:"state"`
	Commands []string           `json:"commands"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

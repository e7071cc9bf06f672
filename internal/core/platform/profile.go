// Package platform resolves, once per client, everything that depends on the
// host environment: browser family, wheel scaling, pixel density, module
// capabilities and the bootstrap plan.
package platform

import "regexp"

// Family is a coarse device/browser class used for reporting. Decisions
// use Profile.IOS and Profile.Chromium, which are independent.
type Family uint8

const (
	FamilyOther Family = iota
	FamilyChromium
	FamilyIOS
)

func (f Family) String() string {
	switch f {
	case FamilyChromium:
		return "chromium"
	case FamilyIOS:
		return "ios"
	default:
		return "other"
	}
}

var (
	iosPattern      = regexp.MustCompile(`iPad|iPhone|iPod`)
	macPattern      = regexp.MustCompile(`Mac`)
	chromiumPattern = regexp.MustCompile(`(?i)chrome|chromium|crios`)
)

// Capabilities are host primitives that module variants may depend on.
type Capabilities struct {
	SharedMemory bool `json:"sharedMemory" yaml:"shared_memory"`
	SIMD         bool `json:"simd" yaml:"simd"`
}

// Client is what a host reports about itself.
type Client struct {
	UserAgent      string       `json:"userAgent"`
	MaxTouchPoints int          `json:"maxTouchPoints"`
	PixelRatio     float64      `json:"pixelRatio"`
	Capabilities   Capabilities `json:"capabilities"`
}

// Settings are the tunables a profile is resolved against.
type Settings struct {
	// Variants is the full bootstrap plan, most capable first.
	Variants []string
	// ChromiumWheelFactor and DefaultWheelFactor convert raw wheel deltas
	// into zoom deltas; browsers disagree on wheel units.
	ChromiumWheelFactor float64
	DefaultWheelFactor  float64
}

func DefaultSettings() Settings {
	return Settings{
		Variants:            []string{"index-0", "index-1", "index-2"},
		ChromiumWheelFactor: 0.003,
		DefaultWheelFactor:  0.0045,
	}
}

// Profile is an immutable value resolved once at startup.
type Profile struct {
	Family Family
	// IOS selects the conservative bootstrap plan.
	IOS bool
	// Chromium selects the Chromium wheel factor, including Chrome on iOS.
	Chromium     bool
	PixelRatio   float64
	WheelFactor  float64
	Capabilities Capabilities

	plan []string
}

// Resolve classifies c against s.
func Resolve(c Client, s Settings) Profile {
	ios, chromium := isIOS(c), chromiumPattern.MatchString(c.UserAgent)

	family := FamilyOther
	switch {
	case ios:
		family = FamilyIOS
	case chromium:
		family = FamilyChromium
	}

	wheel := s.DefaultWheelFactor
	if chromium {
		wheel = s.ChromiumWheelFactor
	}

	ratio := c.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}

	plan := append([]string(nil), s.Variants...)
	if ios && len(plan) > 0 {
		// Only the most conservative variant is viable there.
		plan = plan[len(plan)-1:]
	}

	return Profile{
		Family:       family,
		IOS:          ios,
		Chromium:     chromium,
		PixelRatio:   ratio,
		WheelFactor:  wheel,
		Capabilities: c.Capabilities,
		plan:         plan,
	}
}

// Plan returns a copy of the bootstrap plan.
func (p Profile) Plan() []string {
	return append([]string(nil), p.plan...)
}

// isIOS also catches iPadOS, which reports a Mac user agent.
func isIOS(c Client) bool {
	ua := c.UserAgent
	return iosPattern.MatchString(ua) || (macPattern.MatchString(ua) && c.MaxTouchPoints > 2)
}

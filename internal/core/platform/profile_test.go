package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaChrome  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	uaFirefox = "Mozilla/5.0 (X11; Linux x86_64; rv:127.0) Gecko/20100101 Firefox/127.0"
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 Version/17.5 Mobile/15E148 Safari/604.1"
	uaMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 Version/17.5 Safari/605.1.15"
	uaIPadCri = "Mozilla/5.0 (iPad; CPU OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/126.0.6478.54 Mobile/15E148 Safari/604.1"
)

func TestResolveFamilies(t *testing.T) {
	s := DefaultSettings()

	tests := []struct {
		name   string
		client Client
		family Family
		wheel  float64
		plan   []string
	}{
		{"chrome", Client{UserAgent: uaChrome}, FamilyChromium, 0.003, []string{"index-0", "index-1", "index-2"}},
		{"firefox", Client{UserAgent: uaFirefox}, FamilyOther, 0.0045, []string{"index-0", "index-1", "index-2"}},
		{"iphone", Client{UserAgent: uaIPhone}, FamilyIOS, 0.0045, []string{"index-2"}},
		{"ipad as mac", Client{UserAgent: uaMac, MaxTouchPoints: 5}, FamilyIOS, 0.0045, []string{"index-2"}},
		{"desktop mac", Client{UserAgent: uaMac}, FamilyOther, 0.0045, []string{"index-0", "index-1", "index-2"}},
		{"chrome on ipad", Client{UserAgent: uaIPadCri, MaxTouchPoints: 5}, FamilyIOS, 0.003, []string{"index-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.client, s)
			assert.Equal(t, tt.family, p.Family)
			assert.Equal(t, tt.wheel, p.WheelFactor)
			assert.Equal(t, tt.plan, p.Plan())
		})
	}
}

func TestResolvePixelRatio(t *testing.T) {
	assert.Equal(t, 1.0, Resolve(Client{}, DefaultSettings()).PixelRatio)
	assert.Equal(t, 2.0, Resolve(Client{PixelRatio: 2}, DefaultSettings()).PixelRatio)
}

func TestPlanIsACopy(t *testing.T) {
	p := Resolve(Client{UserAgent: uaChrome}, DefaultSettings())
	plan := p.Plan()
	plan[0] = "mutated"
	assert.Equal(t, "index-0", p.Plan()[0])
}

func TestWheelFactorsConfigurable(t *testing.T) {
	s := DefaultSettings()
	s.ChromiumWheelFactor = 0.01
	assert.Equal(t, 0.01, Resolve(Client{UserAgent: uaChrome}, s).WheelFactor)
}

func TestPlatformAndBrowserAreIndependent(t *testing.T) {
	p := Resolve(Client{UserAgent: uaIPadCri}, DefaultSettings())
	assert.True(t, p.IOS)
	assert.True(t, p.Chromium)

	p = Resolve(Client{UserAgent: uaIPhone}, DefaultSettings())
	assert.True(t, p.IOS)
	assert.False(t, p.Chromium)

	p = Resolve(Client{UserAgent: uaChrome}, DefaultSettings())
	assert.False(t, p.IOS)
	assert.True(t, p.Chromium)
}

package quality

import (
	"io"

	"github.com/charmbracelet/log"
)

const (
	// WindowSize is the number of fps samples averaged before a decision
	WindowSize = 60
	// DowngradeFPS triggers a step down when the window average falls below it
	DowngradeFPS = 25.0
	// UpgradeFPS triggers a step up when the window average exceeds it
	UpgradeFPS = 55.0
)

// Controller is the closed fps to tier feedback loop
// Driven from the frame loop only
type Controller struct {
	tier     Tier
	renderer Renderer
	logger   *log.Logger

	window  [WindowSize]float64 // Ring, oldest at head once full
	head    int
	count   int
	sum     float64
	last    float64
	decided float64
}

// NewController starts at the tier chosen from caps and applies its settings
// renderer may be nil
func NewController(caps Capabilities, renderer Renderer, logger *log.Logger) *Controller {
	return NewControllerAt(InitialTier(caps), renderer, logger)
}

// NewControllerAt starts at an explicit tier
func NewControllerAt(tier Tier, renderer Renderer, logger *log.Logger) *Controller {
	if tier > High {
		tier = High
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Controller{tier: tier, renderer: renderer, logger: logger}
	c.apply()
	return c
}

// Tier returns the active tier
func (c *Controller) Tier() Tier {
	return c.tier
}

// Settings returns the active tier settings
func (c *Controller) Settings() Settings {
	return SettingsFor(c.tier)
}

// FPS returns the last sample
func (c *Controller) FPS() float64 {
	return c.last
}

// Samples returns the fill level of the current window
func (c *Controller) Samples() int {
	return c.count
}

// AverageFPS returns the mean of the current window, zero when empty
func (c *Controller) AverageFPS() float64 {
	if c.count == 0 {
		return 0
	}
	return c.sum / float64(c.count)
}

// DecisionFPS returns the window average of the most recent evaluation
func (c *Controller) DecisionFPS() float64 {
	return c.decided
}

// Sample records one frame rate reading; returns true when the tier changed
func (c *Controller) Sample(fps float64) bool {
	c.last = fps
	if c.count == WindowSize {
		c.sum -= c.window[c.head]
		c.window[c.head] = fps
		c.head = (c.head + 1) % WindowSize
	} else {
		c.window[c.count] = fps
		c.count++
	}
	c.sum += fps
	if c.count < WindowSize {
		return false
	}

	avg := c.sum / WindowSize
	c.decided = avg
	from := c.tier
	switch {
	case avg < DowngradeFPS && c.tier > Low:
		c.tier--
	case avg > UpgradeFPS && c.tier < High:
		c.tier++
	}

	if c.tier == from {
		return false
	}

	c.reset()
	c.logger.Info("quality tier changed", "from", from, "to", c.tier, "avg_fps", avg)
	c.apply()
	return true
}

func (c *Controller) reset() {
	c.head = 0
	c.count = 0
	c.sum = 0
}

func (c *Controller) apply() {
	if c.renderer != nil {
		c.renderer.ApplySettings(SettingsFor(c.tier))
	}
}

package indicator

import (
	"github.com/strikeworks/strike-core/internal/device"
)

// Color is a status LED color.
type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorAmber Color = "amber"
)

// Style is a complete LED instruction.
type Style struct {
	Color    Color
	Flashing bool
}

// LED is the boundary to the physical indicator. Implementations own the
// GPIO and any flash timer; the indicator only tells them what to show.
type LED interface {
	Set(style Style) error
}

// Logger defines the logging interface used by the Indicator.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Boot is the style shown before any state determination: solid red.
func Boot() Style {
	return Style{Color: ColorRed}
}

// Derive maps the current connectivity and session states onto an LED
// style. It is a pure function with no dependence on history:
//
//	setup mode                        flashing amber
//	connected, session subscribed     solid green
//	connected, session anything else  flashing green
//	everything else                   solid red
func Derive(conn device.ConnectivityState, sess device.SessionState) Style {
	switch conn {
	case device.ConnSetupMode:
		return Style{Color: ColorAmber, Flashing: true}
	case device.ConnConnected:
		if sess == device.SessionSubscribed {
			return Style{Color: ColorGreen}
		}
		return Style{Color: ColorGreen, Flashing: true}
	default:
		return Style{Color: ColorRed}
	}
}

// Indicator latches the derived style onto an LED driver, pushing only on
// change so the driver's flash timer is not restarted by redundant
// updates.
type Indicator struct {
	led     LED
	current Style
	logger  Logger
}

// New creates an Indicator and drives the LED to the boot style.
func New(led LED) *Indicator {
	i := &Indicator{led: led, current: Boot(), logger: noopLogger{}}
	if err := led.Set(i.current); err != nil {
		i.logger.Warn("status LED update failed", "error", err)
	}
	return i
}

// SetLogger sets the logger for the indicator.
func (i *Indicator) SetLogger(logger Logger) {
	i.logger = logger
}

// Style returns the currently latched style.
func (i *Indicator) Style() Style {
	return i.current
}

// Update recomputes the style for the given states and pushes it to the
// LED if it changed. A driver error leaves the latch on the new style;
// the next change retries.
func (i *Indicator) Update(conn device.ConnectivityState, sess device.SessionState) {
	style := Derive(conn, sess)
	if style == i.current {
		return
	}
	i.current = style
	if err := i.led.Set(style); err != nil {
		i.logger.Warn("status LED update failed", "error", err)
	}
}

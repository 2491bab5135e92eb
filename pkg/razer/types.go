// Package razer maps semantic laptop settings onto the embedded controller's
// command set. All wire values here come from reverse-engineering notes
// confirmed per device; see commands.go for the class/id table.
package razer

import "fmt"

// ValidationError reports a value outside its domain or an unmet mode
// precondition. It is always raised before the offending command is encoded.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "razer: " + e.Msg
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ResponseError reports a device reply whose shape does not match what the
// command expects.
type ResponseError struct {
	Msg string
}

func (e *ResponseError) Error() string {
	return "razer: unexpected response: " + e.Msg
}

// PerfMode is the laptop's overall performance profile.
type PerfMode byte

const (
	PerfBalanced PerfMode = 0
	PerfCustom   PerfMode = 4
	PerfSilent   PerfMode = 5
)

func (m PerfMode) String() string {
	switch m {
	case PerfBalanced:
		return "balanced"
	case PerfSilent:
		return "silent"
	case PerfCustom:
		return "custom"
	}
	return fmt.Sprintf("perf-mode(0x%02x)", byte(m))
}

// PerfModeFromByte decodes the wire value of a performance mode.
func PerfModeFromByte(b byte) (PerfMode, error) {
	switch m := PerfMode(b); m {
	case PerfBalanced, PerfSilent, PerfCustom:
		return m, nil
	}
	return 0, &ResponseError{Msg: fmt.Sprintf("invalid performance mode 0x%02x", b)}
}

// ParsePerfMode parses a user-supplied mode name.
func ParsePerfMode(s string) (PerfMode, error) {
	switch s {
	case "balanced":
		return PerfBalanced, nil
	case "silent":
		return PerfSilent, nil
	case "custom":
		return PerfCustom, nil
	}
	return 0, validationf("unknown performance mode %q (balanced, silent, custom)", s)
}

// FanMode selects how fan speed is governed. Auto and Manual are wire values
// of the performance mode command; Max maps to the dedicated max-fan-speed
// command.
type FanMode byte

const (
	FanAuto   FanMode = 0
	FanManual FanMode = 1
	FanMax    FanMode = 2
)

func (m FanMode) String() string {
	switch m {
	case FanAuto:
		return "auto"
	case FanManual:
		return "manual"
	case FanMax:
		return "max"
	}
	return fmt.Sprintf("fan-mode(0x%02x)", byte(m))
}

func fanModeFromByte(b byte) (FanMode, error) {
	switch m := FanMode(b); m {
	case FanAuto, FanManual:
		return m, nil
	}
	return 0, &ResponseError{Msg: fmt.Sprintf("invalid fan mode 0x%02x", b)}
}

// ParseFanMode parses a user-supplied fan mode name.
func ParseFanMode(s string) (FanMode, error) {
	switch s {
	case "auto":
		return FanAuto, nil
	case "manual":
		return FanManual, nil
	case "max":
		return FanMax, nil
	}
	return 0, validationf("unknown fan mode %q (auto, manual, max)", s)
}

// Fan RPM bounds for manual mode.
const (
	MinFanRPM = 2000
	MaxFanRPM = 5000
)

// CpuBoost is the CPU power level in custom performance mode.
type CpuBoost byte

const (
	CpuBoostLow    CpuBoost = 0
	CpuBoostMedium CpuBoost = 1
	CpuBoostHigh   CpuBoost = 2
	CpuBoostBoost  CpuBoost = 3
)

func (b CpuBoost) String() string {
	switch b {
	case CpuBoostLow:
		return "low"
	case CpuBoostMedium:
		return "medium"
	case CpuBoostHigh:
		return "high"
	case CpuBoostBoost:
		return "boost"
	}
	return fmt.Sprintf("cpu-boost(0x%02x)", byte(b))
}

// CpuBoostFromByte decodes the wire value of a CPU boost level.
func CpuBoostFromByte(v byte) (CpuBoost, error) {
	switch b := CpuBoost(v); b {
	case CpuBoostLow, CpuBoostMedium, CpuBoostHigh, CpuBoostBoost:
		return b, nil
	}
	return 0, &ResponseError{Msg: fmt.Sprintf("invalid cpu boost 0x%02x", v)}
}

// ParseCpuBoost parses a user-supplied CPU boost name.
func ParseCpuBoost(s string) (CpuBoost, error) {
	switch s {
	case "low":
		return CpuBoostLow, nil
	case "medium":
		return CpuBoostMedium, nil
	case "high":
		return CpuBoostHigh, nil
	case "boost":
		return CpuBoostBoost, nil
	}
	return 0, validationf("unknown cpu boost %q (low, medium, high, boost)", s)
}

// GpuBoost is the GPU power level in custom performance mode.
type GpuBoost byte

const (
	GpuBoostLow    GpuBoost = 0
	GpuBoostMedium GpuBoost = 1
	GpuBoostHigh   GpuBoost = 2
)

func (b GpuBoost) String() string {
	switch b {
	case GpuBoostLow:
		return "low"
	case GpuBoostMedium:
		return "medium"
	case GpuBoostHigh:
		return "high"
	}
	return fmt.Sprintf("gpu-boost(0x%02x)", byte(b))
}

// GpuBoostFromByte decodes the wire value of a GPU boost level.
func GpuBoostFromByte(v byte) (GpuBoost, error) {
	switch b := GpuBoost(v); b {
	case GpuBoostLow, GpuBoostMedium, GpuBoostHigh:
		return b, nil
	}
	return 0, &ResponseError{Msg: fmt.Sprintf("invalid gpu boost 0x%02x", v)}
}

// ParseGpuBoost parses a user-supplied GPU boost name.
func ParseGpuBoost(s string) (GpuBoost, error) {
	switch s {
	case "low":
		return GpuBoostLow, nil
	case "medium":
		return GpuBoostMedium, nil
	case "high":
		return GpuBoostHigh, nil
	}
	return 0, validationf("unknown gpu boost %q (low, medium, high)", s)
}

// LogoMode is the lid logo lighting mode. Off/on is a separate power command
// on the wire; the composite mode hides that split.
type LogoMode byte

const (
	LogoOff LogoMode = iota
	LogoStatic
	LogoBreathing
)

func (m LogoMode) String() string {
	switch m {
	case LogoOff:
		return "off"
	case LogoStatic:
		return "static"
	case LogoBreathing:
		return "breathing"
	}
	return fmt.Sprintf("logo-mode(0x%02x)", byte(m))
}

// ParseLogoMode parses a user-supplied logo mode name.
func ParseLogoMode(s string) (LogoMode, error) {
	switch s {
	case "off":
		return LogoOff, nil
	case "static":
		return LogoStatic, nil
	case "breathing":
		return LogoBreathing, nil
	}
	return 0, validationf("unknown logo mode %q (off, static, breathing)", s)
}

// BatteryCare limits charging to 80% to extend battery life.
type BatteryCare byte

const (
	BatteryCareDisable BatteryCare = 0x50
	BatteryCareEnable  BatteryCare = 0xd0
)

func (m BatteryCare) String() string {
	switch m {
	case BatteryCareEnable:
		return "enable"
	case BatteryCareDisable:
		return "disable"
	}
	return fmt.Sprintf("battery-care(0x%02x)", byte(m))
}

// BatteryCareFromByte decodes the wire value of the battery care setting.
func BatteryCareFromByte(v byte) (BatteryCare, error) {
	switch m := BatteryCare(v); m {
	case BatteryCareEnable, BatteryCareDisable:
		return m, nil
	}
	return 0, &ResponseError{Msg: fmt.Sprintf("invalid battery care value 0x%02x", v)}
}

// ParseBatteryCare parses a user-supplied battery care state.
func ParseBatteryCare(s string) (BatteryCare, error) {
	switch s {
	case "enable", "on":
		return BatteryCareEnable, nil
	case "disable", "off":
		return BatteryCareDisable, nil
	}
	return 0, validationf("unknown battery care state %q (enable, disable)", s)
}

// LightsAlwaysOn keeps lighting active while the lid is closed or the machine
// sleeps.
type LightsAlwaysOn byte

const (
	LightsAlwaysOnDisable LightsAlwaysOn = 0x00
	LightsAlwaysOnEnable  LightsAlwaysOn = 0x03
)

func (m LightsAlwaysOn) String() string {
	switch m {
	case LightsAlwaysOnEnable:
		return "enable"
	case LightsAlwaysOnDisable:
		return "disable"
	}
	return fmt.Sprintf("lights-always-on(0x%02x)", byte(m))
}

// LightsAlwaysOnFromByte decodes the wire value of the lights-always-on
// setting.
func LightsAlwaysOnFromByte(v byte) (LightsAlwaysOn, error) {
	switch m := LightsAlwaysOn(v); m {
	case LightsAlwaysOnEnable, LightsAlwaysOnDisable:
		return m, nil
	}
	return 0, &ResponseError{Msg: fmt.Sprintf("invalid lights-always-on value 0x%02x", v)}
}

// ParseLightsAlwaysOn parses a user-supplied lights-always-on state.
func ParseLightsAlwaysOn(s string) (LightsAlwaysOn, error) {
	switch s {
	case "enable", "on":
		return LightsAlwaysOnEnable, nil
	case "disable", "off":
		return LightsAlwaysOnDisable, nil
	}
	return 0, validationf("unknown lights-always-on state %q (enable, disable)", s)
}

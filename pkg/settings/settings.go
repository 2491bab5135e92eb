// Package settings is the typed façade the CLI and display layers consume:
// named setting kinds, a value union, and whole-device state snapshots. No
// raw frame bytes cross this boundary.
package settings

import (
	"fmt"
	"strconv"

	"github.com/openblade/bladectl/pkg/descriptor"
	"github.com/openblade/bladectl/pkg/razer"
)

// Kind names one user-visible setting.
type Kind int

const (
	PerfMode Kind = iota
	CpuBoost
	GpuBoost
	FanMode
	FanRPM
	KeyboardBrightness
	LogoMode
	BatteryCare
	LightsAlwaysOn
)

var kindNames = map[Kind]string{
	PerfMode:           "perf",
	CpuBoost:           "cpu-boost",
	GpuBoost:           "gpu-boost",
	FanMode:            "fan",
	FanRPM:             "fan-rpm",
	KeyboardBrightness: "keyboard",
	LogoMode:           "logo",
	BatteryCare:        "battery-care",
	LightsAlwaysOn:     "lights-always-on",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("setting(%d)", int(k))
}

// ParseKind maps a user-supplied setting name to its kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("settings: unknown setting %q", s)
}

// feature returns the capability each kind dispatches under.
func (k Kind) feature() descriptor.Feature {
	switch k {
	case PerfMode, CpuBoost, GpuBoost:
		return descriptor.Performance
	case FanMode, FanRPM:
		return descriptor.Fan
	case KeyboardBrightness:
		return descriptor.KeyboardBacklight
	case LogoMode:
		return descriptor.LidLogo
	case BatteryCare:
		return descriptor.BatteryCare
	case LightsAlwaysOn:
		return descriptor.LightsAlwaysOn
	}
	return 0
}

// Value is one setting's typed value; only the field matching Kind is
// meaningful.
type Value struct {
	Kind Kind

	Perf       razer.PerfMode
	Fan        razer.FanMode
	Cpu        razer.CpuBoost
	Gpu        razer.GpuBoost
	RPM        uint16
	Brightness uint8
	Logo       razer.LogoMode
	Battery    razer.BatteryCare
	Lights     razer.LightsAlwaysOn
}

func (v Value) String() string {
	switch v.Kind {
	case PerfMode:
		return v.Perf.String()
	case CpuBoost:
		return v.Cpu.String()
	case GpuBoost:
		return v.Gpu.String()
	case FanMode:
		return v.Fan.String()
	case FanRPM:
		return strconv.Itoa(int(v.RPM))
	case KeyboardBrightness:
		return strconv.Itoa(int(v.Brightness))
	case LogoMode:
		return v.Logo.String()
	case BatteryCare:
		return v.Battery.String()
	case LightsAlwaysOn:
		return v.Lights.String()
	}
	return "?"
}

// ParseValue parses a user-supplied value string for the given kind.
func ParseValue(k Kind, s string) (Value, error) {
	v := Value{Kind: k}
	var err error
	switch k {
	case PerfMode:
		v.Perf, err = razer.ParsePerfMode(s)
	case CpuBoost:
		v.Cpu, err = razer.ParseCpuBoost(s)
	case GpuBoost:
		v.Gpu, err = razer.ParseGpuBoost(s)
	case FanMode:
		v.Fan, err = razer.ParseFanMode(s)
	case FanRPM:
		var n int
		n, err = strconv.Atoi(s)
		if err != nil {
			return v, fmt.Errorf("settings: fan rpm %q is not a number", s)
		}
		if n < 0 || n > 0xffff {
			return v, fmt.Errorf("settings: fan rpm %d out of range", n)
		}
		v.RPM = uint16(n)
	case KeyboardBrightness:
		var n int
		n, err = strconv.Atoi(s)
		if err != nil {
			return v, fmt.Errorf("settings: brightness %q is not a number", s)
		}
		if n < 0 || n > 255 {
			return v, fmt.Errorf("settings: brightness %d outside [0, 255]", n)
		}
		v.Brightness = uint8(n)
	case LogoMode:
		v.Logo, err = razer.ParseLogoMode(s)
	case BatteryCare:
		v.Battery, err = razer.ParseBatteryCare(s)
	case LightsAlwaysOn:
		v.Lights, err = razer.ParseLightsAlwaysOn(s)
	default:
		err = fmt.Errorf("settings: unknown kind %v", k)
	}
	return v, err
}

// Get reads one setting from the device.
func Get(x razer.Executor, k Kind) (Value, error) {
	v := Value{Kind: k}
	var err error
	switch k {
	case PerfMode:
		v.Perf, _, err = razer.GetPerfMode(x)
	case CpuBoost:
		v.Cpu, err = razer.GetCpuBoost(x)
	case GpuBoost:
		v.Gpu, err = razer.GetGpuBoost(x)
	case FanMode:
		v.Fan, err = razer.GetFanMode(x)
	case FanRPM:
		v.RPM, err = razer.GetFanRPM(x)
	case KeyboardBrightness:
		v.Brightness, err = razer.GetKeyboardBrightness(x)
	case LogoMode:
		v.Logo, err = razer.GetLogoMode(x)
	case BatteryCare:
		v.Battery, err = razer.GetBatteryCare(x)
	case LightsAlwaysOn:
		v.Lights, err = razer.GetLightsAlwaysOn(x)
	default:
		err = fmt.Errorf("settings: unknown kind %v", k)
	}
	return v, err
}

// Apply writes one setting to the device. Domain and precondition validation
// happens in the protocol layer before anything reaches the wire.
func Apply(x razer.Executor, v Value) error {
	switch v.Kind {
	case PerfMode:
		return razer.SetPerfMode(x, v.Perf)
	case CpuBoost:
		return razer.SetCpuBoost(x, v.Cpu)
	case GpuBoost:
		return razer.SetGpuBoost(x, v.Gpu)
	case FanMode:
		return razer.SetFanMode(x, v.Fan)
	case FanRPM:
		return razer.SetFanRPM(x, v.RPM)
	case KeyboardBrightness:
		return razer.SetKeyboardBrightness(x, v.Brightness)
	case LogoMode:
		return razer.SetLogoMode(x, v.Logo)
	case BatteryCare:
		return razer.SetBatteryCare(x, v.Battery)
	case LightsAlwaysOn:
		return razer.SetLightsAlwaysOn(x, v.Lights)
	}
	return fmt.Errorf("settings: unknown kind %v", v.Kind)
}

// State is a snapshot of every readable setting. Nil fields were unsupported
// or unreadable on the connected model.
type State struct {
	PerfMode           *razer.PerfMode
	FanMode            *razer.FanMode
	FanRPM             *uint16
	CpuBoost           *razer.CpuBoost
	GpuBoost           *razer.GpuBoost
	KeyboardBrightness *uint8
	LogoMode           *razer.LogoMode
	BatteryCare        *razer.BatteryCare
	LightsAlwaysOn     *razer.LightsAlwaysOn
}

// ReadState snapshots everything the device's feature set advertises.
// Individual read failures leave the field nil rather than failing the whole
// snapshot.
func ReadState(x razer.Executor) *State {
	st := &State{}

	if x.Require(descriptor.Performance) == nil {
		if mode, fan, err := razer.GetPerfMode(x); err == nil {
			st.PerfMode = &mode
			st.FanMode = &fan

			if mode == razer.PerfCustom {
				if cpu, err := razer.GetCpuBoost(x); err == nil {
					st.CpuBoost = &cpu
				}
				if gpu, err := razer.GetGpuBoost(x); err == nil {
					st.GpuBoost = &gpu
				}
			}
			if fan == razer.FanManual {
				if rpm, err := razer.GetFanRPM(x); err == nil {
					st.FanRPM = &rpm
				}
			}
		}
	}

	if x.Require(descriptor.Fan) == nil {
		if fan, err := razer.GetFanMode(x); err == nil {
			st.FanMode = &fan
		}
	}

	if x.Require(descriptor.KeyboardBacklight) == nil {
		if b, err := razer.GetKeyboardBrightness(x); err == nil {
			st.KeyboardBrightness = &b
		}
	}

	if x.Require(descriptor.LidLogo) == nil {
		if logo, err := razer.GetLogoMode(x); err == nil {
			st.LogoMode = &logo
		}
	}

	if x.Require(descriptor.BatteryCare) == nil {
		if care, err := razer.GetBatteryCare(x); err == nil {
			st.BatteryCare = &care
		}
	}

	if x.Require(descriptor.LightsAlwaysOn) == nil {
		if lights, err := razer.GetLightsAlwaysOn(x); err == nil {
			st.LightsAlwaysOn = &lights
		}
	}

	return st
}

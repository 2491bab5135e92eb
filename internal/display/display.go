// Package display renders device info and settings for humans and for
// machine consumption as JSON.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/openblade/bladectl/pkg/device"
	"github.com/openblade/bladectl/pkg/settings"
)

// Info prints device identity and its advertised features.
func Info(w io.Writer, s *device.Session) {
	fmt.Fprintln(w, "Device information")
	if desc := s.Descriptor(); desc != nil {
		fmt.Fprintf(w, "  Name:     %s\n", desc.Name)
		fmt.Fprintf(w, "  Model:    %s\n", desc.ModelPrefix)
	} else {
		fmt.Fprintln(w, "  Name:     unknown (unrestricted mode)")
	}
	fmt.Fprintf(w, "  PID:      0x%04x\n", s.PID())
	fmt.Fprintf(w, "  Features: %s\n", strings.Join(s.Features().Names(), ", "))
}

type jsonInfo struct {
	Name     string   `json:"name"`
	Model    string   `json:"model"`
	PID      string   `json:"pid"`
	Features []string `json:"features"`
}

// InfoJSON prints device identity as JSON.
func InfoJSON(w io.Writer, s *device.Session) error {
	info := jsonInfo{
		PID:      fmt.Sprintf("0x%04x", s.PID()),
		Features: s.Features().Names(),
	}
	if desc := s.Descriptor(); desc != nil {
		info.Name = desc.Name
		info.Model = desc.ModelPrefix
	}
	return writeJSON(w, info)
}

// Status prints a snapshot of every readable setting.
func Status(w io.Writer, s *device.Session, st *settings.State) {
	if desc := s.Descriptor(); desc != nil {
		fmt.Fprintf(w, "%s (%s)\n", desc.Name, desc.ModelPrefix)
	} else {
		fmt.Fprintf(w, "Unknown device 0x%04x\n", s.PID())
	}
	fmt.Fprintln(w, strings.Repeat("-", 40))

	if st.PerfMode != nil {
		fmt.Fprintf(w, "Performance:  %s", st.PerfMode)
		if st.FanMode != nil {
			fmt.Fprintf(w, " (fan: %s", st.FanMode)
			if st.FanRPM != nil {
				fmt.Fprintf(w, " @ %d RPM", *st.FanRPM)
			}
			fmt.Fprint(w, ")")
		}
		fmt.Fprintln(w)
	}
	if st.CpuBoost != nil {
		fmt.Fprintf(w, "  CPU boost:  %s\n", st.CpuBoost)
	}
	if st.GpuBoost != nil {
		fmt.Fprintf(w, "  GPU boost:  %s\n", st.GpuBoost)
	}
	if st.KeyboardBrightness != nil {
		fmt.Fprintf(w, "Keyboard:     %d\n", *st.KeyboardBrightness)
	}
	if st.LogoMode != nil {
		fmt.Fprintf(w, "Logo:         %s\n", st.LogoMode)
	}
	if st.BatteryCare != nil {
		fmt.Fprintf(w, "Battery care: %s\n", st.BatteryCare)
	}
	if st.LightsAlwaysOn != nil {
		fmt.Fprintf(w, "Lights on:    %s\n", st.LightsAlwaysOn)
	}
}

type jsonState struct {
	PerfMode           *string `json:"perf_mode,omitempty"`
	FanMode            *string `json:"fan_mode,omitempty"`
	FanRPM             *uint16 `json:"fan_rpm,omitempty"`
	CpuBoost           *string `json:"cpu_boost,omitempty"`
	GpuBoost           *string `json:"gpu_boost,omitempty"`
	KeyboardBrightness *uint8  `json:"keyboard_brightness,omitempty"`
	LogoMode           *string `json:"logo_mode,omitempty"`
	BatteryCare        *string `json:"battery_care,omitempty"`
	LightsAlwaysOn     *string `json:"lights_always_on,omitempty"`
}

// StatusJSON prints the settings snapshot as JSON.
func StatusJSON(w io.Writer, st *settings.State) error {
	out := jsonState{
		FanRPM:             st.FanRPM,
		KeyboardBrightness: st.KeyboardBrightness,
	}
	if st.PerfMode != nil {
		out.PerfMode = strPtr(st.PerfMode.String())
	}
	if st.FanMode != nil {
		out.FanMode = strPtr(st.FanMode.String())
	}
	if st.CpuBoost != nil {
		out.CpuBoost = strPtr(st.CpuBoost.String())
	}
	if st.GpuBoost != nil {
		out.GpuBoost = strPtr(st.GpuBoost.String())
	}
	if st.LogoMode != nil {
		out.LogoMode = strPtr(st.LogoMode.String())
	}
	if st.BatteryCare != nil {
		out.BatteryCare = strPtr(st.BatteryCare.String())
	}
	if st.LightsAlwaysOn != nil {
		out.LightsAlwaysOn = strPtr(st.LightsAlwaysOn.String())
	}
	return writeJSON(w, out)
}

// Setting prints one setting value.
func Setting(w io.Writer, v settings.Value) {
	fmt.Fprintf(w, "%s: %s\n", v.Kind, v)
}

// SettingJSON prints one setting value as JSON.
func SettingJSON(w io.Writer, v settings.Value) error {
	return writeJSON(w, map[string]string{
		"setting": v.Kind.String(),
		"value":   v.String(),
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func strPtr(s string) *string { return &s }

package razer

import (
	"errors"
	"testing"

	"github.com/openblade/bladectl/pkg/descriptor"
)

type call struct {
	cmd  Command
	args []byte
}

// fakeExec scripts device behaviour for the control functions. The default
// handler echoes arguments back, which is how the controller acknowledges
// writes.
type fakeExec struct {
	features descriptor.FeatureSet
	handler  func(cmd Command, args []byte) ([]byte, error)
	calls    []call
}

func (f *fakeExec) Execute(cmd Command, args []byte) ([]byte, error) {
	f.calls = append(f.calls, call{cmd: cmd, args: append([]byte(nil), args...)})
	if f.handler != nil {
		return f.handler(cmd, args)
	}
	return args, nil
}

func (f *fakeExec) Require(feat descriptor.Feature) error {
	if !f.features.Has(feat) {
		return &descriptor.UnsupportedFeatureError{Feature: feat, Model: "fake"}
	}
	return nil
}

// perfModeHandler answers GetPerfMode queries with the given mode/fan pair
// and echoes everything else.
func perfModeHandler(mode PerfMode, fan FanMode) func(Command, []byte) ([]byte, error) {
	return func(cmd Command, args []byte) ([]byte, error) {
		if cmd.Code() == 0x0d82 {
			return []byte{0x00, args[1], byte(mode), byte(fan)}, nil
		}
		return args, nil
	}
}

func writesTo(calls []call, code uint16) int {
	n := 0
	for _, c := range calls {
		if c.cmd.Code() == code {
			n++
		}
	}
	return n
}

func TestSetFanRPMOutOfRange(t *testing.T) {
	for _, rpm := range []uint16{0, 100, 1999, 5001, 65535} {
		x := &fakeExec{features: descriptor.AllFeatures}
		err := SetFanRPM(x, rpm)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("rpm %d: expected ValidationError, got %v", rpm, err)
		}
		if len(x.calls) != 0 {
			t.Errorf("rpm %d: %d transport calls before validation", rpm, len(x.calls))
		}
	}
}

func TestSetFanRPMRequiresManual(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler:  perfModeHandler(PerfBalanced, FanAuto),
	}
	err := SetFanRPM(x, 3000)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if n := writesTo(x.calls, 0x0d01); n != 0 {
		t.Errorf("%d rpm writes despite failed precondition", n)
	}
}

func TestSetFanRPMManual(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler:  perfModeHandler(PerfBalanced, FanManual),
	}
	if err := SetFanRPM(x, 4200); err != nil {
		t.Fatalf("SetFanRPM failed: %v", err)
	}
	if n := writesTo(x.calls, 0x0d01); n != 2 {
		t.Fatalf("expected one rpm write per zone, got %d", n)
	}
	for _, c := range x.calls {
		if c.cmd.Code() == 0x0d01 && c.args[2] != 42 {
			t.Errorf("rpm byte %d, want 42", c.args[2])
		}
	}
}

func TestSetCpuBoostRequiresCustom(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler:  perfModeHandler(PerfBalanced, FanAuto),
	}
	err := SetCpuBoost(x, CpuBoostHigh)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if n := writesTo(x.calls, 0x0d07); n != 0 {
		t.Errorf("%d boost writes despite failed precondition", n)
	}
}

func TestSetBoostInCustomMode(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler:  perfModeHandler(PerfCustom, FanAuto),
	}
	if err := SetCpuBoost(x, CpuBoostBoost); err != nil {
		t.Fatalf("SetCpuBoost failed: %v", err)
	}
	if err := SetGpuBoost(x, GpuBoostHigh); err != nil {
		t.Fatalf("SetGpuBoost failed: %v", err)
	}
	if n := writesTo(x.calls, 0x0d07); n != 2 {
		t.Errorf("expected 2 boost writes, got %d", n)
	}
}

func TestGetBoost(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler: func(cmd Command, args []byte) ([]byte, error) {
			if cmd.Code() == 0x0d87 {
				return []byte{0x00, args[1], 0x02}, nil
			}
			return args, nil
		},
	}
	cpu, err := GetCpuBoost(x)
	if err != nil {
		t.Fatalf("GetCpuBoost failed: %v", err)
	}
	if cpu != CpuBoostHigh {
		t.Errorf("cpu boost %v, want high", cpu)
	}
}

func TestUnsupportedFeatureNoIO(t *testing.T) {
	// Feature set of the RZ09-0482X class of devices: no lid logo.
	x := &fakeExec{
		features: descriptor.FeatureSet(descriptor.Performance | descriptor.Fan |
			descriptor.KeyboardBacklight | descriptor.BatteryCare | descriptor.LightsAlwaysOn),
	}
	err := SetLogoMode(x, LogoStatic)
	var unsupErr *descriptor.UnsupportedFeatureError
	if !errors.As(err, &unsupErr) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
	if len(x.calls) != 0 {
		t.Errorf("%d transport calls for unsupported feature", len(x.calls))
	}

	if _, err := GetLogoMode(x); !errors.As(err, &unsupErr) {
		t.Fatalf("expected UnsupportedFeatureError on get, got %v", err)
	}
	if len(x.calls) != 0 {
		t.Errorf("%d transport calls for unsupported get", len(x.calls))
	}
}

func TestGetPerfModeZoneMismatch(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler: func(cmd Command, args []byte) ([]byte, error) {
			if cmd.Code() == 0x0d82 {
				if args[1] == 0x01 {
					return []byte{0x00, args[1], byte(PerfBalanced), byte(FanAuto)}, nil
				}
				return []byte{0x00, args[1], byte(PerfCustom), byte(FanAuto)}, nil
			}
			return args, nil
		},
	}
	_, _, err := GetPerfMode(x)
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
}

func TestSetPerfModeTouchesBothZones(t *testing.T) {
	x := &fakeExec{features: descriptor.AllFeatures}
	if err := SetPerfMode(x, PerfSilent); err != nil {
		t.Fatalf("SetPerfMode failed: %v", err)
	}
	if n := writesTo(x.calls, 0x0d02); n != 2 {
		t.Fatalf("expected 2 zone writes, got %d", n)
	}
	for _, c := range x.calls {
		if c.args[2] != byte(PerfSilent) || c.args[3] != byte(FanAuto) {
			t.Errorf("args % x, want mode silent with auto fan", c.args)
		}
	}
}

func TestSetFanModeMax(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler:  perfModeHandler(PerfCustom, FanAuto),
	}
	if err := SetFanMode(x, FanMax); err != nil {
		t.Fatalf("SetFanMode failed: %v", err)
	}
	if n := writesTo(x.calls, 0x070f); n != 1 {
		t.Errorf("expected one max-fan write, got %d", n)
	}

	// Max requires custom mode.
	x = &fakeExec{
		features: descriptor.AllFeatures,
		handler:  perfModeHandler(PerfBalanced, FanAuto),
	}
	err := SetFanMode(x, FanMax)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestGetFanModeFoldsMaxFlag(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler: func(cmd Command, args []byte) ([]byte, error) {
			switch cmd.Code() {
			case 0x078f:
				return []byte{0x02}, nil
			case 0x0d82:
				return []byte{0x00, args[1], byte(PerfCustom), byte(FanAuto)}, nil
			}
			return args, nil
		},
	}
	mode, err := GetFanMode(x)
	if err != nil {
		t.Fatalf("GetFanMode failed: %v", err)
	}
	if mode != FanMax {
		t.Errorf("fan mode %v, want max", mode)
	}
}

func TestLogoModeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		power byte
		logo  byte
		want  LogoMode
	}{
		{"off", 0x00, 0x00, LogoOff},
		{"static", 0x01, 0x00, LogoStatic},
		{"breathing", 0x01, 0x02, LogoBreathing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := &fakeExec{
				features: descriptor.AllFeatures,
				handler: func(cmd Command, args []byte) ([]byte, error) {
					switch cmd.Code() {
					case 0x0380:
						return []byte{args[0], args[1], tt.power}, nil
					case 0x0382:
						return []byte{args[0], args[1], tt.logo}, nil
					}
					return args, nil
				},
			}
			got, err := GetLogoMode(x)
			if err != nil {
				t.Fatalf("GetLogoMode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("logo mode %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetLogoModeOffSkipsEffect(t *testing.T) {
	x := &fakeExec{features: descriptor.AllFeatures}
	if err := SetLogoMode(x, LogoOff); err != nil {
		t.Fatalf("SetLogoMode failed: %v", err)
	}
	if n := writesTo(x.calls, 0x0302); n != 0 {
		t.Errorf("off should not touch the effect command, got %d writes", n)
	}
	if n := writesTo(x.calls, 0x0300); n != 1 {
		t.Errorf("expected one power write, got %d", n)
	}
}

func TestBatteryCareDecode(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler: func(cmd Command, args []byte) ([]byte, error) {
			if cmd.Code() == 0x0792 {
				return []byte{0xd0}, nil
			}
			return args, nil
		},
	}
	mode, err := GetBatteryCare(x)
	if err != nil {
		t.Fatalf("GetBatteryCare failed: %v", err)
	}
	if mode != BatteryCareEnable {
		t.Errorf("battery care %v, want enable", mode)
	}
}

func TestGetLightsAlwaysOnBadValue(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler: func(cmd Command, args []byte) ([]byte, error) {
			if cmd.Code() == 0x0084 {
				return []byte{0x01}, nil
			}
			return args, nil
		},
	}
	_, err := GetLightsAlwaysOn(x)
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
}

func TestSetEchoMismatch(t *testing.T) {
	x := &fakeExec{
		features: descriptor.AllFeatures,
		handler: func(cmd Command, args []byte) ([]byte, error) {
			return []byte{0xff, 0xff}, nil
		},
	}
	err := SetBatteryCare(x, BatteryCareEnable)
	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
}

func TestParseHelpers(t *testing.T) {
	if m, err := ParsePerfMode("silent"); err != nil || m != PerfSilent {
		t.Errorf("ParsePerfMode(silent) = %v, %v", m, err)
	}
	if _, err := ParsePerfMode("turbo"); err == nil {
		t.Error("ParsePerfMode(turbo) should fail")
	}
	if m, err := ParseFanMode("max"); err != nil || m != FanMax {
		t.Errorf("ParseFanMode(max) = %v, %v", m, err)
	}
	if m, err := ParseBatteryCare("on"); err != nil || m != BatteryCareEnable {
		t.Errorf("ParseBatteryCare(on) = %v, %v", m, err)
	}
	if m, err := ParseLightsAlwaysOn("off"); err != nil || m != LightsAlwaysOnDisable {
		t.Errorf("ParseLightsAlwaysOn(off) = %v, %v", m, err)
	}
}

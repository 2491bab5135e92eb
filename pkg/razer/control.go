package razer

import (
	"bytes"
	"fmt"

	"github.com/openblade/bladectl/pkg/descriptor"
)

// Executor runs one command round trip against an open device. It is
// implemented by device.Session; tests substitute fakes.
type Executor interface {
	// Execute sends the command with the given argument payload and returns
	// the response's argument bytes.
	Execute(cmd Command, args []byte) ([]byte, error)
	// Require fails with UnsupportedFeatureError unless the resolved device
	// advertises the feature. Unrestricted sessions pass everything.
	Require(f descriptor.Feature) error
}

// exec runs the command and checks the response against the minimum argument
// length the decoder needs.
func exec(x Executor, k Kind, args []byte, wantLen int) ([]byte, error) {
	resp, err := x.Execute(k.Command(), args)
	if err != nil {
		return nil, err
	}
	if len(resp) < wantLen {
		return nil, &ResponseError{Msg: fmt.Sprintf("command %s returned %d argument bytes, want at least %d",
			k.Command(), len(resp), wantLen)}
	}
	return resp, nil
}

// execEcho runs a set command and verifies the device echoed the arguments
// back, which is how the controller acknowledges a write.
func execEcho(x Executor, k Kind, args []byte) error {
	resp, err := x.Execute(k.Command(), args)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(resp, args) {
		return &ResponseError{Msg: fmt.Sprintf("command %s did not echo its arguments", k.Command())}
	}
	return nil
}

func setPerfModeZones(x Executor, mode PerfMode, fan FanMode) error {
	for _, zone := range []byte{zone1, zone2} {
		if err := execEcho(x, KindSetPerfMode, []byte{0x01, zone, byte(mode), byte(fan)}); err != nil {
			return err
		}
	}
	return nil
}

// SetPerfMode sets the performance profile. Fan control reverts to automatic;
// use SetFanMode afterwards for manual fan control.
func SetPerfMode(x Executor, mode PerfMode) error {
	if err := x.Require(descriptor.Performance); err != nil {
		return err
	}
	if _, err := PerfModeFromByte(byte(mode)); err != nil {
		return validationf("invalid performance mode 0x%02x", byte(mode))
	}
	return setPerfModeZones(x, mode, FanAuto)
}

// GetPerfMode reads the performance profile and the raw fan governing mode.
// Both thermal zones are queried and must agree.
func GetPerfMode(x Executor) (PerfMode, FanMode, error) {
	if err := x.Require(descriptor.Performance); err != nil {
		return 0, 0, err
	}

	var modes [2]PerfMode
	var fans [2]FanMode
	for i, zone := range []byte{zone1, zone2} {
		resp, err := exec(x, KindGetPerfMode, []byte{0x00, zone, 0x00, 0x00}, 4)
		if err != nil {
			return 0, 0, err
		}
		if modes[i], err = PerfModeFromByte(resp[2]); err != nil {
			return 0, 0, err
		}
		if fans[i], err = fanModeFromByte(resp[3]); err != nil {
			return 0, 0, err
		}
	}
	if modes[0] != modes[1] || fans[0] != fans[1] {
		return 0, 0, &ResponseError{Msg: fmt.Sprintf("thermal zones disagree: %v/%v vs %v/%v",
			modes[0], fans[0], modes[1], fans[1])}
	}
	return modes[0], fans[0], nil
}

func setBoost(x Executor, cluster byte, boost byte) error {
	if err := x.Require(descriptor.Performance); err != nil {
		return err
	}
	mode, _, err := GetPerfMode(x)
	if err != nil {
		return err
	}
	if mode != PerfCustom {
		return validationf("boost levels require the custom performance mode, current mode is %v", mode)
	}
	return execEcho(x, KindSetBoost, []byte{0x00, cluster, boost})
}

func getBoost(x Executor, cluster byte) (byte, error) {
	if err := x.Require(descriptor.Performance); err != nil {
		return 0, err
	}
	resp, err := exec(x, KindGetBoost, []byte{0x00, cluster, 0x00}, 3)
	if err != nil {
		return 0, err
	}
	if resp[1] != cluster {
		return 0, &ResponseError{Msg: fmt.Sprintf("boost reply for cluster 0x%02x, asked 0x%02x", resp[1], cluster)}
	}
	return resp[2], nil
}

// SetCpuBoost sets the CPU boost level. Requires the custom performance mode.
func SetCpuBoost(x Executor, boost CpuBoost) error {
	if _, err := CpuBoostFromByte(byte(boost)); err != nil {
		return validationf("invalid cpu boost 0x%02x", byte(boost))
	}
	return setBoost(x, clusterCPU, byte(boost))
}

// SetGpuBoost sets the GPU boost level. Requires the custom performance mode.
func SetGpuBoost(x Executor, boost GpuBoost) error {
	if _, err := GpuBoostFromByte(byte(boost)); err != nil {
		return validationf("invalid gpu boost 0x%02x", byte(boost))
	}
	return setBoost(x, clusterGPU, byte(boost))
}

// GetCpuBoost reads the CPU boost level.
func GetCpuBoost(x Executor) (CpuBoost, error) {
	v, err := getBoost(x, clusterCPU)
	if err != nil {
		return 0, err
	}
	return CpuBoostFromByte(v)
}

// GetGpuBoost reads the GPU boost level.
func GetGpuBoost(x Executor) (GpuBoost, error) {
	v, err := getBoost(x, clusterGPU)
	if err != nil {
		return 0, err
	}
	return GpuBoostFromByte(v)
}

// SetFanMode selects the fan governing mode. Auto and Manual require the
// balanced performance mode; Max requires custom. Leaving Max always clears
// the max-fan-speed flag so the two representations cannot drift apart.
func SetFanMode(x Executor, mode FanMode) error {
	if err := x.Require(descriptor.Fan); err != nil {
		return err
	}

	perf, _, err := GetPerfMode(x)
	if err != nil {
		return err
	}

	switch mode {
	case FanMax:
		if perf != PerfCustom {
			return validationf("max fan speed requires the custom performance mode, current mode is %v", perf)
		}
		return execEcho(x, KindSetMaxFan, []byte{maxFanEnable})
	case FanAuto, FanManual:
		if perf != PerfBalanced {
			return validationf("%v fan mode requires the balanced performance mode, current mode is %v", mode, perf)
		}
		if err := execEcho(x, KindSetMaxFan, []byte{maxFanDisable}); err != nil {
			return err
		}
		return setPerfModeZones(x, perf, mode)
	}
	return validationf("invalid fan mode 0x%02x", byte(mode))
}

// GetFanMode reads the effective fan governing mode, folding the
// max-fan-speed flag into the result.
func GetFanMode(x Executor) (FanMode, error) {
	if err := x.Require(descriptor.Fan); err != nil {
		return 0, err
	}
	resp, err := exec(x, KindGetMaxFan, []byte{0x00}, 1)
	if err != nil {
		return 0, err
	}
	if resp[0] == maxFanEnable {
		return FanMax, nil
	}
	_, fan, err := GetPerfMode(x)
	return fan, err
}

// SetFanRPM sets both fan zones to a fixed speed. The value must be within
// [MinFanRPM, MaxFanRPM] and the fan mode must already be Manual; neither is
// switched implicitly.
func SetFanRPM(x Executor, rpm uint16) error {
	if err := x.Require(descriptor.Fan); err != nil {
		return err
	}
	if rpm < MinFanRPM || rpm > MaxFanRPM {
		return validationf("fan rpm %d outside [%d, %d]", rpm, MinFanRPM, MaxFanRPM)
	}
	_, fan, err := GetPerfMode(x)
	if err != nil {
		return err
	}
	if fan != FanManual {
		return validationf("fan rpm requires the manual fan mode, current mode is %v", fan)
	}
	for _, zone := range []byte{zone1, zone2} {
		if err := execEcho(x, KindSetFanRPM, []byte{0x00, zone, byte(rpm / 100)}); err != nil {
			return err
		}
	}
	return nil
}

// GetFanRPM reads the fan speed of the first zone.
func GetFanRPM(x Executor) (uint16, error) {
	if err := x.Require(descriptor.Fan); err != nil {
		return 0, err
	}
	resp, err := exec(x, KindGetFanRPM, []byte{0x00, zone1, 0x00}, 3)
	if err != nil {
		return 0, err
	}
	if resp[1] != zone1 {
		return 0, &ResponseError{Msg: fmt.Sprintf("fan rpm reply for zone 0x%02x", resp[1])}
	}
	return uint16(resp[2]) * 100, nil
}

// SetKeyboardBrightness sets the keyboard backlight level (0-255).
func SetKeyboardBrightness(x Executor, brightness uint8) error {
	if err := x.Require(descriptor.KeyboardBacklight); err != nil {
		return err
	}
	return execEcho(x, KindSetKbdBrightness, []byte{0x01, 0x05, brightness})
}

// GetKeyboardBrightness reads the keyboard backlight level.
func GetKeyboardBrightness(x Executor) (uint8, error) {
	if err := x.Require(descriptor.KeyboardBacklight); err != nil {
		return 0, err
	}
	resp, err := exec(x, KindGetKbdBrightness, []byte{0x01, 0x05, 0x00}, 3)
	if err != nil {
		return 0, err
	}
	if resp[1] != 0x05 {
		return 0, &ResponseError{Msg: fmt.Sprintf("brightness reply for led 0x%02x", resp[1])}
	}
	return resp[2], nil
}

// SetLogoMode sets the lid logo lighting mode. On the wire this is a power
// toggle plus an effect selector; Off only touches the power command.
func SetLogoMode(x Executor, mode LogoMode) error {
	if err := x.Require(descriptor.LidLogo); err != nil {
		return err
	}
	switch mode {
	case LogoOff:
		return execEcho(x, KindSetLogoPower, []byte{0x01, 0x04, 0x00})
	case LogoStatic:
		if err := execEcho(x, KindSetLogoMode, []byte{0x01, 0x04, 0x00}); err != nil {
			return err
		}
	case LogoBreathing:
		if err := execEcho(x, KindSetLogoMode, []byte{0x01, 0x04, 0x02}); err != nil {
			return err
		}
	default:
		return validationf("invalid logo mode 0x%02x", byte(mode))
	}
	return execEcho(x, KindSetLogoPower, []byte{0x01, 0x04, 0x01})
}

// GetLogoMode reads the lid logo lighting mode.
func GetLogoMode(x Executor) (LogoMode, error) {
	if err := x.Require(descriptor.LidLogo); err != nil {
		return 0, err
	}
	resp, err := exec(x, KindGetLogoPower, []byte{0x01, 0x04, 0x00}, 3)
	if err != nil {
		return 0, err
	}
	switch resp[2] {
	case 0x00:
		return LogoOff, nil
	case 0x01:
	default:
		return 0, &ResponseError{Msg: fmt.Sprintf("invalid logo power state 0x%02x", resp[2])}
	}

	resp, err = exec(x, KindGetLogoMode, []byte{0x01, 0x04, 0x00}, 3)
	if err != nil {
		return 0, err
	}
	switch resp[2] {
	case 0x00:
		return LogoStatic, nil
	case 0x02:
		return LogoBreathing, nil
	}
	return 0, &ResponseError{Msg: fmt.Sprintf("invalid logo effect 0x%02x", resp[2])}
}

// SetLightsAlwaysOn controls whether lighting stays on with the lid closed.
func SetLightsAlwaysOn(x Executor, mode LightsAlwaysOn) error {
	if err := x.Require(descriptor.LightsAlwaysOn); err != nil {
		return err
	}
	if _, err := LightsAlwaysOnFromByte(byte(mode)); err != nil {
		return validationf("invalid lights-always-on value 0x%02x", byte(mode))
	}
	return execEcho(x, KindSetLightsAlwaysOn, []byte{byte(mode), 0x00})
}

// GetLightsAlwaysOn reads the lights-always-on setting.
func GetLightsAlwaysOn(x Executor) (LightsAlwaysOn, error) {
	if err := x.Require(descriptor.LightsAlwaysOn); err != nil {
		return 0, err
	}
	resp, err := exec(x, KindGetLightsAlwaysOn, []byte{0x00, 0x00}, 1)
	if err != nil {
		return 0, err
	}
	return LightsAlwaysOnFromByte(resp[0])
}

// SetBatteryCare controls the 80% charge limit.
func SetBatteryCare(x Executor, mode BatteryCare) error {
	if err := x.Require(descriptor.BatteryCare); err != nil {
		return err
	}
	if _, err := BatteryCareFromByte(byte(mode)); err != nil {
		return validationf("invalid battery care value 0x%02x", byte(mode))
	}
	return execEcho(x, KindSetBatteryCare, []byte{byte(mode)})
}

// GetBatteryCare reads the battery care setting.
func GetBatteryCare(x Executor) (BatteryCare, error) {
	if err := x.Require(descriptor.BatteryCare); err != nil {
		return 0, err
	}
	resp, err := exec(x, KindGetBatteryCare, []byte{0x00}, 1)
	if err != nil {
		return 0, err
	}
	return BatteryCareFromByte(resp[0])
}

package razer

import "fmt"

// Kind names one semantic get or set operation.
type Kind int

const (
	KindSetPerfMode Kind = iota
	KindGetPerfMode
	KindSetBoost
	KindGetBoost
	KindSetFanRPM
	KindGetFanRPM
	KindSetMaxFan
	KindGetMaxFan
	KindSetLogoPower
	KindGetLogoPower
	KindSetLogoMode
	KindGetLogoMode
	KindSetKbdBrightness
	KindGetKbdBrightness
	KindSetLightsAlwaysOn
	KindGetLightsAlwaysOn
	KindSetBatteryCare
	KindGetBatteryCare
)

// Command is a protocol (command_class, command_id) pair.
type Command struct {
	Class byte
	ID    byte
}

// Code returns the command as the 16-bit class<<8|id value used in the
// reverse-engineering notes.
func (c Command) Code() uint16 {
	return uint16(c.Class)<<8 | uint16(c.ID)
}

func (c Command) String() string {
	return fmt.Sprintf("0x%04x", c.Code())
}

// commands is the single source of truth for class/id assignments. Values are
// reverse engineered and confirmed on physical devices; never infer a new
// entry by analogy.
var commands = map[Kind]Command{
	KindSetPerfMode: {Class: 0x0d, ID: 0x02},
	KindGetPerfMode: {Class: 0x0d, ID: 0x82},
	KindSetBoost:    {Class: 0x0d, ID: 0x07},
	KindGetBoost:    {Class: 0x0d, ID: 0x87},

	KindSetFanRPM: {Class: 0x0d, ID: 0x01},
	KindGetFanRPM: {Class: 0x0d, ID: 0x81},
	KindSetMaxFan: {Class: 0x07, ID: 0x0f},
	KindGetMaxFan: {Class: 0x07, ID: 0x8f},

	KindSetLogoPower: {Class: 0x03, ID: 0x00},
	KindGetLogoPower: {Class: 0x03, ID: 0x80},
	KindSetLogoMode:  {Class: 0x03, ID: 0x02},
	KindGetLogoMode:  {Class: 0x03, ID: 0x82},

	KindSetKbdBrightness: {Class: 0x03, ID: 0x03},
	KindGetKbdBrightness: {Class: 0x03, ID: 0x83},

	KindSetLightsAlwaysOn: {Class: 0x00, ID: 0x04},
	KindGetLightsAlwaysOn: {Class: 0x00, ID: 0x84},

	KindSetBatteryCare: {Class: 0x07, ID: 0x12},
	KindGetBatteryCare: {Class: 0x07, ID: 0x92},
}

// Command returns the class/id pair for the kind. Unknown kinds panic: the
// table is a compile-time constant and a miss is a programming error.
func (k Kind) Command() Command {
	c, ok := commands[k]
	if !ok {
		panic(fmt.Sprintf("razer: no command entry for kind %d", k))
	}
	return c
}

// Thermal zone and cluster selector bytes used in argument payloads.
const (
	zone1 byte = 0x01
	zone2 byte = 0x02

	clusterCPU byte = 0x01
	clusterGPU byte = 0x02
)

// Max fan speed wire values (distinct from the FanMode byte).
const (
	maxFanEnable  byte = 0x02
	maxFanDisable byte = 0x00
)

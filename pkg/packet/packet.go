// Package packet implements the 90-byte feature report frame used by Razer
// laptop embedded controllers. Commands are sent as HID feature reports and
// the response is read back in the same format.
package packet

import (
	"encoding/binary"
	"fmt"
)

// FrameSize is the fixed wire size of every request and response frame.
const FrameSize = 90

// ArgsSize is the zero-padded argument payload capacity.
const ArgsSize = 80

// Command status codes, byte 0 of the frame.
const (
	StatusNew          = 0x00 // outgoing, not yet processed
	StatusBusy         = 0x01
	StatusSuccessful   = 0x02
	StatusFailure      = 0x03
	StatusTimeout      = 0x04
	StatusNotSupported = 0x05
)

const (
	checksumStart = 2  // first byte covered by the checksum
	checksumEnd   = 88 // one past the last covered byte
	checksumIdx   = 88
)

// Frame is one decoded protocol frame. Args always holds the full zero-padded
// payload; DataSize records how many leading bytes are meaningful.
type Frame struct {
	Status        byte
	TransactionID byte
	Remaining     uint16
	ProtocolType  byte
	DataSize      byte
	CommandClass  byte
	CommandID     byte
	Args          [ArgsSize]byte
	Checksum      byte
}

// ArgsData returns the meaningful argument bytes, up to DataSize.
func (f *Frame) ArgsData() []byte {
	n := int(f.DataSize)
	if n > ArgsSize {
		n = ArgsSize
	}
	return f.Args[:n]
}

// EncodingError reports an argument payload that does not fit the frame.
type EncodingError struct {
	Len int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("packet: argument payload of %d bytes exceeds %d", e.Len, ArgsSize)
}

// LengthError reports a raw buffer that is not exactly one frame.
type LengthError struct {
	Len int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("packet: unexpected frame length %d, want %d", e.Len, FrameSize)
}

// ChecksumError reports a stored checksum that disagrees with the recomputed
// XOR fold.
type ChecksumError struct {
	Stored   byte
	Computed byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("packet: checksum mismatch: stored 0x%02x, computed 0x%02x", e.Stored, e.Computed)
}

// DeviceError reports a device-side failure status in a response frame.
type DeviceError struct {
	Status byte
}

func (e *DeviceError) Error() string {
	switch e.Status {
	case StatusBusy:
		return "packet: device busy"
	case StatusFailure:
		return "packet: command failed"
	case StatusTimeout:
		return "packet: command timed out on device"
	case StatusNotSupported:
		return "packet: command not supported by device"
	}
	return fmt.Sprintf("packet: command failed with unknown status 0x%02x", e.Status)
}

// Transient reports whether the failure is worth one retry. Only a busy
// device is; every other status is a firm answer.
func (e *DeviceError) Transient() bool {
	return e.Status == StatusBusy
}

// Build constructs a request frame for the given command class/id, argument
// payload and transaction id. Arguments longer than the payload capacity fail
// with an EncodingError.
func Build(class, id byte, args []byte, tid byte) (*Frame, error) {
	if len(args) > ArgsSize {
		return nil, &EncodingError{Len: len(args)}
	}
	f := &Frame{
		Status:        StatusNew,
		TransactionID: tid,
		DataSize:      byte(len(args)),
		CommandClass:  class,
		CommandID:     id,
	}
	copy(f.Args[:], args)
	f.Checksum = checksum(f.Marshal())
	return f, nil
}

// Marshal renders the frame to its fixed 90-byte wire form. The checksum is
// always recomputed from the current field values.
func (f *Frame) Marshal() []byte {
	buf := make([]byte, FrameSize)
	buf[0] = f.Status
	buf[1] = f.TransactionID
	binary.LittleEndian.PutUint16(buf[2:4], f.Remaining)
	buf[4] = f.ProtocolType
	buf[5] = f.DataSize
	buf[6] = f.CommandClass
	buf[7] = f.CommandID
	copy(buf[8:8+ArgsSize], f.Args[:])
	buf[checksumIdx] = checksum(buf)
	return buf
}

// Parse decodes a raw 90-byte buffer, verifying length, checksum and the
// device status byte. It is a pure transform with no side effects.
func Parse(raw []byte) (*Frame, error) {
	if len(raw) != FrameSize {
		return nil, &LengthError{Len: len(raw)}
	}
	computed := checksum(raw)
	if stored := raw[checksumIdx]; stored != computed {
		return nil, &ChecksumError{Stored: stored, Computed: computed}
	}

	f := &Frame{
		Status:        raw[0],
		TransactionID: raw[1],
		Remaining:     binary.LittleEndian.Uint16(raw[2:4]),
		ProtocolType:  raw[4],
		DataSize:      raw[5],
		CommandClass:  raw[6],
		CommandID:     raw[7],
		Checksum:      raw[checksumIdx],
	}
	copy(f.Args[:], raw[8:8+ArgsSize])

	switch f.Status {
	case StatusNew, StatusSuccessful:
		return f, nil
	default:
		return f, &DeviceError{Status: f.Status}
	}
}

// checksum XOR-folds bytes 2 through 87 of a wire frame.
func checksum(buf []byte) byte {
	var c byte
	for _, b := range buf[checksumStart:checksumEnd] {
		c ^= b
	}
	return c
}

// Package device owns one exclusive connection to a laptop's embedded
// controller and sequences request/response exchanges over it.
package device

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/openblade/bladectl/internal/hid"
	"github.com/openblade/bladectl/pkg/descriptor"
	"github.com/openblade/bladectl/pkg/packet"
	"github.com/openblade/bladectl/pkg/razer"
)

// VendorID is the fixed USB vendor id of the protocol family.
const VendorID uint16 = 0x1532

// Feature reports carry report id 0 on this protocol.
const reportID byte = 0x00

const (
	// One bounded read per round trip.
	defaultReadTimeout = 1 * time.Second

	// Device firmware needs a moment between the report write and the
	// response read; values from the reverse-engineering notes.
	preSendDelay  = 1 * time.Millisecond
	postSendDelay = 2 * time.Millisecond
)

// ErrTimeout reports a bounded response read that expired.
var ErrTimeout = errors.New("device: response read timed out")

// TransportError wraps an I/O failure from the HID backend.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("device: transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Session is a runtime handle on one opened device. A nil descriptor means
// unrestricted mode: the operator supplied the product id by hand and
// capability gating is bypassed.
//
// The transport handle is not safe for concurrent use, so the session holds
// an internal lock for the whole round trip. There is never more than one
// in-flight command per session.
type Session struct {
	dev  hid.Device
	desc *descriptor.Descriptor
	pid  uint16

	mu          sync.Mutex
	tid         byte
	readTimeout time.Duration
	log         *slog.Logger
}

func newSession(dev hid.Device, desc *descriptor.Descriptor, pid uint16) *Session {
	name := "unrestricted"
	if desc != nil {
		name = desc.Name
	}
	return &Session{
		dev:         dev,
		desc:        desc,
		pid:         pid,
		readTimeout: defaultReadTimeout,
		log:         slog.With(slog.String("device", name)),
	}
}

// Descriptor returns the resolved descriptor, or nil in unrestricted mode.
func (s *Session) Descriptor() *descriptor.Descriptor { return s.desc }

// PID returns the product id the session was opened with.
func (s *Session) PID() uint16 { return s.pid }

// Features returns the advertised feature set; unrestricted sessions report
// everything.
func (s *Session) Features() descriptor.FeatureSet {
	if s.desc == nil {
		return descriptor.AllFeatures
	}
	return s.desc.Features
}

// Require implements razer.Executor's capability gate.
func (s *Session) Require(f descriptor.Feature) error {
	return descriptor.Require(s.desc, f)
}

// Close releases the transport handle. Any pending command is abandoned.
func (s *Session) Close() error {
	return s.dev.Close()
}

// nextTID allocates a fresh transaction id, wrapping at the byte width.
func (s *Session) nextTID() byte {
	s.tid++
	return s.tid
}

// Execute serializes one full round trip: build frame, write, bounded read,
// parse, match the reply to the request. Transport-class transient faults
// (I/O errors, timeout, device busy) get exactly one retry with a fresh
// transaction id; checksum, validation and capability failures never do.
func (s *Session) Execute(cmd razer.Command, args []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.roundTrip(cmd, args)
	if err != nil && transient(err) {
		s.log.Debug("retrying after transient fault",
			slog.String("command", cmd.String()), slog.Any("error", err))
		resp, err = s.roundTrip(cmd, args)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *Session) roundTrip(cmd razer.Command, args []byte) ([]byte, error) {
	tid := s.nextTID()
	frame, err := packet.Build(cmd.Class, cmd.ID, args, tid)
	if err != nil {
		return nil, err
	}

	raw := frame.Marshal()
	s.log.Debug("sending command",
		slog.String("command", cmd.String()),
		slog.Int("tid", int(tid)),
		slog.String("args", fmt.Sprintf("% x", args)))

	time.Sleep(preSendDelay)
	if err := s.dev.WriteFeature(reportID, raw); err != nil {
		return nil, &TransportError{Op: "write", Err: err}
	}

	time.Sleep(postSendDelay)
	buf, err := s.readWithTimeout()
	if err != nil {
		return nil, err
	}

	resp, err := packet.Parse(buf)
	if err != nil {
		return nil, err
	}
	if resp.CommandClass != cmd.Class || resp.CommandID != cmd.ID || resp.TransactionID != tid {
		return nil, &razer.ResponseError{Msg: fmt.Sprintf(
			"reply 0x%02x%02x tid %d does not match request %s tid %d",
			resp.CommandClass, resp.CommandID, resp.TransactionID, cmd, tid)}
	}
	return resp.ArgsData(), nil
}

// readWithTimeout bounds the blocking feature report read. The backend read
// cannot be cancelled mid-transfer; on timeout the result is discarded when
// it eventually arrives.
func (s *Session) readWithTimeout() ([]byte, error) {
	type result struct {
		buf []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		buf, err := s.dev.ReadFeature(reportID)
		ch <- result{buf: buf, err: err}
	}()

	timer := time.NewTimer(s.readTimeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, &TransportError{Op: "read", Err: r.err}
		}
		return r.buf, nil
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// transient classifies faults worth the single retry: transport I/O errors,
// the bounded-read timeout, and a busy device status. Checksum mismatches and
// every validation-class error indicate a logic or data problem and surface
// immediately.
func transient(err error) bool {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return true
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var dErr *packet.DeviceError
	if errors.As(err, &dErr) {
		return dErr.Transient()
	}
	return false
}

package device

import (
	"errors"
	"testing"
	"time"

	"github.com/openblade/bladectl/internal/hid"
	"github.com/openblade/bladectl/pkg/descriptor"
	"github.com/openblade/bladectl/pkg/packet"
	"github.com/openblade/bladectl/pkg/razer"
)

func testDescriptor() *descriptor.Descriptor {
	return &descriptor.Descriptor{
		ModelPrefix: "RZ09-0483T",
		PID:         0x0283,
		Name:        "Blade B",
		Features:    descriptor.AllFeatures,
	}
}

// echoResponder answers every request with a successful frame echoing the
// request's command and arguments.
func echoResponder() func([]byte) ([]byte, error) {
	return func(written []byte) ([]byte, error) {
		req, err := packet.Parse(written)
		if err != nil {
			return nil, err
		}
		resp, err := packet.Build(req.CommandClass, req.CommandID, req.ArgsData(), req.TransactionID)
		if err != nil {
			return nil, err
		}
		resp.Status = packet.StatusSuccessful
		return resp.Marshal(), nil
	}
}

func TestExecuteRoundTrip(t *testing.T) {
	dev := hid.NewMockDevice(echoResponder())
	s := newSession(dev, testDescriptor(), 0x0283)

	cmd := razer.KindSetBatteryCare.Command()
	resp, err := s.Execute(cmd, []byte{0xd0})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(resp) != 1 || resp[0] != 0xd0 {
		t.Errorf("response args % x, want d0", resp)
	}

	writes := dev.Writes()
	if len(writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(writes))
	}
	raw := writes[0]
	if len(raw) != packet.FrameSize {
		t.Fatalf("wire frame length %d", len(raw))
	}
	if raw[6] != 0x07 || raw[7] != 0x12 {
		t.Errorf("wire class/id %02x/%02x, want 07/12", raw[6], raw[7])
	}
	if raw[8] != 0xd0 {
		t.Errorf("wire arg %02x, want d0", raw[8])
	}
}

func TestTransactionIDIncrements(t *testing.T) {
	dev := hid.NewMockDevice(echoResponder())
	s := newSession(dev, testDescriptor(), 0x0283)

	cmd := razer.KindGetBatteryCare.Command()
	for i := 0; i < 3; i++ {
		if _, err := s.Execute(cmd, []byte{0x00}); err != nil {
			t.Fatalf("Execute %d failed: %v", i, err)
		}
	}

	writes := dev.Writes()
	if len(writes) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(writes))
	}
	for i, w := range writes {
		if w[1] != byte(i+1) {
			t.Errorf("write %d carries tid %d, want %d", i, w[1], i+1)
		}
	}
}

func TestTransactionIDWraps(t *testing.T) {
	dev := hid.NewMockDevice(echoResponder())
	s := newSession(dev, testDescriptor(), 0x0283)
	s.tid = 0xff

	if _, err := s.Execute(razer.KindGetBatteryCare.Command(), []byte{0x00}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if w := dev.Writes(); w[0][1] != 0x00 {
		t.Errorf("tid after wrap %d, want 0", w[0][1])
	}
}

func TestExecuteRetriesWriteError(t *testing.T) {
	dev := hid.NewMockDevice(echoResponder())
	dev.WriteErrs = []error{errors.New("pipe stall")}
	s := newSession(dev, testDescriptor(), 0x0283)

	resp, err := s.Execute(razer.KindGetBatteryCare.Command(), []byte{0x00})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(resp) != 1 {
		t.Errorf("response args % x", resp)
	}
	// The retry allocates a fresh transaction id.
	if w := dev.Writes(); len(w) != 1 || w[0][1] != 2 {
		t.Errorf("retry should carry tid 2, writes: %d", len(w))
	}
}

func TestExecuteRetriesBusyStatus(t *testing.T) {
	busyOnce := true
	dev := hid.NewMockDevice(nil)
	dev.Respond = func(written []byte) ([]byte, error) {
		req, err := packet.Parse(written)
		if err != nil {
			return nil, err
		}
		resp, _ := packet.Build(req.CommandClass, req.CommandID, req.ArgsData(), req.TransactionID)
		if busyOnce {
			busyOnce = false
			resp.Status = packet.StatusBusy
		} else {
			resp.Status = packet.StatusSuccessful
		}
		return resp.Marshal(), nil
	}
	s := newSession(dev, testDescriptor(), 0x0283)

	if _, err := s.Execute(razer.KindGetBatteryCare.Command(), []byte{0x00}); err != nil {
		t.Fatalf("expected busy retry to succeed, got %v", err)
	}
	if n := len(dev.Writes()); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestExecuteSingleRetryBudget(t *testing.T) {
	dev := hid.NewMockDevice(echoResponder())
	dev.ReadErrs = []error{errors.New("io error"), errors.New("io error"), errors.New("io error")}
	s := newSession(dev, testDescriptor(), 0x0283)

	_, err := s.Execute(razer.KindGetBatteryCare.Command(), []byte{0x00})
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	// Two attempts consume two injected errors, the third stays queued.
	if len(dev.ReadErrs) != 1 {
		t.Errorf("attempts made: %d, want 2", 3-len(dev.ReadErrs))
	}
}

func TestExecuteNoRetryOnChecksumMismatch(t *testing.T) {
	dev := hid.NewMockDevice(func(written []byte) ([]byte, error) {
		req, err := packet.Parse(written)
		if err != nil {
			return nil, err
		}
		resp, _ := packet.Build(req.CommandClass, req.CommandID, req.ArgsData(), req.TransactionID)
		raw := resp.Marshal()
		raw[88] ^= 0xff
		return raw, nil
	})
	s := newSession(dev, testDescriptor(), 0x0283)

	_, err := s.Execute(razer.KindGetBatteryCare.Command(), []byte{0x00})
	var chkErr *packet.ChecksumError
	if !errors.As(err, &chkErr) {
		t.Fatalf("expected ChecksumError, got %v", err)
	}
	if n := len(dev.Writes()); n != 1 {
		t.Errorf("checksum mismatch must not retry, got %d attempts", n)
	}
}

func TestExecuteTimeout(t *testing.T) {
	dev := hid.NewMockDevice(func(written []byte) ([]byte, error) {
		time.Sleep(200 * time.Millisecond)
		return nil, errors.New("never reached in time")
	})
	s := newSession(dev, testDescriptor(), 0x0283)
	s.readTimeout = 10 * time.Millisecond

	_, err := s.Execute(razer.KindGetBatteryCare.Command(), []byte{0x00})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	// Timeout counts toward the retry budget: two writes, no more.
	if n := len(dev.Writes()); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestExecuteReplyMismatch(t *testing.T) {
	dev := hid.NewMockDevice(func(written []byte) ([]byte, error) {
		resp, _ := packet.Build(0x0d, 0x82, nil, 0x77)
		resp.Status = packet.StatusSuccessful
		return resp.Marshal(), nil
	})
	s := newSession(dev, testDescriptor(), 0x0283)

	_, err := s.Execute(razer.KindGetBatteryCare.Command(), []byte{0x00})
	var respErr *razer.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %v", err)
	}
	if n := len(dev.Writes()); n != 1 {
		t.Errorf("reply mismatch must not retry, got %d attempts", n)
	}
}

func TestExecuteOversizedArgs(t *testing.T) {
	dev := hid.NewMockDevice(echoResponder())
	s := newSession(dev, testDescriptor(), 0x0283)

	_, err := s.Execute(razer.KindSetBatteryCare.Command(), make([]byte, packet.ArgsSize+1))
	var encErr *packet.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodingError, got %v", err)
	}
	if n := len(dev.Writes()); n != 0 {
		t.Errorf("encoding failure must not touch the transport, got %d writes", n)
	}
}

// Session as razer.Executor, end to end over the mock transport.
func TestSessionWithControlLayer(t *testing.T) {
	dev := hid.NewMockDevice(echoResponder())
	s := newSession(dev, testDescriptor(), 0x0283)

	if err := razer.SetBatteryCare(s, razer.BatteryCareEnable); err != nil {
		t.Fatalf("SetBatteryCare failed: %v", err)
	}

	// Descriptor without lid-logo gates before any I/O.
	limited := &descriptor.Descriptor{
		ModelPrefix: "RZ09-0482X",
		PID:         0x0282,
		Name:        "Blade A",
		Features: descriptor.FeatureSet(descriptor.Performance | descriptor.Fan |
			descriptor.KeyboardBacklight | descriptor.BatteryCare | descriptor.LightsAlwaysOn),
	}
	dev2 := hid.NewMockDevice(echoResponder())
	s2 := newSession(dev2, limited, 0x0282)

	err := razer.SetLogoMode(s2, razer.LogoStatic)
	var unsupErr *descriptor.UnsupportedFeatureError
	if !errors.As(err, &unsupErr) {
		t.Fatalf("expected UnsupportedFeatureError, got %v", err)
	}
	if n := len(dev2.Writes()); n != 0 {
		t.Errorf("gated command reached the transport: %d writes", n)
	}
}

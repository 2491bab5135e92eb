package hid

import (
	"errors"
	"sync"
)

// MockDevice is a scriptable Device for tests. Each WriteFeature records the
// report; the Respond callback computes the next ReadFeature result from the
// last written report.
type MockDevice struct {
	mu      sync.Mutex
	writes  [][]byte
	last    []byte
	closed  bool
	Respond func(written []byte) ([]byte, error)

	// Error injection, consumed one call at a time.
	WriteErrs []error
	ReadErrs  []error
}

func NewMockDevice(respond func(written []byte) ([]byte, error)) *MockDevice {
	return &MockDevice{Respond: respond}
}

func (m *MockDevice) WriteFeature(_ byte, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.WriteErrs) > 0 {
		err := m.WriteErrs[0]
		m.WriteErrs = m.WriteErrs[1:]
		if err != nil {
			return err
		}
	}
	buf := append([]byte(nil), data...)
	m.writes = append(m.writes, buf)
	m.last = buf
	return nil
}

func (m *MockDevice) ReadFeature(_ byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ReadErrs) > 0 {
		err := m.ReadErrs[0]
		m.ReadErrs = m.ReadErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if m.Respond == nil {
		return nil, errors.New("mock: no responder configured")
	}
	return m.Respond(m.last)
}

// Writes returns every feature report written so far.
func (m *MockDevice) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

func (m *MockDevice) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDevice) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockManager serves a fixed device list and hands out MockDevices.
type MockManager struct {
	Devices map[uint16]*MockDevice // keyed by product id
	Infos   []Info
	OpenErr error
}

func (m *MockManager) ListVendor(vendorID uint16) ([]Info, error) {
	var out []Info
	for _, info := range m.Infos {
		if info.VendorID == vendorID {
			out = append(out, info)
		}
	}
	return out, nil
}

func (m *MockManager) OpenVIDPID(_, productID uint16) (Device, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	dev, ok := m.Devices[productID]
	if !ok {
		return nil, errors.New("mock: no such device")
	}
	return dev, nil
}

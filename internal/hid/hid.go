// Package hid abstracts the OS HID backend. The protocol layer only needs
// enumeration by vendor id, open by product id, and blocking feature report
// transfer; no USB descriptor parsing happens here.
package hid

// Device represents an opened HID device capable of feature report I/O.
type Device interface {
	WriteFeature(reportID byte, data []byte) error // blocking write of one report
	ReadFeature(reportID byte) ([]byte, error)     // blocking read of one report
	Close() error
}

// Info represents a HID device descriptor.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
}

// Manager enumerates and opens HID devices.
type Manager interface {
	// ListVendor returns every attached device under the given vendor id.
	ListVendor(vendorID uint16) ([]Info, error)
	// OpenVIDPID opens the first device matching vendor and product id,
	// holding an exclusive lock for the life of the handle.
	OpenVIDPID(vendorID, productID uint16) (Device, error)
}

// NewManager returns the platform HID manager.
func NewManager() (Manager, error) {
	return newManager()
}

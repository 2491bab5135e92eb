package device

import (
	"errors"
	"log/slog"

	"github.com/openblade/bladectl/internal/dmi"
	"github.com/openblade/bladectl/internal/hid"
	"github.com/openblade/bladectl/pkg/descriptor"
)

// ErrNoDeviceFound reports that enumeration produced no usable session.
var ErrNoDeviceFound = errors.New("device: no supported device found")

// Detect enumerates attached HID devices under the vendor id, resolves each
// against the registry and returns the first session that both opens and
// resolves. The host model string (when readable) backs the registry's
// prefix fallback.
func Detect(mgr hid.Manager, reg *descriptor.Registry) (*Session, error) {
	infos, err := mgr.ListVendor(VendorID)
	if err != nil {
		return nil, &TransportError{Op: "enumerate", Err: err}
	}
	if len(infos) == 0 {
		return nil, ErrNoDeviceFound
	}

	model, err := dmi.ReadModel()
	if err != nil {
		slog.Debug("model detection unavailable", slog.Any("error", err))
		model = ""
	} else {
		slog.Debug("detected host model", slog.String("model", model))
	}

	seen := make(map[uint16]bool)
	for _, info := range infos {
		if seen[info.ProductID] {
			continue
		}
		seen[info.ProductID] = true

		desc, err := reg.Resolve(info.ProductID, model)
		if err != nil {
			slog.Debug("skipping unresolved device",
				slog.Int("pid", int(info.ProductID)), slog.Any("error", err))
			continue
		}
		dev, err := mgr.OpenVIDPID(VendorID, info.ProductID)
		if err != nil {
			slog.Debug("skipping unopenable device",
				slog.Int("pid", int(info.ProductID)), slog.Any("error", err))
			continue
		}
		slog.Debug("connected", slog.String("name", desc.Name), slog.Int("pid", int(desc.PID)))
		return newSession(dev, desc, info.ProductID), nil
	}
	return nil, ErrNoDeviceFound
}

// Connect opens a specific product id directly. When the registry cannot
// resolve it the session proceeds in unrestricted mode with capability
// gating bypassed; that path is explicitly unsafe and reserved for an
// operator who supplied the pid by hand.
func Connect(mgr hid.Manager, reg *descriptor.Registry, pid uint16) (*Session, error) {
	dev, err := mgr.OpenVIDPID(VendorID, pid)
	if err != nil {
		return nil, &TransportError{Op: "open", Err: err}
	}

	model, _ := dmi.ReadModel()
	desc, err := reg.Resolve(pid, model)
	if err != nil {
		slog.Warn("unknown device, capability gating disabled",
			slog.Int("pid", int(pid)), slog.Any("error", err))
		return newSession(dev, nil, pid), nil
	}
	return newSession(dev, desc, pid), nil
}

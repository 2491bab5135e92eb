// Package descriptor holds the static table of supported laptop models and
// gates commands by each model's advertised feature set.
package descriptor

import (
	"fmt"
	"strings"
)

// Feature is one controllable capability a laptop model may advertise.
type Feature uint8

const (
	Performance Feature = 1 << iota
	Fan
	KeyboardBacklight
	LidLogo
	BatteryCare
	LightsAlwaysOn
)

var featureNames = map[Feature]string{
	Performance:       "perf",
	Fan:               "fan",
	KeyboardBacklight: "kbd-backlight",
	LidLogo:           "lid-logo",
	BatteryCare:       "battery-care",
	LightsAlwaysOn:    "lights-always-on",
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("feature(0x%02x)", uint8(f))
}

// FeatureSet is a bit set of Features.
type FeatureSet uint8

// AllFeatures is every capability the protocol layer knows about.
const AllFeatures = FeatureSet(Performance | Fan | KeyboardBacklight | LidLogo | BatteryCare | LightsAlwaysOn)

// Has reports whether the set advertises f.
func (s FeatureSet) Has(f Feature) bool {
	return s&FeatureSet(f) != 0
}

// Names lists the set's features in declaration order.
func (s FeatureSet) Names() []string {
	var names []string
	for _, f := range []Feature{Performance, Fan, KeyboardBacklight, LidLogo, BatteryCare, LightsAlwaysOn} {
		if s.Has(f) {
			names = append(names, f.String())
		}
	}
	return names
}

// Descriptor identifies one supported laptop model.
type Descriptor struct {
	ModelPrefix string // model number prefix, e.g. "RZ09-0483T"
	PID         uint16 // USB product id under the Razer vendor id
	Name        string
	Features    FeatureSet
}

// UnknownDeviceError reports a pid/model pair absent from the registry.
type UnknownDeviceError struct {
	PID   uint16
	Model string
}

func (e *UnknownDeviceError) Error() string {
	return fmt.Sprintf("descriptor: no entry for pid 0x%04x, model %q", e.PID, e.Model)
}

// UnsupportedFeatureError reports a command dispatched against a model that
// does not advertise the required feature.
type UnsupportedFeatureError struct {
	Feature Feature
	Model   string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("descriptor: %s does not support %s", e.Model, e.Feature)
}

// Registry is an ordered, immutable list of descriptors. The zero value is an
// empty registry; tests inject synthetic ones.
type Registry struct {
	entries []Descriptor
}

// NewRegistry copies entries into a registry. Order matters for the
// model-prefix fallback: the first matching entry wins.
func NewRegistry(entries []Descriptor) *Registry {
	return &Registry{entries: append([]Descriptor(nil), entries...)}
}

// Entries returns a copy of the registry contents.
func (r *Registry) Entries() []Descriptor {
	return append([]Descriptor(nil), r.entries...)
}

// Resolve finds the descriptor for a connected device. Exact product id match
// wins; otherwise the reported model string is matched against each entry's
// model prefix. Fails with UnknownDeviceError when nothing matches.
func (r *Registry) Resolve(pid uint16, model string) (*Descriptor, error) {
	for i := range r.entries {
		if r.entries[i].PID == pid {
			return &r.entries[i], nil
		}
	}
	if model != "" {
		for i := range r.entries {
			if strings.HasPrefix(model, r.entries[i].ModelPrefix) {
				return &r.entries[i], nil
			}
		}
	}
	return nil, &UnknownDeviceError{PID: pid, Model: model}
}

// Require fails with UnsupportedFeatureError unless desc advertises f. A nil
// descriptor means unrestricted mode: the operator supplied a product id by
// hand and gating is bypassed.
func Require(desc *Descriptor, f Feature) error {
	if desc == nil {
		return nil
	}
	if !desc.Features.Has(f) {
		return &UnsupportedFeatureError{Feature: f, Model: desc.Name}
	}
	return nil
}

// Supported is the default registry of confirmed devices. Entries come from
// reverse-engineering notes verified per model; do not add a model by analogy
// with a neighbouring pid.
var Supported = NewRegistry([]Descriptor{
	{
		ModelPrefix: "RZ09-0482X",
		PID:         0x0282,
		Name:        "Razer Blade 14 (2023)",
		Features:    FeatureSet(Performance | Fan | KeyboardBacklight | BatteryCare | LightsAlwaysOn),
	},
	{
		ModelPrefix: "RZ09-0483T",
		PID:         0x0283,
		Name:        "Razer Blade 16 (2023)",
		Features:    AllFeatures,
	},
	{
		ModelPrefix: "RZ09-0510T",
		PID:         0x02a0,
		Name:        "Razer Blade 16 (2024)",
		Features:    AllFeatures,
	},
	{
		ModelPrefix: "RZ09-0509",
		PID:         0x02b6,
		Name:        "Razer Blade 14 (2024)",
		Features:    FeatureSet(Performance | Fan | KeyboardBacklight | BatteryCare | LightsAlwaysOn),
	},
})

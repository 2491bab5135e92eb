//go:build windows

package dmi

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// ReadModel returns the model number prefix from the BIOS SystemSKU registry
// value, clipped to 10 characters.
func ReadModel() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`HARDWARE\DESCRIPTION\System\BIOS`, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("dmi: opening BIOS registry key: %w", err)
	}
	defer key.Close()

	sku, _, err := key.GetStringValue("SystemSKU")
	if err != nil {
		return "", fmt.Errorf("dmi: reading SystemSKU: %w", err)
	}
	sku = strings.TrimSpace(sku)
	if !strings.HasPrefix(sku, "RZ") {
		return "", fmt.Errorf("dmi: system sku %q is not a Razer model", sku)
	}
	if len(sku) > 10 {
		sku = sku[:10]
	}
	return sku, nil
}

//go:build linux

package dmi

import (
	"fmt"
	"os"
	"strings"
)

const skuPath = "/sys/devices/virtual/dmi/id/product_sku"

// ReadModel returns the model number prefix, clipped to 10 characters to
// match the registry's prefix convention.
func ReadModel() (string, error) {
	raw, err := os.ReadFile(skuPath)
	if err != nil {
		return "", fmt.Errorf("dmi: reading product sku: %w", err)
	}
	sku := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(sku, "RZ") {
		return "", fmt.Errorf("dmi: product sku %q is not a Razer model", sku)
	}
	return clip(sku), nil
}

func clip(sku string) string {
	if len(sku) > 10 {
		return sku[:10]
	}
	return sku
}

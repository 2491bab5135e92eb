// Package dmi reads the host's BIOS-reported model number, used to resolve a
// laptop against the descriptor registry when the product id alone is not
// enough.
package dmi

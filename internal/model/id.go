package model

import (
	"fmt"
	"regexp"
)

// IDPattern matches well-formed complaint IDs, e.g. GRV-2024-0047. The
// sequence segment is zero-padded to four digits but grows beyond four once a
// year's counter passes 9999.
var IDPattern = regexp.MustCompile(`^GRV-\d{4}-\d{4,}$`)

// FormatID renders a complaint ID from a year and a sequence number. The
// number is allocated from a per-year counter behind the store, never from
// randomness, so IDs are unique by construction.
func FormatID(year int, seq int) string {
	return fmt.Sprintf("GRV-%d-%04d", year, seq)
}

package gbaconv

import (
	"fmt"
	"hash/crc32"
)

// crcBytes returns the IEEE CRC32 of b as fixed-width uppercase hex, the
// form artifact cache keys use.
func crcBytes(b []byte) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(b))
}

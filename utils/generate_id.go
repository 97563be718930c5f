// utils/generate_id.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// GenerateID builds a prefixed identifier like "pay-m1x2y3z4-a1b2c3d4":
// prefix, base36 millisecond timestamp, 4 random bytes in hex.
func GenerateID(prefix string) string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	random := make([]byte, 4)
	if _, err := rand.Read(random); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the nanosecond clock rather than returning a partial id.
		return fmt.Sprintf("%s-%s-%x", prefix, timestamp, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%s-%s", prefix, timestamp, hex.EncodeToString(random))
}

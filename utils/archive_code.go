package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateArchiveCode produces a short human-facing code of the form
// ARS-YYYYMMDD-NNNN. Codes are not checked for uniqueness; at office volume
// the 4-digit suffix makes same-day collisions unlikely and the legacy system
// accepted them too.
func GenerateArchiveCode() string {
	return fmt.Sprintf("ARS-%s-%04d", time.Now().Format("20060102"), 1000+rand.Intn(9000))
}

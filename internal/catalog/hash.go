package catalog

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Calculator is the default HashCalculator. SHA-256 is collision
// resistant enough that the duplicate detector's byte comparison is the
// only tie-breaker needed.
type SHA256Calculator struct{}

func (SHA256Calculator) CalculateHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ HashCalculator = SHA256Calculator{}

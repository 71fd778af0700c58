package yieldrisk

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// ValidateTrialCount validates the number of trials
func ValidateTrialCount(n int) error {
	if n < 1 {
		return newError(ErrInvalidArgument).WithDetailsf("trial count %d must be at least 1", n)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Fingerprint returns a stable hex digest of every input that influences a
// computation. Identical requests share a fingerprint.
func (r Request) Fingerprint() string {
	h := sha256.New()
	var buf [8]byte

	writeUint := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	writeUint(uint64(r.TrialCount))
	writeUint(math.Float64bits(r.Cost.CostPerTrial))
	writeUint(math.Float64bits(r.Cost.UnitRevenue))
	writeUint(uint64(r.Model.Len()))
	for _, o := range r.Model.outcomes {
		writeUint(uint64(o.Value))
		writeUint(math.Float64bits(o.Probability))
	}
	strategy := r.Strategy
	if parsed, err := ParseConvolutionStrategy(string(strategy)); err == nil {
		strategy = parsed
	}
	h.Write([]byte(strategy))

	return hex.EncodeToString(h.Sum(nil))
}

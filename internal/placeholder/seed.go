// seed.go - Stable seeding for deterministic placeholder analysis

package placeholder

import (
	"encoding/json"
	"hash/fnv"
	"math"
	"strings"
)

// StableSerialize renders a value as canonical JSON with sorted object keys,
// so two key-insertion-order-equivalent inputs always serialize identically.
func StableSerialize(v interface{}) string {
	if v == nil {
		return "null"
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}

	// Round-trip through interface{} so encoding/json re-emits map keys in
	// sorted order regardless of the original value's type
	var norm interface{}
	if err := json.Unmarshal(b, &norm); err != nil {
		return string(b)
	}

	out, err := json.Marshal(norm)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// BuildSeed concatenates the stable-serialized request identity with a
// discriminator ("face" / "body"). Identical inputs always build identical
// seeds; that is the determinism guarantee of the whole fallback path.
func BuildSeed(uid, imageURL, today string, history, healthRecord interface{}, discriminator string) string {
	return strings.Join([]string{
		uid,
		imageURL,
		today,
		StableSerialize(history),
		StableSerialize(healthRecord),
		discriminator,
	}, "|")
}

// hash32 is FNV-1a over the seed string.
func hash32(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// scoreInRange maps seed+metric deterministically into [lo, hi], rounded to
// one decimal place.
func scoreInRange(seed, metric string, lo, hi float64) float64 {
	ratio := float64(hash32(seed+"|"+metric)) / float64(math.MaxUint32)
	return math.Round((lo+ratio*(hi-lo))*10) / 10
}

package booking

import "strconv"

// AccessCode derives the 4-digit door code shown to checked-in guests from
// the booking identifier. The derivation is a rolling hash in 32-bit signed
// wrap-around arithmetic, so the same identifier always yields the same code
// and the guest portal can regenerate it without a server round-trip.
//
// This is obscurity, not access control: the code carries no secret and must
// never be treated as a security boundary. A deployment with real security
// requirements should replace it with a keyed derivation over the identifier.
func AccessCode(id ID) string {
	var h int32
	for _, r := range string(id) {
		h = h*31 + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	digits := strconv.FormatInt(v, 10)
	if len(digits) >= 4 {
		return digits[:4]
	}
	for len(digits) < 4 {
		digits = "0" + digits
	}
	return digits
}

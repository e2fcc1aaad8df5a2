package character

import (
	"strconv"
	"strings"
)

// SeedLength is the number of characters in a seed. The seed window holds
// the first SeedLength entries of DigitFields; HatColor sits past the window
// and is never carried by a seed.
const SeedLength = 8

// Encode concatenates the seed-carried digit fields of st in DigitFields
// order. Each value contributes exactly one character: values above 9 wrap
// modulo 10 and negative values (NoDigit included) are written as 0, so the
// result is always SeedLength digits.
func Encode(st Settings) string {
	d := st.Digits()
	var b strings.Builder
	b.Grow(SeedLength)
	for i := 0; i < SeedLength; i++ {
		b.WriteByte(digitChar(d[i]))
	}
	return b.String()
}

func digitChar(v int) byte {
	if v < 0 {
		return '0'
	}
	return byte('0' + v%10)
}

// Decode left-pads seed with zeros to SeedLength, keeps the first SeedLength
// characters of the padded string and converts each one to its digit value.
// Characters that are not decimal digits decode to NoDigit. Any string is
// accepted. Positions past the window decode to 0.
func Decode(seed string) Digits {
	if n := SeedLength - len(seed); n > 0 {
		seed = strings.Repeat("0", n) + seed
	}
	seed = seed[:SeedLength]

	var d Digits
	for i := 0; i < SeedLength; i++ {
		v, err := strconv.Atoi(seed[i : i+1])
		if err != nil {
			v = NoDigit
		}
		d[i] = v
	}
	return d
}

// ApplySeed decodes seed into st's digit fields and re-derives st.Seed from
// the result. Fields outside the seed are kept.
func ApplySeed(st Settings, seed string) Settings {
	st = st.WithDigits(Decode(seed))
	st.Seed = Encode(st)
	return st
}

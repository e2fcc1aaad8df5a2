package character

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownField is returned when a Command names a field Settings lacks.
var ErrUnknownField = errors.New("unknown field")

// Command sets one field to a value, as submitted by a control.
type Command struct {
	Field Field
	Value string
}

// ParseField maps an attribute name to its Field.
func ParseField(name string) (Field, bool) {
	switch f := Field(name); f {
	case FieldName, FieldHat, FieldFire, FieldWalking, FieldCircle, FieldSize:
		return f, true
	}
	for _, f := range DigitFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// Apply returns a copy of st with cmd's field replaced and the seed
// re-derived. Values are not range checked; a numeric field given something
// that is not an integer is set to NoDigit.
func Apply(st Settings, cmd Command) (Settings, error) {
	switch cmd.Field {
	case FieldName:
		st.Name = cmd.Value
	case FieldHat:
		st.Hat = cmd.Value
	case FieldFire:
		st.Fire = parseBool(cmd.Value)
	case FieldWalking:
		st.Walking = parseBool(cmd.Value)
	case FieldCircle:
		st.Circle = parseBool(cmd.Value)
	case FieldSize:
		st.Size = parseInt(cmd.Value)
	default:
		idx := digitIndex(cmd.Field)
		if idx < 0 {
			return st, fmt.Errorf("apply %q: %w", cmd.Field, ErrUnknownField)
		}
		d := st.Digits()
		d[idx] = parseInt(cmd.Value)
		st = st.WithDigits(d)
	}
	st.Seed = Encode(st)
	return st, nil
}

func digitIndex(f Field) int {
	for i, df := range DigitFields {
		if df == f {
			return i
		}
	}
	return -1
}

func parseInt(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return NoDigit
	}
	return n
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

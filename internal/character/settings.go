// Package character holds the appearance record behind the customizer and
// the seed codec that maps it to and from a short digit string.
package character

import "strconv"

// Field names one attribute of Settings. The string value is the attribute
// name the avatar component and the HTML controls use.
type Field string

const (
	FieldName        Field = "name"
	FieldAccessories Field = "accessories"
	FieldBase        Field = "base"
	FieldFace        Field = "face"
	FieldFaceItem    Field = "faceitem"
	FieldHair        Field = "hair"
	FieldPants       Field = "pants"
	FieldShirt       Field = "shirt"
	FieldSkin        Field = "skin"
	FieldHatColor    Field = "hatColor"
	FieldHat         Field = "hat"
	FieldFire        Field = "fire"
	FieldWalking     Field = "walking"
	FieldCircle      Field = "circle"
	FieldSize        Field = "size"
)

// DigitFields is the fixed seed order of the single-digit appearance fields.
var DigitFields = [9]Field{
	FieldAccessories,
	FieldBase,
	FieldFace,
	FieldFaceItem,
	FieldHair,
	FieldPants,
	FieldShirt,
	FieldSkin,
	FieldHatColor,
}

// NoDigit is stored in a digit field when the seed character or submitted
// value it came from was not a number.
const NoDigit = -1

const (
	DefaultHat  = "none"
	DefaultSize = 200
)

// Hats is the vocabulary accepted by the avatar component's hat attribute.
var Hats = []string{
	"none", "bunny", "coffee", "construction", "cowboy", "education",
	"knight", "ninja", "party", "pirate", "watermelon",
}

// Settings is the full appearance of one character.
type Settings struct {
	Seed string
	Name string

	Accessories int
	Base        int
	Face        int
	FaceItem    int
	Hair        int
	Pants       int
	Shirt       int
	Skin        int
	HatColor    int

	Hat     string
	Fire    bool
	Walking bool
	Circle  bool
	Size    int
}

// Digits holds the digit fields in DigitFields order.
type Digits [9]int

func Defaults() Settings {
	return Settings{
		Seed: "00000000",
		Hat:  DefaultHat,
		Size: DefaultSize,
	}
}

// Digits returns the digit fields in seed order.
func (s Settings) Digits() Digits {
	return Digits{
		s.Accessories,
		s.Base,
		s.Face,
		s.FaceItem,
		s.Hair,
		s.Pants,
		s.Shirt,
		s.Skin,
		s.HatColor,
	}
}

// WithDigits returns a copy of s with the digit fields replaced. The seed is
// left alone; callers decide whether to re-derive it.
func (s Settings) WithDigits(d Digits) Settings {
	s.Accessories = d[0]
	s.Base = d[1]
	s.Face = d[2]
	s.FaceItem = d[3]
	s.Hair = d[4]
	s.Pants = d[5]
	s.Shirt = d[6]
	s.Skin = d[7]
	s.HatColor = d[8]
	return s
}

// Digit returns the value of a digit field and whether f is one.
func (s Settings) Digit(f Field) (int, bool) {
	i := digitIndex(f)
	if i < 0 {
		return 0, false
	}
	return s.Digits()[i], true
}

func allowedHat(h string) bool {
	for _, v := range Hats {
		if v == h {
			return true
		}
	}
	return false
}

// Value renders field f of s the way a control submits it.
func (s Settings) Value(f Field) string {
	switch f {
	case FieldName:
		return s.Name
	case FieldHat:
		return s.Hat
	case FieldFire:
		return strconv.FormatBool(s.Fire)
	case FieldWalking:
		return strconv.FormatBool(s.Walking)
	case FieldCircle:
		return strconv.FormatBool(s.Circle)
	case FieldSize:
		return strconv.Itoa(s.Size)
	}
	if v, ok := s.Digit(f); ok {
		return strconv.Itoa(v)
	}
	return ""
}

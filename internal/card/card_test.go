package card

import (
	"bytes"
	"testing"

	"rpgme/internal/character"
)

func TestGenerate_ReturnsPDF(t *testing.T) {
	st := character.ApplySeed(character.Defaults(), "31415926")
	st.Name = "Ada"
	st.Hat = "pirate"
	st.Fire = true

	b, err := Generate(st, "http://localhost:8080/?seed=31415926")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(b) < 100 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_DefaultsWithoutLink(t *testing.T) {
	b, err := Generate(character.Defaults(), "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_MalformedDigits(t *testing.T) {
	st := character.ApplySeed(character.Defaults(), "ab")
	st.Name = "Ñandú"
	if _, err := Generate(st, ""); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestDigitColor(t *testing.T) {
	seen := map[[3]int]bool{}
	for v := 0; v <= 9; v++ {
		r, g, b := DigitColor(v)
		for _, c := range []int{r, g, b} {
			if c < 0 || c > 255 {
				t.Errorf("DigitColor(%d) component %d out of range", v, c)
			}
		}
		seen[[3]int{r, g, b}] = true
	}
	if len(seen) != 10 {
		t.Errorf("Expected 10 distinct colours, got %d", len(seen))
	}
	if r, g, b := DigitColor(character.NoDigit); r != 128 || g != 128 || b != 128 {
		t.Errorf("Expected grey for NoDigit, got %d,%d,%d", r, g, b)
	}
}

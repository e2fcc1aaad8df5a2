// Package card renders a printable character card (PDF) for a set of
// appearance settings: name, seed, every appearance field, a swatch row of
// the seed digits and the share link that restores the character.
package card

import (
	"bytes"
	"fmt"
	"strconv"

	"rpgme/internal/character"

	"github.com/jung-kurt/gofpdf/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	pageW      = 420 // A5 portrait, points
	pageH      = 595
	margin     = 36
	titleSize  = 20
	fontSize   = 10
	labelSize  = 8
	rowH       = 16.0
	swatchSize = 30.0
)

var labels = map[character.Field]string{
	character.FieldAccessories: "Accessories",
	character.FieldBase:        "Base",
	character.FieldFace:        "Face",
	character.FieldFaceItem:    "Face item",
	character.FieldHair:        "Hair style",
	character.FieldPants:       "Pants style",
	character.FieldShirt:       "Shirt style",
	character.FieldSkin:        "Skin tone",
	character.FieldHatColor:    "Hat color",
}

var titleCase = cases.Title(language.English)

// Generate returns PDF bytes for st. link is printed at the bottom and may
// be empty.
func Generate(st character.Settings, link string) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A5", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Character card", true)
	pdf.AddPage()

	// Card background and frame
	pdf.SetFillColor(250, 246, 236)
	pdf.Rect(0, 0, pageW, pageH, "F")
	pdf.SetDrawColor(60, 60, 90)
	pdf.SetLineWidth(2)
	pdf.Rect(margin/2, margin/2, pageW-margin, pageH-margin, "D")
	pdf.SetLineWidth(1)

	name := st.Name
	if name == "" {
		name = "Unnamed adventurer"
	}
	pdf.SetTextColor(30, 30, 50)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(margin, margin)
	pdf.CellFormat(pageW-2*margin, 24, pdf.UnicodeTranslatorFromDescriptor("")(name), "", 1, "C", false, 0, "")

	pdf.SetFont("Courier", "B", fontSize+4)
	pdf.CellFormat(pageW-2*margin, 18, "Seed "+st.Seed, "", 1, "C", false, 0, "")

	drawSwatches(pdf, st, margin+52)

	y := margin + 52 + swatchSize + 28
	pdf.SetFont("Helvetica", "", fontSize)
	digits := st.Digits()
	for i, f := range character.DigitFields {
		drawRow(pdf, y, labels[f], strconv.Itoa(digits[i]))
		y += rowH
	}
	y += rowH / 2
	drawRow(pdf, y, "Hat", titleCase.String(st.Hat))
	y += rowH
	drawRow(pdf, y, "Size", fmt.Sprintf("%d px", st.Size))
	y += rowH
	drawRow(pdf, y, "On fire", yesNo(st.Fire))
	y += rowH
	drawRow(pdf, y, "Walking", yesNo(st.Walking))
	y += rowH
	drawRow(pdf, y, "Circle", yesNo(st.Circle))

	if link != "" {
		pdf.SetFont("Helvetica", "", labelSize)
		pdf.SetTextColor(60, 60, 140)
		pdf.SetXY(margin, pageH-margin-2*rowH)
		pdf.CellFormat(pageW-2*margin, 10, "Open this link to restore the character:", "", 1, "C", false, 0, "")
		pdf.CellFormat(pageW-2*margin, 10, link, "", 1, "C", false, 0, link)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render card: %w", err)
	}
	return buf.Bytes(), nil
}

// drawSwatches draws one coloured square per seed digit, hue by value.
func drawSwatches(pdf *gofpdf.Fpdf, st character.Settings, y float64) {
	d := st.Digits()
	total := float64(character.SeedLength)*swatchSize + float64(character.SeedLength-1)*4
	x := (pageW - total) / 2
	pdf.SetFont("Helvetica", "B", fontSize)
	for i := 0; i < character.SeedLength; i++ {
		r, g, b := DigitColor(d[i])
		pdf.SetFillColor(r, g, b)
		pdf.Rect(x, y, swatchSize, swatchSize, "FD")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(x, y)
		pdf.CellFormat(swatchSize, swatchSize, strconv.Itoa(d[i]), "", 0, "C", false, 0, "")
		x += swatchSize + 4
	}
	pdf.SetTextColor(30, 30, 50)
}

func drawRow(pdf *gofpdf.Fpdf, y float64, label, value string) {
	pdf.SetDrawColor(200, 195, 180)
	pdf.Line(margin, y+rowH-2, pageW-margin, y+rowH-2)
	pdf.SetXY(margin, y)
	pdf.CellFormat(150, rowH, label, "", 0, "L", false, 0, "")
	pdf.SetXY(pageW-margin-150, y)
	pdf.CellFormat(150, rowH, value, "", 0, "R", false, 0, "")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// DigitColor maps a digit to a fully saturated colour, hue = v*36 degrees.
// Values outside 0-9 are shown grey.
func DigitColor(v int) (r, g, b int) {
	if v < 0 || v > 9 {
		return 128, 128, 128
	}
	h := float64(v) * 36 / 60
	sector := int(h)
	f := h - float64(sector)
	q := int(255 * (1 - f))
	t := int(255 * f)
	switch sector {
	case 0:
		return 255, t, 0
	case 1:
		return q, 255, 0
	case 2:
		return 0, 255, t
	case 3:
		return 0, q, 255
	case 4:
		return t, 0, 255
	default:
		return 255, 0, q
	}
}

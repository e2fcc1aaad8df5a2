package web

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"

	"go.uber.org/zap"

	"rpgme/internal/card"
	"rpgme/internal/character"
)

// handlePreview serves a blocky PNG thumbnail of the character a seed
// describes. It backs the page's og:image so shared links unfurl.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st := character.ApplySeed(character.Defaults(), r.URL.Query().Get("seed"))

	img := generatePreviewImage(st)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		s.Log.Error("encode preview", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.Log.Warn("write preview", zap.Error(err))
	}
}

// Skin tones indexed by the skin digit.
var skinTones = [10]color.RGBA{
	{0xff, 0xdb, 0xac, 255}, {0xf1, 0xc2, 0x7d, 255}, {0xe0, 0xac, 0x69, 255},
	{0xc6, 0x86, 0x42, 255}, {0x8d, 0x55, 0x24, 255}, {0x5c, 0x38, 0x36, 255},
	{0xff, 0xe0, 0xbd, 255}, {0xea, 0xc0, 0x86, 255}, {0xa5, 0x7a, 0x4f, 255},
	{0x3b, 0x22, 0x19, 255},
}

var (
	pixelBackdrop = color.RGBA{0x18, 0x14, 0x28, 255}
	pixelGround   = color.RGBA{0x2d, 0x5a, 0x3d, 255}
	pixelEye      = color.RGBA{0x10, 0x10, 0x10, 255}
)

const blockPx = 8
const previewW, previewH = 128, 192
const blocksW, blocksH = previewW / blockPx, previewH / blockPx

// fillBlock fills one 8×8 block at block coords (bx, by) with clr.
func fillBlock(img *image.RGBA, bx, by int, clr color.RGBA) {
	for dy := 0; dy < blockPx; dy++ {
		for dx := 0; dx < blockPx; dx++ {
			x := bx*blockPx + dx
			y := by*blockPx + dy
			if x < previewW && y < previewH {
				img.SetRGBA(x, y, clr)
			}
		}
	}
}

func fillRect(img *image.RGBA, bx0, by0, bx1, by1 int, clr color.RGBA) {
	for by := by0; by < by1; by++ {
		for bx := bx0; bx < bx1; bx++ {
			fillBlock(img, bx, by, clr)
		}
	}
}

func digitRGBA(v int) color.RGBA {
	r, g, b := card.DigitColor(v)
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

// generatePreviewImage draws a 16×24-block figure: hair, head, shirt and
// pants coloured from their digits. The face digit moves the eyes and the
// accessories digit adds a belt.
func generatePreviewImage(st character.Settings) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, previewW, previewH))
	fillRect(img, 0, 0, blocksW, blocksH, pixelBackdrop)
	fillRect(img, 0, blocksH-2, blocksW, blocksH, pixelGround)

	skin := pixelBackdrop
	if st.Skin >= 0 && st.Skin <= 9 {
		skin = skinTones[st.Skin]
	}

	// Hair (base 0 is bald)
	if st.Base != 0 {
		fillRect(img, 5, 2, 11, 4, digitRGBA(st.Hair))
	}
	// Head
	fillRect(img, 5, 4, 11, 9, skin)
	eyeRow := 6
	if st.Face%2 == 1 {
		eyeRow = 5
	}
	fillBlock(img, 6, eyeRow, pixelEye)
	fillBlock(img, 9, eyeRow, pixelEye)
	// Torso and arms
	fillRect(img, 4, 9, 12, 15, digitRGBA(st.Shirt))
	fillRect(img, 3, 10, 4, 14, skin)
	fillRect(img, 12, 10, 13, 14, skin)
	if st.Accessories > 0 {
		fillRect(img, 4, 14, 12, 15, digitRGBA(st.Accessories))
	}
	// Legs
	pants := digitRGBA(st.Pants)
	fillRect(img, 5, 15, 7, 22, pants)
	fillRect(img, 9, 15, 11, 22, pants)
	return img
}

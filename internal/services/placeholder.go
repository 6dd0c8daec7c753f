package services

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/mzflora/plantario-backend/internal/platform/logger"
)

const placeholderSize = 512

// Muted botanical palette for plants without a stored photo. The tile
// color is derived from the family name, so plants of one family share
// a hue.
var placeholderPalette = []color.NRGBA{
	{R: 0x4F, G: 0x7A, B: 0x55, A: 0xFF},
	{R: 0x6B, G: 0x8F, B: 0x71, A: 0xFF},
	{R: 0x8A, G: 0x9A, B: 0x5B, A: 0xFF},
	{R: 0x55, G: 0x6B, B: 0x2F, A: 0xFF},
	{R: 0x3E, G: 0x5C, B: 0x50, A: 0xFF},
	{R: 0x7C, G: 0x6E, B: 0x4F, A: 0xFF},
	{R: 0x5E, G: 0x81, B: 0x6A, A: 0xFF},
	{R: 0x44, G: 0x62, B: 0x38, A: 0xFF},
}

// PlaceholderService renders an initials tile for plants that have no
// photograph yet.
type PlaceholderService interface {
	Render(nomeCientifico, familia string) ([]byte, error)
}

type placeholderService struct {
	fontPath string
	log      *logger.Logger

	once     sync.Once
	fontFace font.Face
	fontErr  error
}

func NewPlaceholderService(fontPath string, baseLog *logger.Logger) PlaceholderService {
	return &placeholderService{
		fontPath: fontPath,
		log:      baseLog.With("service", "placeholder"),
	}
}

func (s *placeholderService) face() (font.Face, error) {
	s.once.Do(func() {
		data, err := os.ReadFile(s.fontPath)
		if err != nil {
			s.fontErr = fmt.Errorf("placeholder: read font: %w", err)
			return
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			s.fontErr = fmt.Errorf("placeholder: parse font: %w", err)
			return
		}
		s.fontFace = truetype.NewFace(parsed, &truetype.Options{
			Size:    206,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	})
	return s.fontFace, s.fontErr
}

func (s *placeholderService) Render(nomeCientifico, familia string) ([]byte, error) {
	face, err := s.face()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(placeholderSize, placeholderSize)
	dc.SetColor(pickPlaceholderColor(familia))
	dc.DrawRectangle(0, 0, placeholderSize, placeholderSize)
	dc.Fill()

	initials := plantInitials(nomeCientifico)
	dc.SetFontFace(face)
	tw, th := dc.MeasureString(initials)
	cx, cy := float64(placeholderSize)/2, float64(placeholderSize)/2
	dc.SetColor(color.White)
	dc.DrawString(initials, cx-(tw/2), cy+(th/2)-10)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("placeholder: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func pickPlaceholderColor(familia string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(familia))))
	return placeholderPalette[int(h.Sum32())%len(placeholderPalette)]
}

// plantInitials takes the first letters of genus and species epithet.
func plantInitials(nomeCientifico string) string {
	fields := strings.Fields(strings.TrimSpace(nomeCientifico))
	switch len(fields) {
	case 0:
		return "?"
	case 1:
		return strings.ToUpper(fields[0][:1])
	default:
		return strings.ToUpper(fields[0][:1]) + strings.ToUpper(fields[1][:1])
	}
}

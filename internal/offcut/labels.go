package offcut

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/workshopos/cutengine/internal/model"
)

// ClaimTag holds the data encoded into an offcut's QR tag. Scanning the tag
// on a physical piece identifies the pool entry it belongs to so it can be
// claimed without typing IDs.
type ClaimTag struct {
	OffcutID  string  `json:"id"`
	Material  string  `json:"material"`
	Length    float64 `json:"length_mm"`
	Width     float64 `json:"width_mm"`
	Thickness float64 `json:"thickness_mm"`
}

const qrTagPixels = 256

// EncodeClaimTag renders the QR tag for one offcut as PNG bytes.
func EncodeClaimTag(o model.Offcut) ([]byte, error) {
	tag := ClaimTag{
		OffcutID:  o.ID,
		Material:  o.Material,
		Length:    o.Length,
		Width:     o.Width,
		Thickness: o.Thickness,
	}
	data, err := json.Marshal(tag)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claim tag: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, qrTagPixels)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// WriteClaimTags writes one PNG tag per offcut into dir, named by offcut ID.
// The directory is created if needed.
func WriteClaimTags(dir string, offcuts []model.Offcut) error {
	if len(offcuts) == 0 {
		return fmt.Errorf("no offcuts to generate tags for")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, o := range offcuts {
		png, err := EncodeClaimTag(o)
		if err != nil {
			return fmt.Errorf("failed to render tag for %q: %w", o.ID, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("offcut-%s.png", o.ID))
		if err := os.WriteFile(path, png, 0644); err != nil {
			return err
		}
	}
	return nil
}

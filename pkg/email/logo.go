package email

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// MaxLogoWidth is twice the rendered width (150px) so the logo stays sharp on
// high-density screens.
const MaxLogoWidth = 300

// LoadLogo reads the inline logo once at startup. A missing file is not an
// error: messages are then sent without the attachment.
func LoadLogo(path, contentID string) (*Attachment, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}

	scaled, format, err := scaleImage(data, MaxLogoWidth)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	if format == "png" {
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".png"
	}

	return &Attachment{
		Filename:    filename,
		ContentType: "image/" + format,
		ContentID:   contentID,
		Data:        scaled,
	}, nil
}

// scaleImage shrinks images wider than maxWidth, keeping the aspect ratio.
// Images already small enough are returned untouched in their own format;
// resized ones are re-encoded as PNG to keep transparency.
func scaleImage(data []byte, maxWidth int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode logo (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxWidth {
		return data, format, nil
	}

	newHeight := int(float64(height) * float64(maxWidth) / float64(width))
	if newHeight < 1 {
		newHeight = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, "", fmt.Errorf("failed to encode logo: %w", err)
	}
	return buf.Bytes(), "png", nil
}

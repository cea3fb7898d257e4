package extract

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
)

func testEntry() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))
	return log.WithField("component", "test")
}

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, 4, color.RGBA{R: 200, G: 30, B: 30, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestOCRDisabled(t *testing.T) {
	o := NewOCR(false, "eng", testEntry())

	if o.Available() {
		t.Fatal("Available() = true, want false when disabled")
	}

	_, err := o.PriceFromImage(encodeTestPNG(t))
	if !errors.Is(err, domain.ErrNoPrice) {
		t.Errorf("PriceFromImage error = %v, want ErrNoPrice", err)
	}
}

func TestGrayscale(t *testing.T) {
	t.Run("re-encodes as grayscale png", func(t *testing.T) {
		out, err := grayscale(encodeTestPNG(t))
		if err != nil {
			t.Fatalf("grayscale() error = %v", err)
		}

		decoded, _, err := image.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decoding grayscale output: %v", err)
		}
		if _, ok := decoded.(*image.Gray); !ok {
			t.Errorf("decoded type = %T, want *image.Gray", decoded)
		}
	})

	t.Run("rejects non-image data", func(t *testing.T) {
		if _, err := grayscale([]byte("not an image")); err == nil {
			t.Error("grayscale() error = nil, want decode error")
		}
	})
}

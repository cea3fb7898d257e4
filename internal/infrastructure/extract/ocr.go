package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"github.com/drinkradar/backend/internal/domain"
)

// ocrWhitelist restricts recognition to characters a price can contain.
const ocrWhitelist = "0123456789.,€"

// Segmentation modes tried in order. Prices render differently per site
// (one line, a lone number, or a small block with the cents superscripted),
// so a single mode misses too often.
var segModes = []gosseract.PageSegMode{
	gosseract.PSM_SINGLE_LINE,
	gosseract.PSM_SINGLE_WORD,
	gosseract.PSM_SINGLE_BLOCK,
}

// OCR extracts prices from images for retailers that render prices as
// pictures to defeat scraping. When tesseract is missing at runtime the
// engine reports itself unavailable and every extraction yields no result,
// never an error.
type OCR struct {
	languages []string
	available bool
	log       *logrus.Entry
}

// NewOCR probes the tesseract runtime once and remembers the outcome.
func NewOCR(enabled bool, languages string, log *logrus.Entry) *OCR {
	o := &OCR{log: log}
	if languages != "" {
		o.languages = strings.Split(languages, ",")
	}
	if !enabled {
		log.Info("ocr disabled by configuration")
		return o
	}
	if err := o.probe(); err != nil {
		log.WithError(err).Warn("ocr runtime unavailable, image prices will be skipped")
		return o
	}
	o.available = true
	return o
}

// probe verifies tesseract and its language data are usable.
func (o *OCR) probe() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, r)
		}
	}()
	client := gosseract.NewClient()
	defer client.Close()
	if len(o.languages) > 0 {
		if err := client.SetLanguage(o.languages...); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
		}
	}
	return nil
}

// Available reports whether image extraction can run in this environment.
func (o *OCR) Available() bool {
	return o.available
}

// PriceFromImage runs the OCR stage of the chain: grayscale the image, run
// recognition under each segmentation mode, and feed every recognized string
// back through the text stages. The first successful parse wins.
func (o *OCR) PriceFromImage(img []byte) (float64, error) {
	if !o.available {
		return 0, domain.ErrNoPrice
	}

	gray, err := grayscale(img)
	if err != nil {
		o.log.WithError(err).Debug("image decode failed")
		return 0, domain.ErrNoPrice
	}

	for _, mode := range segModes {
		text, err := o.recognize(gray, mode)
		if err != nil {
			o.log.WithError(err).WithField("psm", mode).Debug("ocr pass failed")
			continue
		}
		if price, err := FromText(text); err == nil {
			return price, nil
		}
	}

	return 0, domain.ErrNoPrice
}

func (o *OCR) recognize(img []byte, mode gosseract.PageSegMode) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(o.languages) > 0 {
		if err := client.SetLanguage(o.languages...); err != nil {
			return "", err
		}
	}
	if err := client.SetWhitelist(ocrWhitelist); err != nil {
		return "", err
	}
	if err := client.SetPageSegMode(mode); err != nil {
		return "", err
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", err
	}
	return client.Text()
}

// grayscale re-encodes the image as 8-bit grayscale PNG, which measurably
// improves tesseract accuracy on anti-aliased price renders.
func grayscale(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

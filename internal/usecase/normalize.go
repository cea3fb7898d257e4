package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/drinkradar/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	// Multi-pack descriptor: "6 x 330 ml", "4x1.5l"
	multiPackRegex = regexp.MustCompile(`(\d+)\s*x\s*(\d+(?:\.\d+)?)\s*(l|cl|ml)`)

	// Single volume: "1.5 l", "330ml", "33 cl"
	singleVolumeRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(l|cl|ml)`)
)

// toLiters converts a size in the given unit to liters.
func toLiters(amount float64, unit string) float64 {
	switch strings.ToLower(unit) {
	case "ml":
		return amount / 1000
	case "cl":
		return amount / 100
	default:
		return amount
	}
}

// normalizeVolumeText lowercases and unifies the decimal separator so a
// single set of patterns covers "1,5L" and "1.5 l" alike.
func normalizeVolumeText(text string) string {
	return strings.ToLower(strings.ReplaceAll(text, ",", "."))
}

// ParseVolume extracts the total volume in liters from free text. The
// multi-pack pattern is tried before the single pattern so "6 x 330 ml"
// yields 1.98, not 0.33. Returns 0 when no pattern matches.
func ParseVolume(text string) float64 {
	if text == "" {
		return 0
	}
	text = normalizeVolumeText(text)

	if m := multiPackRegex.FindStringSubmatch(text); m != nil {
		count, _ := strconv.Atoi(m[1])
		size, _ := strconv.ParseFloat(m[2], 64)
		return toLiters(float64(count)*size, m[3])
	}

	if m := findSingleVolume(text); m != nil {
		size, _ := strconv.ParseFloat(m[1], 64)
		return toLiters(size, m[2])
	}

	return 0
}

// ParseUnitCount extracts the pack multiplier N from "N x size unit" text.
// Anything without a multi-pack pattern is a single unit.
func ParseUnitCount(text string) int {
	if text == "" {
		return 1
	}
	if m := multiPackRegex.FindStringSubmatch(normalizeVolumeText(text)); m != nil {
		count, _ := strconv.Atoi(m[1])
		if count >= 1 {
			return count
		}
	}
	return 1
}

// ParseUnitSize extracts the per-unit size and unit type ("ML", "CL", "L")
// from free text. For a multi-pack this is the single can/bottle size, not
// the pack total. Returns (0, "") when nothing matches.
func ParseUnitSize(text string) (float64, string) {
	if text == "" {
		return 0, ""
	}
	text = normalizeVolumeText(text)

	if m := multiPackRegex.FindStringSubmatch(text); m != nil {
		size, _ := strconv.ParseFloat(m[2], 64)
		return size, strings.ToUpper(m[3])
	}

	if m := findSingleVolume(text); m != nil {
		size, _ := strconv.ParseFloat(m[1], 64)
		return size, strings.ToUpper(m[2])
	}

	return 0, ""
}

// findSingleVolume finds the first single-volume match whose number is not
// directly preceded by an "x", so the size component of an unanchored pack
// fragment like "x 330 ml" never passes for a standalone volume.
func findSingleVolume(text string) []string {
	for _, idx := range singleVolumeRegex.FindAllStringSubmatchIndex(text, -1) {
		if precededByX(text, idx[0]) {
			continue
		}
		return []string{
			text[idx[0]:idx[1]],
			text[idx[2]:idx[3]],
			text[idx[4]:idx[5]],
		}
	}
	return nil
}

func precededByX(text string, pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch text[i] {
		case ' ', '\t':
			continue
		case 'x':
			return true
		default:
			return false
		}
	}
	return false
}

// PricePerLiter computes the canonical comparison metric, rounded to two
// decimals. The volume descriptor field is consulted before the product
// name; 0 means the volume could not be determined from either.
func PricePerLiter(price float64, volume, name string) float64 {
	liters := ParseVolume(volume)
	if liters == 0 {
		liters = ParseVolume(name)
	}
	if liters == 0 {
		return 0
	}
	return round2(price / liters)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Normalize annotates a raw scraped product with derived liter and per-unit
// pricing in a single pass. The liter value always comes from the volume
// field first and the product name second.
func Normalize(raw domain.RawProduct, logo string) domain.Product {
	p := domain.Product{
		Store:  raw.Store,
		Name:   raw.Name,
		Price:  raw.Price,
		Volume: raw.Volume,
		Image:  raw.Image,
		Link:   raw.Link,
		Logo:   logo,
	}

	p.PricePerLiter = PricePerLiter(raw.Price, raw.Volume, raw.Name)

	p.LiterValue = ParseVolume(raw.Volume)
	if p.LiterValue == 0 {
		p.LiterValue = ParseVolume(raw.Name)
	}

	p.UnitCount = ParseUnitCount(raw.Volume)
	if p.UnitCount == 1 {
		p.UnitCount = ParseUnitCount(raw.Name)
	}

	p.UnitSize, p.UnitType = ParseUnitSize(raw.Volume)
	if p.UnitSize == 0 {
		p.UnitSize, p.UnitType = ParseUnitSize(raw.Name)
	}

	if p.UnitCount > 1 {
		p.PricePerUnit = round2(raw.Price / float64(p.UnitCount))
	} else {
		p.PricePerUnit = raw.Price
	}

	// Retailers that omit the volume field still deserve a display string;
	// derived purely from the liter value, never fed back into the numbers.
	if p.Volume == "" && p.LiterValue > 0 {
		if p.LiterValue < 1 {
			p.Volume = fmt.Sprintf("%dcl", int(p.LiterValue*100))
		} else {
			p.Volume = fmt.Sprintf("%.1fL", p.LiterValue)
		}
	}

	return p
}

package domain

// RawProduct represents a product exactly as a scraper extracted it,
// before any normalization. Records with an empty Name are discarded
// downstream; Price 0 means the scraper could not determine a price.
type RawProduct struct {
	Store  string  `json:"store"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Volume string  `json:"volume"`
	Image  string  `json:"image,omitempty"`
	Link   string  `json:"link,omitempty"`
}

// Product is a RawProduct annotated by the normalization engine with
// comparable per-liter and per-unit pricing. LiterValue and PricePerLiter
// are 0 when the volume could not be determined.
type Product struct {
	Store         string  `json:"store"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Volume        string  `json:"volume"`
	Image         string  `json:"image"`
	Link          string  `json:"link"`
	Logo          string  `json:"logo"`
	PricePerLiter float64 `json:"price_per_liter"`
	LiterValue    float64 `json:"liter_value"`
	UnitCount     int     `json:"unit_count"`
	UnitSize      float64 `json:"unit_size"`
	UnitType      string  `json:"unit_type"`
	PricePerUnit  float64 `json:"price_per_unit"`
}

// SourceStatus reports how a single scraper fared during one search.
type SourceStatus struct {
	Name        string  `json:"name"`
	Success     bool    `json:"success"`
	Error       string  `json:"error,omitempty"`
	Count       int     `json:"count"`
	ElapsedTime float64 `json:"elapsed_time"`
}

// SearchResult is the aggregate outcome of fanning one search term out to
// every registered scraper.
type SearchResult struct {
	Products         []Product      `json:"products"`
	ScraperStatuses  []SourceStatus `json:"scraperStatuses"`
	TotalElapsedTime float64        `json:"totalElapsedTime"`
}

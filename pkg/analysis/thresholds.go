// Package analysis derives structure from a design file's node tree: it
// detects composite visual groups, infers flex-equivalent layouts from raw
// coordinates, classifies text and imagery by heuristic pattern matching,
// and digests top-level frames into section summaries.
//
// Everything here is stateless and recomputed per run. All walks skip nodes
// with Visible set to false.
package analysis

// Thresholds are the tunable constants behind the heuristics. The defaults
// were calibrated against a corpus of real marketing and product files, not
// derived from first principles, so they are exposed for adjustment rather
// than hard-coded.
type Thresholds struct {
	// CompositeMinWidth and CompositeMinHeight bound the smallest container
	// worth flattening into a single rendered bitmap.
	CompositeMinWidth  float64 `toml:"composite_min_width"`
	CompositeMinHeight float64 `toml:"composite_min_height"`

	// OverlapRatio is the fraction of the smaller bounding box that must
	// intersect for two siblings to count as overlapping.
	OverlapRatio float64 `toml:"overlap_ratio"`

	// AlignTolerancePx and AlignToleranceFrac bound edge-alignment slack:
	// the effective tolerance is min(px, frac * parent cross dimension).
	AlignTolerancePx   float64 `toml:"align_tolerance_px"`
	AlignToleranceFrac float64 `toml:"align_tolerance_frac"`

	// ImageAreaRatio promotes images covering at least this share of their
	// section to high priority.
	ImageAreaRatio float64 `toml:"image_area_ratio"`

	// IconMaxSize is the largest edge, in pixels, for a vector shape to be
	// treated as an icon.
	IconMaxSize float64 `toml:"icon_max_size"`

	// SequenceMinRun is the shortest consecutive run of numbered siblings
	// that counts as a sequential pattern.
	SequenceMinRun int `toml:"sequence_min_run"`

	// Typography thresholds for role classification by size and weight.
	HeadingMinSize      float64 `toml:"heading_min_size"`
	HeadingMinWeight    float64 `toml:"heading_min_weight"`
	SubheadingMinSize   float64 `toml:"subheading_min_size"`
	SubheadingMinWeight float64 `toml:"subheading_min_weight"`
	CaptionMaxSize      float64 `toml:"caption_max_size"`

	// BodyMinLength is the text length above which unclassified text reads
	// as body copy rather than a label.
	BodyMinLength int `toml:"body_min_length"`

	// TypographyMax caps the deduplicated typography entries per section.
	TypographyMax int `toml:"typography_max"`
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CompositeMinWidth:   200,
		CompositeMinHeight:  200,
		OverlapRatio:        0.30,
		AlignTolerancePx:    20,
		AlignToleranceFrac:  0.05,
		ImageAreaRatio:      0.30,
		IconMaxSize:         48,
		SequenceMinRun:      3,
		HeadingMinSize:      32,
		HeadingMinWeight:    600,
		SubheadingMinSize:   24,
		SubheadingMinWeight: 500,
		CaptionMaxSize:      12,
		BodyMinLength:       100,
		TypographyMax:       4,
	}
}

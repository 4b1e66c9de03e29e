package model

import "math"

// EdgeBandingFlags marks which edges of a part receive banding. Length edges
// run along the part length (top/bottom), width edges along the part width
// (left/right).
type EdgeBandingFlags struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// HasAny reports whether any edge needs banding.
func (f EdgeBandingFlags) HasAny() bool {
	return f.Top || f.Bottom || f.Left || f.Right
}

// EdgeCount returns the number of banded edges.
func (f EdgeBandingFlags) EdgeCount() int {
	count := 0
	for _, b := range []bool{f.Top, f.Bottom, f.Left, f.Right} {
		if b {
			count++
		}
	}
	return count
}

// LinearLength returns the banding length in mm for one piece of the given
// dimensions.
func (f EdgeBandingFlags) LinearLength(length, width float64) float64 {
	var total float64
	if f.Top {
		total += length
	}
	if f.Bottom {
		total += length
	}
	if f.Left {
		total += width
	}
	if f.Right {
		total += width
	}
	return total
}

// EdgeBandingSummary holds the calculated edge banding requirements for a
// parts list.
type EdgeBandingSummary struct {
	TotalLinearMM    float64 `json:"total_linear_mm"`
	TotalLinearM     float64 `json:"total_linear_m"`
	WastePercent     float64 `json:"waste_percent"`
	TotalWithWasteMM float64 `json:"total_with_waste_mm"`
	TotalWithWasteM  float64 `json:"total_with_waste_m"`
	PartCount        int     `json:"part_count"`
	EdgeCount        int     `json:"edge_count"`
	Cost             float64 `json:"cost"`
}

// CalculateEdgeBanding computes the total edge banding for a parts list.
// settings.WastePercent is added on top; settings.CostPerMeter prices the
// total including waste.
func CalculateEdgeBanding(parts []Part, settings EdgeBandingSettings) EdgeBandingSummary {
	var totalMM float64
	var partCount, edgeCount int

	for _, p := range parts {
		if !p.EdgeBanding.HasAny() {
			continue
		}
		totalMM += p.EdgeBanding.LinearLength(p.Length, p.Width) * float64(p.Quantity)
		partCount += p.Quantity
		edgeCount += p.EdgeBanding.EdgeCount() * p.Quantity
	}

	wasteFactor := 1.0 + settings.WastePercent/100.0
	withWaste := math.Ceil(totalMM * wasteFactor)

	return EdgeBandingSummary{
		TotalLinearMM:    totalMM,
		TotalLinearM:     totalMM / 1000.0,
		WastePercent:     settings.WastePercent,
		TotalWithWasteMM: withWaste,
		TotalWithWasteM:  withWaste / 1000.0,
		PartCount:        partCount,
		EdgeCount:        edgeCount,
		Cost:             withWaste / 1000.0 * settings.CostPerMeter,
	}
}

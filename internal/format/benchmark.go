package format

// Band orders benchmark classifications from worst to best.
type Band int

const (
	BandSignificantlyBelow Band = iota - 2
	BandBelow
	BandAt
	BandAbove
	BandSignificantlyAbove
)

const significantGap = 0.2

// BenchmarkStatus is the shared five-band reading of a benchmark gap.
type BenchmarkStatus struct {
	Band        Band   `json:"band"`
	Status      string `json:"status"`      // e.g. "Above Benchmark"
	Comparative string `json:"comparative"` // e.g. "Better"
	ColorBand   string `json:"colorBand"`
}

var bandStatus = map[Band]BenchmarkStatus{
	BandSignificantlyAbove: {BandSignificantlyAbove, "Significantly Above Benchmark", "Significantly Better", "green-600"},
	BandAbove:              {BandAbove, "Above Benchmark", "Better", "green-500"},
	BandAt:                 {BandAt, "At Benchmark", "On Par", "gray-500"},
	BandBelow:              {BandBelow, "Below Benchmark", "Worse", "red-500"},
	BandSignificantlyBelow: {BandSignificantlyBelow, "Significantly Below Benchmark", "Significantly Worse", "red-600"},
}

// ClassifyBenchmarkGap maps a signed fractional gap onto the five bands:
// > 0.2, (0, 0.2], 0, [-0.2, 0), < -0.2. NaN classifies as At Benchmark.
func ClassifyBenchmarkGap(gap float64) BenchmarkStatus {
	switch {
	case gap > significantGap:
		return bandStatus[BandSignificantlyAbove]
	case gap > 0:
		return bandStatus[BandAbove]
	case gap < -significantGap:
		return bandStatus[BandSignificantlyBelow]
	case gap < 0:
		return bandStatus[BandBelow]
	default:
		return bandStatus[BandAt]
	}
}

func (b Band) String() string {
	return bandStatus[b].Status
}

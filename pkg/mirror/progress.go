package mirror

import (
	"fmt"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Progress is a completion fraction in [0, 1].
type Progress float64

// barLength is the width of the rendered progress bar in cells.
const barLength = 4

// clampProgress forces p into [0, 1]. Out-of-range values are a bug in the
// transfer callback; they're clamped and logged so a bad value can't corrupt
// the display or the folder aggregates.
func clampProgress(p float64) Progress {
	if p < 0 || p > 1 {
		log.Warnf("progress %v is not between 0 and 1", p)
		p = math.Max(0, math.Min(p, 1))
	}
	return Progress(p)
}

// String renders the progress as a fixed-width bar followed by a percentage,
// e.g. "━━╾─ 62.50%".
func (p Progress) String() string {
	filled := strings.Repeat("━", int(barLength*float64(p)))
	half := "─"
	if math.Mod(float64(p)*barLength, 1) >= 0.5 {
		half = "╾"
	}
	bar := []rune(filled + half + strings.Repeat("─", barLength))
	return fmt.Sprintf("%s %.2f%%", string(bar[:barLength]), 100*float64(p))
}

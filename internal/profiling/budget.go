package profiling

import (
	"time"

	"modelviewer/internal/logger"

	"go.uber.org/zap"
)

// Budget measures frames and reports the ones that exceed Limit together
// with the most expensive tracked sections.
type Budget struct {
	Limit time.Duration

	start  time.Time
	frames int
	slow   int
}

// NewBudget returns a budget for the given frame rate. A rate of 0 never
// reports slow frames.
func NewBudget(fps int) *Budget {
	b := &Budget{}
	if fps > 0 {
		b.Limit = time.Second / time.Duration(fps)
	}
	return b
}

// Begin starts a frame and clears the previous frame's totals.
func (b *Budget) Begin() {
	ResetFrame()
	b.start = time.Now()
}

// End closes the frame started by Begin and returns its duration.
func (b *Budget) End() time.Duration {
	d := time.Since(b.start)
	b.frames++
	if b.Limit > 0 && d > b.Limit {
		b.slow++
		logger.Log.Warn("slow frame",
			zap.Duration("frame", d),
			zap.Duration("budget", b.Limit),
			zap.String("top", TopN(3)),
		)
	}
	return d
}

// Stats returns the number of frames measured and how many ran over.
func (b *Budget) Stats() (frames, slow int) { return b.frames, b.slow }

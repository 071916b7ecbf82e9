package cmd

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progress wraps schollz/progressbar with an opt-out (enabled == false makes
// every method a no-op).
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(total int, enabled bool, description string) *progress {
	if !enabled {
		return &progress{}
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionThrottle(250 * time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	}
	if total > 0 {
		opts = append(opts,
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(true),
		)
		return &progress{bar: progressbar.NewOptions(total, opts...)}
	}
	opts = append(opts, progressbar.OptionSpinnerType(14))
	return &progress{bar: progressbar.NewOptions(-1, opts...)}
}

func (p *progress) increment() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

func (p *progress) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

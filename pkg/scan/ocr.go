package scan

import (
	"math"
	"strings"
	"time"
)

// ocrImageInfo accumulates per-image OCR context for the simple pairer.
type ocrImageInfo struct {
	imageNumber        string
	clipboardCount     int
	nameClipboardCount int
	user               string
	date               string
}

type namedAttempt struct {
	duration float64
	text     string
	start    time.Time
	end      time.Time
}

// attemptPairer reconstructs OCR attempts with the simple heuristic: an
// OCR start is paired with the next timestamped clipboard capture. At
// most one attempt is open at a time; by default a fresh start discards
// an unpaired open attempt as noise.
type attemptPairer struct {
	logFile   string
	carryOver bool

	user string
	date string

	startTime  *time.Time
	inProgress bool
	imageID    string

	images     map[string]*ocrImageInfo
	imageOrder []string

	durations map[string][]float64
	named     map[string][]namedAttempt
}

func newAttemptPairer(logFile string, carryOver bool) *attemptPairer {
	return &attemptPairer{
		logFile:   logFile,
		carryOver: carryOver,
		images:    make(map[string]*ocrImageInfo),
		durations: make(map[string][]float64),
		named:     make(map[string][]namedAttempt),
	}
}

func (p *attemptPairer) observe(matches []Match) {
	for _, m := range matches {
		switch ev := m.(type) {
		case LoginMatch:
			p.user = ev.User
			p.date = ev.Date

		case OCRStartMatch:
			if p.carryOver && p.inProgress && p.startTime != nil && p.imageID != "" {
				// Carry-over mode closes the abandoned attempt at the new
				// start instead of dropping it.
				secs := ev.Time.Sub(*p.startTime).Seconds()
				if secs < 0 {
					secs = 0
				}
				p.durations[p.imageID] = append(p.durations[p.imageID], secs)
			}
			t := ev.Time
			p.startTime = &t
			p.inProgress = true

		case OCRImageMatch:
			p.imageID = ev.ImageID
			if _, ok := p.images[ev.ImageID]; !ok {
				p.images[ev.ImageID] = &ocrImageInfo{
					imageNumber: ev.ImageNumber,
					user:        p.user,
					date:        p.date,
				}
				p.imageOrder = append(p.imageOrder, ev.ImageID)
			}

		case ClipboardMatch:
			if p.imageID != "" {
				if info, ok := p.images[p.imageID]; ok {
					info.clipboardCount++
					if len(strings.Fields(ev.Text)) >= 2 {
						info.nameClipboardCount++
					}
				}
			}
			if !ev.HasTime || !p.inProgress || p.startTime == nil || p.imageID == "" {
				continue
			}
			secs := ev.Time.Sub(*p.startTime).Seconds()
			if secs < 0 {
				secs = 0
			}
			p.durations[p.imageID] = append(p.durations[p.imageID], secs)
			if len(strings.Fields(ev.Text)) >= 2 {
				p.named[p.imageID] = append(p.named[p.imageID], namedAttempt{
					duration: secs,
					text:     ev.Text,
					start:    *p.startTime,
					end:      ev.Time,
				})
			}
			p.inProgress = false
			p.startTime = nil
		}
	}
}

// finish emits the attempt records: one detailed row per paired name
// attempt when an image has any, else one summary row with the mean and
// sum of durations. It also returns the file-wide duration totals that
// get attached to the file's sessions.
func (p *attemptPairer) finish() (attempts []OCRAttempt, totalSecs, totalNameSecs float64) {
	for _, imageID := range p.imageOrder {
		info := p.images[imageID]
		durations := p.durations[imageID]

		var sum float64
		for _, d := range durations {
			sum += d
		}
		avg := 0.0
		if len(durations) > 0 {
			avg = sum / float64(len(durations))
		}
		totalSecs += sum

		named := p.named[imageID]
		for _, item := range named {
			totalNameSecs += item.duration
		}

		if len(named) > 0 {
			for _, item := range named {
				start := item.start
				end := item.end
				attempts = append(attempts, OCRAttempt{
					User:                 info.user,
					Date:                 info.date,
					ImageID:              imageID,
					ImageNumber:          info.imageNumber,
					ClipboardCount:       info.clipboardCount,
					NameClipboardCount:   info.nameClipboardCount,
					DurationSeconds:      round2(item.duration),
					TotalDurationSeconds: round2(item.duration),
					StartTime:            &start,
					EndTime:              &end,
					Text:                 item.text,
					IsNameAttempt:        true,
					LogFile:              p.logFile,
				})
			}
			continue
		}

		attempts = append(attempts, OCRAttempt{
			User:                 info.user,
			Date:                 info.date,
			ImageID:              imageID,
			ImageNumber:          info.imageNumber,
			ClipboardCount:       info.clipboardCount,
			NameClipboardCount:   info.nameClipboardCount,
			DurationSeconds:      round2(avg),
			TotalDurationSeconds: round2(sum),
			IsNameAttempt:        false,
			LogFile:              p.logFile,
		})
	}

	return attempts, totalSecs, totalNameSecs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

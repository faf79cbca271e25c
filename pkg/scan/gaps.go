package scan

import (
	"time"

	"github.com/docuflow/workscan/pkg/parser"
)

// DefaultGapThreshold is the minimum idle span reported as a time gap.
const DefaultGapThreshold = 2 * time.Minute

// DetectGaps scans consecutive line pairs of a file and reports every
// idle span of at least threshold. A gap is only computed between two
// consecutive parseable lines; unparseable lines are skipped pairwise,
// never spanned. Gaps carry the user/date of the most recent login, which
// may be unset when a file starts mid-session.
func DetectGaps(file *parser.File, threshold time.Duration) []TimeGap {
	if threshold <= 0 {
		threshold = DefaultGapThreshold
	}

	var gaps []TimeGap
	var user, date string

	loginRE := loginPattern()

	for i := 0; i+1 < len(file.Lines); i++ {
		cur := file.Lines[i]
		if m := loginRE.FindStringSubmatch(cur.Text); m != nil {
			user = m[2]
			date = m[3]
			// A login resets the context; it never forms the left edge
			// of a gap.
			continue
		}

		next := file.Lines[i+1]
		if !cur.HasTimestamp || !next.HasTimestamp {
			continue
		}

		delta := next.Timestamp.Sub(cur.Timestamp)
		if delta < threshold {
			continue
		}

		gaps = append(gaps, TimeGap{
			User:      user,
			Date:      date,
			Start:     cur.Timestamp,
			End:       next.Timestamp,
			Duration:  delta,
			StartLine: cur.Text,
			EndLine:   next.Text,
			LogFile:   file.Name,
		})
	}

	return gaps
}

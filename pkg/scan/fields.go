package scan

// fieldTracker tallies named-field edits per (user, date). Counts are
// strictly additive and survive session closure; only a login is needed
// to give them an owner.
type fieldTracker struct {
	logFile string

	user string
	date string

	counts map[string]map[string]map[string]int // user -> date -> field
	order  []fieldKey
}

type fieldKey struct {
	user  string
	date  string
	field string
}

func newFieldTracker(logFile string) *fieldTracker {
	return &fieldTracker{
		logFile: logFile,
		counts:  make(map[string]map[string]map[string]int),
	}
}

func (t *fieldTracker) observe(matches []Match) {
	for _, m := range matches {
		switch ev := m.(type) {
		case LoginMatch:
			t.user = ev.User
			t.date = ev.Date

		case GenericUpdateMatch:
			if ev.Field == "" || t.user == "" || t.date == "" {
				continue
			}
			if _, ok := t.counts[t.user]; !ok {
				t.counts[t.user] = make(map[string]map[string]int)
			}
			if _, ok := t.counts[t.user][t.date]; !ok {
				t.counts[t.user][t.date] = make(map[string]int)
			}
			if t.counts[t.user][t.date][ev.Field] == 0 {
				t.order = append(t.order, fieldKey{t.user, t.date, ev.Field})
			}
			t.counts[t.user][t.date][ev.Field]++
		}
	}
}

func (t *fieldTracker) finish() []FieldEdit {
	edits := make([]FieldEdit, 0, len(t.order))
	for _, k := range t.order {
		edits = append(edits, FieldEdit{
			User:    k.user,
			Date:    k.date,
			Field:   k.field,
			Count:   t.counts[k.user][k.date][k.field],
			LogFile: t.logFile,
		})
	}
	return edits
}

// shortcutTracker counts shortcut presses. The whole file's tallies are
// attributed to the last login seen, matching how the workstation rotates
// one log per user per day.
type shortcutTracker struct {
	logFile string

	user string
	date string

	counts map[string]int
	order  []string
}

func newShortcutTracker(logFile string) *shortcutTracker {
	return &shortcutTracker{
		logFile: logFile,
		counts:  make(map[string]int),
	}
}

func (t *shortcutTracker) observe(matches []Match) {
	for _, m := range matches {
		switch ev := m.(type) {
		case LoginMatch:
			t.user = ev.User
			t.date = ev.Date

		case ShortcutMatch:
			if t.counts[ev.Key] == 0 {
				t.order = append(t.order, ev.Key)
			}
			t.counts[ev.Key]++
		}
	}
}

func (t *shortcutTracker) finish() []ShortcutTally {
	tallies := make([]ShortcutTally, 0, len(t.order))
	for _, key := range t.order {
		tallies = append(tallies, ShortcutTally{
			User:    t.user,
			Date:    t.date,
			Key:     key,
			Count:   t.counts[key],
			LogFile: t.logFile,
		})
	}
	return tallies
}

// imageRecordTracker associates trailing record references with the most
// recently updated image. An image update line both carries a trailing
// record id and switches the image, so it is never counted as a record
// reference itself.
type imageRecordTracker struct {
	logFile string

	user string
	date string

	currentImage string
	records      map[string]map[string]struct{}
	order        []string
}

func newImageRecordTracker(logFile string) *imageRecordTracker {
	return &imageRecordTracker{
		logFile: logFile,
		records: make(map[string]map[string]struct{}),
	}
}

func (t *imageRecordTracker) observe(matches []Match) {
	var imageMatch *ImageUpdateMatch
	var trailing *TrailingRecordMatch

	for _, m := range matches {
		switch ev := m.(type) {
		case LoginMatch:
			t.user = ev.User
			t.date = ev.Date
		case ImageUpdateMatch:
			e := ev
			imageMatch = &e
		case TrailingRecordMatch:
			e := ev
			trailing = &e
		}
	}

	if imageMatch != nil {
		t.currentImage = imageMatch.ImageID
		if _, ok := t.records[imageMatch.ImageID]; !ok {
			t.records[imageMatch.ImageID] = make(map[string]struct{})
			t.order = append(t.order, imageMatch.ImageID)
		}
		return
	}
	if trailing != nil && t.currentImage != "" {
		t.records[t.currentImage][trailing.RecordID] = struct{}{}
	}
}

func (t *imageRecordTracker) finish() []ImageRecordCount {
	counts := make([]ImageRecordCount, 0, len(t.order))
	for _, imageID := range t.order {
		counts = append(counts, ImageRecordCount{
			User:    t.user,
			Date:    t.date,
			ImageID: imageID,
			Records: len(t.records[imageID]),
			LogFile: t.logFile,
		})
	}
	return counts
}

// imageSummaryTracker counts unique and processed images per file. An
// image counts as processed once any update follows it.
type imageSummaryTracker struct {
	logFile string

	lastImage string
	unique    map[string]struct{}
	processed map[string]struct{}
}

func newImageSummaryTracker(logFile string) *imageSummaryTracker {
	return &imageSummaryTracker{
		logFile:   logFile,
		unique:    make(map[string]struct{}),
		processed: make(map[string]struct{}),
	}
}

func (t *imageSummaryTracker) observe(matches []Match) {
	var sawImage bool
	var sawUpdate bool

	for _, m := range matches {
		switch ev := m.(type) {
		case ImageUpdateMatch:
			t.unique[ev.ImageID] = struct{}{}
			t.lastImage = ev.ImageID
			sawImage = true
		case GenericUpdateMatch:
			sawUpdate = true
		}
	}

	if !sawImage && sawUpdate && t.lastImage != "" {
		t.processed[t.lastImage] = struct{}{}
	}
}

func (t *imageSummaryTracker) finish() FileImageSummary {
	return FileImageSummary{
		UserID:          userFromFilename(t.logFile),
		Date:            dateFromFilename(t.logFile),
		UniqueImages:    len(t.unique),
		ProcessedImages: len(t.processed),
	}
}

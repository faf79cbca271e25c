package scan

import "sort"

// CalculateBreaks derives the break intervals between consecutive
// sessions of the same user on the same date. It runs as a post-pass over
// the full, merged session collection; sessions without an end time
// cannot anchor a break and are excluded. Sessions on different dates
// never produce a break, even when adjacent in sort order.
func CalculateBreaks(sessions []Session) []BreakInterval {
	byUser := make(map[string][]Session)
	var users []string

	for _, s := range sessions {
		if s.EndTime == nil {
			continue
		}
		if _, ok := byUser[s.User]; !ok {
			users = append(users, s.User)
		}
		byUser[s.User] = append(byUser[s.User], s)
	}
	sort.Strings(users)

	var breaks []BreakInterval
	for _, user := range users {
		us := byUser[user]
		sort.SliceStable(us, func(i, j int) bool {
			return us[i].StartTime.Before(us[j].StartTime)
		})

		for i := 0; i+1 < len(us); i++ {
			cur, next := us[i], us[i+1]
			if cur.Date != next.Date {
				continue
			}
			gap := next.StartTime.Sub(*cur.EndTime)
			if gap <= 0 {
				continue
			}
			breaks = append(breaks, BreakInterval{
				User:     user,
				Date:     cur.Date,
				Start:    *cur.EndTime,
				End:      next.StartTime,
				Duration: gap,
				LogFile:  cur.LogFile,
			})
		}
	}

	return breaks
}

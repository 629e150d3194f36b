package mind

import "time"

// TimeBucket is a coarse time-of-day segment for proactive suggestions.
type TimeBucket string

const (
	BucketMorning TimeBucket = "morning" // 05:00-11:59
	BucketWorkday TimeBucket = "workday" // 12:00-16:59
	BucketEvening TimeBucket = "evening" // 17:00-21:59
	BucketNight   TimeBucket = "night"   // 22:00-04:59
)

// BucketFor maps wall-clock time to its bucket.
func BucketFor(t time.Time) TimeBucket {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return BucketMorning
	case h >= 12 && h < 17:
		return BucketWorkday
	case h >= 17 && h < 22:
		return BucketEvening
	default:
		return BucketNight
	}
}

// GetSuggestions returns ranked proactive suggestions for the given time
// and mood. Pure function, no side effects; callers decide whether and
// when to surface them. Mood-driven suggestions rank first: frustration
// always gets help and break, confusion always gets clarification and
// step_by_step, regardless of time of day.
func GetSuggestions(now time.Time, mood MoodType) []Suggestion {
	var out []Suggestion

	switch mood {
	case MoodFrustrated:
		out = append(out,
			Suggestion{Type: "help", Text: "Want me to walk you through what went wrong?"},
			Suggestion{Type: "break", Text: "This seems frustrating. A short break might help."},
		)
	case MoodConfused:
		out = append(out,
			Suggestion{Type: "clarification", Text: "Should I rephrase that or give more detail?"},
			Suggestion{Type: "step_by_step", Text: "I can break this down into smaller steps."},
		)
	case MoodTired:
		out = append(out,
			Suggestion{Type: "break", Text: "You sound tired. Want to wrap up for now?"},
		)
	}

	switch BucketFor(now) {
	case BucketMorning:
		out = append(out,
			Suggestion{Type: "morning_briefing", Text: "Good morning! Want a rundown of today's calendar and reminders?"},
		)
	case BucketWorkday:
		out = append(out,
			Suggestion{Type: "focus", Text: "Midday check: want me to silence notifications for a focus block?"},
		)
	case BucketEvening:
		out = append(out,
			Suggestion{Type: "end_of_day", Text: "Winding down? I can summarize what we got done today."},
		)
	case BucketNight:
		out = append(out,
			Suggestion{Type: "wind_down", Text: "It's late. Want me to set things up for tomorrow morning?"},
		)
	}

	return out
}

package analytics

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"algotix/internal/storage"
)

// DailyStats aggregates one UTC day of assistant interactions.
type DailyStats struct {
	Date           string                 `json:"date"`
	ChatMessages   int                    `json:"chat_messages"`
	Insights       int                    `json:"insights"`
	Failures       int                    `json:"failures"`
	UniqueSessions int                    `json:"unique_sessions"`
	Sessions       map[int64]SessionStats `json:"sessions"`
}

type SessionStats struct {
	SessionID int64 `json:"session_id"`
	Messages  int   `json:"messages"`
	Failures  int   `json:"failures"`
}

// AnalyzeDay counts the events that fall within targetDate.
func AnalyzeDay(events []storage.Event, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	stats := &DailyStats{
		Date:     startOfDay.Format("2006-01-02"),
		Sessions: make(map[int64]SessionStats),
	}

	for _, ev := range events {
		if ev.Timestamp.Before(startOfDay) || !ev.Timestamp.Before(endOfDay) {
			continue
		}
		if ev.Failed {
			stats.Failures++
		}
		switch ev.Kind {
		case storage.KindInsight:
			stats.Insights++
		case storage.KindChat:
			stats.ChatMessages++
			s, ok := stats.Sessions[ev.SessionID]
			if !ok {
				s = SessionStats{SessionID: ev.SessionID}
			}
			s.Messages++
			if ev.Failed {
				s.Failures++
			}
			stats.Sessions[ev.SessionID] = s
		}
	}

	stats.UniqueSessions = len(stats.Sessions)
	return stats
}

// Summary renders the stats as a short plain-text report.
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "AlgoTix assistant usage for %s:\n\n", ds.Date)
	fmt.Fprintf(&b, "- Chat messages: %d\n", ds.ChatMessages)
	fmt.Fprintf(&b, "- Event insights: %d\n", ds.Insights)
	fmt.Fprintf(&b, "- Failed calls: %d\n", ds.Failures)
	fmt.Fprintf(&b, "- Unique chat sessions: %d\n", ds.UniqueSessions)

	if len(ds.Sessions) == 0 {
		return b.String()
	}
	ids := make([]int64, 0, len(ds.Sessions))
	for id := range ds.Sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	b.WriteString("\nSessions:\n")
	for _, id := range ids {
		s := ds.Sessions[id]
		fmt.Fprintf(&b, "- %d: %d messages", id, s.Messages)
		if s.Failures > 0 {
			fmt.Fprintf(&b, ", %d failed", s.Failures)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (ds *DailyStats) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Package report aggregates a finished session into the summary consumed by
// the export and presentation layers. The aggregator performs no I/O.
package report

import (
	"wifiscout/internal/survey"
)

// Summary partitions a session's connection attempts and counts outcomes.
// Both partitions preserve the original test order.
type Summary struct {
	Tested         int
	Succeeded      int
	Failed         int
	Working        []survey.Attempt
	NonWorking     []survey.Attempt
	NotAttempted   []string
	SkippedRecords int

	NetworkCount int
	OpenCount    int
	DeviceCount  int
	BandCounts   map[survey.Band]int
}

// Build computes the summary for one session.
func Build(session *survey.Session) *Summary {
	s := &Summary{
		Tested:         len(session.Attempts),
		NotAttempted:   session.NotAttempted,
		SkippedRecords: session.SkippedRecords,
		NetworkCount:   len(session.Networks),
		DeviceCount:    len(session.Devices),
		BandCounts:     make(map[survey.Band]int),
	}

	for i := range session.Networks {
		n := &session.Networks[i]
		s.BandCounts[n.Band]++
		if n.IsOpen() {
			s.OpenCount++
		}
	}

	for i := range session.Attempts {
		a := session.Attempts[i]
		if a.Success {
			s.Succeeded++
			s.Working = append(s.Working, a)
		} else {
			s.Failed++
			s.NonWorking = append(s.NonWorking, a)
		}
	}

	return s
}

// SuccessRate returns the fraction of successful attempts, or zero when
// nothing was tested.
func (s *Summary) SuccessRate() float64 {
	if s.Tested == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Tested)
}

package model

import (
	"fmt"
	"math"
)

// Axis selects which interaction field a stats trigger inspects.
type Axis string

const (
	AxisType     Axis = "type"
	AxisFeedback Axis = "feedback"
)

// Counter names one of the Stats counters.
type Counter string

const (
	CounterColdCalls              Counter = "coldCalls"
	CounterEmailsSent             Counter = "emailsSent"
	CounterLinkedInMessages       Counter = "linkedinMessages"
	CounterSuccessfulInteractions Counter = "successfulInteractions"
)

// StatTrigger increments Counter when the interaction's Axis field equals Value.
type StatTrigger struct {
	Axis    Axis    `json:"axis" mapstructure:"axis"`
	Value   string  `json:"value" mapstructure:"value"`
	Counter Counter `json:"counter" mapstructure:"counter"`
}

// DefaultStatTriggers mirrors the historical counter rules. "Cold Call" and
// "LinkedIn Message" are not offered by the interaction form, so coldCalls and
// linkedinMessages only move for imported or legacy data unless reconfigured.
func DefaultStatTriggers() []StatTrigger {
	return []StatTrigger{
		{Axis: AxisType, Value: string(TypeColdCall), Counter: CounterColdCalls},
		{Axis: AxisType, Value: string(TypeEmail), Counter: CounterEmailsSent},
		{Axis: AxisType, Value: string(TypeLinkedInMessage), Counter: CounterLinkedInMessages},
		{Axis: AxisFeedback, Value: string(FeedbackBookNextMeeting), Counter: CounterSuccessfulInteractions},
	}
}

// Valid reports whether the trigger names a known axis and counter.
func (t StatTrigger) Valid() bool {
	switch t.Axis {
	case AxisType, AxisFeedback:
	default:
		return false
	}
	switch t.Counter {
	case CounterColdCalls, CounterEmailsSent, CounterLinkedInMessages, CounterSuccessfulInteractions:
		return true
	}
	return false
}

// Increment bumps the named counter by one.
func (s *Stats) Increment(c Counter) {
	switch c {
	case CounterColdCalls:
		s.ColdCalls++
	case CounterEmailsSent:
		s.EmailsSent++
	case CounterLinkedInMessages:
		s.LinkedInMessages++
	case CounterSuccessfulInteractions:
		s.SuccessfulInteractions++
	}
}

// StatsSummary is the stats view: raw counters plus derived totals.
type StatsSummary struct {
	Stats
	TotalInteractions int
	// SuccessRate is a percentage, unrounded.
	SuccessRate float64
}

// Summarize derives the total and success rate from the counters.
func Summarize(s Stats) StatsSummary {
	total := s.ColdCalls + s.EmailsSent + s.LinkedInMessages
	summary := StatsSummary{Stats: s, TotalInteractions: total}
	if total > 0 {
		summary.SuccessRate = float64(s.SuccessfulInteractions) / float64(total) * 100
	}
	return summary
}

// SuccessRateLabel formats the rate with two decimals, or "0" when nothing was counted.
func (s StatsSummary) SuccessRateLabel() string {
	if s.TotalInteractions == 0 {
		return "0"
	}
	return fmt.Sprintf("%.2f", math.Round(s.SuccessRate*100)/100)
}

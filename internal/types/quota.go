package types

import "time"

// QuotaState tracks one provider's monthly usage counter. It is the sole
// piece of mutable process-spanning state; the quota tracker persists it
// between runs.
type QuotaState struct {
	Limit     int       `json:"limit"`
	Used      int       `json:"used"`
	ResetDate time.Time `json:"reset_date"`
}

// Remaining returns the number of calls left in the current period.
func (q QuotaState) Remaining() int {
	if q.Used >= q.Limit {
		return 0
	}
	return q.Limit - q.Used
}

// QuotaStatus is a read-only snapshot of one provider's quota for display.
type QuotaStatus struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

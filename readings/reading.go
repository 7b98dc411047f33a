package readings

import (
	"fmt"
	"time"
)

// Reading is one sensor sample sent by a hive's monitoring device
type Reading struct {
	ID            int64     `json:"id"`
	HiveID        int64     `json:"hive_id"`
	Hornets       int       `json:"hornets"`
	BeesIn        int       `json:"bees_in"`
	BeesOut       int       `json:"bees_out"`
	Temperature   *float64  `json:"temperature"`
	Humidity      *float64  `json:"humidity"`
	BeeState      string    `json:"bee_state,omitempty"`
	AcousticState string    `json:"acoustic_state,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Validate rejects negative counters and out-of-range humidity
func (r *Reading) Validate() error {
	if r.Hornets < 0 || r.BeesIn < 0 || r.BeesOut < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if r.Humidity != nil && (*r.Humidity < 0 || *r.Humidity > 100) {
		return fmt.Errorf("humidity must be between 0 and 100")
	}
	return nil
}

// HiveLatest is a dashboard row: a hive with its most recent reading, if any
type HiveLatest struct {
	HiveID   int64    `json:"hive_id"`
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"`
	Latest   *Reading `json:"latest"`
}

// Totals sums hornet and bee traffic over a time window
type Totals struct {
	Hornets int
	Bees    int
}

// HornetRatio returns hornets as a percentage of bee traffic. With no bees the ratio is
// 100 when any hornet was seen and 0 otherwise.
func (t Totals) HornetRatio() float64 {
	if t.Bees > 0 {
		return float64(t.Hornets) / float64(t.Bees) * 100
	}
	if t.Hornets > 0 {
		return 100
	}
	return 0
}

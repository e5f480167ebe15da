package analysis

import (
	"time"

	"tricoach/internal/store"
)

// RaceDistance identifies one of the standard running race distances.
type RaceDistance string

const (
	Race5K       RaceDistance = "5k"
	Race10K      RaceDistance = "10k"
	RaceHalf     RaceDistance = "half"
	RaceMarathon RaceDistance = "marathon"
)

// RaceDistanceKM gives the official distance of each race in kilometers.
var RaceDistanceKM = map[RaceDistance]float64{
	Race5K:       5,
	Race10K:      10,
	RaceHalf:     21.0975,
	RaceMarathon: 42.195,
}

// distanceBucket is the whole-activity distance range that qualifies a run
// as an effort at a given race distance. Buckets are deliberately wider
// than strict race tolerance so training runs count too.
type distanceBucket struct {
	race   RaceDistance
	minKM  float64
	maxKM  float64
}

var distanceBuckets = []distanceBucket{
	{Race5K, 4.5, 5.5},
	{Race10K, 9.5, 10.5},
	{RaceHalf, 20, 22},
	{RaceMarathon, 40, 44},
}

// BestEffort is the fastest whole run matching a race distance bucket.
type BestEffort struct {
	Race       RaceDistance
	ActivityID int64
	Name       string
	Date       time.Time
	DistanceKM float64
	Seconds    int
	PacePerKM  float64 // seconds per km
}

// BestEfforts scans runs for the fastest activity in each race distance
// bucket. Only distances that have at least one qualifying run appear in
// the result.
func BestEfforts(activities []store.Activity) map[RaceDistance]BestEffort {
	efforts := make(map[RaceDistance]BestEffort)

	for _, a := range activities {
		if NormalizeSport(a.Type) != SportRun {
			continue
		}
		if a.Distance <= 0 || a.MovingTime <= 0 {
			continue
		}
		km := a.Distance / 1000

		for _, b := range distanceBuckets {
			if km < b.minKM || km > b.maxKM {
				continue
			}
			best, ok := efforts[b.race]
			// Fastest overall time wins the bucket, not fastest pace. A
			// short slow run must not displace a quicker full-distance one.
			if !ok || a.MovingTime < best.Seconds {
				efforts[b.race] = BestEffort{
					Race:       b.race,
					ActivityID: a.ID,
					Name:       a.Name,
					Date:       a.StartDateLocal,
					DistanceKM: km,
					Seconds:    a.MovingTime,
					PacePerKM:  float64(a.MovingTime) / km,
				}
			}
			break
		}
	}

	return efforts
}

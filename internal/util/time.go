package util

import "time"

var pacificLocation *time.Location

func init() {
	var err error
	pacificLocation, err = time.LoadLocation("America/Los_Angeles")
	if err != nil {
		pacificLocation = time.FixedZone("PT", -8*60*60)
	}
}

// NextPacificMidnight returns the next midnight in US Pacific time after now,
// which is when the YouTube Data API quota resets.
func NextPacificMidnight(now time.Time) time.Time {
	pt := now.In(pacificLocation)
	return time.Date(pt.Year(), pt.Month(), pt.Day()+1, 0, 0, 0, 0, pacificLocation)
}

package projection

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/hy4ri/taskboard/internal/api"
)

// testLoc is west of UTC so that UTC timestamps after midnight fall on the
// previous local day.
var testLoc = time.FixedZone("UTC-5", -5*60*60)

// midnightDSTZones start daylight saving at 00:00, so that local midnight
// does not exist on the switch day.
var midnightDSTZones = []string{"America/Santiago", "Asia/Beirut", "America/Havana"}

func loadZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load %s: %v", name, err)
	}
	return loc
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func ids(tasks []api.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// dueIn formats a date-only due string offset by days from now's calendar day.
func dueIn(now time.Time, days int) *string {
	return strPtr(now.AddDate(0, 0, days).Format(DateKeyLayout))
}

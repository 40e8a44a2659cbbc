package stores

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var hoursPattern = regexp.MustCompile(`(\d{1,2})h(\d{2})\s*-\s*(\d{1,2})h(\d{2})`)

// IsOpen reports whether a store with the given opening hours ("9h00 - 20h00") is open at now.
// Hours that cannot be parsed count as open.
func IsOpen(hours string, now time.Time) bool {
	m := hoursPattern.FindStringSubmatch(hours)
	if m == nil {
		return true
	}
	open := minutesOf(m[1], m[2])
	closing := minutesOf(m[3], m[4])
	current := now.Hour()*60 + now.Minute()
	return current >= open && current < closing
}

func minutesOf(h, m string) int {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	return hh*60 + mm
}

// PhoneLink returns a tel: URI with whitespace removed.
func PhoneLink(phone string) string {
	return "tel:" + strings.Join(strings.Fields(phone), "")
}

// MapsLink returns a Google Maps directions URL to c.
func MapsLink(c Coordinates) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%s,%s",
		strconv.FormatFloat(c.Latitude, 'f', -1, 64), strconv.FormatFloat(c.Longitude, 'f', -1, 64))
}

// Zone is the local time zone of the stores. It falls back to a fixed UTC+1 offset when tzdata is unavailable.
func Zone() *time.Location {
	loc, err := time.LoadLocation("Africa/Casablanca")
	if err != nil {
		return time.FixedZone("WET+1", 60*60)
	}
	return loc
}

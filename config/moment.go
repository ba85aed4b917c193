/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"fmt"
	"regexp"
	"strconv"
)

// World time is measured in ticks. A world day lasts TicksPerDay ticks and
// tick 0 is 06:00.
const (
	TicksPerDay  = 24000
	TicksPerHour = TicksPerDay / 24
)

// Moment is a point in the world day: a named moment, a HH:MM clock time or
// a raw tick count.
type Moment string

// Named moments.
const (
	MomentDay      Moment = "day"
	MomentNoon     Moment = "noon"
	MomentSunset   Moment = "sunset"
	MomentNight    Moment = "night"
	MomentMidnight Moment = "midnight"
	MomentSunrise  Moment = "sunrise"
)

var namedMoments = map[Moment]int{
	MomentDay:      1000,
	MomentNoon:     6000,
	MomentSunset:   12000,
	MomentNight:    13000,
	MomentMidnight: 18000,
	MomentSunrise:  23000,
}

var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// Ticks converts m to a tick of the world day, in [0, TicksPerDay).
func (m Moment) Ticks() (int, error) {
	if t, ok := namedMoments[m]; ok {
		return t, nil
	}

	if match := clockPattern.FindStringSubmatch(string(m)); match != nil {
		hour, _ := strconv.Atoi(match[1])
		minute, _ := strconv.Atoi(match[2])
		if hour > 23 || minute > 59 {
			return 0, fmt.Errorf("invalid clock time %q", m)
		}
		return ((hour+18)%24)*TicksPerHour + minute*TicksPerHour/60, nil
	}

	ticks, err := strconv.Atoi(string(m))
	if err != nil {
		return 0, fmt.Errorf("invalid moment %q: expected a name, HH:MM or ticks", m)
	}
	return ((ticks % TicksPerDay) + TicksPerDay) % TicksPerDay, nil
}

// Valid reports whether m can be converted to ticks.
func (m Moment) Valid() bool {
	_, err := m.Ticks()
	return err == nil
}

// Active reports whether tick falls inside the war window. A window whose
// end precedes its start wraps around midnight; an empty window is never
// active.
func (w WarTime) Active(tick int) bool {
	start, err := w.Start.Ticks()
	if err != nil {
		return false
	}
	end, err := w.End.Ticks()
	if err != nil {
		return false
	}
	tick = ((tick % TicksPerDay) + TicksPerDay) % TicksPerDay

	if start <= end {
		return start <= tick && tick < end
	}
	return tick >= start || tick < end
}

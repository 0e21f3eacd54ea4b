// Package antenna converts GPS times and computes detector antenna
// factors for a sky location. These are fixed domain formulas; the
// workflow treats them as leaf calculations.
package antenna

import "time"

// gpsEpoch is 1980-01-06T00:00:00 UTC, when GPS time began with zero
// offset from UTC.
var gpsEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// leapGPS lists the GPS seconds at which a leap second was inserted,
// i.e. where GPS-UTC increments by one.
var leapGPS = []int64{
	46828800,   // 1981-07-01
	78364801,   // 1982-07-01
	109900802,  // 1983-07-01
	173059203,  // 1985-07-01
	252028804,  // 1988-01-01
	315187205,  // 1990-01-01
	346723206,  // 1991-01-01
	393984007,  // 1992-07-01
	425520008,  // 1993-07-01
	457056009,  // 1994-07-01
	504489610,  // 1996-01-01
	551750411,  // 1997-07-01
	599184012,  // 1999-01-01
	820108813,  // 2006-01-01
	914803214,  // 2009-01-01
	1025136015, // 2012-07-01
	1119744016, // 2015-07-01
	1167264017, // 2017-01-01
}

// LeapSeconds returns the accumulated GPS-UTC offset at a GPS time.
func LeapSeconds(gps int64) int64 {
	var offset int64
	for _, leap := range leapGPS {
		if gps >= leap {
			offset++
		}
	}
	return offset
}

// GPSToUTC converts a GPS time to UTC.
func GPSToUTC(gps int64) time.Time {
	return gpsEpoch.Add(time.Duration(gps-LeapSeconds(gps)) * time.Second)
}

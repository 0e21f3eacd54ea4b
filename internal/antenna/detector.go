package antenna

import (
	"fmt"
	"math"
	"sort"
)

// Detector describes a ground-based interferometer site: geodetic
// position in radians and arm azimuths measured counter-clockwise
// from local East.
type Detector struct {
	Name      string
	Latitude  float64
	Longitude float64
	XAzimuth  float64
	YAzimuth  float64
}

var detectors = map[string]Detector{
	"H1": {Name: "H1", Latitude: 0.81079526, Longitude: -2.08405676, XAzimuth: 2.199104, YAzimuth: 3.769901},
	"L1": {Name: "L1", Latitude: 0.53342314, Longitude: -1.58430937, XAzimuth: 3.451253, YAzimuth: 5.022050},
	"V1": {Name: "V1", Latitude: 0.76151183, Longitude: 0.18333805, XAzimuth: 0.339238, YAzimuth: 1.910035},
	"K1": {Name: "K1", Latitude: 0.63742247, Longitude: 2.39642463, XAzimuth: 1.054113, YAzimuth: 2.624910},
	"G1": {Name: "G1", Latitude: 0.91184982, Longitude: 0.17116780, XAzimuth: 2.022115, YAzimuth: 3.592912},
}

// Lookup returns the detector description for an interferometer ID.
func Lookup(ifo string) (Detector, error) {
	d, ok := detectors[ifo]
	if !ok {
		return Detector{}, fmt.Errorf("unknown interferometer: %s", ifo)
	}
	return d, nil
}

// KnownIfos returns the supported interferometer IDs in sorted order.
func KnownIfos() []string {
	ifos := make([]string, 0, len(detectors))
	for ifo := range detectors {
		ifos = append(ifos, ifo)
	}
	sort.Strings(ifos)
	return ifos
}

// armVector is the unit vector of an arm with the given azimuth in the
// Earth-fixed frame.
func (d Detector) armVector(azimuth float64) [3]float64 {
	east := [3]float64{-math.Sin(d.Longitude), math.Cos(d.Longitude), 0}
	north := [3]float64{
		-math.Sin(d.Latitude) * math.Cos(d.Longitude),
		-math.Sin(d.Latitude) * math.Sin(d.Longitude),
		math.Cos(d.Latitude),
	}
	var arm [3]float64
	for i := 0; i < 3; i++ {
		arm[i] = math.Cos(azimuth)*east[i] + math.Sin(azimuth)*north[i]
	}
	return arm
}

// responseTensor is D = (u⊗u − v⊗v)/2 for arm unit vectors u, v.
func (d Detector) responseTensor() [3][3]float64 {
	u := d.armVector(d.XAzimuth)
	v := d.armVector(d.YAzimuth)
	var resp [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			resp[i][j] = (u[i]*u[j] - v[i]*v[j]) / 2
		}
	}
	return resp
}

// gmst returns the Greenwich mean sidereal time in radians at a GPS
// time, using the IAU 1982 approximation.
func gmst(gps int64) float64 {
	utc := GPSToUTC(gps)
	// Julian date of the UTC instant.
	jd := 2440587.5 + float64(utc.Unix())/86400.0
	// Centuries since J2000.0, from the preceding midnight.
	jd0 := math.Floor(jd-0.5) + 0.5
	t := (jd0 - 2451545.0) / 36525.0
	// Seconds of day past midnight.
	ut := (jd - jd0) * 86400.0

	gmst0 := 24110.54841 + 8640184.812866*t + 0.093104*t*t - 6.2e-6*t*t*t
	gmstSec := gmst0 + 1.00273790935*ut
	gmstSec = math.Mod(gmstSec, 86400.0)
	if gmstSec < 0 {
		gmstSec += 86400.0
	}
	return gmstSec * 2 * math.Pi / 86400.0
}

// Pattern computes the plus and cross antenna factors of a detector
// for a source at (ra, dec) radians with polarization angle psi at a
// GPS time.
func (d Detector) Pattern(ra, dec, psi float64, gps int64) (fplus, fcross float64) {
	gha := gmst(gps) - ra

	cosGHA, sinGHA := math.Cos(gha), math.Sin(gha)
	cosDec, sinDec := math.Cos(dec), math.Sin(dec)
	cosPsi, sinPsi := math.Cos(psi), math.Sin(psi)

	x := [3]float64{
		-cosPsi*sinGHA - sinPsi*cosGHA*sinDec,
		-cosPsi*cosGHA + sinPsi*sinGHA*sinDec,
		sinPsi * cosDec,
	}
	y := [3]float64{
		sinPsi*sinGHA - cosPsi*cosGHA*sinDec,
		sinPsi*cosGHA + cosPsi*sinGHA*sinDec,
		cosPsi * cosDec,
	}

	resp := d.responseTensor()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			fplus += x[i]*resp[i][j]*x[j] - y[i]*resp[i][j]*y[j]
			fcross += x[i]*resp[i][j]*y[j] + y[i]*resp[i][j]*x[j]
		}
	}
	return fplus, fcross
}

// Factor is the root-sum-square antenna response used in the summary
// table: sqrt(F+² + F×²) at zero polarization angle.
func Factor(ifo string, ra, dec float64, gps int64) (float64, error) {
	d, err := Lookup(ifo)
	if err != nil {
		return 0, err
	}
	fp, fc := d.Pattern(ra, dec, 0, gps)
	return math.Sqrt(fp*fp + fc*fc), nil
}

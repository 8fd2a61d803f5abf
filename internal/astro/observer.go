package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// Simplified sidereal clock: GST = gstAtYearStart + gstPerDay·days.
const (
	gstAtYearStart = 18.697374558
	gstPerDay      = 24.06570982441908
)

// ObserverState is an observer's location plus the direction a device is
// pointing, as pushed by the sensor feed.
type ObserverState struct {
	LatDeg      float64 // north positive
	LonDeg      float64 // east positive
	AzimuthDeg  float64 // 0 = north, clockwise
	AltitudeDeg float64 // 0 = horizon, 90 = zenith
}

// DeviceOrientation is a raw orientation sample.
type DeviceOrientation struct {
	AlphaDeg float64 // compass heading
	BetaDeg  float64 // pitch
	GammaDeg float64 // roll
}

// OrientationToHorizontal turns a device orientation into altitude/azimuth.
// Pitch -90..+90 becomes altitude 0..180; roll is ignored.
func OrientationToHorizontal(o DeviceOrientation) (altDeg, azDeg float64) {
	azDeg = NormalizeDegrees(o.AlphaDeg + 360)
	altDeg = o.BetaDeg + 90
	return altDeg, azDeg
}

// LocalSiderealTimeHours returns a simplified local sidereal time in [0, 24).
//
// Only whole days since the start of t's UTC year enter the formula; the
// value is good enough for pointing a camera, not for astrometry.
func LocalSiderealTimeHours(t time.Time, lonDeg float64) float64 {
	t = t.UTC()
	yearStart := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := math.Floor(float64(t.Sub(yearStart).Milliseconds()) / 86400000)

	gst := gstAtYearStart + gstPerDay*days
	return NormalizeHours(gst + lonDeg/15)
}

// MeanLocalSiderealTimeHours returns the IAU mean local sidereal time in [0, 24).
func MeanLocalSiderealTimeHours(t time.Time, lonDeg float64) float64 {
	gmst := sidereal.Mean(JulianDay(t))
	return NormalizeHours(gmst.Hour() + lonDeg/15)
}

// JulianDay returns the Julian day number of t.
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// HourAngleDeg converts a horizontal direction to an hour angle in degrees.
func HourAngleDeg(latDeg, altDeg, azDeg float64) float64 {
	lat := degToRad(latDeg)
	alt := degToRad(altDeg)
	az := degToRad(azDeg)

	return radToDeg(math.Atan2(
		math.Sin(az),
		math.Cos(az)*math.Sin(lat)+math.Tan(alt)*math.Cos(lat),
	))
}

// DeclinationDeg converts a horizontal direction to a declination in degrees.
// At the zenith (alt = 90) the declination equals the latitude.
func DeclinationDeg(latDeg, altDeg, azDeg float64) float64 {
	lat := degToRad(latDeg)
	alt := degToRad(altDeg)
	az := degToRad(azDeg)

	sinDec := math.Sin(lat)*math.Sin(alt) - math.Cos(lat)*math.Cos(alt)*math.Cos(az)
	return radToDeg(math.Asin(Clamp(sinDec, -1, 1)))
}

// RightAscensionHours converts a horizontal direction seen at time t to a
// right ascension in [0, 24).
func RightAscensionHours(t time.Time, lonDeg, latDeg, altDeg, azDeg float64) float64 {
	lst := LocalSiderealTimeHours(t, lonDeg)
	ha := HourAngleDeg(latDeg, altDeg, azDeg)
	return NormalizeHours((lst*15 + ha) / 15)
}

// Pointing returns the sky coordinate an observer's device faces at time t.
func Pointing(t time.Time, obs ObserverState) EquatorialCoord {
	return EquatorialCoord{
		RAHours: RightAscensionHours(t, obs.LonDeg, obs.LatDeg, obs.AltitudeDeg, obs.AzimuthDeg),
		DecDeg:  DeclinationDeg(obs.LatDeg, obs.AltitudeDeg, obs.AzimuthDeg),
	}
}

// upRef is the reference up-vector for relative azimuth.
var upRef = Vec3{X: 0, Y: 0, Z: 1}

// AzimuthFromVectors estimates a heading in [0, 360) from a gravity vector
// and a second sensor reading (e.g. the magnetometer).
//
// It measures the angle between gravity×up and gravity×reading instead of
// calibrating against magnetic north. The angle is unsigned, so headings
// mirror around the reference. Degenerate vectors yield NaN.
func AzimuthFromVectors(gravity, reading Vec3) float64 {
	ref := gravity.Cross(upRef)
	dir := gravity.Cross(reading)

	cos := ref.Dot(dir) / (ref.Norm() * dir.Norm())
	if math.IsNaN(cos) {
		return math.NaN()
	}
	return NormalizeDegrees(radToDeg(math.Acos(Clamp(cos, -1, 1))))
}

// HorizontalFromEquatorial returns the altitude and azimuth of an equatorial
// direction for an observer at time t, using the IAU mean sidereal time.
func HorizontalFromEquatorial(eq EquatorialCoord, latDeg, lonDeg float64, t time.Time) (altDeg, azDeg float64) {
	lat := degToRad(latDeg)
	dec := degToRad(eq.DecDeg)
	lst := MeanLocalSiderealTimeHours(t, lonDeg)
	ha := degToRad((lst - eq.RAHours) * 15)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(Clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(Clamp(cosAz, -1, 1))

	// West of the meridian when the hour angle is positive
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return radToDeg(alt), NormalizeDegrees(radToDeg(az))
}

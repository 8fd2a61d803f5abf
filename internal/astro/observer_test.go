package astro

import (
	"math"
	"testing"
	"time"
)

func TestLocalSiderealTimeHours_Range(t *testing.T) {
	ts := time.Date(2024, 7, 19, 3, 15, 0, 0, time.UTC)
	for lon := -180.0; lon <= 180; lon += 7.5 {
		got := LocalSiderealTimeHours(ts, lon)
		if got < 0 || got >= 24 {
			t.Errorf("LST(lon=%v) = %v, outside [0, 24)", lon, got)
		}
	}
}

func TestLocalSiderealTimeHours_Values(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		lon  float64
		want float64
	}{
		{"year start", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0, 18.697374558},
		{"same day later", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), 0, 18.697374558},
		{"one day in", time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC), 0, math.Mod(18.697374558+24.06570982441908, 24)},
		{"east 15°", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 15, 19.697374558},
		{"west 90°", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -90, 12.697374558},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalSiderealTimeHours(tt.t, tt.lon)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LST = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocalSiderealTimeHours_ZoneIndependent(t *testing.T) {
	utc := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("UTC+9", 9*3600))

	if a, b := LocalSiderealTimeHours(utc, 10), LocalSiderealTimeHours(local, 10); a != b {
		t.Errorf("LST depends on zone: %v vs %v", a, b)
	}
}

func TestDeclinationDeg_Zenith(t *testing.T) {
	for _, lat := range []float64{-60, -12.5, 0, 45, 89} {
		for _, az := range []float64{0, 90, 233} {
			got := DeclinationDeg(lat, 90, az)
			if math.Abs(got-lat) > 1e-9 {
				t.Errorf("DeclinationDeg(lat=%v, alt=90, az=%v) = %v, want %v", lat, az, got, lat)
			}
		}
	}
}

func TestDeclinationDeg_Range(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 30 {
		for alt := -10.0; alt <= 90; alt += 20 {
			for az := 0.0; az < 360; az += 45 {
				got := DeclinationDeg(lat, alt, az)
				if got < -90 || got > 90 || math.IsNaN(got) {
					t.Errorf("DeclinationDeg(%v, %v, %v) = %v", lat, alt, az, got)
				}
			}
		}
	}
}

func TestDeclinationDeg_NorthPoleObserver(t *testing.T) {
	// From the pole, altitude equals declination.
	if got := DeclinationDeg(90, 30, 120); math.Abs(got-30) > 1e-9 {
		t.Errorf("DeclinationDeg(90, 30, 120) = %v, want 30", got)
	}
}

func TestHourAngleDeg(t *testing.T) {
	// Due east on the horizon from the equator is 90° of hour angle.
	if got := HourAngleDeg(0, 0, 90); math.Abs(got-90) > 1e-9 {
		t.Errorf("HourAngleDeg(0, 0, 90) = %v, want 90", got)
	}
	if got := HourAngleDeg(30, 20, 0); math.Abs(got) > 1e-9 {
		t.Errorf("HourAngleDeg(az=0) = %v, want 0", got)
	}
}

func TestRightAscensionHours(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	got := RightAscensionHours(ts, 0, 0, 0, 90)
	want := math.Mod(18.697374558+6, 24)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("RightAscensionHours = %v, want %v", got, want)
	}
}

func TestPointing_Zenith(t *testing.T) {
	ts := time.Date(2025, 5, 4, 21, 0, 0, 0, time.UTC)
	obs := ObserverState{LatDeg: 51.5, LonDeg: -0.1, AzimuthDeg: 0, AltitudeDeg: 90}

	eq := Pointing(ts, obs)
	if math.Abs(eq.DecDeg-51.5) > 1e-9 {
		t.Errorf("Dec = %v, want 51.5", eq.DecDeg)
	}
	if eq.RAHours < 0 || eq.RAHours >= 24 {
		t.Errorf("RA = %v, outside [0, 24)", eq.RAHours)
	}
}

func TestOrientationToHorizontal(t *testing.T) {
	tests := []struct {
		name    string
		o       DeviceOrientation
		alt, az float64
	}{
		{"flat facing north", DeviceOrientation{0, 0, 0}, 90, 0},
		{"negative heading", DeviceOrientation{-30, 0, 0}, 90, 330},
		{"pitched down", DeviceOrientation{90, -90, 5}, 0, 90},
		{"pitched up", DeviceOrientation{180, 45, 0}, 135, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alt, az := OrientationToHorizontal(tt.o)
			if math.Abs(alt-tt.alt) > 1e-9 || math.Abs(az-tt.az) > 1e-9 {
				t.Errorf("got alt=%v az=%v, want alt=%v az=%v", alt, az, tt.alt, tt.az)
			}
		})
	}
}

func TestAzimuthFromVectors(t *testing.T) {
	gravity := Vec3{0, -1, 0}

	tests := []struct {
		name    string
		reading Vec3
		want    float64
	}{
		{"aligned with reference", Vec3{0, 0, 1}, 0},
		{"quarter turn", Vec3{1, 0, 0}, 90},
		{"opposite", Vec3{0, 0, -1}, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AzimuthFromVectors(gravity, tt.reading)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AzimuthFromVectors = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAzimuthFromVectors_Degenerate(t *testing.T) {
	// gravity parallel to up gives a zero reference vector
	if got := AzimuthFromVectors(Vec3{0, 0, -9.8}, Vec3{1, 0, 0}); !math.IsNaN(got) {
		t.Errorf("AzimuthFromVectors(degenerate) = %v, want NaN", got)
	}
}

func TestJulianDay(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := JulianDay(j2000); math.Abs(got-2451545.0) > 1e-6 {
		t.Errorf("JulianDay(J2000) = %v, want 2451545.0", got)
	}
}

func TestMeanLocalSiderealTimeHours(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

	// GMST at J2000.0 is 280.46061837°
	if got := MeanLocalSiderealTimeHours(j2000, 0); math.Abs(got-280.46061837/15) > 1e-3 {
		t.Errorf("GMST(J2000) = %v, want %v", got, 280.46061837/15)
	}

	lst := MeanLocalSiderealTimeHours(j2000, 30)
	want := math.Mod(280.46061837/15+2, 24)
	if math.Abs(lst-want) > 1e-3 {
		t.Errorf("LMST(lon=30) = %v, want %v", lst, want)
	}
}

func TestHorizontalFromEquatorial_Zenith(t *testing.T) {
	ts := time.Date(2024, 9, 1, 22, 0, 0, 0, time.UTC)
	lat, lon := 35.0, -106.0

	eq := EquatorialCoord{RAHours: MeanLocalSiderealTimeHours(ts, lon), DecDeg: lat}
	alt, _ := HorizontalFromEquatorial(eq, lat, lon, ts)
	if math.Abs(alt-90) > 1e-4 {
		t.Errorf("alt = %v, want 90", alt)
	}
}

func TestHorizontalFromEquatorial_NeverRises(t *testing.T) {
	// Dec -80° from latitude 60°N stays below the horizon all day.
	eq := EquatorialCoord{RAHours: 3, DecDeg: -80}
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for h := 0; h < 24; h += 2 {
		alt, az := HorizontalFromEquatorial(eq, 60, 10, start.Add(time.Duration(h)*time.Hour))
		if alt >= 0 {
			t.Errorf("hour %d: alt = %v, want < 0", h, alt)
		}
		if az < 0 || az >= 360 {
			t.Errorf("hour %d: az = %v, outside [0, 360)", h, az)
		}
	}
}

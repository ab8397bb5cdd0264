package nmea

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	minSatellites = 3
	maxSatellites = 12

	gsvMaxPerMessage = 4

	// IMU value ranges. Accelerometer axes are m/s^2, gyro axes rad/s;
	// vehicle-frame copies differ from the sensor frame by at most the
	// offset bounds below.
	accFullScale  = 100.0
	gyroFullScale = 2 * math.Pi
	accOffsetMax  = 10.0
	gyroOffsetMax = gyroFullScale / 10
)

// maxSatelliteID bounds the satellite ID space shared by GSA draws and the
// GSV no-replacement pool. Var so tests can shrink it.
var maxSatelliteID = 32

// fixQualities are the GGA quality indicators emitted; PPS (3) is not
// simulated. "0" (no fix) still produces a fully formed sentence.
var fixQualities = []string{"0", "1", "2", "4", "5"}

// Generator produces one randomized epoch per Epoch call. All randomness
// flows through rng and all timestamps through now, so tests can pin both.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// randInt returns a uniform int in [lo, hi].
func (g *Generator) randInt(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// utc renders the current time of day as HHMMSS.cc, hundredths truncated.
func (g *Generator) utc() string {
	return g.now().UTC().Format("150405.00")
}

// Epoch synthesizes one complete burst: the fix sentence first, then the
// sentences that reuse its position and satellite count.
func (g *Generator) Epoch() string {
	gga, fix := g.gga()
	var b strings.Builder
	b.WriteString(gga)
	b.WriteString(g.rmc(fix))
	b.WriteString(g.gsa(fix))
	b.WriteString(g.gsv(fix))
	b.WriteString(g.nfimu())
	b.WriteString(g.gll(fix))
	return b.String()
}

// gga builds the fix sentence together with the Fix the rest of the epoch
// shares.
//
// Fields:
//
//	1: time (hhmmss.cc)
//	2-5: latitude, N/S, longitude, E/W (absolute decimal degrees)
//	6: fix quality
//	7: satellites in use (zero-padded)
//	8: HDOP
//	9-10: altitude, units (M)
//	11-12: geoid separation, units (M)
//	13-15: unset (DGPS age/station, reserved)
func (g *Generator) gga() (string, Fix) {
	lat := g.uniform(-90, 90)
	lon := g.uniform(-180, 180)
	fix := Fix{
		Lat:        fmt.Sprintf("%.4f", math.Abs(lat)),
		NS:         "N",
		Lon:        fmt.Sprintf("%.4f", math.Abs(lon)),
		EW:         "E",
		Satellites: g.randInt(minSatellites, maxSatellites),
	}
	if lat < 0 {
		fix.NS = "S"
	}
	if lon < 0 {
		fix.EW = "W"
	}

	body := fmt.Sprintf("GPGGA,%s,%s,%s,%02d,%.1f,%.1f,M,%.1f,M,,,",
		g.utc(), fix.latlng(),
		fixQualities[g.rng.Intn(len(fixQualities))], fix.Satellites,
		g.uniform(0.5, 2.5), g.uniform(10, 100), g.uniform(-50, 50))
	return sentence(body), fix
}

// rmc builds the recommended-minimum sentence from the shared fix.
//
// Fields:
//
//	1: time (hhmmss.cc)
//	2: status (A=active)
//	3-6: latitude, N/S, longitude, E/W (copied from the fix)
//	7: speed over ground (knots)
//	8: course over ground (deg)
//	9: date (ddmmyy)
//	10-12: magnetic variation, direction, unset
func (g *Generator) rmc(fix Fix) string {
	now := g.now().UTC()
	body := fmt.Sprintf("GPRMC,%s,A,%s,%05.1f,%05.1f,%s,,,",
		now.Format("150405.00"), fix.latlng(),
		g.uniform(0, 100), g.uniform(0, 360), now.Format("020106"))
	return sentence(body)
}

// gll builds the geographic position sentence from the shared fix.
func (g *Generator) gll(fix Fix) string {
	return sentence(fmt.Sprintf("GPGLL,%s,%s,A", fix.latlng(), g.utc()))
}

// gsa builds the active-satellite sentence: one ID field per satellite in
// use (IDs may repeat), then PDOP/HDOP/VDOP. No empty-slot padding.
func (g *Generator) gsa(fix Fix) string {
	ids := make([]string, fix.Satellites)
	for i := range ids {
		ids[i] = strconv.Itoa(g.randInt(1, maxSatelliteID))
	}
	body := fmt.Sprintf("GPGSA,A,%d,%s,%.1f,%.1f,%.1f",
		g.randInt(1, 3), strings.Join(ids, ","),
		g.uniform(1, 5), g.uniform(1, 5), g.uniform(1, 5))
	return sentence(body)
}

// gsv builds the satellites-in-view block: one or more sentences carrying
// at most four satellites each, IDs unique across the block, the last
// message holding the remainder. The declared total never exceeds the ID
// space, so the headers stay consistent even when the space is shrunk.
func (g *Generator) gsv(fix Fix) string {
	total := g.randInt(fix.Satellites, maxSatellites)
	if total > maxSatelliteID {
		total = maxSatelliteID
	}
	messages := (total + gsvMaxPerMessage - 1) / gsvMaxPerMessage

	pool := make([]int, maxSatelliteID)
	for i := range pool {
		pool[i] = i + 1
	}

	var out strings.Builder
	remaining := total
	for i := 1; i <= messages; i++ {
		n := remaining
		if n > gsvMaxPerMessage {
			n = gsvMaxPerMessage
		}
		body := fmt.Sprintf("GPGSV,%d,%d,%d", messages, i, total)
		for j := 0; j < n; j++ {
			k := g.rng.Intn(len(pool))
			id := pool[k]
			pool = append(pool[:k], pool[k+1:]...)
			body += fmt.Sprintf(",%d,%d,%d,%d",
				id, g.randInt(0, 90), g.randInt(0, 359), g.randInt(0, 50))
		}
		out.WriteString(sentence(body))
		remaining -= n
	}
	return out.String()
}

// nfimu builds the proprietary inertial sentence. When the calibration
// flag is set, fields 9-14 carry the vehicle-frame values (sensor values
// plus a bounded offset); otherwise those six fields are present but empty.
//
// Fields:
//
//	1: calibration status (0|1)
//	2: temperature (degC)
//	3-5: accelerometer X/Y/Z
//	6-8: gyro X/Y/Z
//	9-11: vehicle-frame accelerometer X/Y/Z
//	12-14: vehicle-frame gyro X/Y/Z
func (g *Generator) nfimu() string {
	cal := g.rng.Intn(2)
	var acc, gyro [3]float64
	for i := range acc {
		acc[i] = g.uniform(-accFullScale, accFullScale)
	}
	for i := range gyro {
		gyro[i] = g.uniform(-gyroFullScale, gyroFullScale)
	}

	var veh [6]string
	if cal == 1 {
		for i := range acc {
			veh[i] = fmt.Sprintf("%.4f", acc[i]+g.uniform(-accOffsetMax, accOffsetMax))
		}
		for i := range gyro {
			veh[3+i] = fmt.Sprintf("%.4f", gyro[i]+g.uniform(-gyroOffsetMax, gyroOffsetMax))
		}
	}

	body := fmt.Sprintf("NFIMU,%d,%.4f,%.4f,%.4f,%.4f,%.4f,%.4f,%.4f,%s,%s,%s,%s,%s,%s",
		cal, g.uniform(10, 80),
		acc[0], acc[1], acc[2], gyro[0], gyro[1], gyro[2],
		veh[0], veh[1], veh[2], veh[3], veh[4], veh[5])
	return sentence(body)
}

// Package nmea synthesizes the NMEA-0183 output of a simulated GNSS
// receiver with an attached IMU: randomized GGA/RMC/GSA/GSV/GLL fixes plus
// a proprietary NFIMU inertial sentence, framed and checksummed.
package nmea

import "fmt"

// checksum XORs every byte of a sentence body (the text between '$' and
// '*') and renders the result as two uppercase hex digits.
func checksum(body string) string {
	ck := byte(0)
	for i := 0; i < len(body); i++ {
		ck ^= body[i]
	}
	return fmt.Sprintf("%02X", ck)
}

// sentence frames a body as a complete sentence, CRLF included.
func sentence(body string) string {
	return fmt.Sprintf("$%s*%s\r\n", body, checksum(body))
}

// Fix is the position/satellite snapshot shared by every sentence of one
// epoch. Lat and Lon are pre-rendered absolute decimal degrees so all
// consumers emit byte-identical position fields.
type Fix struct {
	Lat        string
	NS         string
	Lon        string
	EW         string
	Satellites int
}

func (f Fix) latlng() string {
	return f.Lat + "," + f.NS + "," + f.Lon + "," + f.EW
}

package training

import (
	"errors"
	"fmt"
	"math"
)

// ErrPowerOutOfRange is returned when a power value fits no zone. Only negative (or NaN) power does.
var ErrPowerOutOfRange = errors.New("power out of range")

// ZoneDefinition is a zone of the Coggan model as percentages of FTP.
type ZoneDefinition struct {
	Number        int
	Name          string
	MinPercentFTP float64
	MaxPercentFTP float64
}

// CogganZones is the seven zone Coggan power model. The last zone has no upper bound.
//
//nolint:gochecknoglobals // reference table.
var CogganZones = [...]ZoneDefinition{
	{Number: 1, Name: "Active Recovery", MinPercentFTP: 0, MaxPercentFTP: 55},
	{Number: 2, Name: "Endurance", MinPercentFTP: 55, MaxPercentFTP: 75},
	{Number: 3, Name: "Tempo", MinPercentFTP: 75, MaxPercentFTP: 90},
	{Number: 4, Name: "Lactate Threshold", MinPercentFTP: 90, MaxPercentFTP: 105},
	{Number: 5, Name: "VO2 Max", MinPercentFTP: 105, MaxPercentFTP: 120},
	{Number: 6, Name: "Anaerobic Capacity", MinPercentFTP: 120, MaxPercentFTP: 150},
	{Number: 7, Name: "Neuromuscular Power", MinPercentFTP: 150, MaxPercentFTP: math.Inf(1)},
}

// ZoneBand is a zone resolved to watts for a given FTP.
type ZoneBand struct {
	Number   int
	Name     string
	MinWatts float64
	MaxWatts float64
}

// Contains reports whether power falls in [MinWatts, MaxWatts).
func (b ZoneBand) Contains(power float64) bool {
	return power >= b.MinWatts && power < b.MaxWatts
}

// String formats the band as "120 - 163 W", or "324 + W" for the open ended top zone.
func (b ZoneBand) String() string {
	if math.IsInf(b.MaxWatts, 1) {
		return fmt.Sprintf("%.0f + W", b.MinWatts)
	}
	return fmt.Sprintf("%.0f - %.0f W", b.MinWatts, b.MaxWatts)
}

// Zones resolves the Coggan zones for ftp.
func Zones(ftp float64) []ZoneBand {
	bands := make([]ZoneBand, 0, len(CogganZones))
	for _, z := range CogganZones {
		bands = append(bands, ZoneBand{
			Number:   z.Number,
			Name:     z.Name,
			MinWatts: ftp * z.MinPercentFTP / percent,
			MaxWatts: ftp * z.MaxPercentFTP / percent,
		})
	}
	return bands
}

// ZoneForPower finds the band containing power.
func ZoneForPower(power float64, zones []ZoneBand) (ZoneBand, error) {
	for _, z := range zones {
		if z.Contains(power) {
			return z, nil
		}
	}
	return ZoneBand{}, fmt.Errorf("%w: %.1f W", ErrPowerOutOfRange, power)
}

// ZoneForRide returns the zone number of a ride ridden at normalized power np.
func ZoneForRide(ftp, np float64) (int, error) {
	z, err := ZoneForPower(np, Zones(ftp))
	if err != nil {
		return 0, err
	}
	return z.Number, nil
}

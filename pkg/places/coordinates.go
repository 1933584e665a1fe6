package places

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"ntxcensus/pkg/census"
)

// Dallas city hall, the reference point for distance calculations.
const (
	DallasLatitude  = 32.7767
	DallasLongitude = -96.7970
)

// Coordinate is one place's location.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Coordinates is a place FIPS to location lookup loaded from the Texas
// place coordinates reference file.
type Coordinates struct {
	byFIPS map[string]Coordinate
}

// LoadCoordinates reads the coordinates CSV. The file is optional
// enrichment data: a missing file yields an empty lookup, not an error.
func LoadCoordinates(path string) (*Coordinates, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Coordinates{byFIPS: map[string]Coordinate{}}, nil
		}
		return nil, fmt.Errorf("opening coordinates file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed coordinates file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &Coordinates{byFIPS: map[string]Coordinate{}}, nil
	}

	fipsIdx, latIdx, lonIdx := -1, -1, -1
	for i, col := range rows[0] {
		switch col {
		case "place_fips":
			fipsIdx = i
		case "latitude":
			latIdx = i
		case "longitude":
			lonIdx = i
		}
	}
	if fipsIdx < 0 || latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("coordinates file %s: missing place_fips/latitude/longitude columns", path)
	}

	lookup := make(map[string]Coordinate, len(rows)-1)
	for _, row := range rows[1:] {
		lat, latErr := strconv.ParseFloat(row[latIdx], 64)
		lon, lonErr := strconv.ParseFloat(row[lonIdx], 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		lookup[census.PadFIPS(row[fipsIdx])] = Coordinate{Latitude: lat, Longitude: lon}
	}

	return &Coordinates{byFIPS: lookup}, nil
}

// Lookup returns the coordinate for a place FIPS code.
func (c *Coordinates) Lookup(fips string) (Coordinate, bool) {
	coord, ok := c.byFIPS[census.PadFIPS(fips)]
	return coord, ok
}

// Len returns the number of known places.
func (c *Coordinates) Len() int {
	return len(c.byFIPS)
}

// DistanceMiles computes the haversine great-circle distance between two
// coordinates in miles.
func DistanceMiles(a, b Coordinate) float64 {
	const earthRadiusMiles = 3956

	lat1 := a.Latitude * math.Pi / 180
	lon1 := a.Longitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	lon2 := b.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	h := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}

// DistanceFromDallas returns the distance from the Dallas reference point.
func DistanceFromDallas(coord Coordinate) float64 {
	return DistanceMiles(Coordinate{Latitude: DallasLatitude, Longitude: DallasLongitude}, coord)
}

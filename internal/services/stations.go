package services

import (
	"gpttransit/pkg"
	"io"
	"strings"
)

// StationDirectory is the MRT/LRT station reference table.
type StationDirectory struct {
	stations []pkg.Station
	byName   map[string][]pkg.Station
	byCode   map[string]pkg.Station
}

// LoadStationDirectory reads mrtlrt_gps.csv.
func LoadStationDirectory(path string) (*StationDirectory, error) {
	t, err := openTable(path, "station_name", "station_code", "lat", "lng")
	if err != nil {
		return nil, err
	}
	return newStationDirectory(t)
}

// ParseStationDirectory reads the station CSV from r.
func ParseStationDirectory(r io.Reader) (*StationDirectory, error) {
	t, err := readTable(r, "stations", "station_name", "station_code", "lat", "lng")
	if err != nil {
		return nil, err
	}
	return newStationDirectory(t)
}

func newStationDirectory(t *table) (*StationDirectory, error) {
	d := &StationDirectory{
		byName: make(map[string][]pkg.Station),
		byCode: make(map[string]pkg.Station),
	}
	for i, row := range t.rows {
		line := i + 2
		lat, err := t.float(row, line, "lat")
		if err != nil {
			return nil, err
		}
		lng, err := t.float(row, line, "lng")
		if err != nil {
			return nil, err
		}
		name := t.cell(row, "station_name")
		full := t.cell(row, "full_name")
		if full == "" {
			full = name
		}
		s := pkg.Station{
			Code:     strings.ToUpper(t.cell(row, "station_code")),
			Name:     StationKey(name),
			FullName: full,
			Lat:      lat,
			Lng:      lng,
		}
		d.stations = append(d.stations, s)
		d.byName[s.Name] = append(d.byName[s.Name], s)
		if _, dup := d.byCode[s.Code]; !dup {
			d.byCode[s.Code] = s
		}
	}
	return d, nil
}

// StationKey is the lookup form of a station name: upper case, no spaces.
func StationKey(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), ""))
}

// Lookup finds a station by name. Interchanges return their first listed code.
func (d *StationDirectory) Lookup(name string) (pkg.Station, bool) {
	matches := d.byName[StationKey(name)]
	if len(matches) == 0 {
		return pkg.Station{}, false
	}
	return matches[0], true
}

// CodesFor returns every station code sharing the given name.
func (d *StationDirectory) CodesFor(name string) []string {
	matches := d.byName[StationKey(name)]
	codes := make([]string, 0, len(matches))
	for _, s := range matches {
		codes = append(codes, s.Code)
	}
	return codes
}

func (d *StationDirectory) ByCode(code string) (pkg.Station, bool) {
	s, ok := d.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return s, ok
}

// Label renders "CODE Full Name", or the bare code when it is unknown.
func (d *StationDirectory) Label(code string) string {
	if s, ok := d.ByCode(code); ok {
		return s.Label()
	}
	return code
}

func (d *StationDirectory) Len() int {
	return len(d.stations)
}

package services

import (
	"gpttransit/pkg"
	"io"
	"strings"
)

// LoadTaxiStands reads the taxi stand CSV (Name, Latitude, Longitude).
func LoadTaxiStands(path string) ([]pkg.TaxiStand, error) {
	t, err := openTable(path, "name", "latitude", "longitude")
	if err != nil {
		return nil, err
	}
	return taxiStands(t)
}

func ParseTaxiStands(r io.Reader) ([]pkg.TaxiStand, error) {
	t, err := readTable(r, "taxi_stands", "name", "latitude", "longitude")
	if err != nil {
		return nil, err
	}
	return taxiStands(t)
}

func taxiStands(t *table) ([]pkg.TaxiStand, error) {
	stands := make([]pkg.TaxiStand, 0, len(t.rows))
	for i, row := range t.rows {
		lat, err := t.float(row, i+2, "latitude")
		if err != nil {
			return nil, err
		}
		lng, err := t.float(row, i+2, "longitude")
		if err != nil {
			return nil, err
		}
		stands = append(stands, pkg.TaxiStand{Name: t.cell(row, "name"), Lat: lat, Lng: lng})
	}
	return stands, nil
}

var volumeColumns = []string{"day_type", "time_per_hour", "pt_code", "total_tap_in_volume", "total_tap_out_volume"}

// LoadVolumeRecords reads the hourly passenger volume by train station.
func LoadVolumeRecords(path string) ([]pkg.VolumeRecord, error) {
	t, err := openTable(path, volumeColumns...)
	if err != nil {
		return nil, err
	}
	return volumeRecords(t)
}

func ParseVolumeRecords(r io.Reader) ([]pkg.VolumeRecord, error) {
	t, err := readTable(r, "volume", volumeColumns...)
	if err != nil {
		return nil, err
	}
	return volumeRecords(t)
}

func volumeRecords(t *table) ([]pkg.VolumeRecord, error) {
	out := make([]pkg.VolumeRecord, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		hour, err := t.int(row, line, "time_per_hour")
		if err != nil {
			return nil, err
		}
		tapIn, err := t.int(row, line, "total_tap_in_volume")
		if err != nil {
			return nil, err
		}
		tapOut, err := t.int(row, line, "total_tap_out_volume")
		if err != nil {
			return nil, err
		}
		day := pkg.DayType(strings.ToUpper(t.cell(row, "day_type")))
		for _, code := range splitCodes(t.cell(row, "pt_code")) {
			out = append(out, pkg.VolumeRecord{DayType: day, Hour: hour, Code: code, TapIn: tapIn, TapOut: tapOut})
		}
	}
	return out, nil
}

var odColumns = []string{"day_type", "time_per_hour", "origin_pt_code", "destination_pt_code", "total_trips"}

// LoadODRecords reads the hourly origin-destination trip counts.
func LoadODRecords(path string) ([]pkg.ODRecord, error) {
	t, err := openTable(path, odColumns...)
	if err != nil {
		return nil, err
	}
	return odRecords(t)
}

func ParseODRecords(r io.Reader) ([]pkg.ODRecord, error) {
	t, err := readTable(r, "origin_destination", odColumns...)
	if err != nil {
		return nil, err
	}
	return odRecords(t)
}

func odRecords(t *table) ([]pkg.ODRecord, error) {
	out := make([]pkg.ODRecord, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		hour, err := t.int(row, line, "time_per_hour")
		if err != nil {
			return nil, err
		}
		trips, err := t.int(row, line, "total_trips")
		if err != nil {
			return nil, err
		}
		day := pkg.DayType(strings.ToUpper(t.cell(row, "day_type")))
		for _, origin := range splitCodes(t.cell(row, "origin_pt_code")) {
			for _, dest := range splitCodes(t.cell(row, "destination_pt_code")) {
				out = append(out, pkg.ODRecord{DayType: day, Hour: hour, Origin: origin, Destination: dest, Trips: trips})
			}
		}
	}
	return out, nil
}

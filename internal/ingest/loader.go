package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"toll-ops-service/internal/domain/toll"
)

var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Source columns of the NETC transaction export.
const (
	colPlaza        = "merchant_name"
	colInitiated    = "initiated_time"
	colGeocode      = "geocode"
	colVehicleClass = "vehicle_class_code"
	colLane         = "lane"
	colDirection    = "direction"
	colProcessing   = "inn_rr_time_sec"
)

var requiredColumns = []string{colPlaza, colInitiated, colGeocode, colVehicleClass, colLane, colDirection, colProcessing}

type Loader struct {
	log zerolog.Logger
}

func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{log: log}
}

// LoadFile reads a transaction dataset from disk, dispatching on the file
// extension. CSV and Excel exports are supported.
func (l *Loader) LoadFile(path string) ([]toll.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		defer f.Close()
		return l.LoadCSV(f)
	case ".xlsx", ".xlsm":
		return l.LoadExcel(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadCSV normalizes every data row of a CSV export. Rows that fail
// normalization are logged and skipped; they never abort the load.
func (l *Loader) LoadCSV(r io.Reader) ([]toll.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []toll.Record
	skipped := 0
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		record, err := NormalizeRow(rowFromCells(row, columns))
		if err != nil {
			skipped++
			l.log.Warn().Err(err).Int("line", line).Msg("skipping malformed transaction row")
			continue
		}
		records = append(records, record)
	}

	l.log.Info().Int("records", len(records)).Int("skipped", skipped).Msg("loaded transaction dataset")
	return records, nil
}

// LoadExcel normalizes the first sheet of an Excel export.
func (l *Loader) LoadExcel(path string) ([]toll.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel dataset: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel dataset has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read excel sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel sheet %q is empty", sheets[0])
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var records []toll.Record
	skipped := 0
	for i, row := range rows[1:] {
		record, err := NormalizeRow(rowFromCells(row, columns))
		if err != nil {
			skipped++
			l.log.Warn().Err(err).Int("row", i+2).Msg("skipping malformed transaction row")
			continue
		}
		records = append(records, record)
	}

	l.log.Info().Int("records", len(records)).Int("skipped", skipped).Msg("loaded transaction dataset")
	return records, nil
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", required)
		}
	}
	return columns, nil
}

func rowFromCells(cells []string, columns map[string]int) RawRow {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(cells) {
			return ""
		}
		return cells[idx]
	}
	return RawRow{
		PlazaID:           cell(colPlaza),
		InitiatedTime:     cell(colInitiated),
		Geocode:           cell(colGeocode),
		VehicleClass:      cell(colVehicleClass),
		Lane:              cell(colLane),
		Direction:         cell(colDirection),
		ProcessingTimeSec: cell(colProcessing),
	}
}

package datasets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Noofbiz/harvestPrice/pricing"
)

// ErrMissingArtifact is returned by LoadCSV when the dataset file does not exist.
var ErrMissingArtifact = errors.New("dataset artifact not found")

// WriteCSV writes the header and one line per record to w.
func WriteCSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range ds {
		row := []string{
			r.Date.Format(DateLayout),
			r.State,
			string(r.District),
			string(r.Crop),
			formatDecimal(r.Rainfall),
			formatDecimal(r.YieldIndex),
			strconv.Itoa(r.Price),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes ds to path, replacing any previous artifact. The parent
// directory is created if needed and the file is written to a temp file in
// the same directory first, then renamed into place.
func SaveCSV(path string, ds Dataset) error {
	if path == "" {
		return errors.New("empty dataset path")
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir for %s: %w", path, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp dataset file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		_ = os.Remove(tmpName)
	}()

	if err := WriteCSV(tmpFile, ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		log.Printf("warning: sync temp dataset file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp dataset file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp dataset to target: %w", err)
	}
	return nil
}

// LoadCSV reads the dataset artifact at path.
func LoadCSV(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer file.Close()

	ds, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV parses a dataset from r. Columns are located by header name
// (case-insensitive), so their order in the file does not matter.
func ReadCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}
	cols := make([]int, len(Header))
	for i, name := range Header {
		idx, ok := colIndex[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("required column %q not found in CSV", name)
		}
		cols[i] = idx
	}

	var ds Dataset
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowIdx, err)
		}
		rec, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowIdx, err)
		}
		ds = append(ds, rec)
		rowIdx++
	}
	return ds, nil
}

func parseRecord(record []string, cols []int) (Record, error) {
	field := func(i int) string { return strings.TrimSpace(record[cols[i]]) }

	date, err := time.Parse(DateLayout, field(0))
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse Date: %w", err)
	}
	district, err := pricing.ParseDistrict(field(2))
	if err != nil {
		return Record{}, err
	}
	crop, err := pricing.ParseCrop(field(3))
	if err != nil {
		return Record{}, err
	}
	rain, err := parseFloat(field(4))
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse Rainfall: %w", err)
	}
	yield, err := parseFloat(field(5))
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse Yield_Index: %w", err)
	}
	if !(yield > 0) {
		return Record{}, fmt.Errorf("Yield_Index must be positive, got %v", yield)
	}
	price, err := strconv.Atoi(field(6))
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse Market_Price: %w", err)
	}

	return Record{
		Date:       date,
		State:      field(1),
		District:   district,
		Crop:       crop,
		Rainfall:   rain,
		YieldIndex: yield,
		Price:      price,
	}, nil
}

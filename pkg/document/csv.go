package document

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/chartkit/pkg/chart"
)

const csvMinColumns = 2

// ErrCSV indicates a malformed CSV dataset.
var ErrCSV = errors.New("malformed csv dataset")

// parseCSV reads label,value rows. A first row whose value does not parse
// as a number is a header and is skipped.
func parseCSV(r io.Reader) (*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []chart.Entry

	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCSV, err)
		}

		if len(record) < csvMinColumns {
			return nil, fmt.Errorf("%w: line %d: want label,value", ErrCSV, line)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			if line == 1 {
				continue
			}

			return nil, fmt.Errorf("%w: line %d: value %q is not a number", ErrCSV, line, record[1])
		}

		entries = append(entries, chart.Entry{Label: strings.TrimSpace(record[0]), Value: value})
	}

	data, err := chart.NewDataset(entries...)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	return &Document{Data: data, Options: map[string]any{}}, nil
}

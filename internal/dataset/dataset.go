// Package dataset loads review tables from CSV and writes them back with the
// derived sentiment columns appended.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tsawler/sentiprose"
)

const (
	ReviewColumn = "Review"
	RatingColumn = "Rating"
)

// DerivedColumns are appended to the header in this order.
var DerivedColumns = []string{"Preprocessed_Review", "Sentiment_Label", "Sentiment_Polarity"}

// ErrMissingColumn reports a table without a Review or Rating column.
var ErrMissingColumn = errors.New("missing column")

// naMarkers are the cell values read as a missing review.
var naMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
	"<NA>": true,
}

// Row is one review with its rating and, once scored, the derived values.
type Row struct {
	Line   int // Line of the record in the source file
	Review sentiprose.Review
	Rating float64

	Preprocessed string
	Label        sentiprose.Label
	Polarity     float64
	Scored       bool
	Skipped      bool
}

// Table is a loaded review table. The original header and cells are kept so
// the export reproduces them unchanged.
type Table struct {
	Header  []string
	Records [][]string
	Rows    []Row
}

// LoadFile reads a review table from a CSV file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load reads a review table from CSV. The header must name Review and Rating
// columns; every Rating must be numeric.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	reviewCol, ratingCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ReviewColumn:
			reviewCol = i
		case RatingColumn:
			ratingCol = i
		}
	}
	if reviewCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ReviewColumn)
	}
	if ratingCol < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, RatingColumn)
	}

	t := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		rating, err := strconv.ParseFloat(strings.TrimSpace(record[ratingCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s %q is not a number", line, RatingColumn, record[ratingCol])
		}

		review := sentiprose.Missing
		if cell := record[reviewCol]; !naMarkers[strings.TrimSpace(cell)] {
			review = sentiprose.Text(cell)
		}

		t.Records = append(t.Records, record)
		t.Rows = append(t.Rows, Row{Line: line, Review: review, Rating: rating})
	}

	return t, nil
}

// WriteCSV writes the original columns followed by the derived columns.
// Skipped or unscored rows get empty derived cells.
func (t *Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	header := append(append([]string{}, t.Header...), DerivedColumns...)
	if err := writer.Write(header); err != nil {
		return err
	}
	for i, record := range t.Records {
		row := t.Rows[i]
		derived := []string{"", "", ""}
		if row.Scored {
			derived = []string{
				row.Preprocessed,
				string(row.Label),
				strconv.FormatFloat(row.Polarity, 'g', -1, 64),
			}
		}
		if err := writer.Write(append(append([]string{}, record...), derived...)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table as CSV to path.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Scored returns the rows that carry sentiment values, in table order.
func (t *Table) Scored() []Row {
	var rows []Row
	for _, row := range t.Rows {
		if row.Scored {
			rows = append(rows, row)
		}
	}
	return rows
}

// Polarities returns the polarity of every scored row.
func (t *Table) Polarities() []float64 {
	var x []float64
	for _, row := range t.Scored() {
		x = append(x, row.Polarity)
	}
	return x
}

// Ratings returns the rating of every scored row.
func (t *Table) Ratings() []float64 {
	var y []float64
	for _, row := range t.Scored() {
		y = append(y, row.Rating)
	}
	return y
}

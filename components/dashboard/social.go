package dashboard

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// RequiredSocialColumns lists the normalized headers an upload must carry.
var RequiredSocialColumns = []string{"platform", "reach", "clicks", "likes"}

// ErrEmptyCSV is returned when an upload has no header row.
var ErrEmptyCSV = errors.New("dashboard: no columns to parse from file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SocialSchemaError reports required columns absent from an upload.
type SocialSchemaError struct {
	Missing []string `json:"missing" yaml:"missing"`
	Found   []string `json:"found" yaml:"found"`
}

func (e *SocialSchemaError) Error() string {
	return fmt.Sprintf("CSV must contain columns: %s. Found: [%s]",
		strings.Join(RequiredSocialColumns, ", "),
		strings.Join(e.Found, ", "))
}

// DecodeSocialCSV decodes an uploaded CSV as UTF-8, falling back to Latin-1,
// and normalizes the header row. Cells are kept as-is.
func DecodeSocialCSV(data []byte) (SocialTable, error) {
	text, encoding := decodeUpload(data)

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return SocialTable{}, fmt.Errorf("dashboard: parse csv: %w", err)
	}
	if len(records) == 0 {
		return SocialTable{}, ErrEmptyCSV
	}

	columns := NormalizeHeaders(records[0])
	rows := make([][]string, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) > len(columns) {
			return SocialTable{}, fmt.Errorf("dashboard: parse csv: line %d: expected %d fields, saw %d", i+2, len(columns), len(record))
		}
		row := make([]string, len(columns))
		copy(row, record)
		rows = append(rows, row)
	}
	return SocialTable{Columns: columns, Rows: rows, Encoding: encoding}, nil
}

func decodeUpload(data []byte) (string, string) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), EncodingUTF8
	}
	// every byte sequence is valid Latin-1
	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(data)
	return string(decoded), EncodingLatin1
}

// NormalizeHeaders trims and lowercases every header.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

// ValidateSocialColumns checks that every required column is present.
func ValidateSocialColumns(columns []string) error {
	var missing []string
	for _, required := range RequiredSocialColumns {
		if !slices.Contains(columns, required) {
			missing = append(missing, required)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &SocialSchemaError{
		Missing: missing,
		Found:   append([]string(nil), columns...),
	}
}

// Column returns the cell values for a named column.
func (t SocialTable) Column(name string) []string {
	idx := slices.Index(t.Columns, name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// DefaultSocialRows is shown when nothing was uploaded.
func DefaultSocialRows() []SocialRow {
	return []SocialRow{
		{Platform: "Twitter", Reach: 1200, Clicks: 50, Likes: 30},
		{Platform: "Facebook", Reach: 800, Clicks: 40, Likes: 20},
		{Platform: "LinkedIn", Reach: 600, Clicks: 25, Likes: 15},
	}
}

// socialChartSeries builds the grouped platform chart input from an upload.
func socialChartSeries(table SocialTable) ([]string, []ChartSeries) {
	labels := table.Column("platform")
	series := make([]ChartSeries, 0, 3)
	for _, metric := range RequiredSocialColumns[1:] {
		cells := table.Column(metric)
		points := make([]ChartPoint, len(cells))
		for i, cell := range cells {
			points[i] = ChartPoint{Label: labels[i], Value: cellValue(cell)}
		}
		series = append(series, ChartSeries{Name: metric, Points: points})
	}
	return labels, series
}

func fixtureChartSeries(rows []SocialRow) ([]string, []ChartSeries) {
	labels := make([]string, len(rows))
	reach := make([]ChartPoint, len(rows))
	clicks := make([]ChartPoint, len(rows))
	likes := make([]ChartPoint, len(rows))
	for i, row := range rows {
		labels[i] = row.Platform
		reach[i] = ChartPoint{Label: row.Platform, Value: float64(row.Reach)}
		clicks[i] = ChartPoint{Label: row.Platform, Value: float64(row.Clicks)}
		likes[i] = ChartPoint{Label: row.Platform, Value: float64(row.Likes)}
	}
	return labels, []ChartSeries{
		{Name: "reach", Points: reach},
		{Name: "clicks", Points: clicks},
		{Name: "likes", Points: likes},
	}
}

// cellValue plots unparsable cells as zero.
func cellValue(cell string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0
	}
	return f
}

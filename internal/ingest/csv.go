package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CSV column headers, shared by ReadCSV and WriteCSV.
const (
	colCompany        = "회사명"
	colTitle          = "제목"
	colLink           = "링크"
	colLocation       = "지역"
	colExperience     = "경력"
	colEducation      = "학력"
	colEmploymentType = "고용형태"
	colDeadline       = "마감일"
	colSector         = "직무분야"
	colSalary         = "연봉정보"
)

var csvHeader = []string{
	colCompany, colTitle, colLink, colLocation, colExperience,
	colEducation, colEmploymentType, colDeadline, colSector, colSalary,
}

// RowError reports a CSV row that could not be turned into a Listing.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

var (
	errMissingColumn = errors.New("missing required column")
	errMissingField  = errors.New("missing company or title")
)

// ReadCSV reads listings from r. Columns are found by header name, so their order does
// not matter and unknown columns are ignored. Bad rows are reported and skipped.
func ReadCSV(r io.Reader) ([]Listing, []RowError) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, []RowError{{Line: 1, Err: err}}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[name] = i
	}
	for _, required := range []string{colCompany, colTitle} {
		if _, ok := index[required]; !ok {
			return nil, []RowError{{Line: 1, Err: fmt.Errorf("%w: %s", errMissingColumn, required)}}
		}
	}

	var listings []Listing
	var rowErrs []RowError
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		line, _ := reader.FieldPos(0)

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}

		listing := Listing{
			Link:           optional(field(colLink)),
			Location:       optional(field(colLocation)),
			Experience:     optional(field(colExperience)),
			Education:      optional(field(colEducation)),
			EmploymentType: optional(field(colEmploymentType)),
			Deadline:       optional(field(colDeadline)),
			Sector:         optional(field(colSector)),
			Salary:         optional(field(colSalary)),
		}
		listing.Company = deref(optional(field(colCompany)))
		listing.Title = deref(optional(field(colTitle)))
		if listing.Company == "" || listing.Title == "" {
			rowErrs = append(rowErrs, RowError{Line: line, Err: errMissingField})
			continue
		}
		listings = append(listings, listing)
	}
	return listings, rowErrs
}

// WriteCSV writes listings with the header ReadCSV expects.
func WriteCSV(w io.Writer, listings []Listing) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range listings {
		record := []string{
			l.Company, l.Title, deref(l.Link), deref(l.Location), deref(l.Experience),
			deref(l.Education), deref(l.EmploymentType), deref(l.Deadline), deref(l.Sector), deref(l.Salary),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

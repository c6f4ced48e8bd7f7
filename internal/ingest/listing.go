// Package ingest pulls job listings from Saramin or CSV files and loads them into the
// catalog and postings tables.
package ingest

import (
	"strings"

	"github.com/bjl5029/WSD-3/internal/catalog"
)

// Listing is one scraped or imported job posting after normalisation. Blank optional
// fields are nil.
type Listing struct {
	Company        string
	Title          string
	Link           *string
	Location       *string
	Experience     *string
	Education      *string
	EmploymentType *string
	Deadline       *string
	Sector         *string
	Salary         *string
}

func optional(s string) *string {
	s = catalog.NormalizeName(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SplitLocation splits "서울 강남구 역삼동" into the city "서울" and the district
// "강남구 역삼동". The district is nil when there is only one word.
func SplitLocation(location string) (string, *string) {
	fields := strings.Fields(catalog.NormalizeName(location))
	if len(fields) == 0 {
		return "", nil
	}
	if len(fields) == 1 {
		return fields[0], nil
	}
	district := strings.Join(fields[1:], " ")
	return fields[0], &district
}

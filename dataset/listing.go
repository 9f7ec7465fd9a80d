package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ezoic/carprice/pkg/errors"
)

// Listing is one used-car advertisement.
type Listing struct {
	CarName      string
	Year         int
	PresentPrice float64
	DrivenKms    int
	FuelType     string
	SellingType  string
	Transmission string
	Owner        int
	SellingPrice float64
}

// Listings parses every row of the table into a Listing. Call DropMissing
// first: a missing or unparsable numeric cell is a ValueError naming the row
// and column.
func (t *Table) Listings() ([]Listing, error) {
	cols := make(map[string][]string, len(RequiredColumns))
	missing := make(map[string][]bool, len(RequiredColumns))
	for _, name := range RequiredColumns {
		col := t.df.Col(name)
		cols[name] = col.Records()
		missing[name] = col.IsNaN()
	}
	var carNames []string
	for _, name := range t.df.Names() {
		if name == ColCarName {
			carNames = t.df.Col(ColCarName).Records()
		}
	}

	n := t.df.Nrow()
	out := make([]Listing, n)
	for i := 0; i < n; i++ {
		p := rowParser{row: i, cols: cols, missing: missing}
		l := Listing{
			Year:         p.integer(ColYear),
			PresentPrice: p.float(ColPresentPrice),
			DrivenKms:    p.integer(ColDrivenKms),
			FuelType:     p.category(ColFuelType),
			SellingType:  p.category(ColSellingType),
			Transmission: p.category(ColTransmission),
			Owner:        p.integer(ColOwner),
			SellingPrice: p.float(ColSellingPrice),
		}
		if p.err != nil {
			return nil, p.err
		}
		if carNames != nil {
			l.CarName = carNames[i]
		}
		out[i] = l
	}
	return out, nil
}

// rowParser keeps the first parse error of a row.
type rowParser struct {
	row     int
	cols    map[string][]string
	missing map[string][]bool
	err     error
}

func (p *rowParser) fail(col, raw, want string) {
	if p.err == nil {
		p.err = errors.NewValueError("dataset.Listings",
			fmt.Sprintf("row %d, column %s: cannot parse %q as %s", p.row, col, raw, want))
	}
}

func (p *rowParser) float(col string) float64 {
	raw := strings.TrimSpace(p.cols[col][p.row])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(col, raw, "a number")
		return 0
	}
	return v
}

func (p *rowParser) integer(col string) int {
	raw := strings.TrimSpace(p.cols[col][p.row])
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	// "2014.0" style integers
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		p.fail(col, raw, "an integer")
		return 0
	}
	return int(v)
}

// category rejects cells read as missing. Records renders them as "NaN",
// which would otherwise become a vocabulary entry when DropMissing is skipped.
func (p *rowParser) category(col string) string {
	raw := p.cols[col][p.row]
	if p.missing[col][p.row] {
		p.fail(col, raw, "a category")
	}
	return raw
}

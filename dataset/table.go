// Package dataset loads the used-car listings CSV and turns it into the
// numeric feature matrix and target vector used for training.
//
// The CSV is read with every column typed as a string; cells matching one of
// MissingTokens become NaN. DropMissing removes rows with any NaN cell,
// Listings parses the typed records and Encode label-encodes the three
// categorical columns:
//
//	tbl, err := dataset.Load("car data.csv")
//	if err != nil {
//		return err
//	}
//	listings, err := tbl.DropMissing().Listings()
//	if err != nil {
//		return err
//	}
//	enc, err := dataset.Encode(listings)
package dataset

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/ezoic/carprice/pkg/errors"
	"github.com/ezoic/carprice/pkg/log"
)

// Column names of the listings CSV.
const (
	ColCarName      = "Car_Name"
	ColYear         = "Year"
	ColSellingPrice = "Selling_Price"
	ColPresentPrice = "Present_Price"
	ColDrivenKms    = "Driven_kms"
	ColFuelType     = "Fuel_Type"
	ColSellingType  = "Selling_type"
	ColTransmission = "Transmission"
	ColOwner        = "Owner"
)

// RequiredColumns must all be present in the CSV header. Car_Name and any
// other column are carried along but never used as features.
var RequiredColumns = []string{
	ColYear, ColPresentPrice, ColDrivenKms, ColFuelType,
	ColSellingType, ColTransmission, ColOwner, ColSellingPrice,
}

// MissingTokens are the cell values read as missing.
var MissingTokens = []string{
	"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<NA>", "None", "-NaN", "#N/A",
}

// Table is the raw listings table with every column held as strings.
type Table struct {
	df dataframe.DataFrame
}

// Load reads the CSV file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %q", path)
	}
	defer f.Close()

	tbl, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %q", path)
	}

	log.GetLoggerWithName("dataset").Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PhaseKey, log.PhaseLoading,
		log.PathKey, path,
		log.SamplesKey, tbl.Len(),
		log.FeaturesKey, len(tbl.Names()),
	)
	return tbl, nil
}

// Read parses CSV data with a header row from r.
//
// Errors:
//   - a wrapped parse error if the CSV is malformed
//   - ErrMissingColumn if a required column is absent
func Read(r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(MissingTokens),
	)
	if df.Err != nil {
		return nil, errors.Wrap(df.Err, "parse csv")
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}
	for _, col := range RequiredColumns {
		if !present[col] {
			return nil, errors.NewModelError("dataset.Read", fmt.Sprintf("missing column %q", col), errors.ErrMissingColumn)
		}
	}

	return &Table{df: df}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Names returns the column names in file order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// DataFrame exposes the underlying gota frame.
func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}

// DropMissing returns a table without the rows that have a missing value in
// any column. Applying it twice gives the same table.
func (t *Table) DropMissing() *Table {
	n := t.df.Nrow()
	missing := make([]bool, n)
	for _, name := range t.df.Names() {
		for i, isNaN := range t.df.Col(name).IsNaN() {
			if isNaN {
				missing[i] = true
			}
		}
	}

	keep := make([]int, 0, n)
	for i, m := range missing {
		if !m {
			keep = append(keep, i)
		}
	}

	log.GetLoggerWithName("dataset").Debug("Dropped rows with missing values",
		log.PhaseKey, log.PhasePreprocessing,
		"dropped", n-len(keep),
		log.SamplesKey, len(keep),
	)

	if len(keep) == n {
		return &Table{df: t.df}
	}
	return &Table{df: t.df.Subset(keep)}
}

// Head renders the first n rows (all rows if fewer) as a text table.
func (t *Table) Head(n int) string {
	if n > t.df.Nrow() {
		n = t.df.Nrow()
	}
	if n <= 0 {
		return fmt.Sprintf("[0x%d] DataFrame\n", t.df.Ncol())
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.df.Subset(idx).String()
}

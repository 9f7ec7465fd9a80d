package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/carprice/pkg/errors"
)

const header = "Car_Name,Year,Selling_Price,Present_Price,Driven_kms,Fuel_Type,Selling_type,Transmission,Owner\n"

func readString(t *testing.T, body string) *Table {
	t.Helper()
	tbl, err := Read(strings.NewReader(header + body))
	require.NoError(t, err)
	return tbl
}

func TestLoad_Sample(t *testing.T) {
	tbl, err := Load(filepath.Join("testdata", "car_sample.csv"))
	require.NoError(t, err)
	assert.Equal(t, 30, tbl.Len())
	assert.Equal(t, ColCarName, tbl.Names()[0])

	listings, err := tbl.DropMissing().Listings()
	require.NoError(t, err)
	require.Len(t, listings, 30)
	assert.Equal(t, Listing{
		CarName: "ritz", Year: 2014, PresentPrice: 5.59, DrivenKms: 27000,
		FuelType: "Petrol", SellingType: "Dealer", Transmission: "Manual",
		Owner: 0, SellingPrice: 3.35,
	}, listings[0])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestRead_MissingColumn(t *testing.T) {
	csv := "Car_Name,Year,Selling_Price,Present_Price,Driven_kms,Fuel_Type,Selling_type,Transmission\n" +
		"ritz,2014,3.35,5.59,27000,Petrol,Dealer,Manual\n"
	_, err := Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))
	assert.Contains(t, err.Error(), `"Owner"`)
}

func TestRead_MalformedCSV(t *testing.T) {
	_, err := Read(strings.NewReader(header + "ritz,2014,3.35\n"))
	assert.Error(t, err)
}

func TestDropMissing(t *testing.T) {
	tbl := readString(t,
		"ritz,2014,3.35,5.59,27000,Petrol,Dealer,Manual,0\n"+
			",2013,4.75,9.54,43000,Diesel,Dealer,Manual,0\n"+
			"ciaz,NA,7.25,9.85,6900,Petrol,Dealer,Manual,0\n"+
			"swift,2014,4.6,6.87,42450,Diesel,Dealer,Manual,0\n"+
			"alto,2017,2.85,3.6,2135,null,Dealer,Manual,0\n")
	assert.Equal(t, 5, tbl.Len())

	once := tbl.DropMissing()
	assert.Equal(t, 2, once.Len())
	twice := once.DropMissing()
	assert.Equal(t, once.Len(), twice.Len())
	assert.Equal(t, once.DataFrame().Records(), twice.DataFrame().Records())

	listings, err := twice.Listings()
	require.NoError(t, err)
	assert.Equal(t, "ritz", listings[0].CarName)
	assert.Equal(t, "swift", listings[1].CarName)
}

func TestListings_UnparsableCell(t *testing.T) {
	tbl := readString(t,
		"ritz,2014,3.35,5.59,27000,Petrol,Dealer,Manual,0\n"+
			"sx4,2013,4.75,lots,43000,Diesel,Dealer,Manual,0\n")
	_, err := tbl.Listings()
	require.Error(t, err)

	var ve *errors.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "row 1, column Present_Price")
}

func TestListings_MissingCategory(t *testing.T) {
	tbl := readString(t,
		"ritz,2014,3.35,5.59,27000,Petrol,Dealer,Manual,0\n"+
			"sx4,2013,4.75,9.54,43000,,Dealer,Manual,0\n")
	_, err := tbl.Listings()
	var ve *errors.ValueError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "row 1, column Fuel_Type")

	listings, err := tbl.DropMissing().Listings()
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Petrol", listings[0].FuelType)
}

func TestListings_IntegralFloat(t *testing.T) {
	tbl := readString(t, "ritz,2014.0,3.35,5.59,27000,Petrol,Dealer,Manual,1.0\n")
	listings, err := tbl.Listings()
	require.NoError(t, err)
	assert.Equal(t, 2014, listings[0].Year)
	assert.Equal(t, 1, listings[0].Owner)

	tbl = readString(t, "ritz,2014.5,3.35,5.59,27000,Petrol,Dealer,Manual,0\n")
	_, err = tbl.Listings()
	assert.Error(t, err)
}

func TestHead(t *testing.T) {
	tbl, err := Load(filepath.Join("testdata", "car_sample.csv"))
	require.NoError(t, err)

	head := tbl.Head(5)
	assert.Contains(t, head, "[5x9] DataFrame")
	assert.Contains(t, head, "ritz")
	assert.Contains(t, head, "swift")
	assert.NotContains(t, head, "vitara brezza")

	assert.Contains(t, tbl.Head(1000), "[30x9] DataFrame")
}

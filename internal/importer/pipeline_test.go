package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kovil/internal/adapter/memstore"
	"kovil/internal/domain"
	"kovil/internal/donation"
)

func newPipeline(t *testing.T) (*Pipeline, *memstore.DonationRepository, *int) {
	t.Helper()
	repo := memstore.New().Donations()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	validator := donation.NewValidator(repo, time.UTC).WithClock(func() time.Time { return now })
	svc := donation.NewService(repo, validator, zerolog.Nop())
	changes := 0
	svc.OnChange(func() { changes++ })
	return NewPipeline(svc, 1<<20, zerolog.Nop()), repo, &changes
}

const threeRows = `Receipt No,Name,Phone,Community,Location,Amount,Payment Mode,Date
101,Arun,9876543210,payiran,Madurai,500,cash,14/03/2025
102,Bala,12345,semban,Salem,250,upi,15/03/2025
103,Chitra,9876500000,aadai,Erode,"1,000",card,2025-03-16
`

func TestImportPartialSuccess(t *testing.T) {
	p, repo, changes := newPipeline(t)

	res, err := p.ImportFile(context.Background(), "donations.csv", "text/csv", strings.NewReader(threeRows))
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"Row 3: Phone number must be 10 digits"}, res.Errors)
	assert.Equal(t, "Import completed. 2 donations imported successfully.", res.Message)
	assert.Equal(t, 1, *changes)

	stored, err := repo.GetByReceiptNo(context.Background(), "103")
	require.NoError(t, err)
	assert.EqualValues(t, 1000, stored.Amount)
	require.NotNil(t, stored.DonationDate)
	assert.Equal(t, "2025-03-16", stored.DonationDate.Format("2006-01-02"))
}

func TestImportRejectsDuplicatesAgainstStoreAndBatch(t *testing.T) {
	p, repo, _ := newPipeline(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &domain.Donation{ID: "x", ReceiptNo: "1"}))

	rows := []Row{
		{"Receipt No": "1", "Name": "A", "Phone": "9000000001", "Location": "X", "Amount": "10"},
		{"Receipt No": "2", "Name": "B", "Phone": "9000000002", "Location": "X", "Amount": "10"},
		{"Receipt No": "2", "Name": "C", "Phone": "9000000003", "Location": "X", "Amount": "10"},
		{"Receipt No": "3", "Name": "D", "Phone": "123", "Location": "X", "Amount": "0"},
		{"Receipt No": "4", "Name": "E", "Phone": "9000000005", "Location": "X", "Amount": "10"},
	}
	res, err := p.Import(ctx, rows)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, []string{
		"Row 2: Receipt number 1 already exists",
		"Row 4: Receipt number 2 already exists",
		"Row 5: Phone number must be 10 digits, Amount must be a positive number",
	}, res.Errors)
	assert.Equal(t, res.Total-len(res.Errors), res.Imported)
}

func TestImportAppliesLenientDefaults(t *testing.T) {
	p, repo, _ := newPipeline(t)
	ctx := context.Background()

	res, err := p.Import(ctx, []Row{{
		"ReceiptNo":     "9",
		"Donor Name":    "Devi",
		"Mobile":        "98765 43210",
		"Kulam":         "cheran",
		"Place":         "Karur",
		"Amount":        "₹ 1,001",
		"Inscription":   "Yes",
		"Donation Date": "not a date",
	}})
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	assert.Len(t, res.Warnings, 2)
	assert.True(t, strings.HasPrefix(res.Warnings[0], "Row 2: "))

	d, err := repo.GetByReceiptNo(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", d.Phone)
	assert.Equal(t, domain.CommunityAny, d.Community)
	assert.Equal(t, domain.PaymentCash, d.PaymentMode)
	assert.True(t, d.Inscription)
	assert.EqualValues(t, 1001, d.Amount)
	require.NotNil(t, d.DonationDate)
	assert.Equal(t, "2025-06-01", d.DonationDate.Format("2006-01-02"))
}

func TestImportXLSX(t *testing.T) {
	p, repo, _ := newPipeline(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Receipt Number", "Name", "Phone Number", "Community", "Location", "Donation Amount", "Mode", "Date"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"X1", "Ganesh", "9123456780", "vizhiyan", "Namakkal", 750, "cheque", 45366}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"X2", "Hari", "9123456781", "aavan", "Namakkal", 100, "upi", "01/04/2025"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	res, err := p.ImportFile(context.Background(), "ledger.xlsx", "", &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Errors)

	d, err := repo.GetByReceiptNo(context.Background(), "X1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCheque, d.PaymentMode)
	require.NotNil(t, d.DonationDate)
	assert.Equal(t, "2024-03-15", d.DonationDate.Format("2006-01-02"))
}

func TestImportFileErrors(t *testing.T) {
	p, _, _ := newPipeline(t)
	ctx := context.Background()

	_, err := p.ImportFile(ctx, "notes.txt", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = p.ImportFile(ctx, "empty.csv", "text/csv", strings.NewReader("Receipt No,Name\n,\n"))
	assert.ErrorIs(t, err, ErrNoData)

	small := NewPipeline(nil, 8, zerolog.Nop())
	_, err = small.ImportFile(ctx, "big.csv", "text/csv", strings.NewReader(threeRows))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestAliasPrecedence(t *testing.T) {
	raw := Row{"Mode": "upi", "Payment Mode": "card", "receipt_no": " 7 ", "Amount": ""}.ToRaw()
	assert.Equal(t, "card", raw.PaymentMode.Value)
	assert.Equal(t, "7", raw.ReceiptNo.Value)
	assert.False(t, raw.Amount.Set)
}

func TestAliasTieIsStable(t *testing.T) {
	row := Row{"receipt_no": "B", "Receipt No": "A", "RECEIPT NO.": "C", "Name": "Arun"}
	for i := 0; i < 50; i++ {
		assert.Equal(t, "C", row.ToRaw().ReceiptNo.Value)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[[2]string]Format{
		{"a.csv", ""}:                          FormatCSV,
		{"upload", "text/csv; charset=utf-8"}:  FormatCSV,
		{"a.XLSX", "application/octet-stream"}: FormatXLSX,
		{"upload", "application/vnd.ms-excel"}: FormatXLSX,
	}
	for in, want := range cases {
		got, err := DetectFormat(in[0], in[1])
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	apperrors "callcenter-crm/pkg/errors"
)

type fakeImportContactRepo struct {
	repositories.ContactRepositoryInterface

	known map[string]*entities.Contact
}

func (f *fakeImportContactRepo) FindByCustomerCode(ctx context.Context, tx pgx.Tx, code string) (*entities.Contact, error) {
	if c, ok := f.known[code]; ok {
		return c, nil
	}
	return nil, apperrors.ErrNotFound
}

type fakeVratkaRepo struct {
	repositories.VratkaRepositoryInterface

	createErr error
	created   []*entities.Vratka
}

func (f *fakeVratkaRepo) CreateVratka(ctx context.Context, tx pgx.Tx, v *entities.Vratka) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, v)
	return uint64(len(f.created)), nil
}

func (f *fakeVratkaRepo) ExistsForInvoice(ctx context.Context, tx pgx.Tx, contactID uint64, invoiceNumber string) (bool, error) {
	return false, nil
}

type discardStorage struct{}

func (discardStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	return prefix + "/" + originalFileName, nil
}

func (discardStorage) Delete(filePath string) error { return nil }

func vratkaSheet(t *testing.T, rows ...[]interface{}) io.Reader {
	t.Helper()
	book := excelize.NewFile()
	header := []interface{}{"Agent No.", "Acct No.", "Inv. No.", "Inv Date", "Inv Amount", "Return Date", "Return Type", "Return Amount"}
	require.NoError(t, book.SetSheetRow(book.GetSheetName(0), "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(book.GetSheetName(0), cell, &row))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func newImportService(contacts *fakeImportContactRepo, vratky *fakeVratkaRepo) *ImportService {
	return NewImportService(contacts, vratky, &fakeTxManager{}, discardStorage{}, zap.NewNop())
}

func TestImportVratky_CreatesReturnForKnownCustomer(t *testing.T) {
	contacts := &fakeImportContactRepo{known: map[string]*entities.Contact{
		"C100": {ID: 1, LastName: "Novák"},
	}}
	vratky := &fakeVratkaRepo{}
	svc := newImportService(contacts, vratky)

	file := vratkaSheet(t, []interface{}{"A7", "C100", "INV-1", "20250601", "1200,50", "20250610", "damaged", "300"})

	result, err := svc.ImportVratky(context.Background(), file, "vratky.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	require.Len(t, vratky.created, 1)
	v := vratky.created[0]
	assert.Equal(t, uint64(1), v.ContactID)
	assert.Equal(t, "INV-1", v.InvoiceNumber)
	assert.True(t, v.ReturnAmount.Valid)
	assert.Equal(t, "300", v.ReturnAmount.Decimal.String())
}

func TestImportVratky_RowFailureAbortsWithContext(t *testing.T) {
	contacts := &fakeImportContactRepo{known: map[string]*entities.Contact{
		"C100": {ID: 1, LastName: "Novák"},
	}}
	vratky := &fakeVratkaRepo{createErr: errors.New("numeric overflow")}
	svc := newImportService(contacts, vratky)

	file := vratkaSheet(t, []interface{}{"A7", "C100", "INV-1", "20250601", "1200,50", "20250610", "damaged", "300"})

	_, err := svc.ImportVratky(context.Background(), file, "vratky.xlsx")
	require.Error(t, err)
	// The error names the offending row so the operator can fix the file.
	assert.Contains(t, err.Error(), "C100")
	assert.Contains(t, err.Error(), "INV-1")
	assert.ErrorContains(t, err, "numeric overflow")
}

func TestImportVratky_RowsWithoutKeyAreSkipped(t *testing.T) {
	contacts := &fakeImportContactRepo{known: map[string]*entities.Contact{}}
	vratky := &fakeVratkaRepo{}
	svc := newImportService(contacts, vratky)

	file := vratkaSheet(t,
		[]interface{}{"A7", "", "INV-1", "20250601", "10", "20250610", "damaged", "5"},
		[]interface{}{"A7", "C200", "INV-2", "20250601", "10", "", "damaged", "5"},
	)

	result, err := svc.ImportVratky(context.Background(), file, "vratky.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)
	assert.Zero(t, result.Created)
	assert.Empty(t, vratky.created)
}

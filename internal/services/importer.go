package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"callcenter-crm/internal/dto"
	"callcenter-crm/internal/entities"
	"callcenter-crm/internal/repositories"
	apperrors "callcenter-crm/pkg/errors"
	"callcenter-crm/pkg/filestorage"
	"callcenter-crm/pkg/utils"
)

// ImportService loads the two source-system exports: the contact CSV and the
// returns ("vratky") XLSX. Every uploaded file is archived to storage before
// parsing; the import itself runs in one transaction per file.
type ImportService struct {
	contactRepo repositories.ContactRepositoryInterface
	vratkaRepo  repositories.VratkaRepositoryInterface
	txManager   repositories.TxManagerInterface
	storage     filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewImportService(
	contactRepo repositories.ContactRepositoryInterface,
	vratkaRepo repositories.VratkaRepositoryInterface,
	txManager repositories.TxManagerInterface,
	storage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		contactRepo: contactRepo,
		vratkaRepo:  vratkaRepo,
		txManager:   txManager,
		storage:     storage,
		logger:      logger,
	}
}

var phoneCleanRe = regexp.MustCompile(`[^\d+]`)

func normPhone(s string) string {
	return phoneCleanRe.ReplaceAllString(strings.TrimSpace(s), "")
}

func (s *ImportService) archive(data []byte, filename, prefix string) string {
	path, err := s.storage.Save(bytes.NewReader(data), filename, prefix)
	if err != nil {
		s.logger.Warn("failed to archive import file", zap.String("file", filename), zap.Error(err))
		return ""
	}
	return path
}

// ImportContacts reads the contact export CSV. Rows are keyed by customer
// code with phone1 as fallback; new contacts get the shared batch timestamp
// that tier 3 groups on, existing ones have their imported columns refreshed
// without touching lifecycle state.
func (s *ImportService) ImportContacts(ctx context.Context, file io.Reader, filename string) (*dto.ImportResultDTO, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewHttpError(400, "failed to parse CSV file", err, nil)
	}
	if len(rows) < 2 {
		return nil, apperrors.NewHttpError(400, "CSV file contains no data rows", nil, nil)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := &dto.ImportResultDTO{
		Total: len(rows) - 1,
		File:  s.archive(data, filename, "imports/contacts"),
	}
	batch := time.Now()
	result.Batch = batch.Format("2006-01-02 15:04:05")

	seen := make(map[string]struct{}, len(rows))

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, row := range rows[1:] {
			customerCode := cell(row, "info_2")
			phone1 := normPhone(cell(row, "Telefon1"))

			if customerCode == "" && phone1 == "" {
				result.Skipped++
				continue
			}
			key := customerCode + "|" + phone1
			if _, dup := seen[key]; dup {
				result.Skipped++
				continue
			}
			seen[key] = struct{}{}

			contact := &entities.Contact{
				CustomerCode: null.NewString(customerCode, customerCode != ""),
				PriorityCode: cell(row, "info_3"),
				Salutation:   cell(row, "Ansprache"),
				Title:        cell(row, "Titel"),
				FirstName:    cell(row, "Vorname"),
				LastName:     cell(row, "Nachname"),
				LastOrder:    cell(row, "dlbs"),
				Ranking:      null.NewString(cell(row, "info_1"), cell(row, "info_1") != ""),
				Phone1:       phone1,
				Phone2:       normPhone(cell(row, "Telefon2")),
				LastContact:  cell(row, "Datum Letztkontakt"),
				Campaign:     cell(row, "TLM-Kampagne 2 - Zielprodukt"),
				Street:       cell(row, "Strasse"),
				City:         cell(row, "Ort"),
				Zip:          cell(row, "Plz"),
				Recency:      cell(row, "Recency"),
				Active:       true,
				ImportedAt:   null.TimeFrom(batch),
			}
			if birth := cell(row, "Geburtsdatum"); birth != "" {
				if d, err := time.ParseInLocation("02-01-2006", birth, time.Local); err == nil {
					contact.BirthDate = null.TimeFrom(d)
				}
			}

			existing, err := s.findImportTarget(ctx, tx, customerCode, phone1)
			if err != nil {
				return err
			}

			if existing == nil {
				if _, err := s.contactRepo.CreateImported(ctx, tx, contact); err != nil {
					return fmt.Errorf("row for %q: %w", key, err)
				}
				result.Created++
			} else {
				contact.ID = existing.ID
				if err := s.contactRepo.UpdateImported(ctx, tx, contact); err != nil {
					return fmt.Errorf("row for %q: %w", key, err)
				}
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contact import finished",
		zap.String("file", filename),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *ImportService) findImportTarget(ctx context.Context, tx pgx.Tx, customerCode, phone1 string) (*entities.Contact, error) {
	if customerCode != "" {
		c, err := s.contactRepo.FindByCustomerCode(ctx, tx, customerCode)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	if phone1 != "" {
		c, err := s.contactRepo.FindByPhone(ctx, tx, phone1)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// ImportVratky reads the returns XLSX. Customer codes without a matching
// contact get a minimal placeholder record so the return is never orphaned;
// placeholders carry no import batch and thus stay out of the fresh pool.
func (s *ImportService) ImportVratky(ctx context.Context, file io.Reader, filename string) (*dto.ImportResultDTO, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewHttpError(400, "failed to parse XLSX file", err, nil)
	}
	defer book.Close()

	rows, err := book.GetRows(book.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, apperrors.NewHttpError(400, "XLSX file contains no data rows", nil, nil)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := header[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := &dto.ImportResultDTO{
		Total: len(rows) - 1,
		File:  s.archive(data, filename, "imports/vratky"),
	}
	importedAt := time.Now()

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, row := range rows[1:] {
			customerCode := cell(row, "Acct No.")
			returnDate := parseExportDate(cell(row, "Return Date"))
			if customerCode == "" || returnDate == nil {
				result.Skipped++
				continue
			}

			contact, err := s.findOrCreatePlaceholder(ctx, tx, customerCode)
			if err != nil {
				return err
			}

			invoiceNumber := cell(row, "Inv. No.")
			exists, err := s.vratkaRepo.ExistsForInvoice(ctx, tx, contact.ID, invoiceNumber)
			if err != nil {
				return err
			}
			if exists {
				result.Updated++
				continue
			}

			vratka := &entities.Vratka{
				ContactID:     contact.ID,
				ReturnDate:    *returnDate,
				Reason:        cell(row, "Return Type"),
				Agent:         cell(row, "Agent No."),
				InvoiceNumber: invoiceNumber,
				InvoiceAmount: parseExportAmount(cell(row, "Inv Amount")),
				ReturnAmount:  parseExportAmount(cell(row, "Return Amount")),
				ImportedAt:    importedAt,
			}
			if d := parseExportDate(cell(row, "Inv Date")); d != nil {
				vratka.InvoiceDate = null.TimeFrom(*d)
			}

			if _, err := s.vratkaRepo.CreateVratka(ctx, tx, vratka); err != nil {
				return fmt.Errorf("customer %s invoice %s: %w", customerCode, invoiceNumber, err)
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("vratka import finished",
		zap.String("file", filename),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *ImportService) findOrCreatePlaceholder(ctx context.Context, tx pgx.Tx, customerCode string) (*entities.Contact, error) {
	contact, err := s.contactRepo.FindByCustomerCode(ctx, tx, customerCode)
	if err == nil {
		return contact, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	placeholder := &entities.Contact{
		CustomerCode: null.StringFrom(customerCode),
		LastName:     "Zákazník " + customerCode,
		Active:       true,
	}
	id, err := s.contactRepo.CreateImported(ctx, tx, placeholder)
	if err != nil {
		return nil, err
	}
	placeholder.ID = id
	return placeholder, nil
}

// The source system writes dates as compact yyyymmdd; spreadsheet edits
// sometimes leave ISO strings behind, so both are accepted.
func parseExportDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{"20060102", "2006-01-02", "02.01.2006"} {
		if d, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return utils.ToPtr(d)
		}
	}
	return nil
}

func parseExportAmount(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

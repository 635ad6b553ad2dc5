// Package importer loads donations in bulk from CSV and Excel files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"kovil/internal/domain"
	"kovil/internal/donation"
)

// Result reports a finished batch. Success only says the batch ran to the
// end; rejected rows are listed in Errors.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Imported int      `json:"imported"`
	Total    int      `json:"total"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

type Pipeline struct {
	svc      *donation.Service
	logger   zerolog.Logger
	maxBytes int64
}

func NewPipeline(svc *donation.Service, maxBytes int64, logger zerolog.Logger) *Pipeline {
	return &Pipeline{svc: svc, logger: logger, maxBytes: maxBytes}
}

// ImportFile decodes an uploaded file and imports its rows.
func (p *Pipeline) ImportFile(ctx context.Context, filename, contentType string, r io.Reader) (Result, error) {
	format, err := DetectFormat(filename, contentType)
	if err != nil {
		return Result{}, err
	}
	data, err := readLimited(r, p.maxBytes)
	if err != nil {
		return Result{}, err
	}
	rows, err := Decode(format, data)
	if err != nil {
		return Result{}, err
	}
	p.logger.Info().Str("file", filename).Str("format", string(format)).Int("rows", len(rows)).Msg("import started")
	return p.Import(ctx, rows)
}

// Import validates and stores each row in turn. A rejected row never stops
// the batch; it is reported as "Row n: reason, reason" where n counts the
// header as row 1.
func (p *Pipeline) Import(ctx context.Context, rows []Row) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrNoData
	}

	res := Result{Total: len(rows), Errors: []string{}}
	batch := make(map[string]bool)
	validator := p.svc.Validator()

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rowNum := i + 2

		raw := row.ToRaw()
		out, err := validator.Inspect(ctx, raw, donation.ImportPolicy)
		reasons, fatal := reasonsFor(err)
		if fatal != nil {
			p.logger.Error().Err(fatal).Int("row", rowNum).Msg("import row failed")
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Could not check receipt number", rowNum))
			continue
		}

		receiptNo := raw.ReceiptNo.Trimmed()
		if receiptNo != "" && batch[receiptNo] && !errors.Is(err, domain.ErrDuplicateReceipt) && !containsDuplicate(reasons, receiptNo) {
			reasons = append(reasons, (&domain.DuplicateReceiptError{ReceiptNo: receiptNo}).Error())
		}
		if len(reasons) > 0 {
			p.logger.Debug().Int("row", rowNum).Strs("reasons", reasons).Msg("import row rejected")
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", rowNum, strings.Join(reasons, ", ")))
			continue
		}

		d := out.Donation
		if err := p.svc.Insert(ctx, &d); err != nil {
			if errors.Is(err, domain.ErrDuplicateReceipt) {
				res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", rowNum, err.Error()))
				continue
			}
			p.logger.Error().Err(err).Int("row", rowNum).Msg("import row not saved")
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Could not save donation", rowNum))
			continue
		}
		batch[d.ReceiptNo] = true
		res.Imported++
		for _, w := range out.Warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Row %d: %s", rowNum, w))
		}
	}

	if res.Imported > 0 {
		p.svc.Changed()
	}
	res.Success = true
	res.Message = fmt.Sprintf("Import completed. %d donations imported successfully.", res.Imported)
	p.logger.Info().Int("imported", res.Imported).Int("total", res.Total).Int("rejected", len(res.Errors)).Msg("import finished")
	return res, nil
}

// reasonsFor splits a validation outcome into row reasons, or returns the
// error itself when it is not about the row's data.
func reasonsFor(err error) ([]string, error) {
	if err == nil {
		return nil, nil
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return append([]string(nil), verr.Reasons...), nil
	}
	var dup *domain.DuplicateReceiptError
	if errors.As(err, &dup) {
		return []string{dup.Error()}, nil
	}
	return nil, err
}

func containsDuplicate(reasons []string, receiptNo string) bool {
	msg := (&domain.DuplicateReceiptError{ReceiptNo: receiptNo}).Error()
	for _, r := range reasons {
		if r == msg {
			return true
		}
	}
	return false
}

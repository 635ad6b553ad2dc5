package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"kovil/internal/domain"
	"kovil/internal/donation"
	"kovil/internal/export"
)

const donationNotFound = "Donation not found"

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var raw donation.RawDonation
	if !a.decode(w, r, &raw) {
		return
	}
	d, err := a.Donations.Create(r.Context(), raw, donation.FormPolicy)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusCreated, toDonationDTO(*d))
}

// DonationsWebhook accepts submissions relayed from the Google Form.
func (a *App) DonationsWebhook(w http.ResponseWriter, r *http.Request) {
	var raw donation.RawDonation
	if !a.decode(w, r, &raw) {
		return
	}
	d, err := a.Donations.Create(r.Context(), raw, donation.WebhookPolicy)
	if err != nil {
		a.Logger.Warn().Err(err).Str("receipt_no", raw.ReceiptNo.Trimmed()).Msg("webhook donation rejected")
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Donation received successfully from Google Form",
		"donation": map[string]any{
			"id":        d.ID,
			"receiptNo": d.ReceiptNo,
			"name":      d.Name,
			"amount":    d.Amount,
		},
	})
}

func (a *App) DonationsList(w http.ResponseWriter, r *http.Request) {
	filter, err := a.donationFilter(r)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	items, err := a.Donations.List(r.Context(), filter)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, toDonationDTOs(items))
}

func (a *App) DonationsExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" && format != "zip" {
		a.error(w, http.StatusBadRequest, "bad_request", "format must be csv, xlsx or zip")
		return
	}
	filter, err := a.donationFilter(r)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	items, err := a.Donations.List(r.Context(), filter)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.writeExport(w, r, format, "donations."+format, items)
}

func (a *App) DonationsImport(w http.ResponseWriter, r *http.Request) {
	maxBytes := a.Config.ImportMaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "file_too_large", "File is too large")
			return
		}
		a.json(w, http.StatusBadRequest, map[string]any{"success": false, "message": "No file uploaded"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]any{"success": false, "message": "No file uploaded"})
		return
	}
	defer file.Close()

	result, err := a.Importer.ImportFile(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, result)
}

func (a *App) DonationsDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := a.Donations.DeleteAll(r.Context()); err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "message": "All donations deleted successfully"})
}

func (a *App) DonationsByPhone(w http.ResponseWriter, r *http.Request) {
	items, err := a.Donations.ListByPhone(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, toDonationDTOs(items))
}

func (a *App) DonationsGet(w http.ResponseWriter, r *http.Request) {
	d, err := a.Donations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err, donationNotFound)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(*d))
}

func (a *App) DonationsUpdate(w http.ResponseWriter, r *http.Request) {
	var patch donation.RawDonation
	if !a.decode(w, r, &patch) {
		return
	}
	d, err := a.Donations.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		a.fail(w, r, err, donationNotFound)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(*d))
}

func (a *App) DonationsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Donations.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err, donationNotFound)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "message": "Donation deleted successfully"})
}

func (a *App) DonationsCheckReceipt(w http.ResponseWriter, r *http.Request) {
	receiptNo := chi.URLParam(r, "receiptNo")
	exists, err := a.Donations.CheckReceipt(r.Context(), receiptNo)
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"exists": exists, "receiptNo": receiptNo})
}

func (a *App) ReceiptNumberNext(w http.ResponseWriter, r *http.Request) {
	number, year, err := a.Receipts.NextForNow(r.Context())
	if err != nil {
		a.fail(w, r, err, "")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"receiptNumber": number, "year": year})
}

func (a *App) writeExport(w http.ResponseWriter, r *http.Request, format, filename string, items []domain.Donation) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, items, a.location()); err != nil {
		a.fail(w, r, fmt.Errorf("export %d rows as %s: %w", len(items), format, err), "")
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

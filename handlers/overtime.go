package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"lemburan/config"
	"lemburan/database"
	"lemburan/export"
	"lemburan/middleware"
	"lemburan/models"
	"lemburan/uploads"

	"github.com/pkg/errors"
)

// Messages shown on the entry form.
const (
	msgSelectEmployee = "Pilih nama karyawan terlebih dahulu!"
	msgUnknownName    = "Nama karyawan tidak terdaftar!"
	msgIncomplete     = "Harap lengkapi semua data sebelum menyimpan!"
	msgInvalidTime    = "Format waktu tidak valid!"
	msgImagesOnly     = "Hanya file gambar yang diperbolehkan!"
	msgFileTooLarge   = "Ukuran file maksimal 10 MB!"
	msgSaveFailed     = "Gagal menyimpan data lembur"
	msgSaved          = "Data lembur berhasil disimpan!"

	msgDeleted    = "Data berhasil dihapus"
	msgDeletedAll = "Semua data berhasil dihapus"
	msgNotFound   = "Data tidak ditemukan"
)

const recentLimit = 10

// RecordStore is the persistence the overtime pages need.
type RecordStore interface {
	List(ctx context.Context, f models.OvertimeFilter, ascending bool) ([]models.OvertimeRecord, error)
	Recent(ctx context.Context, n int) ([]models.OvertimeRecord, error)
	Insert(ctx context.Context, rec *models.OvertimeRecord) (uint, error)
	Get(ctx context.Context, id uint) (*models.OvertimeRecord, error)
	DeleteByID(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) ([]models.OvertimeRecord, error)
}

// ProofStore keeps uploaded proof images.
type ProofStore interface {
	Save(fh *multipart.FileHeader, kind string) (string, error)
	Remove(url string) error
}

type OvertimeHandler struct {
	config    *config.Config
	templates map[string]*template.Template
	store     RecordStore
	proofs    ProofStore
	fetcher   export.Fetcher
	locale    export.Locale
	now       func() time.Time
}

func NewOvertimeHandler(cfg *config.Config, templates map[string]*template.Template, store RecordStore, proofs ProofStore, fetcher export.Fetcher) *OvertimeHandler {
	return &OvertimeHandler{
		config:    cfg,
		templates: templates,
		store:     store,
		proofs:    proofs,
		fetcher:   fetcher,
		locale:    export.LocaleByName(cfg.Locale, cfg.Location),
		now:       time.Now,
	}
}

func (h *OvertimeHandler) Form(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.Recent(r.Context(), recentLimit)
	if err != nil {
		log.Printf("overtime: listing recent records: %v", err)
	}

	data := map[string]interface{}{
		"Employees": h.config.Roster.Employees,
		"Recent":    export.FormatRecords(records, h.locale),
		"Error":     r.URL.Query().Get("error"),
		"Success":   r.URL.Query().Get("success"),
	}
	render(w, h.templates, "form", data)
}

func (h *OvertimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(2*uploads.MaxFileBytes + 1<<20); err != nil {
		redirectWithError(w, r, "/", msgIncomplete)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	startStr := r.FormValue("start_time")
	endStr := r.FormValue("end_time")

	if name == "" {
		redirectWithError(w, r, "/", msgSelectEmployee)
		return
	}
	if !h.config.Roster.Contains(name) {
		redirectWithError(w, r, "/", msgUnknownName)
		return
	}

	startFile := formFile(r, "proof_start")
	endFile := formFile(r, "proof_end")
	if description == "" || strings.TrimSpace(startStr) == "" || strings.TrimSpace(endStr) == "" || startFile == nil || endFile == nil {
		redirectWithError(w, r, "/", msgIncomplete)
		return
	}

	start, err := export.ParseTimestamp(startStr, h.config.Location)
	if err != nil {
		redirectWithError(w, r, "/", msgInvalidTime)
		return
	}
	end, err := export.ParseTimestamp(endStr, h.config.Location)
	if err != nil {
		redirectWithError(w, r, "/", msgInvalidTime)
		return
	}

	startURL, err := h.proofs.Save(startFile, "start")
	if err != nil {
		redirectWithError(w, r, "/", uploadMessage(err))
		return
	}
	endURL, err := h.proofs.Save(endFile, "end")
	if err != nil {
		h.removeProofs(startURL)
		redirectWithError(w, r, "/", uploadMessage(err))
		return
	}

	rec := &models.OvertimeRecord{
		EmployeeName:  name,
		Description:   description,
		StartTime:     start,
		EndTime:       end,
		ProofStartURL: startURL,
		ProofEndURL:   endURL,
	}
	if _, err := h.store.Insert(r.Context(), rec); err != nil {
		log.Printf("overtime: saving record for %s: %v", name, err)
		h.removeProofs(startURL, endURL)
		redirectWithError(w, r, "/", msgSaveFailed)
		return
	}

	redirectWithSuccess(w, r, "/", msgSaved)
}

// DurationPreview renders the duration for a partially filled form as plain
// text. Missing values give an empty body.
func (h *OvertimeHandler) DurationPreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.FormatDurationStrings(q.Get("start"), q.Get("end"), h.locale)))
}

// EmployeeTotal is the summed overtime of one employee in the current view.
type EmployeeTotal struct {
	EmployeeName string
	Records      int
	Total        string
}

func (h *OvertimeHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	filter := parseFilter(r)

	records, err := h.store.List(r.Context(), filter, false)
	if err != nil {
		log.Printf("overtime: listing records: %v", err)
		http.Error(w, "Gagal memuat data lembur", http.StatusInternalServerError)
		return
	}

	currentYear := h.now().In(h.config.Location).Year()
	years := make([]int, 5)
	for i := range years {
		years[i] = currentYear - i
	}

	data := map[string]interface{}{
		"User":      user,
		"Rows":      export.FormatRecords(records, h.locale),
		"Records":   records,
		"Totals":    h.totals(records),
		"Employees": h.config.Roster.Employees,
		"Filter":    filter,
		"Query":     filterQuery(filter),
		"Years":     years,
		"CanExport": user != nil && user.CanExport(),
		"CanDelete": user != nil && user.CanDeleteRecords(),
		"Error":     r.URL.Query().Get("error"),
		"Success":   r.URL.Query().Get("success"),
	}
	render(w, h.templates, "admin", data)
}

// totals sums the valid durations of each employee. Records whose end
// precedes their start are counted but add no time.
func (h *OvertimeHandler) totals(records []models.OvertimeRecord) []EmployeeTotal {
	minutes := make(map[string]int64)
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.EmployeeName]++
		if m := export.ElapsedMinutes(rec.StartTime, rec.EndTime); m > 0 {
			minutes[rec.EmployeeName] += m
		}
	}

	totals := make([]EmployeeTotal, 0, len(counts))
	for name, n := range counts {
		totals = append(totals, EmployeeTotal{
			EmployeeName: name,
			Records:      n,
			Total:        h.locale.FormatMinutes(minutes[name]),
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].EmployeeName < totals[j].EmployeeName
	})
	return totals
}

func (h *OvertimeHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.FormValue("id"), 10, 32)
	if err != nil || id == 0 {
		redirectWithError(w, r, "/admin", msgNotFound)
		return
	}

	rec, err := h.store.Get(r.Context(), uint(id))
	if err == nil {
		err = h.store.DeleteByID(r.Context(), uint(id))
	}
	if errors.Is(err, database.ErrRecordNotFound) {
		redirectWithError(w, r, "/admin", msgNotFound)
		return
	}
	if err != nil {
		log.Printf("overtime: deleting record %d: %v", id, err)
		redirectWithError(w, r, "/admin", "Gagal menghapus data")
		return
	}

	h.removeProofs(rec.ProofStartURL, rec.ProofEndURL)
	redirectWithSuccess(w, r, "/admin", msgDeleted)
}

func (h *OvertimeHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deleteAll(r.Context()); err != nil {
		log.Printf("overtime: deleting all records: %v", err)
		redirectWithError(w, r, "/admin", "Gagal menghapus data")
		return
	}
	redirectWithSuccess(w, r, "/admin", msgDeletedAll)
}

// DeleteAllAPI is the JSON form of DeleteAll.
func (h *OvertimeHandler) DeleteAllAPI(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.deleteAll(r.Context())
	if err != nil {
		log.Printf("overtime: deleting all records: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": msgDeletedAll,
		"deleted": deleted,
	})
}

func (h *OvertimeHandler) deleteAll(ctx context.Context) (int64, error) {
	deleted, err := h.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range deleted {
		h.removeProofs(rec.ProofStartURL, rec.ProofEndURL)
	}
	return int64(len(deleted)), nil
}

func (h *OvertimeHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)
	records, err := h.store.List(r.Context(), filter, true)
	if err != nil {
		exportError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records, h.locale); err != nil {
		exportError(w, err)
		return
	}

	writeDownload(w, export.ContentTypeCSV, export.Filename("Lemburan", "csv", filter, h.now().In(h.config.Location)), buf.Bytes())
}

func (h *OvertimeHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.exportWorkbook(w, r, "Lembur", export.PlainOptions())
}

// ExportXLSXImages embeds both proof images in every row. layout=legacy
// selects the first 100px geometry.
func (h *OvertimeHandler) ExportXLSXImages(w http.ResponseWriter, r *http.Request) {
	opts := export.ImageOptions()
	if r.URL.Query().Get("layout") == "legacy" {
		opts = export.LegacyImageOptions()
	}
	h.exportWorkbook(w, r, "Lembur_Foto", opts)
}

func (h *OvertimeHandler) exportWorkbook(w http.ResponseWriter, r *http.Request, base string, opts export.Options) {
	filter := parseFilter(r)
	records, err := h.store.List(r.Context(), filter, true)
	if err != nil {
		exportError(w, err)
		return
	}

	if opts.IncludeImages {
		if h.config.ImageFetchConcurrency > 0 {
			opts.Concurrency = h.config.ImageFetchConcurrency
		}
		if h.config.ImageFetchTimeout > 0 {
			opts.FetchTimeout = h.config.ImageFetchTimeout
		}
	}

	buf, err := export.NewExporter(h.fetcher, h.locale, opts).Export(r.Context(), records)
	if err != nil {
		exportError(w, err)
		return
	}

	writeDownload(w, export.ContentTypeXLSX, export.Filename(base, "xlsx", filter, h.now().In(h.config.Location)), buf.Bytes())
}

func (h *OvertimeHandler) removeProofs(urls ...string) {
	for _, u := range urls {
		if err := h.proofs.Remove(u); err != nil {
			log.Printf("overtime: removing proof %s: %v", u, err)
		}
	}
}

// parseFilter reads employee, month and year from the query string.
// Out-of-range values are ignored.
func parseFilter(r *http.Request) models.OvertimeFilter {
	q := r.URL.Query()
	f := models.OvertimeFilter{EmployeeName: strings.TrimSpace(q.Get("employee"))}
	if m, err := strconv.Atoi(q.Get("month")); err == nil && m >= 1 && m <= 12 {
		f.Month = m
	}
	if y, err := strconv.Atoi(q.Get("year")); err == nil && y >= 2000 && y <= 2100 {
		f.Year = y
	}
	return f
}

// filterQuery encodes f for export links on the admin page.
func filterQuery(f models.OvertimeFilter) template.URL {
	parts := make([]string, 0, 3)
	if f.EmployeeName != "" {
		parts = append(parts, "employee="+template.URLQueryEscaper(f.EmployeeName))
	}
	if f.Month > 0 {
		parts = append(parts, "month="+strconv.Itoa(f.Month))
	}
	if f.Year > 0 {
		parts = append(parts, "year="+strconv.Itoa(f.Year))
	}
	return template.URL(strings.Join(parts, "&"))
}

func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 || files[0].Size == 0 {
		return nil
	}
	return files[0]
}

func uploadMessage(err error) string {
	switch {
	case errors.Is(err, uploads.ErrInvalidType):
		return msgImagesOnly
	case errors.Is(err, uploads.ErrTooLarge):
		return msgFileTooLarge
	case errors.Is(err, uploads.ErrMissingFile):
		return msgIncomplete
	}
	log.Printf("overtime: storing proof: %v", err)
	return msgSaveFailed
}

func exportError(w http.ResponseWriter, err error) {
	log.Printf("export: %v", err)
	http.Error(w, "Gagal membuat export: "+err.Error(), http.StatusInternalServerError)
}

func writeDownload(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", export.ContentDisposition(filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing json: %v", err)
	}
}

func render(w http.ResponseWriter, templates map[string]*template.Template, name string, data interface{}) {
	tmpl, ok := templates[name]
	if !ok {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		log.Printf("rendering %s: %v", name, err)
	}
}

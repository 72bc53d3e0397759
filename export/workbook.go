package export

import (
	"bytes"
	"context"
	"log"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"lemburan/models"
)

const (
	// SheetName is the single worksheet in every workbook export.
	SheetName = "Lembur"

	headerRows = 1

	// 1-based columns holding the start and end proof (I and J).
	startProofColumn = 9
	endProofColumn   = 10

	// imageMargin is kept free between an image and the next row or column.
	imageMargin = 4
	maxOffset   = 0.5
)

const (
	DefaultImageBox     = 90
	DefaultRowHeight    = 80
	DefaultOffsetX      = 0.2
	DefaultOffsetY      = 0.1
	DefaultConcurrency  = 4
	DefaultFetchTimeout = 10 * time.Second
)

// Column widths in characters. Tabular exports keep the links readable;
// image exports narrow the proof columns to hold the image box.
var (
	tabularColumnWidths = [ColumnCount]float64{5, 25, 40, 12, 10, 12, 10, 15, 50, 50}
	imageColumnWidths   = [ColumnCount]float64{5, 25, 30, 12, 12, 12, 12, 15, 20, 20}
)

// Options selects between the plain tabular workbook and the variant with
// embedded proof images, and fixes the image geometry.
type Options struct {
	IncludeImages bool
	// ImageBox is the side of the square every image is stretched to, in pixels.
	ImageBox int
	// RowHeight is the height of rows carrying images, in points.
	RowHeight float64
	// OffsetX and OffsetY nudge an image inside its cell, as a fraction of
	// the cell width and height.
	OffsetX float64
	OffsetY float64
	// Concurrency caps simultaneous image downloads.
	Concurrency  int
	FetchTimeout time.Duration
}

func PlainOptions() Options {
	return Options{}
}

func ImageOptions() Options {
	return Options{
		IncludeImages: true,
		ImageBox:      DefaultImageBox,
		RowHeight:     DefaultRowHeight,
		OffsetX:       DefaultOffsetX,
		OffsetY:       DefaultOffsetY,
		Concurrency:   DefaultConcurrency,
		FetchTimeout:  DefaultFetchTimeout,
	}
}

// LegacyImageOptions reproduces the first image layout: a 100px box
// anchored at the cell corner.
func LegacyImageOptions() Options {
	o := ImageOptions()
	o.ImageBox = 100
	o.OffsetX = 0
	o.OffsetY = 0
	return o
}

// normalized fills defaults and raises RowHeight so an image row always
// holds the box plus its offset and margin.
func (o Options) normalized() Options {
	if !o.IncludeImages {
		return o
	}
	if o.ImageBox <= 0 {
		o.ImageBox = DefaultImageBox
	}
	o.OffsetX = clamp(o.OffsetX, 0, maxOffset)
	o.OffsetY = clamp(o.OffsetY, 0, maxOffset)
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if floor := minRowHeight(o.ImageBox, o.OffsetY); o.RowHeight < floor {
		o.RowHeight = floor
	}
	return o
}

// Exporter builds xlsx workbooks from overtime records.
type Exporter struct {
	fetcher Fetcher
	locale  Locale
	opts    Options
	widths  [ColumnCount]float64
}

// NewExporter returns an exporter for opts. fetcher is only used when
// opts.IncludeImages is set and may be nil otherwise.
func NewExporter(fetcher Fetcher, loc Locale, opts Options) *Exporter {
	opts = opts.normalized()

	widths := tabularColumnWidths
	if opts.IncludeImages {
		widths = imageColumnWidths
		minWidth := minColumnWidth(opts.ImageBox, opts.OffsetX)
		for _, col := range []int{startProofColumn, endProofColumn} {
			if widths[col-1] < minWidth {
				widths[col-1] = minWidth
			}
		}
	}

	return &Exporter{
		fetcher: fetcher,
		locale:  loc,
		opts:    opts,
		widths:  widths,
	}
}

// Options returns the effective options after defaults and clamping.
func (e *Exporter) Options() Options {
	return e.opts
}

// Export renders records into an xlsx buffer. Rows keep the input order.
// Image failures only leave the affected cell empty.
func (e *Exporter) Export(ctx context.Context, records []models.OvertimeRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := e.build(ctx, f, records); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}
	return buf, nil
}


func (e *Exporter) build(ctx context.Context, f *excelize.File, records []models.OvertimeRecord) error {
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	for i, width := range e.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return errors.Wrap(err, "column name")
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return errors.Wrap(err, "setting column width")
		}
	}

	if err := e.writeHeader(f); err != nil {
		return err
	}

	var proofs []proofPair
	if e.opts.IncludeImages {
		proofs = e.fetchAll(ctx, records)
	}

	centered, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return errors.Wrap(err, "creating cell style")
	}

	for i, rec := range records {
		rowNum := headerRows + i + 1
		row := FormatRecord(i+1, rec, e.locale)

		values := []interface{}{
			row.No, row.EmployeeName, row.Description,
			row.StartDate, row.StartTime, row.EndDate, row.EndTime,
			row.Duration, row.ProofStartURL, row.ProofEndURL,
		}
		if e.opts.IncludeImages {
			values[startProofColumn-1] = ""
			values[endProofColumn-1] = ""
		}

		first, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SheetName, first, &values); err != nil {
			return errors.Wrapf(err, "writing row %d", rowNum)
		}

		if !e.opts.IncludeImages {
			continue
		}

		last, _ := excelize.CoordinatesToCellName(ColumnCount, rowNum)
		if err := f.SetCellStyle(SheetName, first, last, centered); err != nil {
			return errors.Wrapf(err, "styling row %d", rowNum)
		}
		if err := f.SetRowHeight(SheetName, rowNum, e.opts.RowHeight); err != nil {
			return errors.Wrapf(err, "sizing row %d", rowNum)
		}

		e.placeImage(f, rowNum, startProofColumn, proofs[i].start)
		e.placeImage(f, rowNum, endProofColumn, proofs[i].end)
	}

	return nil
}

func (e *Exporter) writeHeader(f *excelize.File) error {
	labels := e.locale.Columns
	if e.opts.IncludeImages {
		labels[startProofColumn-1] = e.locale.PhotoColumns[0]
		labels[endProofColumn-1] = e.locale.PhotoColumns[1]
	}

	header := make([]interface{}, len(labels))
	for i, label := range labels {
		header[i] = label
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	last, _ := excelize.CoordinatesToCellName(ColumnCount, headerRows)
	return errors.Wrap(f.SetCellStyle(SheetName, "A1", last, style), "styling header")
}

// proofPair holds the resized PNG bytes for one record. A nil slot means the
// image could not be loaded.
type proofPair struct {
	start []byte
	end   []byte
}

// fetchAll loads every proof image with at most opts.Concurrency downloads
// in flight. Results are indexed by record so assembly keeps input order.
func (e *Exporter) fetchAll(ctx context.Context, records []models.OvertimeRecord) []proofPair {
	proofs := make([]proofPair, len(records))
	if e.fetcher == nil {
		return proofs
	}

	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i, rec := range records {
		g.Go(func() error {
			proofs[i].start = e.loadImage(ctx, rec.ProofStartURL)
			proofs[i].end = e.loadImage(ctx, rec.ProofEndURL)
			return nil
		})
	}
	_ = g.Wait()

	return proofs
}

func (e *Exporter) loadImage(ctx context.Context, url string) []byte {
	if url == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.FetchTimeout)
	defer cancel()

	data, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Printf("export: skipping image %s: %v", url, err)
		return nil
	}

	img, err := fitToBox(data, e.opts.ImageBox)
	if err != nil {
		log.Printf("export: skipping image %s: %v", url, err)
		return nil
	}
	return img
}

func (e *Exporter) placeImage(f *excelize.File, rowNum, col int, img []byte) {
	if img == nil {
		return
	}

	cell, _ := excelize.CoordinatesToCellName(col, rowNum)
	err := f.AddPictureFromBytes(SheetName, cell, &excelize.Picture{
		Extension: ".png",
		File:      img,
		Format: &excelize.GraphicOptions{
			OffsetX:     int(math.Round(e.opts.OffsetX * columnPixels(e.widths[col-1]))),
			OffsetY:     int(math.Round(e.opts.OffsetY * pointsToPixels(e.opts.RowHeight))),
			ScaleX:      1,
			ScaleY:      1,
			Positioning: "oneCell",
		},
	})
	if err != nil {
		log.Printf("export: embedding image at %s: %v", cell, err)
	}
}

// columnPixels converts a column width in characters to pixels the way
// spreadsheet applications do for the default font.
func columnPixels(width float64) float64 {
	return math.Ceil(width*7 + 0.5 + 5)
}

func pointsToPixels(pt float64) float64 {
	return pt * 96 / 72
}

func pixelsToPoints(px float64) float64 {
	return px * 72 / 96
}

func minRowHeight(box int, offsetY float64) float64 {
	px := float64(box+imageMargin) / (1 - offsetY)
	return math.Ceil(pixelsToPoints(px))
}

func minColumnWidth(box int, offsetX float64) float64 {
	px := float64(box+imageMargin) / (1 - offsetX)
	return math.Ceil((px - 5.5) / 7)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

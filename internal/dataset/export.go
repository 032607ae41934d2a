package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// Format is an export encoding.
type Format string

// Supported export formats.
const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatNDJSON  Format = "ndjson"
	FormatParquet Format = "parquet"
	FormatArrow   Format = "arrow"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists every supported export format.
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatNDJSON, FormatParquet, FormatArrow}
}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: csv, json, ndjson, parquet, arrow)", ErrUnknownFormat, s)
}

// IsBinary reports whether the format should not be written to a terminal.
func (f Format) IsBinary() bool {
	return f == FormatParquet || f == FormatArrow
}

// Export writes d to w in the given format.
func Export(w io.Writer, d *Dataset, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, d)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d.Rows())
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range d.Rows() {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding ndjson row: %w", err)
			}
		}
		return nil
	case FormatParquet:
		return writeParquet(w, d)
	case FormatArrow:
		return writeArrowIPC(w, d)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// ArrowSchema is the canonical schema as an Arrow schema.
func ArrowSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: ColumnCountry, Type: arrow.BinaryTypes.String},
		{Name: ColumnYear, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColumnLifeExpectancy, Type: arrow.PrimitiveTypes.Float64},
	}, nil)
}

// NewRecord builds a single Arrow record holding every row of d. The caller
// must Release it.
func NewRecord(mem memory.Allocator, d *Dataset) arrow.Record {
	b := array.NewRecordBuilder(mem, ArrowSchema())
	defer b.Release()

	countries := b.Field(0).(*array.StringBuilder)
	years := b.Field(1).(*array.Int64Builder)
	values := b.Field(2).(*array.Float64Builder)

	rows := d.Rows()
	countries.Reserve(len(rows))
	years.Reserve(len(rows))
	values.Reserve(len(rows))
	for _, r := range rows {
		countries.Append(r.Country)
		years.Append(int64(r.Year))
		values.Append(r.LifeExpectancy)
	}
	return b.NewRecord()
}

func writeParquet(w io.Writer, d *Dataset) error {
	mem := memory.NewGoAllocator()
	rec := NewRecord(mem, d)
	defer rec.Release()

	table := array.NewTableFromRecords(rec.Schema(), []arrow.Record{rec})
	defer table.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err = writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func writeArrowIPC(w io.Writer, d *Dataset) error {
	mem := memory.NewGoAllocator()
	rec := NewRecord(mem, d)
	defer rec.Release()

	writer, err := ipc.NewFileWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("failed to create arrow writer: %w", err)
	}
	if err = writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	if err = writer.Close(); err != nil {
		return fmt.Errorf("failed to close arrow writer: %w", err)
	}
	return nil
}

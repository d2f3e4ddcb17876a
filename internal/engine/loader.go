package engine

import (
	"bytes"
	encsv "encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/labstack/gommon/log"
)

// adminColumns carry no analytical value and never leave the loader.
var adminColumns = map[string]bool{
	"_id":        true,
	"RegionID":   true,
	"SizeRank":   true,
	"RegionType": true,
}

// Cell spellings treated as missing.
var nullValues = []string{"", "NA", "NaN", "nan", "null", "NULL", "None"}

// ErrMalformed marks a file that could not be turned into a table.
var ErrMalformed = errors.New("malformed dataset file")

// LoadTable reads and parses one dataset file.
func LoadTable(path string) (*Table, error) {
	start := time.Now()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	t, err := ParseTable(content)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	log.Infof("Load Complete. %s Rows: %d. Cols: %d. Time: %v", path, t.NumRows(), len(t.names), time.Since(start))
	return t, nil
}

// ParseTable turns CSV bytes into a Table.
func ParseTable(content []byte) (*Table, error) {
	// 1. Sniff header and column kinds
	header, numeric, err := sniffColumns(content)
	if err != nil {
		return nil, err
	}

	// 2. Arrow schema: Float64 where every present value is a number
	fields := make([]arrow.Field, len(header))
	for i, name := range header {
		var typ arrow.DataType = arrow.BinaryTypes.String
		if numeric[i] {
			typ = arrow.PrimitiveTypes.Float64
		}
		fields[i] = arrow.Field{Name: name, Type: typ, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	// 3. Parse everything into a single record
	mem := memory.DefaultAllocator
	r := csv.NewReader(bytes.NewReader(content), schema,
		csv.WithAllocator(mem),
		csv.WithHeader(true),
		csv.WithNullReader(true, nullValues...),
		csv.WithChunk(-1),
	)
	defer r.Release()

	var rec arrow.Record
	if r.Next() {
		rec = r.Record()
		rec.Retain()
	}
	if err := r.Err(); err != nil {
		if rec != nil {
			rec.Release()
		}
		return nil, errors.Mark(errors.Wrap(err, "decoding rows"), ErrMalformed)
	}
	if rec == nil {
		rec = emptyRecord(mem, schema)
	}

	// 4. Strip administrative columns
	stripped := stripColumns(rec)
	rec.Release()

	return newTable(stripped), nil
}

// sniffColumns reads the header (trimmed) and decides per column whether all
// non-null values are numeric.
func sniffColumns(content []byte) ([]string, []bool, error) {
	cr := encsv.NewReader(bytes.NewReader(content))
	cr.ReuseRecord = true

	raw, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.Mark(errors.New("missing header row"), ErrMalformed)
	}
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrap(err, "reading header"), ErrMalformed)
	}

	header := make([]string, len(raw))
	numeric := make([]bool, len(raw))
	for i, h := range raw {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		numeric[i] = true
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Mark(errors.Wrap(err, "reading rows"), ErrMalformed)
		}
		for i, v := range row {
			if !numeric[i] || isNull(v) {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric[i] = false
			}
		}
	}
	return header, numeric, nil
}

func isNull(v string) bool {
	for _, n := range nullValues {
		if v == n {
			return true
		}
	}
	return false
}

func stripColumns(rec arrow.Record) arrow.Record {
	var (
		fields []arrow.Field
		cols   []arrow.Array
	)
	for i, f := range rec.Schema().Fields() {
		if adminColumns[strings.TrimSpace(f.Name)] {
			continue
		}
		fields = append(fields, f)
		cols = append(cols, rec.Column(i))
	}
	return array.NewRecord(arrow.NewSchema(fields, nil), cols, rec.NumRows())
}

func emptyRecord(mem memory.Allocator, schema *arrow.Schema) arrow.Record {
	cols := make([]arrow.Array, len(schema.Fields()))
	for i, f := range schema.Fields() {
		cols[i] = array.MakeArrayOfNull(mem, f.Type, 0)
	}
	rec := array.NewRecord(schema, cols, 0)
	for _, c := range cols {
		c.Release()
	}
	return rec
}

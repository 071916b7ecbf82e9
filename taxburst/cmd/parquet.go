package cmd

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

const parquetChunkSize = 64 * 1024

// writeParquet stores the enriched table as a Snappy-compressed Parquet file
// of nullable string columns. Empty cells in the resolved rank columns are
// written as nulls; cells in the original annotation columns keep their
// literal value, empty or not.
func writeParquet(table *annotationTable, path string) error {
	rankColumn := make(map[string]bool, len(rankOrder))
	for _, rank := range rankOrder {
		rankColumn[rank] = true
	}

	fields := make([]arrow.Field, len(table.columns))
	for i, name := range table.columns {
		fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	pool := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for _, row := range table.rows {
		for i, name := range table.columns {
			b := builder.Field(i).(*array.StringBuilder)
			value := field(row, i)
			if value == "" && rankColumn[name] {
				b.AppendNull()
				continue
			}
			b.Append(value)
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet output: %w", err)
	}
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	// WriteTable closes the sink itself; closing f again would fail.
	if err := pqarrow.WriteTable(tbl, f, parquetChunkSize, props, pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("write parquet table: %w", err)
	}
	return nil
}

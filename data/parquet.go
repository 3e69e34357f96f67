package data

import "github.com/parquet-go/parquet-go"

// ParquetSaver writes bars as a parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(bars []Bar, path string) error {
	return parquet.WriteFile(path, bars)
}

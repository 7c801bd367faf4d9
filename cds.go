// Package cds provides an in-memory model of self-describing scientific
// datasets in the style of netCDF: a tree of groups holding dimensions,
// typed multi-dimensional variables and attributes.
//
// # Core Features
//
//   - Twelve element types from char to uint64 and variable length strings
//   - Idempotent definitions guarded by definition locks
//   - Unlimited dimensions that grow with the samples written
//   - Type conversion with missing value remapping and range clamping
//   - Time axis helpers for "<unit> since <base time>" variables
//   - netCDF classic files, optionally compressed with Zstd, S2 or LZ4
//   - YAML and TOML schemas for defining dataset structure
//
// # Basic Usage
//
// Defining a dataset and writing it as netCDF:
//
//	import "github.com/arloliu/cds"
//
//	root := cds.NewDataset("station")
//	root.DefineDim("time", 0, true)
//	temp, _ := root.DefineVar("temp", format.TypeFloat, "time")
//	temp.DefineAtt("units", "degC")
//	temp.AppendSamples(values.Of([]float32{21.5, 21.7}))
//
//	path, _ := cds.SaveCompressed("station.nc", root)
//
// Reading it back:
//
//	root, _ = cds.Open(path)
//	data, _ := root.Var("temp").GetSamples(0, -1, format.TypeDouble)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the dataset,
// ncfile and schema packages for the most common use cases. For fine-grained
// control, use those packages directly:
//
//   - format: element types, fill values and compression identifiers
//   - values: typed buffers, casting, parsing and formatting
//   - dataset: the group, dimension, variable and attribute tree
//   - timeaxis: sample times of "time" and "time_offset" variables
//   - ncfile: netCDF classic reader and writer
//   - schema: YAML and TOML dataset schemas
package cds

import (
	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/ncfile"
	"github.com/arloliu/cds/schema"
)

// Version is the version of the cds module.
const Version = "0.3.0"

var defaultWriteOptions = []ncfile.WriteOption{
	ncfile.WithNativeTypes(),
}

var compressedWriteOptions = []ncfile.WriteOption{
	ncfile.WithNativeTypes(),
	ncfile.WithCompression(format.CompressionZstd),
}

// NewDataset creates an empty root group named name.
func NewDataset(name string, opts ...dataset.RootOption) *dataset.Group {
	return dataset.NewRoot(name, opts...)
}

// Open reads the netCDF classic file at path, decompressing it when its
// name ends with a codec suffix.
func Open(path string, opts ...ncfile.ReadOption) (*dataset.Group, error) {
	return ncfile.ReadFile(path, opts...)
}

// Save writes g to path as an uncompressed netCDF classic file. Types
// without a netCDF classic equivalent are widened and recorded in a
// "_NativeType" attribute so that Open restores them.
//
// Returns the path written.
func Save(path string, g *dataset.Group, opts ...ncfile.WriteOption) (string, error) {
	return ncfile.WriteFile(path, g, append(defaultWriteOptions, opts...)...)
}

// SaveCompressed is Save with Zstd compression. The ".zst" suffix is
// appended to path when missing.
func SaveCompressed(path string, g *dataset.Group, opts ...ncfile.WriteOption) (string, error) {
	return ncfile.WriteFile(path, g, append(compressedWriteOptions, opts...)...)
}

// Encode returns the netCDF classic image of g.
func Encode(g *dataset.Group, opts ...ncfile.WriteOption) ([]byte, error) {
	return ncfile.Encode(g, append(defaultWriteOptions, opts...)...)
}

// Decode reads a dataset from a netCDF classic image produced by Encode.
func Decode(data []byte, opts ...ncfile.ReadOption) (*dataset.Group, error) {
	return ncfile.Decode(data, opts...)
}

// LoadSchema builds a new dataset from the YAML or TOML schema file at path.
func LoadSchema(path string, opts ...schema.LoadOption) (*dataset.Group, error) {
	s, err := schema.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}

	return s.Build(nil)
}

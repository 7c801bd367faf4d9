package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arloliu/cds/compress"
	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/ncfile"
	"github.com/arloliu/cds/schema"
)

// load reads the dataset at path. Schema files are recognized by their
// extension and built into a new root group; anything else is read as a
// netCDF classic file.
func (a *app) load(path string) (*dataset.Group, error) {
	if f, ok := schema.FormatFromPath(path); ok {
		s, err := schema.LoadFile(path, schema.WithFormat(f), schema.WithLogger(a.log))
		if err != nil {
			return nil, err
		}
		if s.Name == "" {
			s.Name = datasetName(path)
		}

		return s.Build(nil)
	}

	opts := []ncfile.ReadOption{
		ncfile.WithReadLogger(a.log),
		ncfile.WithName(datasetName(path)),
	}
	if a.codec != 0 {
		opts = append(opts, ncfile.WithDecompression(a.codec))
	}

	return ncfile.ReadFile(path, opts...)
}

// save writes g as a netCDF classic file. Without --compression the codec
// follows the suffix of path.
func (a *app) save(path string, g *dataset.Group) (string, error) {
	codec := a.codec
	if codec == 0 {
		codec = compress.DetectCompression(path)
	}

	return ncfile.WriteFile(path, g,
		ncfile.WithLogger(a.log),
		ncfile.WithCompression(codec),
		ncfile.WithNativeTypes(),
	)
}

// datasetName strips the directory and every known extension from path.
func datasetName(path string) string {
	name := filepath.Base(path)
	if compress.DetectCompression(name) != format.CompressionNone {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// lookupVar resolves a variable by name, or by path relative to g such as
// "site/temp".
func lookupVar(g *dataset.Group, path string) (*dataset.Var, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for _, name := range parts[:len(parts)-1] {
		if g = g.Group(name); g == nil {
			return nil, fmt.Errorf("no group %q in %s", name, path)
		}
	}

	v := g.Var(parts[len(parts)-1])
	if v == nil {
		return nil, fmt.Errorf("no variable %q", path)
	}

	return v, nil
}

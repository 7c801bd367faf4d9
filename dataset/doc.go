// Package dataset implements the object graph of a hierarchical dataset.
//
// A dataset is a tree of groups. Each group owns dimensions, attributes,
// variables and child groups; each variable owns its attributes and its
// sample data. Variables reference the dimensions they are shaped by without
// owning them, so deleting a dimension also deletes every variable using it.
//
// # Basic Usage
//
//	root := dataset.NewRoot("station")
//	if _, err := root.DefineDim("time", 0, true); err != nil {
//		return err
//	}
//	temp, err := root.DefineVar("temp", format.TypeDouble, "time")
//	if err != nil {
//		return err
//	}
//	_, _ = temp.DefineAtt("units", "degC")
//	_, err = temp.AppendSamples(values.Of([]float64{1, 2, 3}))
//
// # Definition Locks
//
// Every entity carries a lock counter managed by its callers. While the
// counter of an entity or of its owner is non-zero, definitions below it
// cannot change: renames, deletes, new children and attribute updates fail
// with errs.ErrLocked. Writing samples is never blocked.
//
// # Concurrency
//
// Nothing in this package synchronizes. Callers sharing a tree between
// goroutines must serialize access to the whole tree.
package dataset

// Package timeaxis reads and writes the time axis of a dataset.
//
// A group, or one of its ancestors, holds a canonical time variable named
// "time" (or "time_offset" when there is none) whose samples are offsets
// from a base time. The base time is encoded in the units attribute of the
// variable, as in "seconds since 2024-01-02 00:00:00 0:00". An optional
// "base_time" variable holds the same base time in Unix epoch seconds.
//
// Sample times may be stored in any integer type up to 64 bits or in a
// floating point type; integer offsets are rounded half away from zero.
//
// FindIndex and FindTimeIndex search sorted sample times.
package timeaxis

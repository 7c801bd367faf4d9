// Package values implements typed value buffers and the conversions between them.
//
// A Buffer is a flat sequence of elements of one registered type
// (see format.TypeID). The package converts buffers between types with exact
// mixed-type comparison, rounding and range control (Cast, CastInto),
// compares them (Compare), fills them (Fill), parses and renders them as
// text (ParseText, FormatText), remaps missing value lists between types
// (RemapMissing) and builds nested slice views for multi-dimensional
// access (BuildIndex).
//
// # Basic Usage
//
//	temps := values.Of([]float64{21.5, 22.25, math.NaN()})
//	shorts, err := values.Cast(temps, format.TypeShort)
//	// shorts holds [22, 22, -32767]
//
//	text := values.FormatText(shorts) // "[22, 22, -32767]"
//	parsed, n, err := values.ParseText(text, format.TypeShort, 0)
//
// All functions are safe for concurrent use on distinct buffers. A Buffer
// shares its storage with the slices it was built from, so concurrent writers
// must synchronize.
package values

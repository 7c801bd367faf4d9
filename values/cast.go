package values

import (
	"fmt"
	"math"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/options"
)

// Range bounds the values produced by a cast.
//
// Each side is optional. A nil Min or Max falls back to the natural limit of
// the destination type, applied only when that limit is narrower than the
// source type on that side. Values beyond a bound are replaced by the matching
// Replace value, or by the bound itself when no replacement is given.
// Bounds and replacements may be any Go numeric type; they are converted to
// the destination type.
type Range struct {
	Min        any
	MinReplace any
	Max        any
	MaxReplace any
}

// CastConfig holds the conversion options of a single cast.
type CastConfig struct {
	mapFrom Buffer
	mapTo   Buffer
	hasMap  bool
	rng     Range
	dstType format.TypeID
}

// CastOption configures Cast and CastInto.
type CastOption = options.Option[*CastConfig]

// WithValueMap replaces every source element equal to from[k] with to[k].
//
// Mapping takes precedence over range checks. NaN in from matches NaN
// elements. from is converted to the source type and to to the destination
// type when their types differ; entries whose from value the source type
// cannot hold exactly are ignored.
func WithValueMap(from, to Buffer) CastOption {
	return options.New(func(c *CastConfig) error {
		if from.Len() != to.Len() {
			return fmt.Errorf("%w: value map has %d sources and %d targets", errs.ErrType, from.Len(), to.Len())
		}
		c.mapFrom, c.mapTo, c.hasMap = from, to, from.Len() > 0

		return nil
	})
}

// WithRange clamps or replaces out of range values.
func WithRange(r Range) CastOption {
	return options.NoError(func(c *CastConfig) {
		c.rng = r
	})
}

// Cast converts src to a new buffer of type dstType.
//
// Integer destinations receive float values rounded half away from zero;
// NaN becomes the destination default fill. Values outside the destination
// range are clamped (see Range); infinities pass between float types unless
// an explicit bound applies. Text and strings convert only to themselves.
//
// Returns errs.ErrType for unsupported conversions and errs.ErrAlloc when the
// destination cannot be allocated.
func Cast(src Buffer, dstType format.TypeID, opts ...CastOption) (Buffer, error) {
	if !src.IsValid() {
		return New(dstType, 0)
	}

	dst, err := New(dstType, src.Len())
	if err != nil {
		return Buffer{}, err
	}

	if _, err := CastInto(dst, src, opts...); err != nil {
		return Buffer{}, err
	}

	return dst, nil
}

// CastInto converts src into the existing storage of dst.
//
// The first min(dst.Len(), src.Len()) elements are converted and that
// count is returned.
func CastInto(dst, src Buffer, opts ...CastOption) (int, error) {
	cfg := &CastConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return 0, err
	}

	n := min(dst.Len(), src.Len())

	if src.typ == format.TypeString || dst.typ == format.TypeString {
		if src.typ != dst.typ {
			return 0, fmt.Errorf("%w: cannot convert %s to %s", errs.ErrType, src.typ, dst.typ)
		}
		castStrings(dst.data.([]string)[:n], src.data.([]string)[:n], cfg)

		return n, nil
	}

	if !format.IsNumeric(src.typ) || !format.IsNumeric(dst.typ) {
		return 0, fmt.Errorf("%w: cannot convert %s to %s", errs.ErrType, src.typ, dst.typ)
	}

	cfg.dstType = dst.typ
	if cfg.hasMap {
		if err := cfg.resolveMap(src, dst); err != nil {
			return 0, err
		}
	}

	if err := castFrom(dst.data, src.data, n, cfg); err != nil {
		return 0, err
	}

	return n, nil
}

// resolveMap converts the value map to the source and destination types.
// Entries whose source value src cannot hold exactly are dropped: no
// element of src can equal them.
func (c *CastConfig) resolveMap(src, dst Buffer) error {
	read, ok := numReader(c.mapFrom.data)
	if !ok {
		return fmt.Errorf("%w: cannot map %s values onto %s", errs.ErrType, c.mapFrom.typ, src.typ)
	}

	keep := make([]int, 0, c.mapFrom.Len())
	for k, n := 0, c.mapFrom.Len(); k < n; k++ {
		if fitsType(src, read(k)) {
			keep = append(keep, k)
		}
	}

	from, err := Cast(pick(c.mapFrom, keep), src.typ)
	if err != nil {
		return err
	}
	to, err := Cast(pick(c.mapTo, keep), dst.typ)
	if err != nil {
		return err
	}
	c.mapFrom, c.mapTo = from, to

	return nil
}

func castStrings(dst, src []string, cfg *CastConfig) {
	var from, to []string
	if cfg.hasMap {
		from, _ = Elements[string](cfg.mapFrom)
		to, _ = Elements[string](cfg.mapTo)
	}

	for i, s := range src {
		dst[i] = s
		for k := range from {
			if s == from[k] && k < len(to) {
				dst[i] = to[k]
				break
			}
		}
	}
}

func castFrom(dst, src any, n int, cfg *CastConfig) error {
	switch s := src.(type) {
	case []int8:
		return castTo(dst, s[:n], cfg)
	case []int16:
		return castTo(dst, s[:n], cfg)
	case []int32:
		return castTo(dst, s[:n], cfg)
	case []int64:
		return castTo(dst, s[:n], cfg)
	case []uint8:
		return castTo(dst, s[:n], cfg)
	case []uint16:
		return castTo(dst, s[:n], cfg)
	case []uint32:
		return castTo(dst, s[:n], cfg)
	case []uint64:
		return castTo(dst, s[:n], cfg)
	case []float32:
		return castTo(dst, s[:n], cfg)
	case []float64:
		return castTo(dst, s[:n], cfg)
	default:
		return fmt.Errorf("%w: unsupported source %T", errs.ErrType, src)
	}
}

func castTo[S Number](dst any, src []S, cfg *CastConfig) error {
	switch d := dst.(type) {
	case []int8:
		return castSlice(d, src, cfg)
	case []int16:
		return castSlice(d, src, cfg)
	case []int32:
		return castSlice(d, src, cfg)
	case []int64:
		return castSlice(d, src, cfg)
	case []uint8:
		return castSlice(d, src, cfg)
	case []uint16:
		return castSlice(d, src, cfg)
	case []uint32:
		return castSlice(d, src, cfg)
	case []uint64:
		return castSlice(d, src, cfg)
	case []float32:
		return castSlice(d, src, cfg)
	case []float64:
		return castSlice(d, src, cfg)
	default:
		return fmt.Errorf("%w: unsupported destination %T", errs.ErrType, dst)
	}
}

// castPlan is a cast resolved for one source and destination element type.
type castPlan[S, D Number] struct {
	mapFrom []S
	mapTo   []D

	hasLow  bool
	low     num
	lowOut  D
	hasHigh bool
	high    num
	highOut D

	srcKind numKind
	round   bool
	nanFill D
	// keepInf passes infinities through when both types are floats and
	// the bound on that side is the natural one.
	keepInf bool
	userLow bool
	userHi  bool
}

func newCastPlan[S, D Number](cfg *CastConfig) (*castPlan[S, D], error) {
	p := &castPlan[S, D]{
		srcKind: kindOf[S](),
		round:   kindOf[S]() == kindFloat && kindOf[D]() != kindFloat,
		keepInf: kindOf[S]() == kindFloat && kindOf[D]() == kindFloat,
		userLow: cfg.rng.Min != nil,
		userHi:  cfg.rng.Max != nil,
	}

	if v, ok := format.DefaultFill(cfg.dstType); ok {
		p.nanFill, _ = v.(D)
	}

	if cfg.hasMap {
		p.mapFrom, _ = Elements[S](cfg.mapFrom)
		p.mapTo, _ = Elements[D](cfg.mapTo)
	}

	srcLo, srcHi := limitsOf[S]()
	dstLo, dstHi := limitsOf[D]()

	var err error
	switch {
	case cfg.rng.Min != nil:
		p.hasLow = true
		if p.low, p.lowOut, err = boundOf[D](cfg.rng.Min, cfg.rng.MinReplace); err != nil {
			return nil, err
		}
	case cmpNum(dstLo, srcLo) > 0:
		p.hasLow = true
		if p.low, p.lowOut, err = boundOf[D](store[D](dstLo), cfg.rng.MinReplace); err != nil {
			return nil, err
		}
	}

	switch {
	case cfg.rng.Max != nil:
		p.hasHigh = true
		if p.high, p.highOut, err = boundOf[D](cfg.rng.Max, cfg.rng.MaxReplace); err != nil {
			return nil, err
		}
	case cmpNum(dstHi, srcHi) < 0:
		p.hasHigh = true
		if p.high, p.highOut, err = boundOf[D](store[D](dstHi), cfg.rng.MaxReplace); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// boundOf converts a bound and its optional replacement to the destination type.
func boundOf[D Number](bound, replace any) (num, D, error) {
	var zero D

	b, ok := scalarNum(bound)
	if !ok {
		return num{}, zero, fmt.Errorf("%w: invalid range bound %v", errs.ErrType, bound)
	}
	lo, hi := limitsOf[D]()
	if cmpNum(b, lo) < 0 {
		b = lo
	}
	if cmpNum(b, hi) > 0 {
		b = hi
	}
	b = load(kindOf[D](), convertNum[D](b, zero))

	if replace == nil {
		return b, store[D](b), nil
	}

	r, ok := scalarNum(replace)
	if !ok {
		return num{}, zero, fmt.Errorf("%w: invalid range replacement %v", errs.ErrType, replace)
	}

	return b, convertNum[D](r, zero), nil
}

func (p *castPlan[S, D]) lookup(v S) int {
	for k, f := range p.mapFrom {
		if v == f || (v != v && f != f) { //nolint: gocritic
			return k
		}
	}

	return -1
}

func (p *castPlan[S, D]) convert(v S) D {
	if len(p.mapFrom) > 0 {
		if k := p.lookup(v); k >= 0 && k < len(p.mapTo) {
			return p.mapTo[k]
		}
	}

	x := load(p.srcKind, v)
	if p.round {
		if math.IsNaN(x.f) {
			return p.nanFill
		}
		x.f = math.Round(x.f)
	}
	if p.keepInf && math.IsInf(x.f, 0) && !(x.f > 0 && p.userHi) && !(x.f < 0 && p.userLow) {
		return D(x.f)
	}

	if p.hasLow && cmpNum(x, p.low) < 0 {
		return p.lowOut
	}
	if p.hasHigh && cmpNum(x, p.high) > 0 {
		return p.highOut
	}

	return store[D](x)
}

func castSlice[S, D Number](dst []D, src []S, cfg *CastConfig) error {
	p, err := newCastPlan[S, D](cfg)
	if err != nil {
		return err
	}

	for i, v := range src {
		dst[i] = p.convert(v)
	}

	return nil
}

func fillOf[T Number](b Buffer) T {
	v, _ := format.DefaultFill(b.typ)
	f, _ := v.(T)

	return f
}

package ncfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/endian"
	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// numRecsOffset is the position of the big-endian record count in a
// classic header.
const numRecsOffset = 4

// Write encodes g as a netCDF classic image into rw.
//
// Only the dimensions, attributes and variables of g itself are written,
// plus the ancestor dimensions its variables use; child groups are skipped
// with a warning. The first unlimited dimension becomes the record
// dimension and any other unlimited dimension is written with its current
// length. Types without a classic equivalent are widened (ubyte to short,
// ushort to int, uint, int64 and uint64 to double) with their missing
// values remapped. String variables and attributes holding more than one
// string are skipped with a warning.
//
// Parameters:
//   - rw: Destination; the image is written at offset 0
//   - g: Group to write
//   - opts: Optional configuration
//
// Returns errs.ErrConflict for clashing dimension names and errs.ErrType for
// definitions netCDF classic cannot hold.
func Write(rw cdf.ReaderWriterAt, g *dataset.Group, opts ...WriteOption) error {
	cfg, err := newWriteConfig(opts...)
	if err != nil {
		return err
	}
	if g.Detached() {
		return fmt.Errorf("%w: %s", errs.ErrDetached, g.Path())
	}
	if cfg.logger == nil {
		cfg.logger = g.Logger()
	}

	w := &writer{cfg: cfg, group: g}
	if err := w.plan(); err != nil {
		return err
	}

	h, err := w.header()
	if err != nil {
		return err
	}

	out := &extentWriter{ReaderWriterAt: rw}
	f, err := cdf.Create(out, h)
	if err != nil {
		return err
	}
	for _, wv := range w.vars {
		if err := w.writeData(f, wv); err != nil {
			return err
		}
	}
	if err := padRecords(out, h, w.nrec); err != nil {
		return err
	}

	var buf [4]byte
	endian.GetBigEndianEngine().PutUint32(buf[:], uint32(w.nrec))
	_, err = rw.WriteAt(buf[:], numRecsOffset)

	return err
}

type fileDim struct {
	dim    *dataset.Dim
	length int
}

type fileVar struct {
	v        *dataset.Var
	fileType format.TypeID
	dims     []string
	lengths  []int
	record   bool
}

type writer struct {
	cfg   *WriteConfig
	group *dataset.Group
	dims  []fileDim
	vars  []fileVar
	rec   *dataset.Dim
	nrec  int
}

func (w *writer) log() logrus.FieldLogger {
	return w.cfg.logger
}

// plan selects the dimensions and variables to write.
func (w *writer) plan() error {
	g := w.group
	for _, child := range g.Groups() {
		w.log().WithField("path", child.Path()).Warn("netCDF classic has no groups, skipping sub-group")
	}

	for _, d := range g.Dims() {
		if err := w.addDim(d); err != nil {
			return err
		}
	}
	for _, v := range g.Vars() {
		for _, d := range v.Dims() {
			if err := w.addDim(d); err != nil {
				return err
			}
		}
	}

	for _, v := range g.Vars() {
		fv, ok := w.planVar(v)
		if ok {
			w.vars = append(w.vars, fv)
		}
	}

	return nil
}

func (w *writer) addDim(d *dataset.Dim) error {
	for _, fd := range w.dims {
		if fd.dim == d {
			return nil
		}
		if fd.dim.Name() == d.Name() {
			return fmt.Errorf("%w: dimensions %s and %s share a name", errs.ErrConflict, fd.dim.Path(), d.Path())
		}
	}

	fd := fileDim{dim: d, length: d.Length()}
	if d.IsUnlimited() && w.rec == nil {
		w.rec = d
		w.nrec = d.Length()
		fd.length = 0
	}
	w.dims = append(w.dims, fd)

	return nil
}

func (w *writer) dimLength(d *dataset.Dim) int {
	for _, fd := range w.dims {
		if fd.dim == d {
			return fd.length
		}
	}

	return -1
}

func (w *writer) planVar(v *dataset.Var) (fileVar, bool) {
	ft, ok := classicType(v.Type())
	if !ok {
		w.log().WithFields(logrus.Fields{
			"path": v.Path(),
			"type": v.Type(),
		}).Warn("type has no netCDF classic equivalent, skipping variable")

		return fileVar{}, false
	}

	fv := fileVar{v: v, fileType: ft}
	for i, d := range v.Dims() {
		n := w.dimLength(d)
		if d == w.rec && i == 0 {
			fv.record = true
		} else if n <= 0 {
			w.log().WithFields(logrus.Fields{
				"path": v.Path(),
				"dim":  d.Name(),
			}).Warn("dimension has no length, skipping variable")

			return fileVar{}, false
		}
		fv.dims = append(fv.dims, d.Name())
		fv.lengths = append(fv.lengths, n)
	}

	if ft != v.Type() {
		w.log().WithFields(logrus.Fields{
			"path": v.Path(),
			"from": v.Type(),
			"to":   ft,
		}).Warn("type has no netCDF classic equivalent, widening")
	}

	return fv, true
}

// header builds and defines the classic header.
func (w *writer) header() (h *cdf.Header, err error) {
	// cdf reports invalid definitions by panicking.
	defer func() {
		if p := recover(); p != nil {
			h, err = nil, fmt.Errorf("%w: cannot define netCDF header for %s: %v", errs.ErrType, w.group.Path(), p)
		}
	}()

	var names []string
	var lengths []int
	for _, fd := range w.dims {
		if fd.length == 0 && fd.dim != w.rec {
			continue
		}
		names = append(names, fd.dim.Name())
		lengths = append(lengths, fd.length)
	}
	h = cdf.NewHeader(names, lengths)

	if err := w.addAtts(h, "", w.group.Atts(), format.TypeUndefined, format.TypeUndefined); err != nil {
		return nil, err
	}

	for _, fv := range w.vars {
		zero, err := toCDF(zeroBuffer(fv.fileType))
		if err != nil {
			return nil, err
		}
		h.AddVariable(fv.v.Name(), fv.dims, zero)

		if err := w.addAtts(h, fv.v.Name(), fv.v.Atts(), fv.v.Type(), fv.fileType); err != nil {
			return nil, err
		}
		if w.cfg.nativeTypes && fv.fileType != fv.v.Type() && fv.v.Att(NativeTypeAtt) == nil {
			h.AddAttribute(fv.v.Name(), NativeTypeAtt, fv.v.Type().String())
		}
	}

	h.Define()
	if problems := h.Check(); len(problems) > 0 {
		return nil, fmt.Errorf("%w: invalid netCDF header for %s: %w", errs.ErrType, w.group.Path(), errors.Join(problems...))
	}

	return h, nil
}

// addAtts adds atts to variable varName of h. Attributes of a widened
// variable that hold values of the variable type follow the variable:
// missing values are remapped and valid_* bounds are cast.
func (w *writer) addAtts(h *cdf.Header, varName string, atts []*dataset.Att, varType, fileType format.TypeID) error {
	for _, a := range atts {
		buf, ok, err := w.attBuffer(a, varType, fileType)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		val, err := toCDF(buf)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Path(), err)
		}
		h.AddAttribute(varName, a.Name(), val)
	}

	return nil
}

func (w *writer) attBuffer(a *dataset.Att, varType, fileType format.TypeID) (values.Buffer, bool, error) {
	buf := a.Value()
	t := buf.Type()

	if t == format.TypeString {
		ss, _ := values.Elements[string](buf)
		if len(ss) == 1 {
			return values.Text(ss[0]), true, nil
		}
		w.log().WithField("path", a.Path()).Warn("string attribute with several values, skipping")

		return values.Buffer{}, false, nil
	}

	target, _ := classicType(t)
	if t == varType && varType != fileType {
		target = fileType
	}
	if target == t {
		return buf, true, nil
	}

	if t == varType && values.IsMissingValueAttName(a.Name()) {
		mapped, err := values.RemapMissing(buf, target)
		return mapped, err == nil, err
	}
	cast, err := values.Cast(buf, target)

	return cast, err == nil, err
}

func (w *writer) writeData(f *cdf.File, fv fileVar) error {
	v := fv.v

	n := 1
	for i, l := range fv.lengths {
		if fv.record && i == 0 {
			l = w.nrec
		}
		n *= l
	}
	if n == 0 {
		return nil
	}

	buf, err := v.GetSamples(0, -1, fv.fileType)
	if err != nil {
		return err
	}
	if buf.Len() > n {
		buf = buf.Slice(0, n)
	}
	if pad := n - buf.Len(); pad > 0 {
		old := buf.Len()
		if buf, err = values.Grow(buf, pad); err != nil {
			return err
		}
		if fill, ok := padValue(v, fv.fileType); ok {
			if err := values.Fill(buf.Slice(old, n), fill); err != nil {
				return err
			}
		}
	}

	val, err := toCDF(buf)
	if err != nil {
		return err
	}

	written, err := f.Writer(v.Name(), nil, nil).Write(val)
	if err != nil && !(errors.Is(err, io.EOF) && written == n) {
		return fmt.Errorf("writing %s: %w", v.Path(), err)
	}

	return nil
}

// padValue returns the value that fills samples a variable has no data
// for: its first missing value, converted to the file type.
func padValue(v *dataset.Var, fileType format.TypeID) (values.Buffer, bool) {
	if v.Type() == format.TypeChar {
		return values.Buffer{}, false
	}
	missing, err := values.RemapMissing(v.MissingValues(), fileType)
	if err != nil || missing.Len() == 0 {
		return values.Buffer{}, false
	}

	return missing.Slice(0, 1), true
}

func zeroBuffer(t format.TypeID) values.Buffer {
	b, _ := values.New(t, 0)
	return b
}

// extentWriter tracks the end of the data written through it.
type extentWriter struct {
	cdf.ReaderWriterAt
	end int64
}

func (w *extentWriter) WriteAt(p []byte, off int64) (int, error) {
	n, err := w.ReaderWriterAt.WriteAt(p, off)
	w.end = max(w.end, off+int64(n))

	return n, err
}

// padRecords zero fills the alignment padding after the last record, so
// the record count derived from the file size is nrec.
func padRecords(w *extentWriter, h *cdf.Header, nrec int) error {
	size := w.end
	for i := 0; i < 4 && h.NumRecs(size) < int64(nrec); i++ {
		size++
	}
	if size == w.end {
		return nil
	}

	_, err := w.WriteAt(make([]byte, size-w.end), w.end)

	return err
}

package ncfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// Read builds a dataset tree from the netCDF classic image in rw.
//
// Dimensions of length 0 become unlimited dimensions. The number of records
// is derived from size, so files left in streaming mode are read as well.
// BYTE data is signed. Variables carrying a NativeTypeAtt attribute, or
// named in a WithVarType option, are converted to the requested type.
//
// Parameters:
//   - rw: File image; only ReadAt is used
//   - size: Size of the image in bytes
//   - opts: Optional configuration
//
// Returns:
//   - *dataset.Group: New root group holding the file contents
//   - error: errs.ErrType when rw does not hold a valid image
func Read(rw cdf.ReaderWriterAt, size int64, opts ...ReadOption) (*dataset.Group, error) {
	cfg, err := newReadConfig(opts...)
	if err != nil {
		return nil, err
	}

	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("%w: not a netCDF classic image: %v", errs.ErrType, err)
	}
	if problems := f.Header.Check(); len(problems) > 0 {
		return nil, fmt.Errorf("%w: invalid netCDF header: %w", errs.ErrType, errors.Join(problems...))
	}

	r := &reader{
		file: f,
		cfg:  cfg,
		root: dataset.NewRoot(cfg.name, dataset.WithLogger(cfg.logger)),
		nrec: int(f.Header.NumRecs(size)),
	}
	if err := r.read(); err != nil {
		return nil, err
	}

	return r.root, nil
}

type reader struct {
	file *cdf.File
	cfg  *ReadConfig
	root *dataset.Group
	nrec int
}

func (r *reader) read() error {
	h := r.file.Header

	lengths := h.Lengths("")
	for i, name := range h.Dimensions("") {
		if _, err := r.root.DefineDim(name, lengths[i], lengths[i] == 0); err != nil {
			return err
		}
	}

	if err := r.readAtts(r.root, ""); err != nil {
		return err
	}

	for _, name := range h.Variables() {
		if err := r.readVar(name); err != nil {
			return err
		}
	}

	return nil
}

func (r *reader) readAtts(owner interface {
	DefineAtt(name string, value any) (*dataset.Att, error)
}, varName string,
) error {
	h := r.file.Header
	for _, name := range h.Attributes(varName) {
		if varName != "" && name == NativeTypeAtt {
			continue
		}
		buf, err := fromCDF(h.GetAttribute(varName, name))
		if err != nil {
			return fmt.Errorf("attribute %s of %q: %w", name, varName, err)
		}
		if _, err := owner.DefineAtt(name, buf); err != nil {
			return err
		}
	}

	return nil
}

func (r *reader) readVar(name string) error {
	h := r.file.Header

	t := typeOf(h.ZeroValue(name, 0))
	v, err := r.root.DefineVar(name, t, h.Dimensions(name)...)
	if err != nil {
		return err
	}
	if err := r.readAtts(v, name); err != nil {
		return err
	}

	samples := 1
	lengths := h.Lengths(name)
	if h.IsRecordVariable(name) {
		samples = r.nrec
	} else if len(lengths) > 0 {
		samples = lengths[0]
	}
	if samples > 0 && v.SampleSize() > 0 {
		if err := r.readData(v, lengths, samples); err != nil {
			return err
		}
	}

	target, ok := r.cfg.varTypes[name]
	if !ok {
		target, ok = nativeType(h.GetAttribute(name, NativeTypeAtt))
	}
	if ok && target != t {
		if err := v.ChangeType(target); err != nil {
			return err
		}
		r.cfg.logger.WithFields(logrus.Fields{
			"path": v.Path(),
			"from": t,
			"to":   target,
		}).Debug("variable converted after reading")
	}

	return nil
}

func (r *reader) readData(v *dataset.Var, lengths []int, samples int) error {
	view, err := v.AllocSamples(0, samples)
	if err != nil {
		return err
	}

	var end []int
	if len(lengths) > 0 {
		end = make([]int, len(lengths))
		end[0] = samples - 1
		for i := 1; i < len(lengths); i++ {
			end[i] = lengths[i] - 1
		}
	}

	dst := view.Data()
	if v.Type() == format.TypeByte {
		dst = make([]uint8, view.Len())
	}

	n, err := r.file.Reader(v.Name(), nil, end).Read(dst)
	if err != nil && !(errors.Is(err, io.EOF) && n == view.Len()) {
		return fmt.Errorf("%w: reading %s: %v", errs.ErrType, v.Path(), err)
	}

	if raw, ok := dst.([]uint8); ok && v.Type() == format.TypeByte {
		out, _ := values.Elements[int8](view)
		for i, c := range raw {
			out[i] = int8(c)
		}
	}

	return nil
}

func nativeType(val any) (format.TypeID, bool) {
	s, ok := val.(string)
	if !ok {
		return format.TypeUndefined, false
	}

	return format.ParseTypeID(s)
}

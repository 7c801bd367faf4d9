package dataset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/options"
)

// Group is a named container of dimensions, attributes, variables and
// child groups. Children keep their definition order.
type Group struct {
	entity
	attList

	parent *Group
	dims   []*Dim
	vars   []*Var
	groups []*Group
	log    logrus.FieldLogger
}

var _ Object = (*Group)(nil)

// RootOption configures a root group created by NewRoot.
type RootOption = options.Option[*Group]

// WithLogger sets the logger used by the whole tree. Structural events such
// as cascading deletes and type changes are logged at debug level.
// The default is logrus.StandardLogger().
func WithLogger(l logrus.FieldLogger) RootOption {
	return options.NoError(func(g *Group) {
		if l != nil {
			g.log = l
		}
	})
}

// NewRoot returns a new, empty root group.
//
// Parameters:
//   - name: Dataset name; may be empty
//   - opts: Optional configuration such as WithLogger
func NewRoot(name string, opts ...RootOption) *Group {
	g := &Group{
		entity: entity{name: name},
		log:    logrus.StandardLogger(),
	}
	g.attList.owner = g
	_ = options.Apply(g, opts...)

	return g
}

// Kind returns KindGroup.
func (g *Group) Kind() Kind { return KindGroup }

// Parent returns the parent group, or nil for the root.
func (g *Group) Parent() Object {
	if g.parent == nil {
		return nil
	}

	return g.parent
}

// ParentGroup returns the parent group as *Group, or nil for the root.
func (g *Group) ParentGroup() *Group { return g.parent }

// Path returns the absolute path of the group. The root path is "/".
func (g *Group) Path() string {
	if g.parent == nil {
		return "/"
	}

	return childPath(g.parent.Path(), g.name)
}

// Root returns the topmost ancestor of g.
func (g *Group) Root() *Group {
	r := g
	for r.parent != nil {
		r = r.parent
	}

	return r
}

// IsRoot reports whether g has no parent.
func (g *Group) IsRoot() bool { return g.parent == nil && !g.deleted }

// Logger returns the logger of the tree g belongs to.
func (g *Group) Logger() logrus.FieldLogger {
	if r := g.Root(); r.log != nil {
		return r.log
	}

	return logrus.StandardLogger()
}

// DefineGroup returns the child group named name, creating it when absent.
//
// An existing child is returned as is. Creating a child fails with
// errs.ErrLocked when g is locked.
func (g *Group) DefineGroup(name string) (*Group, error) {
	if err := checkAttached(g); err != nil {
		return nil, err
	}
	if err := validateName(KindGroup, name); err != nil {
		return nil, err
	}

	if existing := g.Group(name); existing != nil {
		return existing, nil
	}
	if err := checkUnlocked(g); err != nil {
		return nil, err
	}

	child := &Group{entity: entity{name: name}, parent: g}
	child.attList.owner = child
	g.groups = append(g.groups, child)

	return child, nil
}

// Group returns the child group named name, or nil. Only direct children are searched.
func (g *Group) Group(name string) *Group {
	for _, c := range g.groups {
		if c.name == name {
			return c
		}
	}

	return nil
}

// Groups returns the child groups in definition order.
func (g *Group) Groups() []*Group {
	return slices.Clone(g.groups)
}

// DefineDim returns the dimension named name, creating it when absent.
//
// An existing dimension is returned when its unlimited flag and, for fixed
// dimensions, its length match. Any other definition fails with
// errs.ErrConflict and leaves the existing dimension unchanged.
//
// Parameters:
//   - name: Dimension name
//   - length: Fixed length; ignored for unlimited dimensions
//   - unlimited: Whether the length tracks the samples written
func (g *Group) DefineDim(name string, length int, unlimited bool) (*Dim, error) {
	if err := checkAttached(g); err != nil {
		return nil, err
	}
	if err := validateName(KindDim, name); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d for dimension %s", errs.ErrType, length, childPath(g.Path(), dimsSegment, name))
	}
	if unlimited {
		length = 0
	}

	if d := g.localDim(name); d != nil {
		if d.unlimited == unlimited && (unlimited || d.length == length) {
			return d, nil
		}

		return nil, fmt.Errorf("%w: dimension %s already defined as %s", errs.ErrConflict, d.Path(), d.describe())
	}
	if err := checkUnlocked(g); err != nil {
		return nil, err
	}

	d := &Dim{entity: entity{name: name}, group: g, length: length, unlimited: unlimited}
	g.dims = append(g.dims, d)

	return d, nil
}

// Dim returns the dimension named name visible from g: defined in g or,
// failing that, in the nearest ancestor. It returns nil when none is visible.
func (g *Group) Dim(name string) *Dim {
	for cur := g; cur != nil; cur = cur.parent {
		if d := cur.localDim(name); d != nil {
			return d
		}
	}

	return nil
}

// Dims returns the dimensions defined in g in definition order.
func (g *Group) Dims() []*Dim {
	return slices.Clone(g.dims)
}

func (g *Group) localDim(name string) *Dim {
	for _, d := range g.dims {
		if d.name == name {
			return d
		}
	}

	return nil
}

// DefineVar returns the variable named name, creating it when absent.
//
// Every dimension must be visible from g, and an unlimited dimension may
// only appear first. An existing variable is returned when its type and
// dimensions match exactly; any other definition fails with errs.ErrConflict.
//
// Parameters:
//   - name: Variable name
//   - t: Element type
//   - dimNames: Dimension names, outermost first; none for a scalar
func (g *Group) DefineVar(name string, t format.TypeID, dimNames ...string) (*Var, error) {
	if err := checkAttached(g); err != nil {
		return nil, err
	}
	if err := validateName(KindVar, name); err != nil {
		return nil, err
	}
	path := childPath(g.Path(), varsSegment, name)
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unsupported type %s for variable %s", errs.ErrType, t, path)
	}

	dims := make([]*Dim, 0, len(dimNames))
	for i, dn := range dimNames {
		d := g.Dim(dn)
		if d == nil {
			return nil, fmt.Errorf("%w: dimension %s is not visible from variable %s", errs.ErrNotFound, dn, path)
		}
		if d.unlimited && i > 0 {
			return nil, fmt.Errorf("%w: unlimited dimension %s must be the first dimension of %s", errs.ErrType, dn, path)
		}
		dims = append(dims, d)
	}

	if v := g.Var(name); v != nil {
		if v.typ == t && slices.Equal(v.dims, dims) {
			return v, nil
		}

		return nil, fmt.Errorf("%w: variable %s already defined as %s(%v)", errs.ErrConflict, path, v.typ, v.DimNames())
	}
	if err := checkUnlocked(g); err != nil {
		return nil, err
	}

	v := &Var{entity: entity{name: name}, group: g, typ: t, dims: dims}
	v.attList.owner = v
	g.vars = append(g.vars, v)

	return v, nil
}

// Var returns the variable named name defined in g, or nil.
func (g *Group) Var(name string) *Var {
	for _, v := range g.vars {
		if v.name == name {
			return v
		}
	}

	return nil
}

// Vars returns the variables defined in g in definition order.
func (g *Group) Vars() []*Var {
	return slices.Clone(g.vars)
}

// Rename changes the name of g.
//
// Fails with errs.ErrConflict if a sibling group already uses name, and
// with errs.ErrLocked if g or its parent is locked.
func (g *Group) Rename(name string) error {
	if err := checkAttached(g); err != nil {
		return err
	}
	if name == g.name {
		return nil
	}
	if g.parent != nil {
		if err := validateName(KindGroup, name); err != nil {
			return err
		}
	}
	if err := checkUnlocked(g, g.Parent()); err != nil {
		return err
	}
	if g.parent != nil && g.parent.Group(name) != nil {
		return fmt.Errorf("%w: group %s already exists", errs.ErrConflict, childPath(g.parent.Path(), name))
	}

	g.name = name

	return nil
}

// Delete removes g and destroys its whole subtree.
//
// Fails with errs.ErrLocked if g or its parent is locked.
func (g *Group) Delete() error {
	if err := checkAttached(g); err != nil {
		return err
	}
	if err := checkUnlocked(g, g.Parent()); err != nil {
		return err
	}

	if g.parent != nil {
		g.parent.groups = removeItem(g.parent.groups, g)
	}
	g.destroy()

	return nil
}

func (g *Group) destroy() {
	for _, c := range g.groups {
		c.destroy()
	}
	for _, v := range g.vars {
		v.destroy()
	}
	for _, d := range g.dims {
		d.destroy()
	}
	g.attList.destroy()

	g.groups, g.vars, g.dims = nil, nil, nil
	g.parent = nil
	g.deleted = true
}

// IsDimUsed reports whether any variable in g or its descendants references
// d and holds at least one sample.
func (g *Group) IsDimUsed(d *Dim) bool {
	used := false
	_ = g.Walk(func(cur *Group) error {
		for _, v := range cur.vars {
			if v.usesDim(d) && v.SampleCount() > 0 {
				used = true
				return errStopWalk
			}
		}

		return nil
	})

	return used
}

var errStopWalk = errors.New("stop walk")

// Walk calls fn for g and each descendant group in pre-order.
// A non-nil error from fn stops the walk and is returned.
func (g *Group) Walk(fn func(*Group) error) error {
	err := g.walk(fn)
	if errors.Is(err, errStopWalk) {
		return nil
	}

	return err
}

func (g *Group) walk(fn func(*Group) error) error {
	if err := fn(g); err != nil {
		return err
	}
	for _, c := range g.groups {
		if err := c.walk(fn); err != nil {
			return err
		}
	}

	return nil
}

func removeItem[T comparable](items []T, item T) []T {
	if i := slices.Index(items, item); i >= 0 {
		return slices.Delete(items, i, i+1)
	}

	return items
}

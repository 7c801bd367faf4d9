package dataset

import (
	"fmt"
	"strings"

	"github.com/arloliu/cds/errs"
)

// Kind identifies the entity type behind an Object.
type Kind uint8

const (
	KindGroup Kind = iota + 1 // KindGroup marks a *Group.
	KindDim                   // KindDim marks a *Dim.
	KindAtt                   // KindAtt marks an *Att.
	KindVar                   // KindVar marks a *Var.
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindDim:
		return "dimension"
	case KindAtt:
		return "attribute"
	case KindVar:
		return "variable"
	default:
		return "unknown"
	}
}

// Object is implemented by every entity of the graph: *Group, *Dim, *Att and *Var.
//
// Every Object carries a definition lock: a counter managed by the caller.
// While it is non-zero, structural changes of the entity (rename, delete,
// redefinition, attribute changes, dimension length changes) fail with
// errs.ErrLocked. Sample data of variables can always be written.
type Object interface {
	// Name returns the entity name. The root group name may be empty.
	Name() string
	// Path returns the absolute path of the entity, such as
	// /grp/_vars_/temp/_atts_/units.
	Path() string
	// Kind returns the entity type.
	Kind() Kind
	// Parent returns the owner of the entity, or nil for the root group and
	// deleted entities.
	Parent() Object
	// DefLock returns the current definition lock count.
	DefLock() int
	// SetDefLock sets the definition lock count. Negative values are stored as 0.
	SetDefLock(n int)
	// IncDefLock increments the definition lock count and returns the new value.
	IncDefLock() int
	// DecDefLock decrements the definition lock count, not below 0, and returns
	// the new value.
	DecDefLock() int
	// Detached reports whether the entity has been deleted.
	Detached() bool
}

const (
	dimsSegment = "_dims_"
	varsSegment = "_vars_"
	attsSegment = "_atts_"
)

// entity holds the state shared by all graph entities.
type entity struct {
	name    string
	lock    int
	deleted bool
}

func (e *entity) Name() string { return e.name }

func (e *entity) DefLock() int { return e.lock }

func (e *entity) SetDefLock(n int) { e.lock = max(n, 0) }

func (e *entity) IncDefLock() int {
	e.lock++
	return e.lock
}

func (e *entity) DecDefLock() int {
	if e.lock > 0 {
		e.lock--
	}

	return e.lock
}

func (e *entity) Detached() bool { return e.deleted }

func childPath(base string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(base, "/"))
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(s)
	}

	return sb.String()
}

func validateName(kind Kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s name", errs.ErrInvalidName, kind)
	}
	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("%w: %s name %q contains '/'", errs.ErrInvalidName, kind, name)
	}

	return nil
}

// checkUnlocked fails with errs.ErrLocked if any of objs is locked.
// Nil objects are skipped.
func checkUnlocked(objs ...Object) error {
	for _, o := range objs {
		if o == nil || isNil(o) {
			continue
		}
		if o.DefLock() > 0 {
			return fmt.Errorf("%w: %s is locked", errs.ErrLocked, o.Path())
		}
	}

	return nil
}

func checkAttached(o Object) error {
	if o.Detached() {
		return fmt.Errorf("%w: %s %s has been deleted", errs.ErrDetached, o.Kind(), o.Name())
	}

	return nil
}

func isNil(o Object) bool {
	switch v := o.(type) {
	case *Group:
		return v == nil
	case *Var:
		return v == nil
	case *Dim:
		return v == nil
	case *Att:
		return v == nil
	default:
		return false
	}
}

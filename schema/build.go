package schema

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// Build defines the contents of s in the dataset tree.
//
// With a nil parent a new root group named s.Name is created. Otherwise the
// definitions go into the child group s.Name of parent, or into parent
// itself when s.Name is empty. Definitions follow the idempotent rules of
// package dataset, so building the same schema twice is a no-op.
//
// Returns the group holding the definitions, or the first definition error.
func (s *Schema) Build(parent *dataset.Group) (*dataset.Group, error) {
	log := s.log
	if log == nil {
		log = logrus.StandardLogger()
	}

	g := parent
	switch {
	case parent == nil:
		g = dataset.NewRoot(s.Name, dataset.WithLogger(log))
	case s.Name != "":
		var err error
		if g, err = parent.DefineGroup(s.Name); err != nil {
			return nil, err
		}
	}

	def := Group{
		Name:       s.Name,
		Attributes: s.Attributes,
		Dimensions: s.Dimensions,
		Variables:  s.Variables,
		Groups:     s.Groups,
	}
	if err := buildGroup(g, &def); err != nil {
		return nil, err
	}

	g.Logger().WithFields(logrus.Fields{
		"path":   g.Path(),
		"dims":   len(s.Dimensions),
		"vars":   len(s.Variables),
		"groups": len(s.Groups),
	}).Debug("schema built")

	return g, nil
}

func buildGroup(g *dataset.Group, def *Group) error {
	if err := buildAtts(g, g.Path(), def.Attributes); err != nil {
		return err
	}

	for _, d := range def.Dimensions {
		if _, err := g.DefineDim(d.Name, d.Length, d.Unlimited); err != nil {
			return err
		}
	}

	for i := range def.Variables {
		if err := buildVar(g, &def.Variables[i]); err != nil {
			return err
		}
	}

	for i := range def.Groups {
		child, err := g.DefineGroup(def.Groups[i].Name)
		if err != nil {
			return err
		}
		if err := buildGroup(child, &def.Groups[i]); err != nil {
			return err
		}
	}

	return nil
}

type attOwner interface {
	DefineAtt(name string, value any) (*dataset.Att, error)
}

func buildAtts(owner attOwner, path string, atts []Attribute) error {
	for _, a := range atts {
		buf, err := valueBuffer(a.Value, a.Type)
		if err != nil {
			return fmt.Errorf("attribute %s of %s: %w", a.Name, path, err)
		}
		if _, err := owner.DefineAtt(a.Name, buf); err != nil {
			return err
		}
	}

	return nil
}

func buildVar(g *dataset.Group, def *Variable) error {
	t, _ := format.ParseTypeID(def.Type)
	v, err := g.DefineVar(def.Name, t, def.Dimensions...)
	if err != nil {
		return err
	}
	if err := buildAtts(v, v.Path(), def.Attributes); err != nil {
		return err
	}

	if def.Data == nil {
		return nil
	}
	buf, err := valueBuffer(def.Data, def.Type)
	if err != nil {
		return fmt.Errorf("data of %s: %w", v.Path(), err)
	}
	_, err = v.PutSamples(0, buf)

	return err
}

// Describe returns the schema of the tree rooted at g, without data.
// Numeric attributes record their type so Build restores them exactly.
func Describe(g *dataset.Group) *Schema {
	def := describeGroup(g)

	return &Schema{
		Name:       g.Name(),
		Attributes: def.Attributes,
		Dimensions: def.Dimensions,
		Variables:  def.Variables,
		Groups:     def.Groups,
		log:        g.Logger(),
	}
}

func describeGroup(g *dataset.Group) Group {
	def := Group{
		Name:       g.Name(),
		Attributes: describeAtts(g.Atts()),
	}

	for _, d := range g.Dims() {
		dim := Dimension{Name: d.Name(), Unlimited: d.IsUnlimited()}
		if !d.IsUnlimited() {
			dim.Length = d.DefinedLength()
		}
		def.Dimensions = append(def.Dimensions, dim)
	}

	for _, v := range g.Vars() {
		def.Variables = append(def.Variables, Variable{
			Name:       v.Name(),
			Type:       v.Type().String(),
			Dimensions: v.DimNames(),
			Attributes: describeAtts(v.Atts()),
		})
	}

	for _, child := range g.Groups() {
		def.Groups = append(def.Groups, describeGroup(child))
	}

	return def
}

func describeAtts(atts []*dataset.Att) []Attribute {
	var out []Attribute
	for _, a := range atts {
		out = append(out, describeAtt(a))
	}

	return out
}

func describeAtt(a *dataset.Att) Attribute {
	b := a.Value()
	attr := Attribute{Name: a.Name(), Type: b.Type().String()}

	switch b.Type() {
	case format.TypeChar:
		attr.Value = a.Text()
	case format.TypeString:
		ss, _ := values.Elements[string](b)
		attr.Value = ss
	default:
		items := make([]any, b.Len())
		for i := range items {
			items[i] = element(b, i)
		}
		attr.Value = items
		if len(items) == 1 {
			attr.Value = items[0]
		}
	}

	return attr
}

// element returns element i of the numeric buffer b as int64, uint64 or
// float64, so it survives a YAML or TOML round trip.
func element(b values.Buffer, i int) any {
	if us, ok := values.Elements[uint64](b); ok {
		return us[i]
	}
	if ns, ok := values.Elements[int64](b); ok {
		return ns[i]
	}

	f, _ := b.Float64(i)
	if format.IsInteger(b.Type()) {
		return int64(f)
	}

	return f
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/pool"
	"github.com/arloliu/cds/values"
)

// cdlPrinter renders a group tree in the layout of ncdump.
type cdlPrinter struct {
	width    int
	withData bool
	only     map[*dataset.Var]bool

	out *pool.ByteBuffer
}

// printCDL writes g and its sub-groups to w. With withData the samples of
// every variable are listed, or only those of only when it is not empty.
func printCDL(w io.Writer, g *dataset.Group, width int, withData bool, only []*dataset.Var) error {
	p := &cdlPrinter{
		width:    width,
		withData: withData,
		out:      pool.GetScratchBuffer(),
	}
	defer pool.PutScratchBuffer(p.out)

	if len(only) > 0 {
		p.only = make(map[*dataset.Var]bool, len(only))
		for _, v := range only {
			p.only[v] = true
		}
	}

	name := g.Name()
	if name == "" {
		name = "root"
	}
	p.printf("", "netcdf %s {\n", name)
	p.group(g, "")
	p.printf("", "}\n")

	_, err := p.out.WriteTo(w)

	return err
}

func (p *cdlPrinter) printf(indent, layout string, args ...any) {
	p.out.Write([]byte(indent))
	fmt.Fprintf(p.out, layout, args...)
}

func (p *cdlPrinter) group(g *dataset.Group, indent string) {
	if dims := g.Dims(); len(dims) > 0 {
		p.printf(indent, "dimensions:\n")
		for _, d := range dims {
			if d.IsUnlimited() {
				p.printf(indent, "\t%s = UNLIMITED ; // (%d currently)\n", d.Name(), d.Length())
				continue
			}
			p.printf(indent, "\t%s = %d ;\n", d.Name(), d.Length())
		}
	}

	if vars := g.Vars(); len(vars) > 0 {
		p.printf(indent, "variables:\n")
		for _, v := range vars {
			p.variable(v, indent)
		}
	}

	if atts := g.Atts(); len(atts) > 0 {
		label := "group"
		if g.IsRoot() {
			label = "global"
		}
		p.printf("", "\n")
		p.printf(indent, "// %s attributes:\n", label)
		for _, a := range atts {
			p.att("", a, indent)
		}
	}

	if p.withData {
		p.data(g, indent)
	}

	for _, child := range g.Groups() {
		p.printf("", "\n")
		p.printf(indent, "group: %s {\n", child.Name())
		p.group(child, indent+"  ")
		p.printf(indent, "  } // group %s\n", child.Name())
	}
}

func (p *cdlPrinter) variable(v *dataset.Var, indent string) {
	p.printf(indent, "\t%s %s", v.Type(), v.Name())
	if !v.IsScalar() {
		p.printf("", "(%s)", strings.Join(v.DimNames(), ", "))
	}
	p.printf("", " ;\n")

	for _, a := range v.Atts() {
		p.att(v.Name(), a, indent)
	}
}

func (p *cdlPrinter) att(owner string, a *dataset.Att, indent string) {
	typ := ""
	if t := a.Type(); t != format.TypeChar {
		typ = t.String() + " "
	}
	p.printf(indent, "\t\t%s%s:%s = %s ;\n", typ, owner, a.Name(), p.text(a.Value(), indent))
}

func (p *cdlPrinter) data(g *dataset.Group, indent string) {
	var vars []*dataset.Var
	for _, v := range g.Vars() {
		if v.Data().Len() == 0 {
			continue
		}
		if p.only != nil && !p.only[v] {
			continue
		}
		vars = append(vars, v)
	}
	if len(vars) == 0 {
		return
	}

	p.printf("", "\n")
	p.printf(indent, "data:\n")
	for _, v := range vars {
		p.printf("", "\n")
		p.printf(indent, " %s = %s ;\n", v.Name(), p.text(v.Data(), indent))
	}
}

func (p *cdlPrinter) text(b values.Buffer, indent string) string {
	opts := []values.TextOption{
		values.WithMaxWidth(p.width),
		values.WithIndent(indent + "    "),
	}
	if b.Type() != format.TypeChar {
		opts = append(opts, values.WithoutBrackets())
	}

	return values.FormatText(b, opts...)
}

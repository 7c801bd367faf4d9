package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
)

func TestNewRoot(t *testing.T) {
	root := NewRoot("site")

	require.Equal(t, "site", root.Name())
	require.Equal(t, "/", root.Path())
	require.Equal(t, KindGroup, root.Kind())
	require.Nil(t, root.Parent())
	require.True(t, root.IsRoot())
	require.Same(t, root, root.Root())
	require.NotNil(t, root.Logger())
}

func TestGroup_DefineGroup(t *testing.T) {
	root := NewRoot("")

	a, err := root.DefineGroup("a")
	require.NoError(t, err)
	require.Equal(t, "/a", a.Path())
	require.Same(t, root, a.ParentGroup())

	again, err := root.DefineGroup("a")
	require.NoError(t, err)
	require.Same(t, a, again)

	b, err := a.DefineGroup("b")
	require.NoError(t, err)
	require.Equal(t, "/a/b", b.Path())
	require.Same(t, root, b.Root())
	require.False(t, b.IsRoot())

	require.Same(t, a, root.Group("a"))
	require.Nil(t, root.Group("b"), "group lookup is local")
	require.Len(t, root.Groups(), 1)

	t.Run("invalid names", func(t *testing.T) {
		_, err := root.DefineGroup("")
		require.ErrorIs(t, err, errs.ErrInvalidName)

		_, err = root.DefineGroup("x/y")
		require.ErrorIs(t, err, errs.ErrInvalidName)
	})

	t.Run("locked parent", func(t *testing.T) {
		root.IncDefLock()
		defer root.DecDefLock()

		_, err := root.DefineGroup("c")
		require.ErrorIs(t, err, errs.ErrLocked)

		existing, err := root.DefineGroup("a")
		require.NoError(t, err)
		require.Same(t, a, existing)
	})
}

func TestGroup_DefineDim(t *testing.T) {
	root := NewRoot("")

	d1, err := root.DefineDim("x", 4, false)
	require.NoError(t, err)
	require.Equal(t, "/_dims_/x", d1.Path())
	require.Equal(t, 4, d1.Length())

	d2, err := root.DefineDim("x", 4, false)
	require.NoError(t, err)
	require.Same(t, d1, d2)

	_, err = root.DefineDim("x", 5, false)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Equal(t, 4, d1.Length())

	_, err = root.DefineDim("x", 4, true)
	require.ErrorIs(t, err, errs.ErrConflict)

	_, err = root.DefineDim("y", -1, false)
	require.ErrorIs(t, err, errs.ErrType)

	u, err := root.DefineDim("time", 10, true)
	require.NoError(t, err)
	require.True(t, u.IsUnlimited())
	require.Equal(t, 0, u.DefinedLength())

	again, err := root.DefineDim("time", 0, true)
	require.NoError(t, err)
	require.Same(t, u, again)

	root.SetDefLock(1)
	_, err = root.DefineDim("z", 1, false)
	require.ErrorIs(t, err, errs.ErrLocked)
	root.SetDefLock(0)

	require.Len(t, root.Dims(), 2)
}

func TestGroup_DimVisibility(t *testing.T) {
	root := NewRoot("")
	x, err := root.DefineDim("x", 2, false)
	require.NoError(t, err)

	child, err := root.DefineGroup("child")
	require.NoError(t, err)
	grandchild, err := child.DefineGroup("grandchild")
	require.NoError(t, err)

	require.Same(t, x, grandchild.Dim("x"))
	require.Nil(t, grandchild.Dim("missing"))
	require.Empty(t, grandchild.Dims())

	shadow, err := child.DefineDim("x", 3, false)
	require.NoError(t, err)
	require.Same(t, shadow, grandchild.Dim("x"))
	require.Same(t, x, root.Dim("x"))
}

func TestGroup_DefineVar(t *testing.T) {
	root := NewRoot("")
	_, err := root.DefineDim("time", 0, true)
	require.NoError(t, err)
	_, err = root.DefineDim("level", 3, false)
	require.NoError(t, err)

	v, err := root.DefineVar("temp", format.TypeFloat, "time", "level")
	require.NoError(t, err)
	require.Equal(t, "/_vars_/temp", v.Path())
	require.Equal(t, []string{"time", "level"}, v.DimNames())

	same, err := root.DefineVar("temp", format.TypeFloat, "time", "level")
	require.NoError(t, err)
	require.Same(t, v, same)

	tests := []struct {
		name    string
		varName string
		typ     format.TypeID
		dims    []string
		wantErr error
	}{
		{"different type", "temp", format.TypeDouble, []string{"time", "level"}, errs.ErrConflict},
		{"different dims", "temp", format.TypeFloat, []string{"time"}, errs.ErrConflict},
		{"invisible dim", "rh", format.TypeFloat, []string{"missing"}, errs.ErrNotFound},
		{"unlimited not first", "rh", format.TypeFloat, []string{"level", "time"}, errs.ErrType},
		{"invalid type", "rh", format.TypeUndefined, nil, errs.ErrType},
		{"invalid name", "", format.TypeFloat, nil, errs.ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := root.DefineVar(tt.varName, tt.typ, tt.dims...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	require.Len(t, root.Vars(), 1)
	require.Same(t, v, root.Var("temp"))
	require.Nil(t, root.Var("rh"))
}

func TestGroup_Rename(t *testing.T) {
	root := NewRoot("")
	a, err := root.DefineGroup("a")
	require.NoError(t, err)
	_, err = root.DefineGroup("b")
	require.NoError(t, err)

	require.ErrorIs(t, a.Rename("b"), errs.ErrConflict)
	require.NoError(t, a.Rename("c"))
	require.Equal(t, "/c", a.Path())
	require.Same(t, a, root.Group("c"))

	a.IncDefLock()
	require.ErrorIs(t, a.Rename("d"), errs.ErrLocked)
	a.DecDefLock()

	root.IncDefLock()
	require.ErrorIs(t, a.Rename("d"), errs.ErrLocked)
	root.DecDefLock()

	require.NoError(t, root.Rename("renamed"))
	require.Equal(t, "renamed", root.Name())
}

func TestGroup_Delete(t *testing.T) {
	root := NewRoot("")
	a, err := root.DefineGroup("a")
	require.NoError(t, err)
	b, err := a.DefineGroup("b")
	require.NoError(t, err)
	_, err = b.DefineDim("x", 2, false)
	require.NoError(t, err)
	v, err := b.DefineVar("v", format.TypeInt, "x")
	require.NoError(t, err)
	att, err := v.DefineAtt("units", "m")
	require.NoError(t, err)

	root.IncDefLock()
	require.ErrorIs(t, a.Delete(), errs.ErrLocked)
	root.DecDefLock()

	require.NoError(t, a.Delete())
	require.Empty(t, root.Groups())
	require.True(t, a.Detached())
	require.True(t, b.Detached())
	require.True(t, v.Detached())
	require.True(t, att.Detached())

	_, err = b.DefineGroup("c")
	require.ErrorIs(t, err, errs.ErrDetached)
	require.ErrorIs(t, a.Delete(), errs.ErrDetached)
	require.False(t, a.IsRoot())
}

func TestGroup_Walk(t *testing.T) {
	root := NewRoot("")
	a, _ := root.DefineGroup("a")
	_, _ = a.DefineGroup("a1")
	_, _ = root.DefineGroup("b")

	var paths []string
	require.NoError(t, root.Walk(func(g *Group) error {
		paths = append(paths, g.Path())
		return nil
	}))
	require.Equal(t, []string{"/", "/a", "/a/a1", "/b"}, paths)

	stop := errs.ErrNotFound
	var visited int
	err := root.Walk(func(g *Group) error {
		visited++
		if g.Name() == "a" {
			return stop
		}

		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 2, visited)
}

func TestDefLock(t *testing.T) {
	root := NewRoot("")

	require.Equal(t, 0, root.DefLock())
	require.Equal(t, 1, root.IncDefLock())
	require.Equal(t, 2, root.IncDefLock())
	require.Equal(t, 1, root.DecDefLock())
	require.Equal(t, 0, root.DecDefLock())
	require.Equal(t, 0, root.DecDefLock())

	root.SetDefLock(-3)
	require.Equal(t, 0, root.DefLock())
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "group", KindGroup.String())
	require.Equal(t, "dimension", KindDim.String())
	require.Equal(t, "attribute", KindAtt.String())
	require.Equal(t, "variable", KindVar.String())
	require.Equal(t, "unknown", Kind(0).String())
}

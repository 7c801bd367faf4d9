package dataset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

func newTestVar(t *testing.T) (*Group, *Var) {
	t.Helper()

	root := NewRoot("")
	_, err := root.DefineDim("time", 0, true)
	require.NoError(t, err)
	v, err := root.DefineVar("temp", format.TypeFloat, "time")
	require.NoError(t, err)

	return root, v
}

func TestAttList_DefineAtt(t *testing.T) {
	root, v := newTestVar(t)

	units, err := v.DefineAtt("units", "degC")
	require.NoError(t, err)
	require.Equal(t, "/_vars_/temp/_atts_/units", units.Path())
	require.Equal(t, format.TypeChar, units.Type())
	require.Equal(t, "degC", units.Text())
	require.Same(t, v, units.Parent())

	same, err := v.DefineAtt("units", "degC")
	require.NoError(t, err)
	require.Same(t, units, same)

	_, err = v.DefineAtt("units", "K")
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Equal(t, "degC", units.Text())

	_, err = v.DefineAtt("units", values.Strings("degC"))
	require.ErrorIs(t, err, errs.ErrConflict)

	rng, err := v.DefineAtt("valid_range", []float32{-50, 50})
	require.NoError(t, err)
	require.Equal(t, 2, rng.Len())
	require.Equal(t, "-50, 50", rng.Text())

	global, err := root.DefineAttText("history", "created %d", 2024)
	require.NoError(t, err)
	require.Equal(t, "/_atts_/history", global.Path())
	require.Equal(t, "created 2024", global.Text())

	_, err = v.DefineAtt("bad", struct{}{})
	require.ErrorIs(t, err, errs.ErrType)

	require.Len(t, v.Atts(), 2)
	require.Len(t, root.Atts(), 1)

	v.IncDefLock()
	_, err = v.DefineAtt("comment", "x")
	require.ErrorIs(t, err, errs.ErrLocked)
	v.DecDefLock()
}

func TestAttList_ChangeAndSet(t *testing.T) {
	_, v := newTestVar(t)

	a, err := v.ChangeAtt("scale", int16(2), false)
	require.NoError(t, err)
	require.Equal(t, format.TypeShort, a.Type())

	kept, err := v.ChangeAtt("scale", 3.5, false)
	require.NoError(t, err)
	require.Same(t, a, kept)
	require.Equal(t, []int16{2}, a.Value().Data())

	_, err = v.ChangeAtt("scale", 3.5, true)
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, a.Type())
	require.Equal(t, []float64{3.5}, a.Value().Data())

	_, err = v.SetAtt("scale", int32(4), true)
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, a.Type())
	require.Equal(t, []float64{4}, a.Value().Data())

	_, err = v.SetAtt("scale", values.Strings("x"), true)
	require.ErrorIs(t, err, errs.ErrType)

	note, err := v.SetAttText("note", false, "run %s", "a")
	require.NoError(t, err)
	require.Equal(t, "run a", note.Text())

	t.Run("empty attribute is replaced", func(t *testing.T) {
		empty, err := v.DefineAtt("empty", values.Of([]int32{}))
		require.NoError(t, err)

		_, err = v.SetAtt("empty", int32(9), false)
		require.NoError(t, err)
		require.Equal(t, []int32{9}, empty.Value().Data())
	})

	t.Run("locks", func(t *testing.T) {
		a.IncDefLock()
		_, err := v.ChangeAtt("scale", 1.0, true)
		require.ErrorIs(t, err, errs.ErrLocked)
		require.ErrorIs(t, a.Set(1.0), errs.ErrLocked)
		a.DecDefLock()

		v.IncDefLock()
		_, err = v.SetAtt("scale", 1.0, true)
		require.ErrorIs(t, err, errs.ErrLocked)
		require.ErrorIs(t, a.Change(1.0), errs.ErrLocked)
		v.DecDefLock()
	})
}

func TestAtt_RenameDelete(t *testing.T) {
	_, v := newTestVar(t)

	a, err := v.DefineAtt("long_name", "Temperature")
	require.NoError(t, err)
	_, err = v.DefineAtt("units", "K")
	require.NoError(t, err)

	require.ErrorIs(t, a.Rename("units"), errs.ErrConflict)
	require.ErrorIs(t, a.Rename(""), errs.ErrInvalidName)
	require.NoError(t, a.Rename("standard_name"))
	require.Same(t, a, v.Att("standard_name"))
	require.Nil(t, v.Att("long_name"))

	require.NoError(t, v.DeleteAtt("absent"))

	v.IncDefLock()
	require.ErrorIs(t, v.DeleteAtt("units"), errs.ErrLocked)
	v.DecDefLock()

	require.NoError(t, v.DeleteAtt("units"))
	require.Nil(t, v.Att("units"))

	require.NoError(t, a.Delete())
	require.True(t, a.Detached())
	require.Nil(t, a.Parent())
	require.Empty(t, v.Atts())
	require.ErrorIs(t, a.Set("x"), errs.ErrDetached)
}

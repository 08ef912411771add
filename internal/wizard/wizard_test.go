package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/dentfinder/internal/form"
	"github.com/wolfman30/dentfinder/internal/validation"
)

func testDefinition(leave Hook) *Definition {
	return &Definition{
		Name: "test",
		Steps: []Step{
			{Name: "pick", Inputs: []string{"choice"}, Ready: func(f *form.State) bool { return f.Get("choice") != "" }},
			{Name: "details", Schema: validation.ZipLookup, OnLeave: leave},
			{Name: "done", Terminal: true},
		},
	}
}

func TestNextIsNoOpWhenNotReady(t *testing.T) {
	w := New(testDefinition(nil))
	w.Set("other", "value")
	before := *w.State()

	err := w.Next(context.Background())

	require.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, before.Form.Fields, w.State().Form.Fields)
	assert.Nil(t, w.State().Form.Errors)
	assert.False(t, w.CanAdvance())
}

func TestNextValidatesSchemaAndRunsHook(t *testing.T) {
	var calls int
	w := New(testDefinition(func(ctx context.Context, st *State) error {
		calls++
		st.SetResult("zip", st.Form.Get("zip"))
		return nil
	}))
	w.Set("choice", "a")
	require.NoError(t, w.Next(context.Background()))
	assert.Equal(t, "details", w.Current().Name)

	w.Set("zip", "123")
	err := w.Next(context.Background())
	require.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, 0, calls)
	assert.Equal(t, "details", w.Current().Name)
	assert.Contains(t, w.Form().Errors, "zip")

	w.Set("zip", "94110")
	require.NoError(t, w.Next(context.Background()))
	assert.Equal(t, 1, calls)
	assert.True(t, w.IsTerminal())
	assert.Equal(t, "94110", w.State().Result["zip"])

	require.ErrorIs(t, w.Next(context.Background()), ErrTerminal)
}

func TestHookErrorKeepsStep(t *testing.T) {
	boom := errors.New("boom")
	w := New(testDefinition(func(context.Context, *State) error { return boom }))
	w.Set("choice", "a")
	require.NoError(t, w.Next(context.Background()))
	w.Set("zip", "94110")

	require.ErrorIs(t, w.Next(context.Background()), boom)
	assert.Equal(t, 1, w.Index())
}

func TestBackKeepsLaterData(t *testing.T) {
	w := New(testDefinition(nil))
	w.Set("choice", "a")
	require.NoError(t, w.Next(context.Background()))
	w.Set("zip", "9")
	require.ErrorIs(t, w.Next(context.Background()), ErrInvalid)

	assert.True(t, w.Back())
	assert.Equal(t, 0, w.Index())
	assert.Equal(t, "9", w.Form().Get("zip"))
	assert.Nil(t, w.Form().Errors)
	assert.False(t, w.Back())
}

func TestResetClearsEverything(t *testing.T) {
	w := New(testDefinition(func(ctx context.Context, st *State) error {
		st.SetResult("k", "v")
		return nil
	}))
	w.Set("choice", "a")
	require.NoError(t, w.Next(context.Background()))
	w.Set("zip", "94110")
	require.NoError(t, w.Next(context.Background()))

	w.Reset()

	assert.Equal(t, 0, w.Index())
	assert.Empty(t, w.Form().Fields)
	assert.Nil(t, w.Form().Errors)
	assert.Nil(t, w.State().Result)
}

func TestResume(t *testing.T) {
	def := testDefinition(nil)
	w, err := Resume(def, &State{Flow: "test", Step: 7})
	require.NoError(t, err)
	assert.Equal(t, 0, w.Index())
	assert.NotNil(t, w.Form().Fields)

	_, err = Resume(def, &State{Flow: "other"})
	require.ErrorIs(t, err, ErrFlowMismatch)

	w, err = Resume(def, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"pick", "details", "done"}, w.Definition().StepNames())
}

func TestEditOnlyAcceptsCurrentStepFields(t *testing.T) {
	w := New(testDefinition(nil))

	locked, err := w.Edit(form.Fields{"choice": {"a"}, "zip": {"94110"}})
	require.ErrorIs(t, err, ErrFieldLocked)
	assert.Equal(t, []string{"zip"}, locked)
	assert.Empty(t, w.Form().Fields, "a rejected edit must not apply any field")

	_, err = w.Edit(form.Fields{"choice": {"a"}})
	require.NoError(t, err)
	require.NoError(t, w.Next(context.Background()))

	locked, err = w.Edit(form.Fields{"choice": {"b"}, "zip": {"94110"}})
	require.ErrorIs(t, err, ErrFieldLocked)
	assert.Equal(t, []string{"choice"}, locked)
	assert.Equal(t, "a", w.Form().Get("choice"))

	_, err = w.Edit(form.Fields{"zip": {"94110"}})
	require.NoError(t, err)
	require.NoError(t, w.Next(context.Background()))

	locked, err = w.Edit(form.Fields{"zip": {"10001"}})
	require.ErrorIs(t, err, ErrFieldLocked)
	assert.Equal(t, []string{"zip"}, locked)
}

func TestBackOnTerminalStepIsNoOp(t *testing.T) {
	w := New(testDefinition(nil))
	w.Set("choice", "a")
	require.NoError(t, w.Next(context.Background()))
	w.Set("zip", "94110")
	require.NoError(t, w.Next(context.Background()))
	require.True(t, w.IsTerminal())

	assert.False(t, w.CanGoBack())
	assert.False(t, w.Back())
	assert.Equal(t, "done", w.Current().Name)

	w.Reset()
	assert.Equal(t, 0, w.Index())
}

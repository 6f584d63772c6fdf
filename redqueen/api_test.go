package redqueen_test

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/cmplog/internal/cmplog/cmpmap"
	"github.com/kolkov/cmplog/redqueen"
)

// target is an in-process stand-in for an instrumented binary: it compares
// the first four input bytes against a magic value and records the comparison.
func target(m *redqueen.Map, input []byte) {
	var word uint32
	if len(input) >= 4 {
		word = binary.LittleEndian.Uint32(input)
	}
	m.LogIns(0x1234, cmpmap.Shape32, cmpmap.AttrEqual, uint64(word), 0x464c457f, 0, 0)
}

func run(t *testing.T, obs *redqueen.Observer, st redqueen.State, pass redqueen.Pass, input []byte) {
	t.Helper()
	obs.SetPass(pass)
	require.NoError(t, obs.PreExec())
	target(obs.Map(), input)
	require.NoError(t, obs.PostExec(st, redqueen.ExitOk))
}

func TestInProcessRedqueenIteration(t *testing.T) {
	m, err := redqueen.NewMap(redqueen.Layout{Width: 1024, Height: 32})
	require.NoError(t, err)
	obs := redqueen.NewObserver("cmplog", m, true)
	var st redqueen.Session

	run(t, obs, &st, redqueen.Baseline, []byte("AAAA"))
	run(t, obs, &st, redqueen.Mutated, []byte("BAAA"))

	var view redqueen.View = st.CmpValues()
	idx := m.Slot(0x1234)
	require.Equal(t, []int{idx}, view.Indices(redqueen.Mutated))

	orig := view.Orig(idx)
	mut := view.New(idx)
	require.Len(t, orig, 1)
	require.Len(t, mut, 1)

	o0, o1, ok := orig[0].U64Pair()
	require.True(t, ok)
	n0, _, _ := mut[0].U64Pair()

	// The first operand follows the input, the second is the constant to inject.
	assert.Equal(t, uint64(0x41414141), o0)
	assert.Equal(t, uint64(0x41414142), n0)
	assert.Equal(t, uint64(0x464c457f), o1)

	h, ok := view.Header(idx)
	require.True(t, ok)
	assert.Equal(t, cmpmap.TypeIns, h.Type())
}

func TestUnmappedObserver(t *testing.T) {
	m, err := cmpmap.New(redqueen.DefaultLayout())
	require.NoError(t, err)
	obs := redqueen.NewObserver("cmplog", m, true)

	assert.ErrorIs(t, obs.PreExec(), redqueen.ErrUnavailable)
}

func TestGetInfo(t *testing.T) {
	info := redqueen.GetInfo()
	assert.Equal(t, redqueen.Version, info.Version)
	assert.Equal(t, 65536, info.Layout.Width)
	assert.Equal(t, fmt.Sprintf("%d.%d.%d", redqueen.VersionMajor, redqueen.VersionMinor, redqueen.VersionPatch), info.Version)
}

func ExampleObserver() {
	m, _ := redqueen.NewMap(redqueen.Layout{Width: 64, Height: 32})
	size := 64
	obs := redqueen.NewObserverWithSize("cmplog", m, true, redqueen.Baseline, &size)
	var st redqueen.Session

	_ = obs.PreExec()
	m.LogRtn(7, []byte("GET "), []byte("POST"))
	_ = obs.PostExec(&st, redqueen.ExitOk)

	for _, idx := range st.CmpValues().Indices(redqueen.Baseline) {
		fmt.Println(idx, st.CmpValues().Orig(idx)[0])
	}
	// Output: 7 bytes(47455420, 504f5354)
}

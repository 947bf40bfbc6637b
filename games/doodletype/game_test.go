package doodletype_test

import (
	"context"
	"image"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/tinytop/games/doodletype"
	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/display"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type soundLog struct {
	mu     sync.Mutex
	played []string
	audio  [][]byte
}

func (s *soundLog) Play(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, name)
}

func (s *soundLog) PlayAudio(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = append(s.audio, b)
}

func (s *soundLog) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.played) == 0 {
		return ""
	}
	return s.played[len(s.played)-1]
}

type fakeVoice struct {
	mu    sync.Mutex
	texts []string
}

func (v *fakeVoice) Enabled() bool { return true }

func (v *fakeVoice) Synthesize(_ context.Context, text string) <-chan domain.VoiceResult {
	v.mu.Lock()
	v.texts = append(v.texts, text)
	v.mu.Unlock()
	ch := make(chan domain.VoiceResult, 1)
	ch <- domain.VoiceResult{Text: text, Audio: []byte("RIFF" + text)}
	close(ch)
	return ch
}

func (v *fakeVoice) requested(text string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, t := range v.texts {
		if t == text {
			return true
		}
	}
	return false
}

var testDoodles = []doodletype.Doodle{
	{Word: "cat", Strokes: [][][]int{{{0, 0}, {10, 10}, {20, 0}}}},
	{Word: "car", Strokes: [][][]int{{{0, 10}, {20, 10}}, {{5, 15}, {15, 15}}}},
	{Word: "ice cream", Strokes: [][][]int{{{0, 0}, {10, 20}, {20, 0}}}},
}

type harness struct {
	game   *doodletype.Game
	sounds *soundLog
	voice  *fakeVoice
	events chan domain.InputEvent
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	g, err := doodletype.NewWithDoodles(domain.GameDescriptor{ID: "doodletype", Options: map[string]any{"words": 3}}, testDoodles)
	require.NoError(t, err)

	h := &harness{game: g, sounds: &soundLog{}, voice: &fakeVoice{}, events: make(chan domain.InputEvent, 16)}
	require.NoError(t, g.Init(display.NewCanvas(), ports.Services{
		Voice:   h.voice,
		Sounder: h.sounds,
		Rand:    rand.New(rand.NewSource(7)),
		Context: context.Background(),
		Notify: func(ev domain.InputEvent) bool {
			h.events <- ev
			return true
		},
	}))
	return h
}

func (h *harness) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		ev := domain.RunePress(r)
		if r == ' ' {
			ev = domain.KeyPress(domain.KeySpace)
		}
		require.NoError(t, h.game.HandleInput(ev))
	}
}

func TestDoodleType_Registered(t *testing.T) {
	_, ok := catalog.Default.Lookup(doodletype.Entry)
	assert.True(t, ok)
}

func TestDoodleType_InitShowsWordsAndPrefetches(t *testing.T) {
	h := newHarness(t)
	assert.ElementsMatch(t, []string{"cat", "car", "ice cream"}, h.game.Words())
	assert.Eventually(t, func() bool {
		return h.voice.requested("cat") && h.voice.requested("ice cream")
	}, time.Second, 10*time.Millisecond)
}

func TestDoodleType_PrefixFiltering(t *testing.T) {
	h := newHarness(t)

	h.typeText(t, "ca")
	assert.Equal(t, "ca", h.game.Typed())

	h.typeText(t, "z")
	assert.Equal(t, "ca", h.game.Typed())
	assert.Equal(t, doodletype.SoundError, h.sounds.last())

	require.NoError(t, h.game.HandleInput(domain.KeyPress(domain.KeyBackspace)))
	assert.Equal(t, "c", h.game.Typed())

	h.typeText(t, " ")
	assert.Equal(t, "c", h.game.Typed(), "space is filtered like letters")

	h.typeText(t, "1")
	assert.Equal(t, "c", h.game.Typed(), "non-letters are ignored")
}

func TestDoodleType_UppercaseIsLowered(t *testing.T) {
	h := newHarness(t)
	h.typeText(t, "CA")
	assert.Equal(t, "ca", h.game.Typed())
}

func TestDoodleType_MatchStartsShowAndSpeaks(t *testing.T) {
	h := newHarness(t)

	h.typeText(t, "cat")

	word, showing := h.game.Showing()
	require.True(t, showing)
	assert.Equal(t, "cat", word)
	assert.Empty(t, h.game.Typed())
	assert.Equal(t, doodletype.SoundMatch, h.sounds.last())

	var voiced domain.InputEvent
	require.Eventually(t, func() bool {
		for {
			select {
			case ev := <-h.events:
				if res, ok := ev.Payload.(domain.VoiceResult); ok && res.Text == "cat" {
					voiced = ev
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, h.game.HandleInput(voiced))
	h.sounds.mu.Lock()
	assert.Equal(t, [][]byte{[]byte("RIFFcat")}, h.sounds.audio)
	h.sounds.mu.Unlock()

	h.typeText(t, "car")
	assert.Empty(t, h.game.Typed(), "typing is ignored while a word is shown")
}

func TestDoodleType_WordWithSpace(t *testing.T) {
	h := newHarness(t)
	h.typeText(t, "ice cream")

	word, showing := h.game.Showing()
	require.True(t, showing)
	assert.Equal(t, "ice cream", word)
}

func TestDoodleType_ShowEndsAndWordIsReplaced(t *testing.T) {
	h := newHarness(t)
	h.typeText(t, "car")

	require.NoError(t, h.game.Update(time.Second))
	_, showing := h.game.Showing()
	assert.True(t, showing)

	require.NoError(t, h.game.Update(10*time.Second))
	_, showing = h.game.Showing()
	assert.False(t, showing)
	assert.Len(t, h.game.Words(), 3)
}

func TestDoodleType_Render(t *testing.T) {
	h := newHarness(t)
	canvas := display.NewCanvas()

	h.typeText(t, "ca")
	require.NoError(t, h.game.Render(canvas))

	var green, captions []string
	for _, run := range canvas.Texts() {
		if run.Color == doodletype.Green {
			green = append(green, run.Text)
		}
		captions = append(captions, run.Text)
	}
	assert.Equal(t, []string{"ca", "ca"}, green)
	assert.Contains(t, captions, "ice_cream")

	h.typeText(t, "t")
	require.NoError(t, h.game.Render(canvas))
	require.Len(t, canvas.Texts(), 1)
	assert.Equal(t, "cat", canvas.Texts()[0].Text)
}

func TestDoodleType_DefaultWordCount(t *testing.T) {
	g, err := doodletype.NewWithDoodles(domain.GameDescriptor{ID: "doodletype"}, doodletype.Builtin())
	require.NoError(t, err)
	canvas := display.NewCanvas()
	require.NoError(t, g.Init(canvas, ports.Services{Rand: rand.New(rand.NewSource(3))}))
	require.Len(t, g.Words(), 5)
	require.NoError(t, g.Render(canvas))
	assert.Len(t, canvas.Texts(), 5)
}

func TestDoodleType_EscapeFinishes(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.game.HandleInput(domain.KeyPress(domain.KeyEscape)))
	assert.True(t, h.game.Finished())
	assert.NoError(t, h.game.Cleanup())
}

func TestDoodleType_Options(t *testing.T) {
	_, err := doodletype.NewWithDoodles(domain.GameDescriptor{Options: map[string]any{"words": 0}}, testDoodles)
	assert.Error(t, err)

	_, err = doodletype.NewWithDoodles(domain.GameDescriptor{}, nil)
	assert.Error(t, err)
}

func TestParseDoodles(t *testing.T) {
	list, err := doodletype.ParseDoodles([]byte(`
- word: sun
  strokes: [[[0, 0], [1, 1]]]
- word: sun
  strokes: []
- word: moon
`))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sun", list[0].Word)
	assert.Len(t, list[0].Strokes, 1)

	_, err = doodletype.ParseDoodles([]byte(`- strokes: []`))
	assert.Error(t, err)

	_, err = doodletype.ParseDoodles([]byte(`{not a list`))
	assert.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	words := map[string]bool{}
	for _, d := range doodletype.Builtin() {
		words[d.Word] = true
		assert.NotEmpty(t, d.Strokes, d.Word)
	}
	assert.GreaterOrEqual(t, len(words), 10)
	assert.True(t, words["ice cream"])
}

func TestDoodle_DrawProgress(t *testing.T) {
	d := doodletype.Doodle{Word: "line", Strokes: [][][]int{{{0, 0}, {100, 0}, {100, 100}}}}
	blank := func(c *display.Canvas) bool {
		for y := 0; y < 120; y++ {
			for x := 0; x < 120; x++ {
				if c.At(x, y) != display.White {
					return false
				}
			}
		}
		return true
	}

	canvas := display.NewCanvas()
	canvas.Clear(display.White)
	d.Draw(canvas, image.Pt(0, 0), 100, display.Black, 2, 0)
	assert.True(t, blank(canvas))

	d.Draw(canvas, image.Pt(0, 0), 100, display.Black, 2, 1)
	assert.False(t, blank(canvas))
	assert.Equal(t, image.Pt(104, 104), d.Size(100, 2))
}

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/fonts"
	"github.com/matzehuels/cardpress/pkg/layout"
	"github.com/matzehuels/cardpress/pkg/observability"
)

const deck = "Name\tType\tEnergy\tTrigger\tDescription\n" +
	"Fireball\tSpell\t3\tOn Cast\tDeal 3 damage to target.\n" +
	"Healing Berry\tFood\t1\tOn Eat\tRestore 2 health to the eater and draw a card.\n"

// testOptions returns options rooted in a temp dir, using a font path that
// does not exist so every machine renders with the built-in font.
func testOptions(t *testing.T, tsv string) Options {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "database.tsv")
	if err := os.WriteFile(input, []byte(tsv), 0644); err != nil {
		t.Fatal(err)
	}
	return Options{
		Input:     input,
		OutputDir: filepath.Join(dir, "cards"),
		SheetPath: filepath.Join(dir, "cards.pdf"),
		AssetsDir: filepath.Join(dir, "assets"),
		FontPath:  filepath.Join(dir, "no-such-font.ttf"),
	}
}

func TestSetRenderDefaults(t *testing.T) {
	var o Options
	o.SetRenderDefaults()
	if o.Input != DefaultInput || o.OutputDir != DefaultOutputDir || o.AssetsDir != DefaultAssetsDir || o.Layout != DefaultLayout {
		t.Errorf("defaults not applied: %+v", o)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	o = Options{}
	o.SetSheetDefaults()
	if o.SheetPath != DefaultSheetPath || o.OutputDir != DefaultOutputDir {
		t.Errorf("sheet defaults not applied: %+v", o)
	}
}

func TestValidateForRender(t *testing.T) {
	tests := []struct {
		dir     string
		wantErr bool
	}{
		{"cards", false},
		{"out/cards", false},
		{".", true},
		{"..", true},
		{"../..", true},
		{"/", true},
	}

	for _, tt := range tests {
		o := Options{OutputDir: tt.dir}
		err := o.ValidateForRender()
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateForRender(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
		}
	}
}

func TestValidateForRenderKeepsSources(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"input inside output", Options{OutputDir: "data", Input: "data/database.tsv"}},
		{"assets are output", Options{OutputDir: "art", AssetsDir: "art"}},
		{"assets inside output", Options{OutputDir: "build", AssetsDir: "build/assets"}},
		{"font inside output", Options{OutputDir: "cards", FontPath: "cards/font.ttf"}},
		{"template inside output", Options{OutputDir: "cards", Template: "cards/frame.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.opts
			if err := o.ValidateForRender(); !cperrors.Is(err, cperrors.ErrCodeInvalidPath) {
				t.Errorf("ValidateForRender() = %v, want INVALID_PATH", err)
			}
		})
	}
}

func TestValidateForSheet(t *testing.T) {
	o := Options{Columns: -1}
	if err := o.ValidateForSheet(); !cperrors.Is(err, cperrors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}

	margin := 18.0
	o = Options{Columns: 4, Margin: &margin}
	if err := o.ValidateForSheet(); err != nil {
		t.Errorf("valid sheet options rejected: %v", err)
	}
}

func TestSheetOptions(t *testing.T) {
	o := Options{Columns: 4, Title: "Deck"}
	so := o.SheetOptions(nil)
	if !so.LeadingBlankPage {
		t.Error("leading blank page should be kept by default")
	}
	if so.Columns != 4 || so.Title != "Deck" || so.CardWidth != 0 {
		t.Errorf("unexpected sheet options: %+v", so)
	}

	o.SkipBlankPage = true
	l := layout.Classic()
	l.Canvas.Width, l.Canvas.Height = 300, 300
	so = o.SheetOptions(l)
	if so.LeadingBlankPage {
		t.Error("SkipBlankPage should drop the leading blank page")
	}
	if so.CardWidth != 300 || so.CardHeight != 300 {
		t.Errorf("card size = %dx%d, want layout canvas", so.CardWidth, so.CardHeight)
	}
}

func TestResolveLayout(t *testing.T) {
	o := Options{Layout: layout.PresetTemplate, FontPath: "my.ttf", Template: "bg.png"}
	l, err := o.ResolveLayout()
	if err != nil {
		t.Fatalf("ResolveLayout: %v", err)
	}
	for tier, f := range l.Fonts {
		if f.Path != "my.ttf" {
			t.Errorf("tier %q font = %q, want override", tier, f.Path)
		}
	}
	if l.Canvas.Template != "bg.png" {
		t.Errorf("template = %q, want override", l.Canvas.Template)
	}

	// Overrides must not leak into the preset.
	fresh, _ := layout.Preset(layout.PresetTemplate)
	if fresh.Canvas.Template != layout.DefaultTemplatePath {
		t.Errorf("preset mutated: template = %q", fresh.Canvas.Template)
	}

	o = Options{Layout: "nope"}
	if _, err := o.ResolveLayout(); !cperrors.Is(err, cperrors.ErrCodeInvalidLayout) {
		t.Errorf("error = %v, want INVALID_LAYOUT", err)
	}
}

func TestBuild(t *testing.T) {
	opts := testOptions(t, deck)
	opts.Layout = layout.PresetBadge

	// Stale output from an earlier run must disappear.
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(opts.OutputDir, "Old_Card.png")
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner(nil).Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, name := range []string{"Fireball.png", "Healing_Berry.png"} {
		if _, err := os.Stat(filepath.Join(opts.OutputDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale card survived the build")
	}

	st := result.Stats
	if st.Records != 2 || st.Cards != 2 || st.Overwritten != 0 {
		t.Errorf("stats = %+v, want 2 records, 2 cards", st)
	}
	if st.MissingArt != 2 {
		t.Errorf("MissingArt = %d, want 2", st.MissingArt)
	}
	if st.FontFallback != 1 {
		t.Errorf("FontFallback = %d, want 1 (every tier shares the missing file)", st.FontFallback)
	}
	if st.Pages != 2 {
		t.Errorf("Pages = %d, want 1 content page + leading blank", st.Pages)
	}

	if result.SheetPath != opts.SheetPath {
		t.Errorf("SheetPath = %q", result.SheetPath)
	}
	if info, err := os.Stat(opts.SheetPath); err != nil || info.Size() == 0 {
		t.Errorf("sheet not written: %v", err)
	}
	if len(result.Cards) != 2 || result.Cards[0].Name != "Fireball" {
		t.Errorf("cards = %+v", result.Cards)
	}
	if result.Cards[0].NameTier != layout.TierTitle {
		t.Errorf("Fireball name tier = %q, want %q", result.Cards[0].NameTier, layout.TierTitle)
	}
}

func TestRenderDuplicateNames(t *testing.T) {
	opts := testOptions(t, deck+"Fireball\tSpell\t5\tOn Cast\tA bigger one.\n")

	result, err := NewRunner(nil).Render(context.Background(), opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if result.Stats.Records != 3 || result.Stats.Cards != 2 || result.Stats.Overwritten != 1 {
		t.Errorf("stats = %+v, want 3 records, 2 files, 1 overwrite", result.Stats)
	}

	entries, err := os.ReadDir(opts.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output has %d files, want 2", len(entries))
	}
}

func TestRenderMissingInputKeepsOutput(t *testing.T) {
	opts := testOptions(t, deck)
	opts.Input = filepath.Join(t.TempDir(), "missing.tsv")

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		t.Fatal(err)
	}
	keep := filepath.Join(opts.OutputDir, "keep.png")
	if err := os.WriteFile(keep, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewRunner(nil).Render(context.Background(), opts)
	if !cperrors.Is(err, cperrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("output folder was cleared although the input could not be read")
	}
}

func TestRenderBadHeader(t *testing.T) {
	opts := testOptions(t, "Name\tType\nFireball\tSpell\n")
	_, err := NewRunner(nil).Render(context.Background(), opts)
	if !cperrors.Is(err, cperrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestSheetOnly(t *testing.T) {
	opts := testOptions(t, deck)
	runner := NewRunner(nil)
	if _, err := runner.Render(context.Background(), opts); err != nil {
		t.Fatalf("Render: %v", err)
	}

	result, err := runner.Sheet(context.Background(), Options{
		OutputDir:     opts.OutputDir,
		SheetPath:     opts.SheetPath,
		SkipBlankPage: true,
	})
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}
	if result.Stats.Pages != 1 || result.Plan.Images != 2 {
		t.Errorf("pages = %d, images = %d, want 1 and 2", result.Stats.Pages, result.Plan.Images)
	}
	if result.Stats.Records != 0 {
		t.Error("sheet-only run should not report records")
	}
}

func TestSheetEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	_, err := NewRunner(nil).Sheet(context.Background(), Options{
		OutputDir: dir,
		SheetPath: filepath.Join(dir, "cards.pdf"),
	})
	if !cperrors.Is(err, cperrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestRenderCancelled(t *testing.T) {
	opts := testOptions(t, deck)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Render(ctx, opts)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type countingRenderHooks struct {
	observability.NoopRenderHooks
	completed []string
	fallbacks map[string]int
}

func (h *countingRenderHooks) OnCardComplete(_ context.Context, name, _ string, _ time.Duration, err error) {
	if err == nil {
		h.completed = append(h.completed, name)
	}
}

func (h *countingRenderHooks) OnFallback(_ context.Context, resource, _, _ string) {
	h.fallbacks[resource]++
}

func TestRenderHooks(t *testing.T) {
	h := &countingRenderHooks{fallbacks: map[string]int{}}
	observability.SetRenderHooks(h)
	defer observability.Reset()

	opts := testOptions(t, deck)
	opts.Layout = layout.PresetBadge
	if _, err := NewRunner(nil).Render(context.Background(), opts); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(h.completed) != 2 {
		t.Errorf("completed = %v, want 2 cards", h.completed)
	}
	if h.fallbacks["font"] != 1 || h.fallbacks["illustration"] != 2 {
		t.Errorf("fallbacks = %v, want 1 font and 2 illustration", h.fallbacks)
	}
}

func TestFontFallbacks(t *testing.T) {
	r := &Result{Fonts: map[string]fonts.Resolved{
		"title":  {Requested: "fonts/missing.ttf", Path: fonts.BuiltinName, Source: fonts.SourceBuiltin},
		"body":   {Requested: "fonts/missing.ttf", Path: fonts.BuiltinName, Source: fonts.SourceBuiltin},
		"symbol": {Requested: "fonts/Symbols.ttf", Path: "/usr/share/fonts/Symbols.ttf", Source: fonts.SourceSystem},
		"label":  {Requested: "fonts/ok.ttf", Path: "fonts/ok.ttf", Source: fonts.SourceFile},
		"plain":  {Path: fonts.BuiltinName, Source: fonts.SourceBuiltin},
	}}

	got := r.FontFallbacks()
	if len(got) != 2 {
		t.Fatalf("FontFallbacks() = %+v, want 2 distinct files", got)
	}
	if got[0].Requested != "fonts/Symbols.ttf" || got[1].Requested != "fonts/missing.ttf" {
		t.Errorf("FontFallbacks() order = %q, %q", got[0].Requested, got[1].Requested)
	}
}

package layout

import (
	"sort"

	"github.com/matzehuels/cardpress/pkg/card"
)

// Preset names.
const (
	PresetClassic  = "classic"
	PresetBadge    = "badge"
	PresetTemplate = "template"

	DefaultPreset = PresetClassic
)

// Card geometry shared by all presets.
const (
	CardWidth  = 400
	CardHeight = 600
)

// DefaultFontPath is where presets look for their font.
// When it is missing the renderer falls back to the built-in font.
const DefaultFontPath = "fonts/DejaVuSans.ttf"

// DefaultTemplatePath is the background image used by the template preset.
const DefaultTemplatePath = "assets/template.png"

// Font tiers used by presets.
const (
	TierTitle  = "title"
	TierBody   = "body"
	TierSymbol = "symbol"
)

var presets = map[string]func() *Layout{
	PresetClassic:  Classic,
	PresetBadge:    Badge,
	PresetTemplate: Template,
}

var presetSummaries = map[string]string{
	PresetClassic:  "bordered card, energy with ⚡ suffix, no illustration",
	PresetBadge:    "bordered card with type badge and illustration window",
	PresetTemplate: "background image with illustration window, no frames",
}

// Describe returns a one-line summary of a preset, or "" for unknown names.
func Describe(name string) string {
	return presetSummaries[name]
}

// Preset returns a fresh copy of the named preset.
func Preset(name string) (*Layout, bool) {
	fn, ok := presets[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func presetFonts() map[string]Font {
	return map[string]Font{
		TierTitle:  {Path: DefaultFontPath, Size: 20},
		TierBody:   {Path: DefaultFontPath, Size: 16},
		TierSymbol: {Path: DefaultFontPath, Size: 25},
	}
}

func borderFrames() []Frame {
	return []Frame{
		{Name: "border", X: 5, Y: 5, Width: 390, Height: 590, LineWidth: 3},
		{Name: "name", X: 10, Y: 10, Width: 340, Height: 40, LineWidth: 3},
		{Name: "type", X: 275, Y: 15, Width: 70, Height: 30, LineWidth: 3},
		{Name: "description", X: 10, Y: 450, Width: 380, Height: 130, LineWidth: 3},
	}
}

func nameRegion() TextRegion {
	return TextRegion{
		Name: "name", Field: card.FieldName,
		X: 20, Y: 20,
		Tier: TierTitle, FitWidth: 300, FallbackTier: TierBody,
	}
}

func lowerRegions() []TextRegion {
	return []TextRegion{
		{Name: "trigger", Field: card.FieldTrigger, X: 20, Y: 460, Tier: TierTitle},
		{Name: "description", Field: card.FieldDescription, X: 20, Y: 490, Width: 360, Tier: TierBody, Wrap: true},
	}
}

// Classic is the default bordered card: the type sits left-aligned in its
// badge and the energy carries a ⚡ suffix. It has no illustration window.
func Classic() *Layout {
	text := []TextRegion{
		nameRegion(),
		{Name: "type", Field: card.FieldType, X: 287, Y: 21, Tier: TierBody},
		{Name: "energy", Field: card.FieldEnergy, X: 355, Y: 15, Tier: TierSymbol, Suffix: "⚡"},
	}
	return &Layout{
		Name:   PresetClassic,
		Canvas: Canvas{Width: CardWidth, Height: CardHeight, Background: "white"},
		Fonts:  presetFonts(),
		Frames: borderFrames(),
		Text:   append(text, lowerRegions()...),
	}
}

func badgeText() []TextRegion {
	text := []TextRegion{
		nameRegion(),
		{Name: "type", Field: card.FieldType, X: 275, Y: 21, Width: 70, Align: AlignCenter, Tier: TierBody},
		{
			Name: "energy", Field: card.FieldEnergy, X: 350, Y: 15, Width: 40, Align: AlignRight, Tier: TierSymbol,
			Prefix: "+", PrefixWhenType: "food",
		},
	}
	return append(text, lowerRegions()...)
}

func illustrationWindow() []ImageRegion {
	return []ImageRegion{{Name: "art", X: 20, Y: 60, Width: 360, Height: 380}}
}

// Badge centres the type in its badge, right-aligns the energy (prefixed
// with "+" on food cards) and adds an illustration window.
func Badge() *Layout {
	return &Layout{
		Name:          PresetBadge,
		Canvas:        Canvas{Width: CardWidth, Height: CardHeight, Background: "white"},
		Fonts:         presetFonts(),
		Frames:        borderFrames(),
		Illustrations: illustrationWindow(),
		Text:          badgeText(),
	}
}

// Template draws on a pre-made background image instead of stroking frames.
func Template() *Layout {
	return &Layout{
		Name:          PresetTemplate,
		Canvas:        Canvas{Width: CardWidth, Height: CardHeight, Background: "white", Template: DefaultTemplatePath},
		Fonts:         presetFonts(),
		Illustrations: illustrationWindow(),
		Text:          badgeText(),
	}
}

// Package pkg provides the libraries behind cardpress.
//
// # Overview
//
// Cardpress turns a tab-separated table of cards into PNG images and tiles
// those images onto letter-sized PDF pages for printing. The pkg directory
// is organized into three areas:
//
//  1. Domain: [card], [layout], [text], [fonts], [render], [sheet]
//  2. Orchestration: [pipeline], [config]
//  3. Support: [errors], [observability], [buildinfo]
//
// # Architecture
//
// Data flows one way:
//
//	database.tsv
//	     ↓
//	[card] package (records)
//	     ↓
//	[render] package (one PNG per record, drawn per [layout])
//	     ↓
//	[sheet] package (PDF pages)
//
// # Quick Start
//
// Render one card and print a sheet of the whole folder:
//
//	l, _ := layout.Resolve("badge")
//	r, _ := render.New(l, render.WithAssetsDir("assets"))
//	defer r.Close()
//	_, _ = r.RenderFile(card.Record{Name: "Fireball", Type: "Spell", Energy: "3"}, "cards/Fireball.png")
//
//	files, _ := sheet.List("cards")
//	_, _ = sheet.WriteFile(ctx, files, "cards.pdf", sheet.DefaultOptions())
//
// Or run every step with the defaults:
//
//	result, err := pipeline.NewRunner(logger).Build(ctx, pipeline.Options{})
//
// # Main Packages
//
// [card] - The record type, the TSV reader and file-name sanitising.
//
// [layout] - Declarative card layouts (frames, text regions, illustration
// windows, QR codes, font tiers) with built-in presets and TOML files.
//
// [text] - Greedy word wrap against a measured pixel width.
//
// [fonts] - Font resolution: configured file, then system fonts, then the
// embedded Go font.
//
// [render] - Draws one record onto a canvas following a layout.
//
// [sheet] - Grid computation and PDF pagination.
//
// [pipeline] - Clean → render → sheet with defaults and statistics, used by
// the CLI.
//
// [config] - cardpress.toml mapped onto pipeline options.
//
// [card]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/card
// [layout]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/layout
// [text]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/text
// [fonts]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/render
// [sheet]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/sheet
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cardpress/pkg/buildinfo
package pkg

// Package config reads cardpress.toml, the optional project file that
// replaces the built-in defaults.
//
// Every key is optional:
//
//	[cards]
//	input    = "database.tsv"
//	output   = "cards"
//	assets   = "assets"
//	layout   = "badge"            # preset name or layout TOML file
//	font     = "fonts/DejaVuSans.ttf"
//	template = "assets/frame.png"
//
//	[sheet]
//	path               = "cards.pdf"
//	columns            = 3
//	margin             = 36.0
//	leading_blank_page = true
//	title              = "My Deck"
//
// Command-line flags take precedence over the file.
package config

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	cperrors "github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "cardpress.toml"

// Config mirrors cardpress.toml.
type Config struct {
	Cards Cards `toml:"cards"`
	Sheet Sheet `toml:"sheet"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Cards configures the render step.
type Cards struct {
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	Assets   string `toml:"assets"`
	Layout   string `toml:"layout"`
	Font     string `toml:"font"`
	Template string `toml:"template"`
}

// Sheet configures the sheet step.
type Sheet struct {
	Path             string   `toml:"path"`
	Columns          int      `toml:"columns"`
	Margin           *float64 `toml:"margin"`
	LeadingBlankPage *bool    `toml:"leading_blank_page"`
	Title            string   `toml:"title"`
}

// Load reads the config at path. An empty path reads DefaultFile if it
// exists and returns an empty Config otherwise; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !explicit {
				return &Config{}, nil
			}
			return nil, cperrors.Wrap(cperrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, cperrors.Wrap(cperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, cperrors.New(cperrors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	c.Path = path
	return &c, nil
}

// Options converts the config into pipeline options. Unset keys stay zero so
// the pipeline defaults apply.
func (c *Config) Options() pipeline.Options {
	o := pipeline.Options{
		Input:     c.Cards.Input,
		OutputDir: c.Cards.Output,
		AssetsDir: c.Cards.Assets,
		Layout:    c.Cards.Layout,
		FontPath:  c.Cards.Font,
		Template:  c.Cards.Template,
		SheetPath: c.Sheet.Path,
		Columns:   c.Sheet.Columns,
		Margin:    c.Sheet.Margin,
		Title:     c.Sheet.Title,
	}
	if c.Sheet.LeadingBlankPage != nil {
		o.SkipBlankPage = !*c.Sheet.LeadingBlankPage
	}
	return o
}

// Package fonts locates and parses the font files used to draw cards.
//
// Fonts are resolved in order: explicit file paths from configuration, then
// well-known Korean font files found on the system by go-findfont, then the
// Go fonts embedded in the binary. The embedded fonts have no Hangul glyphs,
// so a deployment that renders Korean text should install a Korean font or
// configure one.
package fonts

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	findfont "github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// RegularNames are font file names looked up on the system for the regular
// face, most preferred first.
var RegularNames = []string{
	"NotoSansKR-Regular.ttf",
	"NotoSansKR-Regular.otf",
	"NotoSansCJK-Regular.ttc",
	"NanumGothic.ttf",
	"AppleSDGothicNeo.ttc",
	"malgun.ttf",
}

// BoldNames are font file names looked up on the system for the bold face.
var BoldNames = []string{
	"NotoSansKR-Bold.ttf",
	"NotoSansKR-Bold.otf",
	"NotoSansCJK-Bold.ttc",
	"NanumGothicBold.ttf",
	"AppleSDGothicNeo.ttc",
	"malgunbd.ttf",
}

// Source says where to look for fonts. Empty fields use the defaults.
type Source struct {
	RegularPath  string   // explicit file for the regular face
	BoldPath     string   // explicit file for the bold face
	RegularNames []string // system lookup names, default RegularNames
	BoldNames    []string // system lookup names, default BoldNames
	SkipSystem   bool     // go straight to the embedded fonts
}

// Face is one parsed font with the bytes it came from.
type Face struct {
	Font   *opentype.Font
	Data   []byte
	Family string
	Path   string // "" for embedded fonts

	b64Once sync.Once
	b64     string
}

// Embedded reports whether the face is one of the built-in Go fonts.
func (f *Face) Embedded() bool { return f.Path == "" }

// Base64 returns the font bytes base64-encoded, for @font-face data URLs.
// The result is computed once.
func (f *Face) Base64() string {
	f.b64Once.Do(func() {
		f.b64 = base64.StdEncoding.EncodeToString(f.Data)
	})
	return f.b64
}

// MIME returns the media type matching the font data.
func (f *Face) MIME() string {
	if len(f.Data) >= 4 && string(f.Data[:4]) == "OTTO" {
		return "font/otf"
	}
	return "font/ttf"
}

// Set is a regular and a bold face.
type Set struct {
	Regular *Face
	Bold    *Face
}

// Embedded reports whether either face fell back to the built-in fonts.
func (s *Set) Embedded() bool { return s.Regular.Embedded() || s.Bold.Embedded() }

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default returns the embedded Go fonts. The set is parsed once.
func Default() *Set {
	defaultOnce.Do(func() {
		defaultSet = &Set{
			Regular: mustEmbedded(goregular.TTF),
			Bold:    mustEmbedded(gobold.TTF),
		}
	})
	return defaultSet
}

func mustEmbedded(data []byte) *Face {
	f, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("fonts: embedded font: %v", err))
	}
	return &Face{Font: f, Data: data, Family: familyName(f)}
}

// Load resolves src into a font set. It only fails when an explicitly
// configured path cannot be read or parsed.
func Load(src Source) (*Set, error) {
	regular, err := resolve(src.RegularPath, pick(src.RegularNames, RegularNames), src.SkipSystem, Default().Regular)
	if err != nil {
		return nil, err
	}
	bold, err := resolve(src.BoldPath, pick(src.BoldNames, BoldNames), src.SkipSystem, Default().Bold)
	if err != nil {
		return nil, err
	}
	return &Set{Regular: regular, Bold: bold}, nil
}

func pick(names, fallback []string) []string {
	if len(names) > 0 {
		return names
	}
	return fallback
}

func resolve(path string, names []string, skipSystem bool, fallback *Face) (*Face, error) {
	if path != "" {
		return Open(path)
	}
	if !skipSystem {
		for _, name := range names {
			p, err := findfont.Find(name)
			if err != nil {
				continue
			}
			if f, err := Open(p); err == nil {
				return f, nil
			}
		}
	}
	return fallback, nil
}

// Open reads and parses a font file. Collections (.ttc, .otc) use their
// first font.
func Open(path string) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", filepath.Base(path), err)
	}
	return &Face{Font: f, Data: data, Family: familyName(f), Path: path}, nil
}

// Parse parses a TrueType or OpenType font or the first font of a collection.
func Parse(data []byte) (*opentype.Font, error) {
	if len(data) >= 4 && string(data[:4]) == "ttcf" {
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		if c.NumFonts() == 0 {
			return nil, fmt.Errorf("empty font collection")
		}
		return c.Font(0)
	}
	return opentype.Parse(data)
}

func familyName(f *opentype.Font) string {
	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// Package config loads numtype.toml: promotion ladder overrides, the wrapper
// table, extra classes for the host universe and named resolution scopes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/cespare/xxhash/v2"

	"numtype/internal/types"
	"numtype/internal/universe"
)

// FileName is the configuration file looked up by Find.
const FileName = "numtype.toml"

// File mirrors the TOML document.
type File struct {
	Promotion PromotionConfig     `toml:"promotion"`
	Boxing    map[string]string   `toml:"boxing"`
	Classes   []ClassConfig       `toml:"class"`
	Scopes    map[string][]string `toml:"scopes"`
}

// PromotionConfig holds the [promotion] table.
type PromotionConfig struct {
	Textual string         `toml:"textual"`
	Ranks   []RankConfig   `toml:"rank"`
	Results []ResultConfig `toml:"result"`
}

// RankConfig is one [[promotion.rank]] entry.
type RankConfig struct {
	Name string `toml:"name"`
	Rank int64  `toml:"rank"`
}

// ResultConfig is one [[promotion.result]] entry.
type ResultConfig struct {
	Rank int64  `toml:"rank"`
	Name string `toml:"name"`
}

// ClassConfig is one [[class]] entry.
type ClassConfig struct {
	Name       string   `toml:"name"`
	Super      string   `toml:"super"`
	Interfaces []string `toml:"interfaces"`
	Params     int      `toml:"params"`
	Module     string   `toml:"module"`
	Interface  bool     `toml:"interface"`
}

// Config is a decoded file together with where it came from.
type Config struct {
	Path string
	File File
	Hash uint64 // xxhash of the raw document, 0 for defaults
}

// Find walks up from startDir looking for numtype.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes and validates a configuration file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path comes from --config or Find
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(path, string(data))
}

// Parse decodes configuration from a string; name is used in errors.
func Parse(name, data string) (*Config, error) {
	var f File
	meta, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	cfg, err := fromMeta(name, f, meta)
	if err != nil {
		return nil, err
	}
	cfg.Hash = xxhash.Sum64String(data)
	return cfg, nil
}

func fromMeta(path string, f File, meta toml.MetaData) (*Config, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("promotion", "rank") != meta.IsDefined("promotion", "result") {
		return nil, fmt.Errorf("%s: [[promotion.rank]] and [[promotion.result]] must be given together", path)
	}
	if meta.IsDefined("promotion", "textual") && strings.TrimSpace(f.Promotion.Textual) == "" {
		return nil, fmt.Errorf("%s: [promotion].textual is empty", path)
	}
	for i, c := range f.Classes {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%s: [[class]] #%d: missing name", path, i+1)
		}
	}
	return &Config{Path: path, File: f}, nil
}

// Default is the configuration used when no file is present.
func Default() *Config {
	return &Config{}
}

// Setup is everything a resolver session needs.
type Setup struct {
	Ranks    *types.RankTable
	Boxes    *types.BoxTable
	Textual  string
	Universe *universe.Universe

	// Fingerprint identifies the configuration for result caching.
	Fingerprint uint64
}

// Build turns the configuration into tables and a universe.
func (c *Config) Build() (*Setup, error) {
	where := c.Path
	if where == "" {
		where = "defaults"
	}
	ranks, err := c.rankTable()
	if err != nil {
		return nil, fmt.Errorf("%s: [promotion]: %w", where, err)
	}
	boxes, err := c.boxTable()
	if err != nil {
		return nil, fmt.Errorf("%s: [boxing]: %w", where, err)
	}
	decls := universe.Builtins()
	for _, cc := range c.File.Classes {
		decls = append(decls, universe.ClassDecl{
			Name:       strings.TrimSpace(cc.Name),
			Super:      strings.TrimSpace(cc.Super),
			Interfaces: cc.Interfaces,
			Params:     cc.Params,
			Module:     strings.TrimSpace(cc.Module),
			Interface:  cc.Interface,
		})
	}
	for i := range decls {
		if decls[i].Super == "" && !decls[i].Interface && decls[i].Name != universe.ObjectName {
			decls[i].Super = universe.ObjectName
		}
	}
	u, err := universe.Build(decls, c.File.Scopes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}
	textual := strings.TrimSpace(c.File.Promotion.Textual)
	if textual == "" {
		textual = types.TextualName
	}
	return &Setup{Ranks: ranks, Boxes: boxes, Textual: textual, Universe: u, Fingerprint: c.Hash}, nil
}

func (c *Config) rankTable() (*types.RankTable, error) {
	p := c.File.Promotion
	if len(p.Ranks) == 0 && len(p.Results) == 0 {
		return types.DefaultRanks(), nil
	}
	entries := make([]types.RankEntry, 0, len(p.Ranks))
	for _, r := range p.Ranks {
		rank, err := toRank(r.Rank)
		if err != nil {
			return nil, fmt.Errorf("rank of %s: %w", r.Name, err)
		}
		entries = append(entries, types.RankEntry{Name: r.Name, Rank: rank})
	}
	results := make(map[types.Rank]string, len(p.Results))
	for _, r := range p.Results {
		rank, err := toRank(r.Rank)
		if err != nil {
			return nil, fmt.Errorf("result %s: %w", r.Name, err)
		}
		if prev, dup := results[rank]; dup {
			return nil, fmt.Errorf("rank %d folds to both %s and %s", rank, prev, r.Name)
		}
		results[rank] = r.Name
	}
	return types.NewRankTable(entries, results)
}

func (c *Config) boxTable() (*types.BoxTable, error) {
	if len(c.File.Boxing) == 0 {
		return types.DefaultBoxes(), nil
	}
	boxed := make(map[string]types.PrimitiveKind, len(c.File.Boxing))
	for name, keyword := range c.File.Boxing {
		kind, ok := types.ParsePrimitiveKind(strings.TrimSpace(keyword))
		if !ok {
			return nil, fmt.Errorf("%s: unknown primitive %q", name, keyword)
		}
		boxed[name] = kind
	}
	return types.NewBoxTable(boxed)
}

func toRank(v int64) (types.Rank, error) {
	r, err := safecast.Conv[uint8](v)
	if err != nil {
		return types.NoRank, fmt.Errorf("rank %d out of range: %w", v, err)
	}
	if r == 0 {
		return types.NoRank, fmt.Errorf("rank must be positive")
	}
	return types.Rank(r), nil
}

// Resolver builds a resolver over the setup's universe.
func (s *Setup) Resolver() *types.Resolver {
	return types.NewResolver(s.Universe, s.Universe,
		types.WithRanks(s.Ranks),
		types.WithBoxes(s.Boxes),
		types.WithTextual(s.Textual),
	)
}

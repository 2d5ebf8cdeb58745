package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"numtype/internal/types"
)

const sampleConfig = `
[promotion]
textual = "groovy.lang.GString"

[[promotion.rank]]
name = "java.lang.Integer"
rank = 1

[[promotion.rank]]
name = "java.lang.Float"
rank = 2

[[promotion.result]]
rank = 1
name = "java.lang.Integer"

[[promotion.result]]
rank = 2
name = "java.lang.Float"

[[class]]
name = "com.acme.Money"
super = "java.lang.Number"
interfaces = ["java.lang.Comparable"]
module = "app"

[scopes]
jdk = ["jdk"]
`

func TestParseAndBuild(t *testing.T) {
	cfg, err := Parse("sample.toml", sampleConfig)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	setup, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if setup.Textual != "groovy.lang.GString" {
		t.Fatalf("textual override lost: %q", setup.Textual)
	}
	if r, ok := setup.Ranks.RankOf("java.lang.Float"); !ok || r != 2 {
		t.Fatalf("expected Float at rank 2, got %d (ok=%v)", r, ok)
	}
	if _, ok := setup.Ranks.RankOf("java.lang.Double"); ok {
		t.Fatalf("ladder override must replace the default ladder")
	}
	if _, ok := setup.Universe.Class("com.acme.Money"); !ok {
		t.Fatalf("extra class missing")
	}
	jdk, err := setup.Universe.Scope("jdk")
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	money := setup.Universe.TypeByName("com.acme.Money", jdk)
	number := setup.Universe.TypeByName("java.lang.Number", jdk)
	if v := setup.Universe.Assignable(number, money); v != types.VerdictUnknown {
		t.Fatalf("app class outside jdk scope must be unknown, got %v", v)
	}

	r := setup.Resolver()
	res, ok := r.ResolveArithmetic(setup.Universe.TypeByName("java.lang.Integer", nil), setup.Universe.TypeByName("java.lang.Float", nil), nil)
	if !ok || res.CanonicalText() != "java.lang.Float" {
		t.Fatalf("expected java.lang.Float, got %v (ok=%v)", res, ok)
	}
}

func TestDefaultsKeepSourceFold(t *testing.T) {
	setup, err := Default().Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if setup.Ranks != types.DefaultRanks() || setup.Boxes != types.DefaultBoxes() {
		t.Fatalf("defaults must reuse the built-in tables")
	}
	name, _ := setup.Ranks.ResultNameOf(7)
	if name != "java.math.Double" {
		t.Fatalf("rank 7 must keep its recorded name, got %q", name)
	}
}

func TestRejectsBadConfig(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "[promotion]\nbogus = 1\n",
		"rank alone":     "[[promotion.rank]]\nname = \"a\"\nrank = 1\n",
		"rank overflow":  "[[promotion.rank]]\nname = \"a\"\nrank = 300\n[[promotion.result]]\nrank = 300\nname = \"a\"\n",
		"rank zero":      "[[promotion.rank]]\nname = \"a\"\nrank = 0\n[[promotion.result]]\nrank = 0\nname = \"a\"\n",
		"bad primitive":  "[boxing]\n\"java.lang.Integer\" = \"integer\"\n",
		"empty textual":  "[promotion]\ntextual = \"\"\n",
		"nameless class": "[[class]]\nsuper = \"java.lang.Object\"\n",
		"bad scope":      "[scopes]\nx = [\"ghost\"]\n",
		"bad super":      "[[class]]\nname = \"a.A\"\nsuper = \"a.Missing\"\n",
	}
	for name, data := range cases {
		cfg, err := Parse(name, data)
		if err == nil {
			_, err = cfg.Build()
		}
		if err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	found, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("expected to find config, got ok=%v err=%v", ok, err)
	}
	if found != path {
		t.Fatalf("expected %s, got %s", path, found)
	}
	cfg, err := Load(found)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasSuffix(cfg.Path, FileName) || len(cfg.File.Classes) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFingerprintTracksContent(t *testing.T) {
	a, err := Parse("a.toml", sampleConfig)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("b.toml", sampleConfig+"\n[boxing]\n")
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash == 0 || a.Hash == b.Hash {
		t.Fatalf("fingerprints must be non-zero and content dependent: %x %x", a.Hash, b.Hash)
	}
	if Default().Hash != 0 {
		t.Fatalf("defaults carry no fingerprint")
	}
}

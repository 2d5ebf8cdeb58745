package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 16 << 10
	maxFuzzInput = 64 << 10
)

// edgeSeeds are malformed or unusual lines the corpus files do not cover.
var edgeSeeds = []string{
	"",
	"=>",
	"promote => none",
	"promote Integer Long =>",
	"promote Integer ^ Long",
	"promote Integer % Long => none",
	"promote Integer + Long Short",
	"box List<<String>",
	"box List<String>>",
	"unbox --keep-generics --keep-generics List<String>",
	"assign @ Integer Long",
	"classify int => # comment",
	"promote\tInteger\r\nLong",
	"\ufeffbox int",
}

// addQuerySeeds adds every testdata query file plus a few hand-picked edge
// cases.
func addQuerySeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "queries")
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ntq" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	for _, s := range edgeSeeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

package endpoint

import (
	"os"
	"path/filepath"
	"sort"
)

// socketPatterns are the places Neovim and nvr put their listen sockets,
// relative to a runtime or temporary directory.
var socketPatterns = []string{
	"nvim.*",
	"nvim*/0",
	"nvim.*/*/nvim.*",
	"nvr-*.sock",
}

// Discover returns the socket endpoints found under dirs, sorted and
// deduplicated. Non-socket files matching a pattern are skipped.
func Discover(dirs ...string) []Endpoint {
	seen := make(map[string]struct{})
	var found []Endpoint
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, pattern := range socketPatterns {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}
			for _, path := range matches {
				if _, ok := seen[path]; ok {
					continue
				}
				info, err := os.Stat(path)
				if err != nil || info.Mode()&os.ModeSocket == 0 {
					continue
				}
				seen[path] = struct{}{}
				found = append(found, Endpoint{Address: path, Kind: KindUnix})
			}
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Address < found[j].Address })
	return found
}

package binkp

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ParseRequestFile reads an outbound .req flow file: one filename pattern
// per line, wildcards (*, ?) allowed, blank lines and ';' comments ignored.
func ParseRequestFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, sc.Err()
}

// ResolveFreq expands a single wildcard pattern against the files directly
// under root (FTNNetworkConfig.FreqPath) and returns matching FileOffers.
// Non-matching patterns yield no offers, which the caller answers with
// M_SKIP per spec.
func ResolveFreq(root, pattern string) ([]FileOffer, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var offers []FileOffer
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(strings.ToUpper(pattern), strings.ToUpper(e.Name()))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		offers = append(offers, FileOffer{
			Name:    e.Name(),
			Path:    filepath.Join(root, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return offers, nil
}

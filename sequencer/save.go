package sequencer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lehra/config"
	"lehra/note"
)

const (
	compositionVersion = 1
	timestampFormat    = "2006-01-02_15-04-05"
)

// ErrNoSaves is returned when a compositions directory holds nothing to load
var ErrNoSaves = errors.New("no saved compositions")

// CompositionFile is the on-disk form of a composer session
type CompositionFile struct {
	Version    int           `json:"version"`
	Name       string        `json:"name,omitempty"`
	Beats      int           `json:"beats"`
	Tempo      int           `json:"tempo"`
	Instrument string        `json:"instrument"`
	Notes      note.Sequence `json:"notes"`
}

// SaveInfo represents a saved composition file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// SaveComposition writes f into dir as <timestamp>[_name].json and returns
// the full path
func SaveComposition(dir string, f CompositionFile) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	f.Version = compositionVersion
	f.Beats = f.Notes.Len()

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", err
	}

	filename := time.Now().Format(timestampFormat)
	if name := cleanName(f.Name); name != "" {
		filename += "_" + name
	}
	path := filepath.Join(dir, filename+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// cleanName keeps a save name safe to put in a filename
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return r
	}, name)
}

// ListCompositions returns timestamped saves in dir, newest first
func ListCompositions(dir string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		// 2024-01-15_14-30-00.json or 2024-01-15_14-30-00_name.json
		baseName := strings.TrimSuffix(name, ".json")
		if len(baseName) < len(timestampFormat) {
			continue
		}
		ts, err := time.Parse(timestampFormat, baseName[:len(timestampFormat)])
		if err != nil {
			continue
		}

		saveName := ""
		if rest := baseName[len(timestampFormat):]; len(rest) > 1 && rest[0] == '_' {
			saveName = rest[1:]
		}

		saves = append(saves, SaveInfo{
			Filename:  name,
			Name:      saveName,
			Timestamp: ts,
		})
	}

	sort.Slice(saves, func(i, j int) bool {
		if saves[i].Timestamp.Equal(saves[j].Timestamp) {
			return saves[i].Filename > saves[j].Filename
		}
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})

	return saves, nil
}

// LatestComposition returns the path of the newest save in dir
func LatestComposition(dir string) (string, error) {
	saves, err := ListCompositions(dir)
	if err != nil {
		return "", err
	}
	if len(saves) == 0 {
		return "", ErrNoSaves
	}
	return filepath.Join(dir, saves[0].Filename), nil
}

// LoadComposition reads and validates a saved composition
func LoadComposition(path string) (*CompositionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f CompositionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if f.Version > compositionVersion {
		return nil, fmt.Errorf("%s: unsupported version %d", filepath.Base(path), f.Version)
	}
	n := f.Notes.Len()
	if n < config.MinBeats || n > config.MaxBeats {
		return nil, fmt.Errorf("%s: %d beats, want %d..%d", filepath.Base(path), n, config.MinBeats, config.MaxBeats)
	}
	if f.Beats != 0 && f.Beats != n {
		return nil, fmt.Errorf("%s: beats is %d but %d notes are listed", filepath.Base(path), f.Beats, n)
	}
	f.Beats = n
	return &f, nil
}

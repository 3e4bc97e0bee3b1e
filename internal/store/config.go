package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type GlobalConfig struct {
	CurrentWorkspace string `json:"currentWorkspace,omitempty"`

	// Workspaces is an optional registry of named workspace roots.
	// When set, these entries take precedence over ~/.larder/workspaces/<name>.
	Workspaces map[string]WorkspaceRef `json:"workspaces,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

type WorkspaceRef struct {
	// Path is the workspace root directory.
	Path string `json:"path"`

	// Kind is an optional hint for the UI ("local", ...).
	Kind string `json:"kind,omitempty"`
}

type WorkspaceEntry struct {
	Name string       `json:"name"`
	Ref  WorkspaceRef `json:"ref"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.larder).
	if v := strings.TrimSpace(os.Getenv("LARDER_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".larder"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Use a unique temp file name + atomic rename to avoid cross-process
	// clobbering when multiple larder processes write config concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func NormalizeWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("workspace name is empty")
	}
	return name, nil
}

// ListWorkspaceEntries unions workspaces under ~/.larder/workspaces/<name>
// with the registry in config.json. Registry entries win on name collisions.
func ListWorkspaceEntries() ([]WorkspaceEntry, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	wsRoot := filepath.Join(dir, "workspaces")
	outMap := map[string]WorkspaceEntry{}
	if ents, err := os.ReadDir(wsRoot); err == nil {
		for _, e := range ents {
			if !e.IsDir() {
				continue
			}
			name := strings.TrimSpace(e.Name())
			if name == "" {
				continue
			}
			outMap[name] = WorkspaceEntry{
				Name: name,
				Ref:  WorkspaceRef{Path: filepath.Join(wsRoot, name), Kind: "local"},
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	for name, ref := range cfg.Workspaces {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ref.Path = filepath.Clean(strings.TrimSpace(ref.Path))
		outMap[name] = WorkspaceEntry{Name: name, Ref: ref}
	}

	names := make([]string, 0, len(outMap))
	for name := range outMap {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]WorkspaceEntry, 0, len(names))
	for _, name := range names {
		out = append(out, outMap[name])
	}
	return out, nil
}

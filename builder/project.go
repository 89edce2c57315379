package builder

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ProjectFile is the name of the project file looked up by the command line.
const ProjectFile = "aap.toml"

// Project defines the format of aap.toml.
//
// Relative paths are resolved against the directory holding the file.
type Project struct {
	// Source files to compile.
	Sources []string `toml:"sources"`
	// Assembly output; a directory when more than one source is listed.
	Output string `toml:"output"`
	// CPU or chip name.
	Target string `toml:"target"`
	// Functions emitted with .global. Defaults to "*" (all).
	Exports []string `toml:"exports"`
	// Settings for `aapc check`.
	Check CheckConfig `toml:"check"`

	dir string
}

type CheckConfig struct {
	Variant int    `toml:"variant"`
	Delay   string `toml:"delay"`
	// "native" or the path of an .aap file providing the routines.
	Library string `toml:"library"`
	Console string `toml:"console"`
}

func ParseProject(raw []byte) (p Project, err error) {
	err = toml.Unmarshal(raw, &p)
	return
}

// LoadProject reads the project file at path. A missing file yields an empty
// project rooted at the file's directory.
func LoadProject(path string) (Project, error) {
	dir := filepath.Dir(path)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Project{dir: dir}, nil
	} else if err != nil {
		return Project{}, errors.Wrap(err, "could not read project file")
	}

	p, err := ParseProject(raw)
	if err != nil {
		return Project{}, errors.Wrapf(err, "could not parse %s", path)
	}
	p.dir = dir
	return p, nil
}

// Resolve interprets path relative to the project directory.
func (p Project) Resolve(path string) string {
	if len(path) == 0 || filepath.IsAbs(path) || len(p.dir) == 0 {
		return path
	}
	return filepath.Join(p.dir, path)
}

// Options returns the build options described by the project.
func (p Project) Options() Options {
	var opts Options
	for _, source := range p.Sources {
		opts.Sources = append(opts.Sources, p.Resolve(source))
	}
	opts.Output = p.Resolve(p.Output)
	opts.Target = p.Target
	opts.Exports = p.Exports
	return opts
}

// ParseDelay parses the check delay. An empty value returns def.
func (c CheckConfig) ParseDelay(def time.Duration) (time.Duration, error) {
	if len(c.Delay) == 0 {
		return def, nil
	}
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 0, errors.Wrap(err, "invalid check delay")
	}
	return d, nil
}

package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const DefaultTarget = "cortex-m0"

type Env map[string]string

func Environment() Env {
	// Get the user cache directory
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		// Attempt to use the tmp dir
		cacheDir = os.TempDir()
	}

	return map[string]string{
		"AAPTARGET": getenv("AAPTARGET", DefaultTarget),
		"AAPCACHE":  getenv("AAPCACHE", filepath.Join(cacheDir, "aap")),
		"AS":        getenv("AS", ""),
		"ASFLAGS":   getenv("ASFLAGS", ""),
	}
}

func (e Env) Print() {
	for _, line := range e.List() {
		fmt.Println(line)
	}
}

func (e Env) Value(key string) string {
	if v, ok := e[key]; ok {
		return v
	}
	return ""
}

// Fields splits the value of key on white space.
func (e Env) Fields(key string) []string {
	return strings.Fields(e.Value(key))
}

// List returns KEY=value pairs sorted by key.
func (e Env) List() []string {
	keys := maps.Keys(e)
	slices.Sort(keys)

	result := make([]string, 0, len(keys))
	for _, key := range keys {
		result = append(result, fmt.Sprintf("%s=%s", key, e[key]))
	}
	return result
}

func getenv(key, _default string) (value string) {
	value = os.Getenv(key)
	if len(value) == 0 {
		value = _default
	}
	return value
}

package targets

import (
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets
var ErrUnknownTarget = errors.New("unknown target")

func All() Targets {
	return targets
}

type Targets []TargetInfo
type TargetInfo struct {
	Cpu          string   `yaml:"cpu"`
	Architecture string   `yaml:"architecture"`
	Triple       string   `yaml:"triple"`
	Alignment    int      `yaml:"alignment"`
	Chips        []string `yaml:"chips"`
	Features     []string `yaml:"features"`
	Float        string   `yaml:"float"`
	AsFlags      []string `yaml:"asflags"`
}

func (t TargetInfo) FormatFeatureString() string {
	features := make([]string, len(t.Features))
	for i, feature := range t.Features {
		features[i] = "+" + feature
	}
	return strings.Join(features, ",")
}

func (t Targets) FindByCpu(name string) (TargetInfo, error) {
	for _, target := range t {
		if target.Cpu == strings.ToLower(name) {
			return target, nil
		}
	}
	return TargetInfo{}, errors.Wrapf(ErrUnknownTarget, "cpu %s", name)
}

func (t Targets) FindByChip(name string) (TargetInfo, error) {
	for _, target := range t {
		if slices.Contains(target.Chips, strings.ToLower(name)) {
			return target, nil
		}
	}
	return TargetInfo{}, errors.Wrapf(ErrUnknownTarget, "chip %s", name)
}

// Find looks name up as a CPU first, then as a chip.
func (t Targets) Find(name string) (TargetInfo, error) {
	if target, err := t.FindByCpu(name); err == nil {
		return target, nil
	}
	if target, err := t.FindByChip(name); err == nil {
		return target, nil
	}
	return TargetInfo{}, errors.Wrap(ErrUnknownTarget, name)
}

func parse(data []byte) (Targets, error) {
	var t struct {
		Elements []TargetInfo `yaml:"targets"`
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return t.Elements, nil
}

func init() {
	var err error
	if targets, err = parse(rawTargets); err != nil {
		panic(err)
	}
}

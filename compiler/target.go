package compiler

import (
	"omibyte.io/aap/targets"
)

type Target struct {
	architecture string
	cpu          string
	triple       string
	features     []string
}

func NewTarget(info targets.TargetInfo, additionalFeatures []string) (*Target, error) {
	var target Target

	target.architecture = info.Architecture
	target.cpu = info.Cpu
	target.triple = info.Triple
	target.features = append(append([]string(nil), info.Features...), additionalFeatures...)

	// architecture, cpu and triple are required values
	if len(target.architecture) == 0 {
		return nil, ErrTargetMissingArchitecture
	}

	if len(target.cpu) == 0 {
		return nil, ErrTargetMissingCpu
	}

	if len(target.triple) == 0 {
		return nil, ErrTargetMissingTriple
	}

	return &target, nil
}

func (t *Target) Architecture() string { return t.architecture }
func (t *Target) Cpu() string          { return t.cpu }
func (t *Target) Triple() string       { return t.triple }
func (t *Target) Features() []string   { return t.features }

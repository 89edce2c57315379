package builder

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"omibyte.io/aap/targets"
)

type Toolchain struct {
	AS      string
	ASFlags []string
}

func findToolchain(env Env) (Toolchain, error) {
	as := env.Value("AS")
	if len(as) == 0 {
		var err error
		if as, err = findExecutable("arm-none-eabi-as"); err != nil {
			// Fallback to the host assembler.
			as, err = findExecutable("as")
		}

		if err != nil {
			return Toolchain{}, errors.Wrap(ErrAssemblerNotFound, err.Error())
		}
	}

	return Toolchain{
		AS:      as,
		ASFlags: env.Fields("ASFLAGS"),
	}, nil
}

func findExecutable(cmd string) (string, error) {
	fname, err := exec.LookPath(cmd)
	if err == nil {
		fname, err = filepath.Abs(fname)
	}
	return fname, err
}

func (t Toolchain) flags(target targets.TargetInfo) []string {
	var flags []string
	flags = append(flags, target.AsFlags...)
	return append(flags, t.ASFlags...)
}

// args returns the assembler command line for one translation unit.
func (t Toolchain) args(target targets.TargetInfo, input, output string) []string {
	return append(t.flags(target), "-o", output, input)
}

// objectName names the cached object for the assembly text asm read from
// input. Any change to the text, the cpu or the assembler command line
// selects a different object.
func (t Toolchain) objectName(target targets.TargetInfo, input string, asm []byte) string {
	h := fnv.New64a()
	for _, field := range append([]string{t.AS, target.Cpu, input}, t.flags(target)...) {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	h.Write(asm)
	return fmt.Sprintf("%016x.o", h.Sum64())
}

// Assemble runs the assembler on input, writing the object to output.
func (t Toolchain) Assemble(ctx context.Context, target targets.TargetInfo, input, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.AS, t.args(target, input, output)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return errors.Wrapf(ErrAssemblerFailed, "%s: %s", input, bytes.TrimSpace(stderr.Bytes()))
		}
		return errors.Wrapf(ErrAssemblerFailed, "%s: %v", input, err)
	}
	return nil
}

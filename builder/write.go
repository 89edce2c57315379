package builder

import (
	"bytes"
	"os"
)

// fileHasContents returns true if the file at path holds exactly data. It
// returns false if any errors are encountered along the way.
func fileHasContents(path string, data []byte) bool {
	current, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return bytes.Equal(current, data)
}

// WriteFileIfChanged writes data to name unless the file already holds it,
// reporting whether a write happened. Like [os.WriteFile] it creates name with
// perm, but does not change perm on an existing file.
func WriteFileIfChanged(name string, data []byte, perm os.FileMode) (bool, error) {
	if fileHasContents(name, data) {
		return false, nil
	}
	if err := os.WriteFile(name, data, perm); err != nil {
		return false, err
	}
	return true, nil
}

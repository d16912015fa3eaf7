package marktree

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Wire is the serialized form a codec produces: text or bytes.
type Wire interface {
	~string | ~[]byte
}

// Codec converts between a Node tree and one external representation.
// Implementations live under codec/; callers should depend on this interface
// rather than on a concrete format.
type Codec[W Wire] interface {
	// Dump serializes n. The tree is not modified.
	Dump(n *Node) (W, error)
	// Read parses wire into a new tree.
	Read(wire W) (*Node, error)
}

// TextCodec is a Codec over UTF-8 text (JSON, YAML).
type TextCodec = Codec[string]

// BinaryCodec is a Codec over raw bytes (BSON).
type BinaryCodec = Codec[[]byte]

// SaveToFile dumps n with c and writes the result to path. The file is written
// to a temporary sibling and renamed into place, so a failed Dump or write
// never leaves path truncated or partially overwritten.
func SaveToFile[W Wire](c Codec[W], n *Node, path string) error {
	wire, err := c.Dump(n)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError("open for write", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write([]byte(wire)); err != nil {
		_ = tmp.Close()
		cleanup()
		return ioError("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return ioError("close", path, err)
	}
	mode := fs.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return ioError("chmod", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return ioError("rename", path, err)
	}
	return nil
}

// LoadFromFile reads path and parses it with c. An empty file yields a Null
// node without consulting the codec.
func LoadFromFile[W Wire](c Codec[W], path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read", path, err)
	}
	if len(data) == 0 {
		return New(), nil
	}
	return c.Read(W(data))
}

func ioError(op, path string, err error) *Error {
	return &Error{Code: CodeIOError, Message: op + " " + path, Cause: err}
}

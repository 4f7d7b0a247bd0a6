package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/f9-o/dtogen/pkg/errs"
)

// MaxInputSize is the largest sample document Load accepts (5 MiB).
const MaxInputSize int64 = 5 * 1024 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is a loaded and validated sample.
type Document struct {
	Path      string
	Root      Value
	SizeBytes int64
	HadBOM    bool
}

// Load reads the JSON file at path, strips a UTF-8 BOM and checks that the
// root is an object or an array. The size limit is enforced before parsing.
func Load(path string) (*Document, error) {
	const op = "schema.load"

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, errs.Newf(errs.ErrInputNotFound, op, "--input path does not exist or is not a file").
			WithResource(path)
	}
	if info.Size() > MaxInputSize {
		return nil, errs.Newf(errs.ErrInputTooLarge, op,
			"file is too large: %d bytes (limit %d bytes)", info.Size(), MaxInputSize).
			WithResource(path).
			WithAdvice("Use a smaller representative sample of the payload.")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.ErrInputRead, op, err).WithResource(path)
	}

	hadBOM := HasBOM(data)
	root, err := Parse(StripBOM(data), path)
	if err != nil {
		return nil, err
	}

	switch root.(type) {
	case *Object, []Value:
	default:
		return nil, errs.Newf(errs.ErrInputRoot, op, "root must be an object or an array, got %s", describe(root)).
			WithResource(path)
	}

	return &Document{
		Path:      path,
		Root:      root,
		SizeBytes: info.Size(),
		HadBOM:    hadBOM,
	}, nil
}

// HasBOM reports whether data starts with the UTF-8 byte order mark.
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, utf8BOM)
}

// StripBOM returns data without a leading UTF-8 byte order mark.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

func syntaxError(source string, cause error) error {
	return errs.Newf(errs.ErrInputSyntax, "schema.parse", "input is not valid JSON: %v", cause).
		WithResource(source)
}

func describe(v Value) string {
	switch v.(type) {
	case *Object:
		return "object"
	case []Value:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}

package fileconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hjson/hjson-go/v4"
	"github.com/magiconair/properties"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file format.
type Format int

// Supported configuration file formats.
const (
	JSON Format = iota + 1
	JSON5
	HJSON
	TOML
	YAML
	Properties
)

var formatNames = map[Format]string{
	JSON:       "JSON",
	JSON5:      "JSON5",
	HJSON:      "HJSON",
	TOML:       "TOML",
	YAML:       "YAML",
	Properties: "properties",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// knownExts maps file extensions to formats. The order of extensions in
// defaultExts defines which file wins, if files with the same base name exist
// in several formats.
var (
	knownExts = map[string]Format{
		".json":       JSON,
		".json5":      JSON5,
		".hjson":      HJSON,
		".toml":       TOML,
		".yaml":       YAML,
		".yml":        YAML,
		".properties": Properties,
	}

	defaultExts = []string{".json", ".json5", ".hjson", ".toml", ".yaml", ".yml",
		".properties"}

	numberRe  = regexp.MustCompile(`^-?[0-9]+(?:\.[0-9]+)?$`)
	sectionRe = regexp.MustCompile(`^\[([^\]]*)\]$`)
)

// Formats is an ordered set of supported file extensions.
type Formats struct {
	exts []string
}

// NewFormats method creates set of supported file extensions. Extensions are
// tried in the given order. If no extensions given, all known extensions are
// used in default order.
func NewFormats(exts ...string) (*Formats, error) {
	if len(exts) == 0 {
		exts = defaultExts
	}

	seen := make(map[string]struct{}, len(exts))
	f := &Formats{
		exts: make([]string, 0, len(exts)),
	}

	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		if _, ok := knownExts[ext]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
		}

		if _, ok := seen[ext]; ok {
			continue
		}

		seen[ext] = struct{}{}
		f.exts = append(f.exts, ext)
	}

	return f, nil
}

// DefaultFormats method returns set of all known file extensions in default
// order.
func DefaultFormats() *Formats {
	f, _ := NewFormats()
	return f
}

// Exts method returns supported file extensions in priority order.
func (f *Formats) Exts() []string {
	return append([]string(nil), f.exts...)
}

// Lookup method returns format for the file extension.
func (f *Formats) Lookup(ext string) (Format, bool) {
	for _, e := range f.exts {
		if e == ext {
			return knownExts[ext], true
		}
	}

	return 0, false
}

// DecodeFile method reads and decodes configuration file. Format is chosen by
// file extension.
func (f *Formats) DecodeFile(path string) (map[string]any, error) {
	ext := filepath.Ext(path)
	format, ok := f.Lookup(ext)

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPref, err)
	}

	tree, err := Decode(format, data)

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	return tree, nil
}

// Decode method decodes configuration data of the given format into
// configuration tree. Empty documents are decoded into empty tree.
func Decode(format Format, data []byte) (map[string]any, error) {
	var (
		iData any
		err   error
	)

	switch format {
	case JSON:
		iData, err = unmarshalJSON(data)
	case JSON5:
		iData, err = unmarshalJSON5(data)
	case HJSON:
		iData, err = unmarshalHJSON(data)
	case TOML:
		iData, err = unmarshalTOML(data)
	case YAML:
		iData, err = unmarshalYAML(data)
	case Properties:
		iData, err = unmarshalProperties(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, err
	}

	if iData == nil {
		return make(map[string]any), nil
	}

	tree, ok := normalize(iData).(map[string]any)

	if !ok {
		return nil, fmt.Errorf("top level value must be a mapping, but got: %T",
			iData)
	}

	return tree, nil
}

func unmarshalJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var iData any
	err := json.Unmarshal(data, &iData)

	if err != nil {
		return nil, err
	}

	return iData, nil
}

func unmarshalJSON5(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var iData any
	err := json5.Unmarshal(data, &iData)

	if err != nil {
		return nil, err
	}

	return iData, nil
}

func unmarshalHJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var iData any
	err := hjson.Unmarshal(data, &iData)

	if err != nil {
		return nil, err
	}

	return iData, nil
}

func unmarshalTOML(data []byte) (any, error) {
	iData := make(map[string]any)
	err := toml.Unmarshal(data, &iData)

	if err != nil {
		return nil, err
	}

	return iData, nil
}

func unmarshalYAML(data []byte) (any, error) {
	var iData any
	err := yaml.Unmarshal(data, &iData)

	if err != nil {
		return nil, err
	}

	return iData, nil
}

// unmarshalProperties builds nested tree from dotted keys. Keys after a
// [section] header are placed under the section. Comma separated values are
// split into lists with numeric items converted to numbers.
func unmarshalProperties(data []byte) (any, error) {
	props, err := properties.Load(expandSections(data), properties.UTF8)

	if err != nil {
		return nil, err
	}

	tree := make(map[string]any)

	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		path := splitKey(key)

		if len(path) == 0 {
			continue
		}

		node := tree

		for _, token := range path[:len(path)-1] {
			child, ok := node[token].(map[string]any)

			if !ok {
				child = make(map[string]any)
				node[token] = child
			}

			node = child
		}

		node[path[len(path)-1]] = propertyValue(value)
	}

	return tree, nil
}

// expandSections prefixes keys with the name of the preceding [section]
// header and removes headers. An empty header "[]" returns to the top level.
func expandSections(data []byte) []byte {
	var (
		buf       bytes.Buffer
		section   string
		continued bool
	)

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case continued:
			continued = escapedEOL(line)
		case trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!':
		case sectionRe.MatchString(trimmed):
			section = strings.TrimSpace(sectionRe.FindStringSubmatch(trimmed)[1])
			line = ""
		default:
			if section != "" {
				line = section + "." + strings.TrimLeft(line, " \t\f")
			}

			continued = escapedEOL(line)
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// escapedEOL reports whether the line ends with an odd number of backslashes,
// that continues the value on the next line.
func escapedEOL(line string) bool {
	n := len(line) - len(strings.TrimRight(line, "\\"))
	return n%2 == 1
}

func splitKey(key string) []string {
	var path []string

	for _, token := range strings.Split(key, ".") {
		token = strings.TrimSpace(token)

		if token != "" {
			path = append(path, token)
		}
	}

	return path
}

func propertyValue(value string) any {
	items := strings.Split(value, ",")

	if len(items) == 1 {
		return value
	}

	list := make([]any, len(items))

	for i, item := range items {
		list[i] = toNumber(item)
	}

	return list
}

func toNumber(value string) any {
	if numberRe.MatchString(value) {
		if number, err := strconv.ParseFloat(value, 64); err == nil {
			return number
		}
	}

	return value
}

// normalize converts maps with non-string keys and typed collections, that
// decoders can produce, into map[string]any and []any.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			v[key] = normalize(child)
		}

		return v
	case map[any]any:
		m := make(map[string]any, len(v))

		for key, child := range v {
			m[fmt.Sprintf("%v", key)] = normalize(child)
		}

		return m
	case []map[string]any:
		s := make([]any, len(v))

		for i, child := range v {
			s[i] = normalize(child)
		}

		return s
	case []any:
		for i, child := range v {
			v[i] = normalize(child)
		}

		return v
	}

	return value
}

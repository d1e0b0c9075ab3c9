package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deepaclive/internal/services"
)

// Builtin model variants.
const (
	VariantRapid     = "rapid"
	VariantSensitive = "sensitive"
)

// SourceKind tags a ModelSource.
type SourceKind int

const (
	SourceBuiltin SourceKind = iota + 1
	SourceCustom
)

// ModelSource is either Builtin(variant) or Custom(path).
type ModelSource struct {
	kind    SourceKind
	variant string
	path    string
}

// Builtin selects a model shipped with the installed model package.
func Builtin(variant string) ModelSource {
	return ModelSource{kind: SourceBuiltin, variant: variant}
}

// Custom selects a user-supplied model file.
func Custom(path string) ModelSource {
	return ModelSource{kind: SourceCustom, path: path}
}

func (s ModelSource) Kind() SourceKind { return s.kind }
func (s ModelSource) Variant() string  { return s.variant }
func (s ModelSource) Path() string     { return s.path }

func (s ModelSource) String() string {
	switch s.kind {
	case SourceBuiltin:
		return "builtin:" + s.variant
	case SourceCustom:
		return "custom:" + s.path
	default:
		return "unset"
	}
}

// Model is a resolved model handle passed to the Runtime. Builtin models carry
// a config and weights pair; custom models carry a single file.
type Model struct {
	Name    string
	Config  string
	Weights string
	File    string
}

// Custom reports whether the model is a user-supplied file.
func (m Model) Custom() bool {
	return m.File != ""
}

// BuiltinPair holds the config and weights files of one builtin variant.
type BuiltinPair struct {
	Config  string
	Weights string
}

// ResolveBuiltin scans <packageDir>/builtin/config for *<variant>*ini and
// <packageDir>/builtin/weights for *<variant>*h5. Both variants must match
// exactly once each.
func ResolveBuiltin(packageDir string) (map[string]BuiltinPair, error) {
	configDir := filepath.Join(packageDir, "builtin", "config")
	weightsDir := filepath.Join(packageDir, "builtin", "weights")
	pairs := make(map[string]BuiltinPair, 2)
	for _, variant := range []string{VariantRapid, VariantSensitive} {
		cfgFile, err := matchOne(configDir, "*"+variant+"*ini", variant)
		if err != nil {
			return nil, err
		}
		weights, err := matchOne(weightsDir, "*"+variant+"*h5", variant)
		if err != nil {
			return nil, err
		}
		pairs[variant] = BuiltinPair{Config: cfgFile, Weights: weights}
	}
	return pairs, nil
}

func matchOne(dir, pattern, variant string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "classify", "resolve model", fmt.Sprintf("read model directory %s", dir), err)
	}
	var found []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, entry.Name()); ok {
			found = append(found, filepath.Join(dir, entry.Name()))
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return "", services.Wrap(services.ErrConfiguration, "classify", "resolve model",
			fmt.Sprintf("%s model missing: no %s in %s", variant, pattern, dir), nil)
	default:
		return "", services.Wrap(services.ErrConfiguration, "classify", "resolve model",
			fmt.Sprintf("multiple %s models in %s: %s", variant, dir, strings.Join(found, ", ")), nil)
	}
}

// Resolve turns a ModelSource into a Model handle.
func Resolve(source ModelSource, packageDir string) (Model, error) {
	switch source.kind {
	case SourceBuiltin:
		pairs, err := ResolveBuiltin(packageDir)
		if err != nil {
			return Model{}, err
		}
		pair, ok := pairs[source.variant]
		if !ok {
			return Model{}, services.Wrap(services.ErrConfiguration, "classify", "resolve model",
				fmt.Sprintf("unrecognized model type %q", source.variant), nil)
		}
		return Model{Name: source.String(), Config: pair.Config, Weights: pair.Weights}, nil
	case SourceCustom:
		info, err := os.Stat(source.path)
		if err != nil {
			return Model{}, services.Wrap(services.ErrConfiguration, "classify", "resolve model", "custom model not found", err)
		}
		if info.IsDir() {
			return Model{}, services.Wrap(services.ErrConfiguration, "classify", "resolve model",
				fmt.Sprintf("custom model %s is a directory", source.path), nil)
		}
		return Model{Name: source.String(), File: source.path}, nil
	default:
		return Model{}, services.Wrap(services.ErrConfiguration, "classify", "resolve model", "no model source selected", nil)
	}
}

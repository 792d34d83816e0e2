package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultValueTypes is the stablecoin symbols queried for every transfer type
// when no catalog file is configured.
var DefaultValueTypes = []string{
	"SBC", "USDGLO", "4MGCC", "BCOA", "BeamUSD", "COMET", "DZUSD",
	"EasyUSD", "GBUSDC", "HSUSD", "KCD", "LIMUSD", "MFUSD", "MOVEUSD",
	"MXkle", "OUSD", "PiUSD", "SAGEUSD", "USC", "USD+", "USDBI",
	"USDBanxa", "USDdollr", "USDF", "USDS", "USDSlash", "USDOKA",
	"USDTN", "USDY", "XODUS", "XPED", "YOGUSD", "etUSD", "decent",
	"hodl", "PUSD", "RainUSD", "USDCi", "USDP",
}

type ValueTypesConfig struct {
	ValueTypes []string `yaml:"value_types"`
}

// Default returns a copy of the built-in catalog.
func Default() []string {
	out := make([]string, len(DefaultValueTypes))
	copy(out, DefaultValueTypes)
	return out
}

// Load reads the catalog from a YAML file. An empty path yields the built-in catalog.
func Load(valueTypesFile string) ([]string, error) {
	if valueTypesFile == "" {
		return Default(), nil
	}

	var catalogPath string
	if filepath.IsAbs(valueTypesFile) {
		catalogPath = valueTypesFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		catalogPath = filepath.Join(wd, valueTypesFile)
	}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", valueTypesFile, err)
	}

	var config ValueTypesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", valueTypesFile, err)
	}

	return normalize(config.ValueTypes, valueTypesFile)
}

func normalize(symbols []string, source string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%s contains no value types", source)
	}

	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for i, symbol := range symbols {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			return nil, fmt.Errorf("value type at index %d is empty", i)
		}
		if _, dup := seen[symbol]; dup {
			return nil, fmt.Errorf("value type %q listed more than once", symbol)
		}
		seen[symbol] = struct{}{}
		out = append(out, symbol)
	}
	return out, nil
}

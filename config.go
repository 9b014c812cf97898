package booksim

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration is the keyed parameter store described in spec.md's
// external-interfaces section. It plays the same role the teacher's
// desc-topo.go YAML-keyed description types play for device
// descriptions, but here the keys are flat simulation parameters
// ("num_vcs", "buffer_policy", "k", ...) rather than a topology
// description language, because the DragonFlyRelative topology is
// built algorithmically from a handful of scalars rather than
// described device-by-device.
type Configuration struct {
	values map[string]any
}

// NewConfiguration builds an empty, defaulted Configuration.
func NewConfiguration() *Configuration {
	return &Configuration{values: make(map[string]any)}
}

// ConfigurationFromMap wraps an already-decoded set of key/value pairs.
func ConfigurationFromMap(m map[string]any) *Configuration {
	if m == nil {
		m = make(map[string]any)
	}
	return &Configuration{values: m}
}

// LoadConfigurationFile reads a YAML-encoded map of configuration keys,
// the same file-to-struct pattern the teacher uses throughout
// desc-topo.go and trace.go (ReadDevExecList, WriteToFile), scoped
// here to a flat map instead of a fixed struct because the set of
// recognized keys is open-ended (policies may add their own).
func LoadConfigurationFile(filename string) (*Configuration, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any)
	if err := yaml.Unmarshal(bytes, &m); err != nil {
		return nil, err
	}
	return ConfigurationFromMap(m), nil
}

// Set assigns a configuration value directly, used by tests and by
// programmatic construction of experiments.
func (c *Configuration) Set(key string, value any) {
	c.values[key] = value
}

// GetInt returns the integer value for key, or def if the key is
// absent. Unlike BookSim's Configuration::GetInt (which treats a
// missing key as zero), callers here always supply the contract's
// documented default explicitly, which keeps every default spelled
// out once per the table in spec.md §6.
func (c *Configuration) GetInt(key string, def int) int {
	v, present := c.values[key]
	if !present {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case bool:
		if n {
			return 1
		}
		return 0
	}
	return def
}

// GetBool interprets the key as a boolean; nonzero ints are true.
func (c *Configuration) GetBool(key string, def bool) bool {
	v, present := c.values[key]
	if !present {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	case float64:
		return b != 0
	}
	return def
}

// GetFloat returns the floating point value for key, or def if absent.
func (c *Configuration) GetFloat(key string, def float64) float64 {
	v, present := c.values[key]
	if !present {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return def
}

// GetStr returns the string value for key, or def if absent.
func (c *Configuration) GetStr(key string, def string) string {
	v, present := c.values[key]
	if !present {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// GetIntArray returns an []int for key, or nil if absent or empty.
// Accepts either a YAML sequence of ints or a single scalar int,
// mirroring config.GetIntArray's leniency in the original source
// (private_buf_size, private_buf_start_vc, private_buf_end_vc may
// each be given as a scalar or a list).
func (c *Configuration) GetIntArray(key string) []int {
	v, present := c.values[key]
	if !present {
		return nil
	}
	switch arr := v.(type) {
	case []int:
		return arr
	case []any:
		out := make([]int, 0, len(arr))
		for _, e := range arr {
			switch n := e.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			}
		}
		return out
	case int:
		return []int{arr}
	case float64:
		return []int{int(arr)}
	}
	return nil
}

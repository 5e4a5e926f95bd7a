package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/spf13/pflag"
)

// groupFlag collects repeated --group CODE:key=value,... overrides into
// per-code group configs. Keys are estimate, min, max and lock; a bare
// "lock" means lock=true.
type groupFlag struct {
	configs map[string]domain.GroupConfig
}

var _ pflag.Value = (*groupFlag)(nil)

func newGroupFlag() *groupFlag {
	return &groupFlag{configs: map[string]domain.GroupConfig{}}
}

func (f *groupFlag) Type() string { return "group" }

func (f *groupFlag) String() string {
	if f == nil || len(f.configs) == 0 {
		return ""
	}
	codes := make([]string, 0, len(f.configs))
	for code := range f.configs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		c := f.configs[code]
		var kv []string
		if c.Estimate != nil {
			kv = append(kv, "estimate="+strconv.FormatFloat(*c.Estimate, 'g', -1, 64))
		}
		if c.Min != nil {
			kv = append(kv, "min="+strconv.FormatFloat(*c.Min, 'g', -1, 64))
		}
		if c.Max != nil {
			kv = append(kv, "max="+strconv.FormatFloat(*c.Max, 'g', -1, 64))
		}
		if c.Lock {
			kv = append(kv, "lock")
		}
		parts = append(parts, code+":"+strings.Join(kv, ","))
	}
	return strings.Join(parts, " ")
}

func (f *groupFlag) Set(value string) error {
	code, fields, ok := strings.Cut(value, ":")
	code = strings.TrimSpace(code)
	if !ok || code == "" {
		return fmt.Errorf("expected CODE:key=value[,key=value] (got %q)", value)
	}

	c := f.configs[code]
	c.Code = code
	for _, field := range strings.Split(fields, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		key, raw, hasValue := strings.Cut(field, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		raw = strings.TrimSpace(raw)

		if key == "lock" {
			if !hasValue {
				c.Lock = true
				continue
			}
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%s: lock must be true or false (got %q)", code, raw)
			}
			c.Lock = b
			continue
		}

		if !hasValue {
			return fmt.Errorf("%s: %q needs a value", code, key)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %s must be a number (got %q)", code, key, raw)
		}
		switch key {
		case "estimate", "est":
			c.Estimate = &v
		case "min":
			c.Min = &v
		case "max":
			c.Max = &v
		default:
			return fmt.Errorf("%s: unknown key %q (expected estimate, min, max or lock)", code, key)
		}
	}

	f.configs[code] = c
	return nil
}

package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtraHeaders is a comma separated key=value list, usable as a flag value
// and as a YAML mapping.
type ExtraHeaders map[string]string

func (e ExtraHeaders) String() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// Set parses "A=1,B=two". Values may contain '='; entries without one are rejected.
func (e ExtraHeaders) Set(s string) error {
	for _, header := range strings.Split(s, ",") {
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}
		key, value, ok := strings.Cut(header, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid header %q: want key=value", header)
		}
		e[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return nil
}

func (e ExtraHeaders) Type() string {
	return "ExtraHeaders"
}

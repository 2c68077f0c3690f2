// Package profile loads the startup bind profile: per port d-pad mode and
// binds given by catalog label.
package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/padbind/joypad"
)

// Pad holds the settings of one port.
type Pad struct {
	Port int    `json:"port" yaml:"port" toml:"port"`
	Dpad string `json:"dpad,omitempty" yaml:"dpad,omitempty" toml:"dpad,omitempty"`
	// Binds maps input names (see joypad.Input.String) to catalog labels.
	Binds map[string]string `json:"binds,omitempty" yaml:"binds,omitempty" toml:"binds,omitempty"`
}

type Profile struct {
	Pads []Pad `json:"pads" yaml:"pads" toml:"pads"`
}

// Load reads path, picking the decoder from its extension.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes data as json, yaml or toml.
func Parse(data []byte, format string) (*Profile, error) {
	var p Profile
	var err error
	switch strings.ToLower(format) {
	case "json", "":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&p)
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&p)
	case "toml":
		err = toml.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("unsupported profile format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return &p, nil
}

type resolved struct {
	port  int
	mode  *joypad.DpadMode
	binds []struct {
		id  joypad.Input
		key joypad.Key
	}
}

// resolve validates every entry against c before anything is applied.
func (p *Profile) resolve(c *joypad.Catalog) ([]resolved, error) {
	out := make([]resolved, 0, len(p.Pads))
	seen := joypad.PortSet(0)
	for _, pad := range p.Pads {
		if pad.Port < 0 || pad.Port >= joypad.MaxPads {
			return nil, fmt.Errorf("port %d out of range", pad.Port)
		}
		if seen.Has(pad.Port) {
			return nil, fmt.Errorf("port %d listed twice", pad.Port)
		}
		seen = seen.With(pad.Port)

		r := resolved{port: pad.Port}
		if pad.Dpad != "" {
			m, err := joypad.ParseDpadMode(pad.Dpad)
			if err != nil {
				return nil, fmt.Errorf("port %d: %w", pad.Port, err)
			}
			r.mode = &m
		}
		for name, label := range pad.Binds {
			id, err := joypad.ParseInput(name)
			if err != nil {
				return nil, fmt.Errorf("port %d: %w", pad.Port, err)
			}
			k, ok := c.KeyFor(label)
			if !ok {
				return nil, fmt.Errorf("port %d: %s: no catalog entry labelled %q", pad.Port, name, label)
			}
			r.binds = append(r.binds, struct {
				id  joypad.Input
				key joypad.Key
			}{id, k})
		}
		out = append(out, r)
	}
	return out, nil
}

// Apply sets the d-pad mode and then the binds of every listed port. Nothing
// is changed if any entry is invalid. Defaults stay at the catalog.
func (p *Profile) Apply(b *joypad.Bindings) error {
	rs, err := p.resolve(b.Catalog())
	if err != nil {
		return err
	}
	for _, r := range rs {
		if r.mode != nil {
			b.SetDpadMode(r.port, *r.mode)
		}
		for _, bd := range r.binds {
			b.Set(r.port, bd.id, bd.key)
		}
	}
	return nil
}

package providers

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/simpledi/framework/config"
	"github.com/km-arc/simpledi/framework/container"
)

// ConstantsServiceProvider registers every top-level key of a YAML mapping
// as a constant, named Prefix+key.
//
// File and Prefix default to config.DI.ConstantsFile and
// config.DI.ConstantsPrefix; with no file at all the provider does nothing.
// Loading happens in Boot, once "config" can be resolved.
//
//	# constants.yaml
//	engineConfig:
//	  hp: 120
//	  maxSpeed: 200
//	BAR: 111
type ConstantsServiceProvider struct {
	container.BaseProvider
	File   string
	Prefix string
}

func (p *ConstantsServiceProvider) Register(_ *container.Container) error { return nil }

func (p *ConstantsServiceProvider) Boot(c *container.Container) error {
	file, prefix := p.File, p.Prefix
	if file == "" {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return err
		}
		file = cfg.DI.ConstantsFile
		if prefix == "" {
			prefix = cfg.DI.ConstantsPrefix
		}
	}
	if file == "" {
		return nil
	}

	values, err := LoadConstantsFile(file)
	if err != nil {
		return err
	}
	return errors.Wrapf(c.RegisterConstants(values, prefix), "registering constants from %s", file)
}

// LoadConstantsFile reads a YAML mapping from path.
func LoadConstantsFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening constants file")
	}
	defer f.Close()

	values, err := LoadConstants(f)
	return values, errors.Wrapf(err, "loading constants from %s", path)
}

// LoadConstants decodes a YAML mapping. An empty document yields an empty map.
func LoadConstants(r io.Reader) (map[string]any, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decoding constants")
	}
	return values, nil
}

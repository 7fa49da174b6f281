package filter

import (
	"bytes"
	"io"
	"os"

	perr "dumpx/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a YAML filter profile from disk
func LoadProfile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, perr.WithField(perr.NotFoundf("profile %s not found", path), "profile")
		}
		return Config{}, perr.Wrapf(err, perr.ErrorCodeConfig, "open profile %s", path)
	}
	defer f.Close()
	return DecodeProfile(f)
}

// DecodeProfile decodes one YAML document; unknown keys are rejected so typos surface early
// An empty document yields the zero Config
func DecodeProfile(r io.Reader) (Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Config{}, perr.Wrap(err, perr.ErrorCodeConfig, "read profile")
	}
	var c Config
	if len(bytes.TrimSpace(b)) == 0 {
		return c, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, perr.Wrap(err, perr.ErrorCodeConfig, "decode profile")
	}
	return c, nil
}

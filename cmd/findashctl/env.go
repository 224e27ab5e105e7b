package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"findash/internal/backend"
	"findash/internal/cli"
	"findash/internal/config"
	"findash/internal/log"
)

// variant selects which record a command works on.
type variant string

const (
	variantFinance   variant = "finance"
	variantDashboard variant = "dashboard"
)

func (v *variant) String() string { return string(*v) }

func (v *variant) Set(s string) error {
	switch variant(s) {
	case variantFinance, variantDashboard:
		*v = variant(s)
		return nil
	default:
		return fmt.Errorf("unknown variant %q: must be finance or dashboard", s)
	}
}

// env is the storage a command runs against.
type env struct {
	stores  *cli.Stores
	backend *backend.BackendResult
	logger  *log.Logger
}

// openEnv builds the stores from the environment. Logs go to stderr so
// command output stays machine-readable.
func openEnv(ctx context.Context) (*env, error) {
	cli.LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel("warn"),
		Component: log.ComponentCLI,
		Output:    os.Stderr,
	})

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	// The cache only pays off in a long-running process.
	bc.CacheSize = 0
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, err
	}

	stores, err := cli.BuildStores(res.Medium, cfg, logger, nil)
	if err != nil {
		res.Close()
		return nil, err
	}
	return &env{stores: stores, backend: res, logger: logger}, nil
}

func (e *env) Close() error {
	return e.backend.Close()
}

// readInput reads name, or stdin when name is "-".
func readInput(name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("-f is required")
	}
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// decodeStrict decodes a single JSON value, rejecting unknown keys.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("input must contain a single JSON value")
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

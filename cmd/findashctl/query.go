package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// query evaluates a JSONPath expression against the JSON form of record.
// An empty path returns the record unchanged.
func query(ctx context.Context, record any, path string) (any, error) {
	if path == "" {
		return record, nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	eval, err := jsonpath.New(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	v, err := eval(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate path %q: %w", path, err)
	}
	return v, nil
}

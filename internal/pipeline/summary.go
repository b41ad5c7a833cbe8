// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// RunLogFile is the YAML sidecar recording every run against an output
// directory, newest last.
const RunLogFile = "runs.yaml"

type runLog struct {
	Runs []Stats `yaml:"runs"`
}

// AppendRunLog records stats for one completed run in dir's run log,
// creating the file on first use.
func AppendRunLog(dir string, stats Stats) error {
	path := filepath.Join(dir, RunLogFile)

	var log runLog
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &log); err != nil {
			return fmt.Errorf("parsing run log %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("reading run log %s: %w", path, err)
	}

	log.Runs = append(log.Runs, stats)
	out, err := yaml.Marshal(&log)
	if err != nil {
		return fmt.Errorf("encoding run log: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing run log %s: %w", path, err)
	}
	return nil
}

// ReadRunLog loads the run log from dir. A missing file yields an empty slice.
func ReadRunLog(dir string) ([]Stats, error) {
	data, err := os.ReadFile(filepath.Join(dir, RunLogFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading run log: %w", err)
	}
	var log runLog
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parsing run log: %w", err)
	}
	return log.Runs, nil
}

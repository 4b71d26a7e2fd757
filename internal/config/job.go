package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job is a single schedule definition parsed from a YAML file. It is an
// alternative to writing "<minute> <hour> <command>" lines on stdin.
type Job struct {
	Name     string `yaml:"name" json:"name"`
	Schedule string `yaml:"schedule" json:"schedule"`
	Command  string `yaml:"command" json:"command"`
	Enabled  *bool  `yaml:"enabled" json:"enabled,omitempty"`
	FilePath string `yaml:"-" json:"-"`
}

// IsEnabled returns whether the job is enabled. Defaults to true if not set.
func (j *Job) IsEnabled() bool {
	if j.Enabled == nil {
		return true
	}
	return *j.Enabled
}

// Line renders the job as a configuration line.
func (j *Job) Line() string {
	return strings.TrimSpace(j.Schedule) + " " + strings.TrimSpace(j.Command)
}

// Validate checks the fields a configuration line needs.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Schedule) == "" {
		return fmt.Errorf("job %q: schedule is required", j.Name)
	}
	cmd := strings.TrimSpace(j.Command)
	if cmd == "" {
		return fmt.Errorf("job %q: command is required", j.Name)
	}
	if strings.ContainsAny(cmd, " \t") {
		return fmt.Errorf("job %q: invalid command %q: must not contain whitespace", j.Name, cmd)
	}
	return nil
}

// ParseJobYAML parses a single job YAML payload.
func ParseJobYAML(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// LoadJobs reads all *.yaml and *.yml files from dir, sorted by file name,
// and parses each into a Job. A job without a name takes its file name.
func LoadJobs(dir string) ([]*Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var jobs []*Job
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		job, err := ParseJobYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if job.Name == "" {
			job.Name = strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		}
		if err := job.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		job.FilePath = path
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// EnabledLines returns the configuration lines of the enabled jobs.
func EnabledLines(jobs []*Job) []string {
	lines := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if j.IsEnabled() {
			lines = append(lines, j.Line())
		}
	}
	return lines
}

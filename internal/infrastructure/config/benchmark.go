package config

// BenchmarkConfig tunes batch runs
type BenchmarkConfig struct {
	// Games is how many games one benchmark run plays.
	Games int `mapstructure:"games" validate:"omitempty,min=1"`

	// Concurrency caps simultaneous interpreter processes.
	Concurrency int `mapstructure:"concurrency" validate:"omitempty,min=1"`

	// CoverageFile is where the merged statement coverage union is
	// written. Empty disables coverage collection.
	CoverageFile string `mapstructure:"coverage_file"`

	// WorkDir holds per-game scratch files during a run.
	WorkDir string `mapstructure:"work_dir"`

	// Persist stores the run report in the database.
	Persist bool `mapstructure:"persist"`
}

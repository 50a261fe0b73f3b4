package config

// InterpreterConfig selects and locates the BASIC interpreter that runs
// the game program.
type InterpreterConfig struct {
	// Family picks the interpreter implementation.
	Family string `mapstructure:"family" validate:"required,oneof=basic-rs trek-basic trek-basic-j"`

	// Path is the interpreter binary, script or jar. Empty means the
	// family default resolved from PATH.
	Path string `mapstructure:"path"`

	// Program is the game program source file.
	Program string `mapstructure:"program" validate:"required"`
}

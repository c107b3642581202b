package domain

// FixtureInfo describes a registered fixture.
type FixtureInfo struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
	// Program is the name of the standalone executable under cmd/.
	Program string `json:"program" yaml:"program" mapstructure:"program"`
}

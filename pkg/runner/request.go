package runner

import (
	"fmt"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ModeAuto runs the fixture executable when one is configured and falls
// back to in-process execution otherwise.
const ModeAuto domain.Mode = ""

// Request describes one fixture run.
type Request struct {
	Fixture string      `json:"fixture" mapstructure:"fixture"`
	Args    []string    `json:"args,omitempty" mapstructure:"args"`
	Mode    domain.Mode `json:"mode,omitempty" mapstructure:"mode"`
	Verify  bool        `json:"verify,omitempty" mapstructure:"verify"`
}

// DecodeRequest builds a Request from a loosely typed map, as received from
// JSON bodies or MCP tool arguments. Scalars are accepted where a list is
// expected ("args": "x" becomes ["x"]) and booleans may be strings.
func DecodeRequest(input map[string]any) (Request, error) {
	var req Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return req, err
	}
	if err := decoder.Decode(input); err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return req, req.Validate()
}

// Validate checks the mode and sanitizes the arguments in place.
func (r *Request) Validate() error {
	if r.Fixture == "" {
		return fmt.Errorf("%w: fixture is required", domain.ErrInvalidRequest)
	}

	switch r.Mode {
	case ModeAuto, domain.ModeInProcess, domain.ModeExecutable:
	default:
		return fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidRequest, r.Mode)
	}

	args, err := SanitizeArgs(r.Args)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	r.Args = args
	return nil
}

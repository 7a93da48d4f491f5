// Package scenario loads scripted failure sequences used to exercise the
// retry executor without a live server.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/retryclass/internal/reply"
	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// Scenario describes one operation and the failures it meets, in order.
// Once the failures run out the operation succeeds.
type Scenario struct {
	Name      string                   `yaml:"name"`
	Operation retryclass.OperationType `yaml:"operation"`
	Failures  []Step                   `yaml:"failures"`
}

// Step is a single failure. Exactly one of Kind, Code, WriteConcernCode or
// Reply must be set; Labels applies to every form.
type Step struct {
	Kind             *retryclass.ErrorKind `yaml:"kind,omitempty"`
	Code             string                `yaml:"code,omitempty"`
	WriteConcernCode string                `yaml:"write_concern_code,omitempty"`
	Reply            string                `yaml:"reply,omitempty"`
	Labels           []string              `yaml:"labels,omitempty"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", retryclass.ErrInvalidScenario, err)
	}

	op, err := retryclass.ParseOperationType(string(s.Operation))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", retryclass.ErrInvalidScenario, err)
	}
	s.Operation = op

	for i := range s.Failures {
		if _, err := s.Failures[i].Failure(); err != nil {
			return nil, fmt.Errorf("%w: failures[%d]: %v", retryclass.ErrInvalidScenario, i, err)
		}
	}
	return &s, nil
}

// Failure builds a fresh failure value for the step. Each call returns a new
// value so labels added during one run never leak into the next.
func (st Step) Failure() (retryclass.Failure, error) {
	set := 0
	for _, present := range []bool{st.Kind != nil, st.Code != "", st.WriteConcernCode != "", st.Reply != ""} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of kind, code, write_concern_code or reply is required, got %d", set)
	}

	var f retryclass.Failure
	switch {
	case st.Kind != nil:
		f = retryclass.NewLocalError(*st.Kind, nil)
	case st.Code != "":
		code, err := retryclass.ParseErrorCode(st.Code)
		if err != nil {
			return nil, err
		}
		f = retryclass.NewCommandError(code)
	case st.WriteConcernCode != "":
		code, err := retryclass.ParseErrorCode(st.WriteConcernCode)
		if err != nil {
			return nil, err
		}
		wce, err := retryclass.NewWriteConcernError(code)
		if err != nil {
			return nil, err
		}
		f = wce
	default:
		decoded, err := reply.DecodeJSON([]byte(st.Reply))
		if err != nil {
			return nil, err
		}
		if decoded == nil {
			return nil, fmt.Errorf("%w: reply reports success", retryclass.ErrInvalidReply)
		}
		f = decoded
	}

	for _, l := range st.Labels {
		f.ErrorLabels().Add(l)
	}
	return f, nil
}

package graph

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netgraph/pkg/validation"
)

// Payload is the on-disk shape of a graph. JSON documents decode too, since
// YAML is a superset.
type Payload struct {
	Groups []Group `json:"groups" yaml:"groups" validate:"required,min=1,dive"`
	Nodes  []*Node `json:"nodes" yaml:"nodes" validate:"dive,required"`
	Links  []*Link `json:"links" yaml:"links" validate:"dive,required"`
}

// Build validates the payload fields and constructs the graph
func (p *Payload) Build() (*Graph, error) {
	if err := validation.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid graph payload: %w", err)
	}
	return New(p.Nodes, p.Links, p.Groups)
}

// Decode reads a payload document and builds the graph
func Decode(r io.Reader) (*Graph, error) {
	var p Payload
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("graph payload is empty")
		}
		return nil, fmt.Errorf("failed to decode graph payload: %w", err)
	}
	return p.Build()
}

// LoadFile reads and builds the graph stored at path
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph payload: %w", err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

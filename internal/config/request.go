package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// Request is an act calculation stored in a file
//
//	act: vente
//	params:
//	  prix: 25000000
//	  conservation_fonciere: true
//	variants:
//	  sans_conservation:
//	    conservation_fonciere: false
type Request struct {
	Act      string                       `yaml:"act" json:"act"`
	Params   map[string]string            `yaml:"params" json:"params"`
	Variants map[string]map[string]string `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// ActType parses the request's act tag
func (r *Request) ActType() (domain.ActType, error) {
	return domain.ParseActType(r.Act)
}

// LoadRequest reads a request file. JSON is accepted as a subset of YAML.
func LoadRequest(filename string) (*Request, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ParseRequest(data)
}

// ParseRequest decodes request data
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Act == "" {
		return nil, domain.Missing("act")
	}
	if _, err := req.ActType(); err != nil {
		return nil, err
	}
	if req.Params == nil {
		req.Params = map[string]string{}
	}
	return &req, nil
}

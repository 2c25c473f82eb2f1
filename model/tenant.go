package model

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Credential is one tenant identity against the external-calls API.
// Immutable once the pool is built.
type Credential struct {
	Org   string `yaml:"org"`
	Token string `yaml:"token"`
}

// CredentialPool is the fixed set of tenant credentials for a run.
// No dynamic allocation: users pick one at startup and keep it.
type CredentialPool struct {
	creds []Credential
}

func NewCredentialPool(creds []Credential) (*CredentialPool, error) {
	if len(creds) == 0 {
		return nil, fmt.Errorf("credential pool is empty")
	}
	seen := map[string]struct{}{}
	for i, c := range creds {
		if c.Org == "" || c.Token == "" {
			return nil, fmt.Errorf("credential %d: org and token are required", i)
		}
		if _, ok := seen[c.Org]; ok {
			return nil, fmt.Errorf("credential %d: duplicate org %s", i, c.Org)
		}
		seen[c.Org] = struct{}{}
	}
	return &CredentialPool{creds: creds}, nil
}

// LoadCredentialPool reads a credentials file:
//
//	credentials:
//	  - org: LoadTest1
//	    token: VrfzWbYW...
func LoadCredentialPool(path string) (*CredentialPool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var file struct {
		Credentials []Credential `yaml:"credentials"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return NewCredentialPool(file.Credentials)
}

// Pick returns one credential chosen uniformly at random.
// Called once per simulated user to spread load across tenants.
func (p *CredentialPool) Pick() Credential {
	return p.creds[rand.Intn(len(p.creds))]
}

func (p *CredentialPool) All() []Credential {
	return p.creds
}

func (p *CredentialPool) Orgs() []string {
	orgs := make([]string, 0, len(p.creds))
	for _, c := range p.creds {
		orgs = append(orgs, c.Org)
	}
	return orgs
}

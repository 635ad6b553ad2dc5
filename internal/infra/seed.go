package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type adminSeedFile struct {
	Admins []AdminSeed `yaml:"admins"`
}

// LoadAdminSeedFile reads administrator seeds from a YAML document of the form:
//
//	admins:
//	  - username: templeadmin
//	    password: "..."
//	    role: superadmin
func LoadAdminSeedFile(path string) ([]AdminSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read admin seed file: %w", err)
	}
	var doc adminSeedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse admin seed file: %w", err)
	}
	for i, seed := range doc.Admins {
		if seed.Username == "" || seed.Password == "" {
			return nil, fmt.Errorf("admin seed %d: username and password are required", i+1)
		}
		if seed.Role == "" {
			doc.Admins[i].Role = "admin"
		}
	}
	return doc.Admins, nil
}

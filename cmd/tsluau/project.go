package main

import (
	"errors"
	"fmt"

	"tsluau/internal/project"
)

// loadProject finds the manifest at or above dir.
func loadProject(dir string) (*project.Manifest, error) {
	if dir == "" {
		dir = "."
	}
	m, ok, err := project.LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(project.NoManifestMessage)
	}
	return m, nil
}

func describeProject(m *project.Manifest) string {
	if name := m.Config.Package.Name; name != "" {
		return fmt.Sprintf("%s (%s)", name, m.Path)
	}
	return m.Path
}

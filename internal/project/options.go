package project

import "path/filepath"

// TypesScope is the package scope under node_modules that holds the runtime
// type declarations every project must resolve.
const TypesScope = "@tsluau"

// CompilerOptions mirrors the compiler options section of the manifest.
// Booleans are pointers so that an absent key is distinguishable from false.
type CompilerOptions struct {
	Target                       string   `toml:"target" yaml:"target"`
	Module                       string   `toml:"module" yaml:"module"`
	ModuleDetection              string   `toml:"moduleDetection" yaml:"moduleDetection"`
	ModuleResolution             string   `toml:"moduleResolution" yaml:"moduleResolution"`
	NoLib                        *bool    `toml:"noLib" yaml:"noLib"`
	Strict                       *bool    `toml:"strict" yaml:"strict"`
	AllowSyntheticDefaultImports *bool    `toml:"allowSyntheticDefaultImports" yaml:"allowSyntheticDefaultImports"`
	TypeRoots                    []string `toml:"typeRoots" yaml:"typeRoots"`
	RootDir                      string   `toml:"rootDir" yaml:"rootDir"`
	RootDirs                     []string `toml:"rootDirs" yaml:"rootDirs"`
	OutDir                       string   `toml:"outDir" yaml:"outDir"`
}

// DefaultCompilerOptions returns options that pass validation for a project
// whose dependencies live in nodeModules.
func DefaultCompilerOptions(nodeModules string) CompilerOptions {
	yes := true
	return CompilerOptions{
		Target:                       "ESNext",
		Module:                       "commonjs",
		ModuleDetection:              "force",
		ModuleResolution:             "node10",
		NoLib:                        &yes,
		Strict:                       &yes,
		AllowSyntheticDefaultImports: &yes,
		TypeRoots:                    []string{typesPath(nodeModules)},
		RootDir:                      "src",
		OutDir:                       "out",
	}
}

// Resolve returns a copy of o whose relative type roots are anchored at root.
func (o CompilerOptions) Resolve(root string) CompilerOptions {
	if root == "" || len(o.TypeRoots) == 0 {
		return o
	}
	roots := make([]string, len(o.TypeRoots))
	for i, r := range o.TypeRoots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(root, r)
		}
		roots[i] = r
	}
	o.TypeRoots = roots
	return o
}

package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// ManifestName is the manifest file the project is configured by.
const ManifestName = "tsluau.toml"

// Error aggregates every compiler option violation of one project.
type Error struct {
	Manifest   string
	Violations []string
}

func (e *Error) Error() string {
	name := e.Manifest
	if name == "" {
		name = ManifestName
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Invalid %q configuration!\n", name)
	for _, v := range e.Violations {
		sb.WriteString("- ")
		sb.WriteString(v)
		sb.WriteByte('\n')
	}
	return sb.String()
}

var highlight = color.New(color.FgYellow).SprintFunc()

func quoted(s string) string { return highlight(`"` + s + `"`) }

// ValidateCompilerOptions checks opts against the settings the compiler
// depends on. Every violation is collected; the result is nil or an *Error.
func ValidateCompilerOptions(opts CompilerOptions, nodeModulesPath string) error {
	var errs []string
	mustBe := func(name, want string) {
		errs = append(errs, fmt.Sprintf("%s must be %s", quoted(name), want))
	}

	if !isTrue(opts.NoLib) {
		mustBe("noLib", highlight("true"))
	}
	if !isTrue(opts.Strict) {
		mustBe("strict", highlight("true"))
	}
	if !strings.EqualFold(opts.Target, "ESNext") {
		mustBe("target", quoted("ESNext"))
	}
	if !strings.EqualFold(opts.Module, "commonjs") {
		mustBe("module", highlight("commonjs"))
	}
	if !strings.EqualFold(opts.ModuleDetection, "force") {
		mustBe("moduleDetection", quoted("force"))
	}
	if r := strings.ToLower(opts.ModuleResolution); r != "node10" && r != "node" {
		mustBe("moduleResolution", quoted("Node"))
	}
	if !isTrue(opts.AllowSyntheticDefaultImports) {
		mustBe("allowSyntheticDefaultImports", highlight("true"))
	}

	types := typesPath(nodeModulesPath)
	if !containsPath(opts.TypeRoots, types) {
		errs = append(errs, fmt.Sprintf("%s must contain %s", quoted("typeRoots"), highlight(types)))
	}

	if opts.RootDir == "" && opts.RootDirs == nil {
		errs = append(errs, fmt.Sprintf("%s or %s must be defined", quoted("rootDir"), quoted("rootDirs")))
	}
	if opts.OutDir == "" {
		errs = append(errs, fmt.Sprintf("%s must be defined", quoted("outDir")))
	}

	if len(errs) > 0 {
		return &Error{Violations: errs}
	}
	return nil
}

func isTrue(b *bool) bool { return b != nil && *b }

func typesPath(nodeModules string) string {
	if nodeModules == "" {
		nodeModules = "node_modules"
	}
	return filepath.Join(nodeModules, TypesScope)
}

func containsPath(roots []string, want string) bool {
	target, err := filepath.Abs(want)
	if err != nil {
		return false
	}
	for _, root := range roots {
		if abs, err := filepath.Abs(root); err == nil && abs == target {
			return true
		}
	}
	return false
}

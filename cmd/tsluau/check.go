package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate the project's compiler options",
	Long: `Load the project manifest at or above [dir] and check the compiler
options the classifier depends on. Every violation is reported at once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !colored

	m, err := loadProject(dir)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), err.Error())
		return fmt.Errorf("%s: configuration check failed", m.Path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("ok:"), describeProject(m))
	return nil
}

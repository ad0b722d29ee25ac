// Command redirects patches the kernel image so that calls to selected
// runtime functions are redirected to kernel implementations. Redirect
// targets are Go functions annotated with a go:redirect-from comment naming
// the runtime symbol they replace.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// kernelRoot is the folder scanned for go:redirect-from annotations.
const kernelRoot = "kernel/"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "redirects",
	Short: "Manage the runtime symbol redirect table of the kernel image.",
	Long: `Scans the kernel sources for go:redirect-from annotations and ` +
		`writes the matching symbol addresses into the .goredirectstbl ` +
		`section of the kernel image. The tool must be run from the ` +
		`module root folder.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if matches, _ := filepath.Glob(kernelRoot); len(matches) != 1 {
			return fmt.Errorf("this tool must be run from the kernel root folder")
		}
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[redirects] error: %s\n", err.Error())
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/fnt/internal/catalogue"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the builtin method catalogue",
	RunE:  runMethods,
}

func init() {
	rootCmd.AddCommand(methodsCmd)
}

func runMethods(cmd *cobra.Command, args []string) error {
	cat, err := catalogue.Populate("builtin", nil)
	if err != nil {
		return fmt.Errorf("populate catalogue: %w", err)
	}

	names := cat.Names()
	if len(names) == 0 {
		fmt.Println("No methods registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tORIGIN")
	fmt.Fprintln(w, "----\t------")
	for _, e := range cat.Entries() {
		fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Origin.Kind)
	}
	return w.Flush()
}

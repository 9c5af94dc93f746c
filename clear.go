package main

import (
	"errors"
	"fmt"

	"copyselect/internal/cache"

	"github.com/spf13/cobra"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [file]",
	Short: "Remove the saved selections of a file, or of every file with --all",
	Args: func(cmd *cobra.Command, args []string) error {
		if clearAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "clear every file")
}

func runClear(cmd *cobra.Command, args []string) error {
	sel, err := openSelections()
	if err != nil {
		return err
	}
	defer sel.Close()

	var paths []cache.Path
	if clearAll {
		paths = sel.store.Paths()
	} else {
		path, err := sel.resolver.Resolve(args[0])
		if err != nil {
			return err
		}
		paths = []cache.Path{path}
	}

	out := cmd.OutOrStdout()
	for _, path := range paths {
		label := sel.resolver.Relative(path)
		if _, err := sel.store.RemoveFile(path); err != nil {
			if errors.Is(err, cache.ErrNotFound) {
				return fmt.Errorf("no selections found for file: %s", label)
			}
			return err
		}
		fmt.Fprintf(out, "Selections cleared for file: %s\n", label)
	}
	return nil
}

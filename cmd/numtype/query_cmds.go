package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"numtype/internal/diag"
	"numtype/internal/driver"
	"numtype/internal/query"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <left> [<operator>] <right>",
	Short: "Resolve the result type of arithmetic over two operands",
	Long: `Resolve the result type of arithmetic over two operands. With an
operator (+ - * / % == != && ||) between them, only + - * / promote; the
others report none.`,
	Args: cobra.RangeArgs(2, 3),
	RunE:  runQuery(query.VerbPromote),
}

var assignCmd = &cobra.Command{
	Use:   "assign <target> <source>",
	Short: "Decide whether source may be assigned to target",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery(query.VerbAssign),
}

var boxCmd = &cobra.Command{
	Use:   "box <type>",
	Short: "Replace a primitive with its wrapper class",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery(query.VerbBox),
}

var unboxCmd = &cobra.Command{
	Use:   "unbox <type>",
	Short: "Replace a wrapper class with its primitive",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery(query.VerbUnbox),
}

var classifyCmd = &cobra.Command{
	Use:   "classify <type>",
	Short: "Print the classification tag of a type",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery(query.VerbClassify),
}

func init() {
	boxCmd.Flags().Bool("erase-generics", false, "erase type arguments of non-primitive types")
	unboxCmd.Flags().Bool("keep-generics", false, "keep type arguments of non-wrapper types")
}

// queryFlags maps the command's bool flags onto query flags.
func queryFlags(cmd *cobra.Command) (query.Flag, error) {
	var out query.Flag
	for name, bit := range map[string]query.Flag{
		"erase-generics": query.FlagEraseGenerics,
		"keep-generics":  query.FlagKeepGenerics,
	} {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		set, err := cmd.Flags().GetBool(name)
		if err != nil {
			return 0, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		if set {
			out |= bit
		}
	}
	return out, nil
}

// runQuery evaluates the command line as a single query. With --quiet only
// the value is printed.
func runQuery(verb query.Verb) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd)
		if err != nil {
			return err
		}
		flags, err := queryFlags(cmd)
		if err != nil {
			return err
		}
		ans := s.Ask(cmd.Context(), driver.BuildLine(verb, flags, "", args...))

		out := cmd.OutOrStdout()
		if ans.Result != nil && ans.Result.Mark != driver.MarkError {
			if quietFlag(cmd) {
				fmt.Fprintln(out, ans.Result.Value)
			} else {
				fmt.Fprintln(out, driver.ResultLine(*ans.Result))
			}
		}
		if ans.Bag.Len() > 0 && (!quietFlag(cmd) || ans.Bag.HasErrors()) {
			fmt.Fprintln(cmd.ErrOrStderr(), diag.FormatShort(ans.Bag.Items(), ans.FileSet, true))
		}
		if ans.Bag.HasErrors() {
			return errReported
		}
		return nil
	}
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/getjson/client"
	"github.com/s0up4200/getjson/filter"
	"github.com/s0up4200/getjson/jsonapi"
	"github.com/s0up4200/getjson/students"
)

var (
	filterExpr  string
	concurrency int
)

// studentsCmd represents the students command
var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List students and their details from a students API",
	Long: `Fetch the students list, then every student's details concurrently.

A student whose details cannot be fetched is reported with the kind of
failure and does not stop the others. Use --filter to keep students
matching an expression, for example:

  getjson students --filter 'Age > 30 and livesIn("Italy")'
  getjson students --filter 'hasPrefix(Name, "a") or Name contains "ck"'

Helpers: hasText, hasPrefix, hasSuffix (case-insensitive), lower, upper
and livesIn.`,
	RunE: runStudents,
}

func init() {
	rootCmd.AddCommand(studentsCmd)

	studentsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	studentsCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "override client.concurrency")
}

func runStudents(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Compile the filter before touching the network
	var compiler *filter.Compiler
	var exprFilter *filter.ExprFilter
	if filterExpr != "" {
		compiler = filter.NewCompiler(filter.DefaultCacheSize, logger)
		var err error
		exprFilter, err = compiler.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	n := cfg.Client.Concurrency
	if concurrency > 0 {
		n = concurrency
	}

	studentsClient, err := newStudentsClient(n)
	if err != nil {
		return err
	}

	logger.Info().Str("url", studentsClient.BaseURL()).Msg("Fetching students")

	items, err := studentsClient.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	results := studentsClient.FetchAllDetails(ctx, items)

	var details []students.StudentDetails
	var failed []client.DetailResult
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res)
			continue
		}
		details = append(details, *res.Details)
	}

	if exprFilter != nil {
		details = compiler.Apply(exprFilter, details)
	}

	printStudents(details)

	if len(failed) > 0 {
		fmt.Printf("\n%d of %d students could not be fetched:\n", len(failed), len(results))
		for _, res := range failed {
			fmt.Printf("  ✗ %s: [%s] %v\n", res.Item.Name, failureKind(res.Err), res.Err)
		}
		return fmt.Errorf("%d students could not be fetched", len(failed))
	}

	return nil
}

func printStudents(details []students.StudentDetails) {
	if len(details) == 0 {
		fmt.Println("No students found.")
		return
	}

	studentText := "student"
	if len(details) != 1 {
		studentText = "students"
	}
	fmt.Printf("Found %d %s:\n\n", len(details), studentText)

	fmt.Println(strings.Repeat("━", 72))
	fmt.Printf("%-20s %-5s %-16s %-8s %s\n", "NAME", "AGE", "COUNTRY", "ACTIVE", "CREDITS")
	fmt.Println(strings.Repeat("━", 72))
	for _, s := range details {
		active := "no"
		if s.IsActive {
			active = "yes"
		}
		fmt.Printf("%-20s %-5d %-16s %-8s %.2f\n", s.Name, s.Age, s.Country, active, s.Credits)
	}
	fmt.Println(strings.Repeat("━", 72))
}

func failureKind(err error) string {
	if reqErr, ok := jsonapi.AsRequestError(err); ok {
		return reqErr.Kind.String()
	}
	return jsonapi.KindUnknown.String()
}

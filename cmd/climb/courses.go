package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List available courses",
	Long: `Shows the generated tower, the builtin courses and any course
files found in ~/.climb/courses.`,
	Args: cobra.NoArgs,
	Run:  runCourses,
}

func runCourses(_ *cobra.Command, _ []string) {
	courses, err := courseLibrary().List()
	if err != nil {
		fail("listing courses: %v", err)
	}

	fmt.Println("Available courses:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, c := range courses {
		if len(c.ID) > maxIDLen {
			maxIDLen = len(c.ID)
		}
	}

	fmt.Printf("  %-*s  %-9s  %-9s  %s\n", maxIDLen, "ID", "Source", "Platforms", "Name")
	fmt.Printf("  %-*s  %-9s  %-9s  %s\n", maxIDLen, "--", "------", "---------", "----")

	for _, c := range courses {
		platforms := "random"
		if c.Platforms > 0 {
			platforms = fmt.Sprintf("%d", c.Platforms)
		}
		fmt.Printf("  %-*s  %-9s  %-9s  %s\n", maxIDLen, c.ID, c.Source, platforms, c.Name)
	}

	fmt.Println()
	fmt.Println("Run 'climb play --course <id>' to climb a course.")
}

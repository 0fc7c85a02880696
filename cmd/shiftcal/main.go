// Command shiftcal converts a shift roster workbook to an iCalendar file
// without running the web server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shiftcal/shiftcal/internal/calendar"
	"github.com/shiftcal/shiftcal/internal/schedule"
)

const appVersion = "0.1.0"

func main() {
	_ = godotenv.Load()

	var (
		filePath     string
		employee     string
		outPath      string
		shiftMapPath string
	)

	cmd := &cobra.Command{
		Use:   "shiftcal",
		Short: "Convert a shift roster workbook to an iCalendar file",
		Long: "Parses an .xlsx shift roster and writes an .ics calendar for one employee.\n" +
			"Run without --employee to list the employees found in the workbook.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ok, _ := cmd.Flags().GetBool("version"); ok {
				fmt.Printf("shiftcal v%s\n", appVersion)
				return nil
			}
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}

			shifts := schedule.DefaultShiftMap()
			if shiftMapPath != "" {
				m, err := schedule.LoadShiftMap(shiftMapPath)
				if err != nil {
					return fmt.Errorf("loading shift map: %w", err)
				}
				shifts = m
			}

			sched, err := schedule.ParseWorkbook(filePath, shifts)
			if err != nil {
				return err
			}

			if employee == "" {
				fmt.Printf("Employees in %s (%d days starting %s):\n",
					filePath, len(sched.Dates), sched.StartDate().Format("2006-01-02"))
				for _, name := range sched.Employees {
					fmt.Printf("  %s\n", name)
				}
				return nil
			}

			cal, err := calendar.Build(sched, employee, shifts)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = calendar.DownloadFilename(employee)
			}
			if err := os.WriteFile(outPath, []byte(cal.Serialize()), 0644); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}

			fmt.Printf("Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the .xlsx roster workbook")
	cmd.Flags().StringVarP(&employee, "employee", "e", "", "employee name (omit to list employees)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output .ics path (default <employee>_schedule.ics)")
	cmd.Flags().StringVar(&shiftMapPath, "shiftmap", "", "YAML shift map overriding the built-in codes")
	cmd.Flags().Bool("version", false, "print version and exit")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

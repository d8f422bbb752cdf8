package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/output"
)

var assigneesCmd = &cobra.Command{
	Use:     "assignees",
	Aliases: []string{"users"},
	Short:   "List assignable users",
	Long:    `Lists the users that tasks can be assigned to and invites can target.`,
	RunE:    runAssignees,
}

func init() {
	rootCmd.AddCommand(assigneesCmd)
}

func runAssignees(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	assignees, err := c.svc.FetchAssignees(cmd.Context())
	if err != nil {
		return err
	}

	format := outputFormat()
	if format == output.FormatJSON {
		return output.JSON(os.Stdout, assignees)
	}
	if format == output.FormatCompact {
		for _, a := range assignees {
			fmt.Fprintf(os.Stdout, "%s %s\n", a.ID, a.Name)
		}
		return nil
	}
	output.AssigneeTable(os.Stdout, assignees)
	return nil
}

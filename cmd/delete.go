package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/internal/apperr"
	"github.com/taskdeck/taskdeck/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete TASK_ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long:    `Permanently deletes a task. Prompts for confirmation in interactive mode.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	deleteCmd.Flags().StringP("project", "p", "", "project ID or name (default: first project)")
	deleteCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	c, err := newClient(cfg)
	if err != nil {
		return err
	}

	projectArg, _ := cmd.Flags().GetString("project")
	yes, _ := cmd.Flags().GetBool("yes")

	project, err := resolveProject(cmd.Context(), c, projectArg)
	if err != nil {
		return err
	}

	t, err := c.svc.FetchTask(cmd.Context(), project.ID, args[0])
	if err != nil {
		return err
	}

	// Require confirmation in TTY mode unless --yes.
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return apperr.New(apperr.InvalidInput,
				"cannot prompt for confirmation (not a terminal); use --yes")
		}
		fmt.Fprintf(os.Stderr, "Delete task %s %q? [y/N] ", t.ID, t.Title)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Canceled.")
			return nil
		}
	}

	if err := c.coord.DeleteTask(cmd.Context(), project.ID, t.ID); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]interface{}{
			"status": "deleted",
			"id":     t.ID,
			"title":  t.Title,
		})
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", t.ID, t.Title)
	return nil
}

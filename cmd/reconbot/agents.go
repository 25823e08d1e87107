package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the active analysis agents",
	RunE:  runAgents,
}

func runAgents(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	agents, err := a.agents.ListActive(ctx)
	if err != nil {
		return err
	}

	if len(agents) == 0 {
		fmt.Println("No active agents")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE")
	for _, agent := range agents {
		fmt.Fprintf(w, "%s\t%s\t%s\n", agent.ID, agent.Name, agent.Type)
	}
	return w.Flush()
}

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan and inspect attack paths",
}

var planCreateCmd = &cobra.Command{
	Use:   "create [SCAN_ID...]",
	Short: "Generate an attack plan from completed scans",
	Long: `Generate a risk-scored attack plan for a campaign. With no scan IDs,
every completed scan feeds the plan. Generation runs through the
configured provider first and falls back to the deterministic service
catalog when the generated plan cannot be validated.`,
	RunE: runPlanCreate,
}

var planListCmd = &cobra.Command{
	Use:   "list CAMPAIGN_ID",
	Short: "List a campaign's attack paths by descending risk",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanList,
}

var planCampaignID string

func init() {
	planCreateCmd.Flags().StringVar(&planCampaignID, "campaign", "", "Campaign ID (generated when omitted)")
	planCmd.AddCommand(planCreateCmd)
	planCmd.AddCommand(planListCmd)
}

func runPlanCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	decision, err := a.limiter.CheckAndIncrement(ctx, userID, "plan")
	if err != nil {
		if types.IsCode(err, types.RATE_LIMIT_EXCEEDED) {
			return fmt.Errorf("rate limit exceeded for plan, retry after %s", decision.ResetAt.Format("15:04:05 MST"))
		}
		return err
	}

	campaignID := types.ID(planCampaignID)
	if campaignID == "" {
		campaignID = types.NewID()
	} else if err := campaignID.Validate(); err != nil {
		return fmt.Errorf("invalid campaign id: %w", err)
	}

	scans, err := resolveScans(cmd, a, args)
	if err != nil {
		return err
	}
	if len(scans) == 0 {
		return fmt.Errorf("no completed scans to plan from")
	}

	result, err := a.planner.Plan(ctx, campaignID, scans)
	if err != nil {
		return err
	}

	fmt.Printf("Attack plan persisted for campaign %s\n", campaignID)
	fmt.Printf("  Planning run: %s\n", result.PlanningRunID)
	fmt.Printf("  Source:       %s\n", result.Source)
	fmt.Printf("  Steps:        %d\n\n", len(result.Paths))

	printPaths(result.Paths)
	return nil
}

func runPlanList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	campaignID, err := types.ParseID(args[0])
	if err != nil {
		return fmt.Errorf("invalid campaign id: %w", err)
	}

	paths, err := a.planner.ListByCampaign(ctx, campaignID)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		fmt.Println("No attack paths found for campaign")
		return nil
	}

	printPaths(paths)
	return nil
}

// resolveScans loads the named scans, or every completed scan when no
// IDs were given. Scans that are not completed are rejected rather
// than silently skipped.
func resolveScans(cmd *cobra.Command, a *app, args []string) ([]*database.Scan, error) {
	ctx := cmd.Context()

	if len(args) == 0 {
		return a.scans.List(ctx, types.ScanStatusCompleted)
	}

	scans := make([]*database.Scan, 0, len(args))
	for _, raw := range args {
		id, err := types.ParseID(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid scan id %q: %w", raw, err)
		}
		scan, err := a.scans.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if scan.Status != types.ScanStatusCompleted {
			return nil, fmt.Errorf("scan %s is %s, only completed scans can be planned from", id, scan.Status)
		}
		scans = append(scans, scan)
	}
	return scans, nil
}

func printPaths(paths []*database.AttackPath) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tPHASE\tTECHNIQUE\tRISK\tSCORE\tTOOLS\tREC")
	for _, path := range paths {
		rec := ""
		if path.Recommended {
			rec = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s (%s)\t%s\t%.0f\t%s\t%s\n",
			path.ExecutionOrder,
			path.Phase,
			path.TechniqueName,
			path.MitreTechnique,
			path.RiskLevel,
			path.RiskScore,
			strings.Join(path.ToolChain, ","),
			rec)
	}
	w.Flush()
}

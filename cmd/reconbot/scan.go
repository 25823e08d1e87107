package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan TARGET",
	Short: "Run all active analysis agents against a target",
	Long: `Run a full scan of the target: gather reconnaissance context, fan the
target out to every active analysis agent concurrently, aggregate the
surviving reports, and classify the overall threat level.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var scanListCmd = &cobra.Command{
	Use:   "scans",
	Short: "List scans",
	RunE:  runScanList,
}

var (
	scanAssetType  string
	scanListStatus string
)

func init() {
	scanCmd.Flags().StringVarP(&scanAssetType, "type", "t", "domain", "Asset type: domain, ip, url, hash, email")
	scanListCmd.Flags().StringVar(&scanListStatus, "status", "", "Filter by status: pending, running, completed, failed")
	rootCmd.AddCommand(scanListCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	decision, err := a.limiter.CheckAndIncrement(ctx, userID, "scan")
	if err != nil {
		if types.IsCode(err, types.RATE_LIMIT_EXCEEDED) {
			return fmt.Errorf("rate limit exceeded for scan, retry after %s", decision.ResetAt.Format("15:04:05 MST"))
		}
		return err
	}

	assetType, err := types.ParseAssetType(scanAssetType)
	if err != nil {
		return err
	}

	agents, err := a.agents.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		return fmt.Errorf("no active agents configured")
	}

	scan, err := a.orchestrator.Run(ctx, args[0], assetType, agents)
	if err != nil {
		return err
	}

	results, decodeErr := types.DecodeScanResults(scan.Results)

	fmt.Printf("Scan %s completed\n", scan.ID)
	fmt.Printf("  Target:       %s (%s)\n", scan.Target, scan.AssetType)
	fmt.Printf("  Threat level: %s\n", scan.ThreatLevel)
	if decodeErr == nil {
		fmt.Printf("  Agents:       %d succeeded, %d failed\n", results.AgentsSucceeded, results.AgentsFailed)
		fmt.Printf("  Findings:     %d vulnerabilities, %d observations\n",
			len(results.Vulnerabilities), len(results.Findings))
		for _, vuln := range results.Vulnerabilities {
			fmt.Printf("    [%s] %s\n", vuln.Severity, vuln.Name)
		}
	}
	if decision.Limit > 0 {
		fmt.Printf("  Rate limit:   %d/%d remaining this window\n", decision.Remaining, decision.Limit)
	}

	return nil
}

func runScanList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var status types.ScanStatus
	if scanListStatus != "" {
		status = types.ScanStatus(scanListStatus)
		if !status.IsValid() {
			return fmt.Errorf("invalid status filter: %s", scanListStatus)
		}
	}

	scans, err := a.scans.List(ctx, status)
	if err != nil {
		return err
	}

	if len(scans) == 0 {
		fmt.Println("No scans found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTARGET\tTYPE\tSTATUS\tTHREAT\tCREATED")
	for _, scan := range scans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			scan.ID, scan.Target, scan.AssetType, scan.Status, scan.ThreatLevel,
			scan.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

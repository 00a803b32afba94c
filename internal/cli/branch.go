package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storyloom/storyloom/pkg/branch"
)

// branchCommand creates the branch command group.
func (c *CLI) branchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Manage narrative branches",
		Long: `Manage narrative branches.

Branches are alternative storylines forked from a node. Each branch tracks
its full lineage back to the mainline. Point the CLI at a running API with
branch.service_url in the config to operate on shared state; without it,
operations run against an in-process service.`,
	}

	cmd.AddCommand(c.branchCreateCommand())
	cmd.AddCommand(c.branchArchiveCommand())
	cmd.AddCommand(c.branchMergeCommand())
	cmd.AddCommand(c.branchImpactCommand())
	cmd.AddCommand(c.branchListCommand())

	return cmd
}

// newBranchManager builds a manager against the configured service.
func (c *CLI) newBranchManager() *branch.Manager {
	cfg := c.Config.Branch
	var svc branch.Service
	if cfg.ServiceURL != "" {
		svc = branch.NewHTTPService(cfg.ServiceURL, nil)
	} else {
		svc = branch.NewMemoryService(cfg.RootID)
	}
	return branch.NewManager(svc, cfg.RootID, cfg.RootLabel, c.Logger)
}

// branchCreateCommand creates the "branch create" subcommand.
func (c *CLI) branchCreateCommand() *cobra.Command {
	var (
		sourceNode string
		label      string
		parent     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Fork a new branch from a story node",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.newBranchManager()
			if parent == "" {
				parent = m.RootID()
			}

			b, err := m.CreateBranch(cmd.Context(), sourceNode, label, parent)
			if err != nil {
				return fmt.Errorf("create branch: %w", err)
			}

			printSuccess("Branch created")
			printDetail("ID:      %s", b.ID)
			printDetail("Label:   %s", b.Label)
			printDetail("Lineage: %s", strings.Join(b.Lineage, " → "))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceNode, "from", "", "source node ID (required)")
	cmd.Flags().StringVar(&label, "label", "", "branch label")
	cmd.Flags().StringVar(&parent, "parent", "", "parent branch ID (default: mainline)")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

// branchArchiveCommand creates the "branch archive" subcommand.
func (c *CLI) branchArchiveCommand() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "archive [branch-id]",
		Short: "Archive a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.newBranchManager()
			if err := m.ArchiveBranch(cmd.Context(), args[0], reason); err != nil {
				return fmt.Errorf("archive branch: %w", err)
			}
			printSuccess("Branch %s archived", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason for archival")

	return cmd
}

// branchMergeCommand creates the "branch merge" subcommand.
func (c *CLI) branchMergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "merge [source-branch] [target-branch]",
		Short: "Merge a branch into another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.newBranchManager()
			if err := m.MergeBranch(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("merge branch: %w", err)
			}
			printSuccess("Branch %s merged into %s", args[0], args[1])
			return nil
		},
	}
}

// branchImpactCommand creates the "branch impact" subcommand.
func (c *CLI) branchImpactCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "impact [node-id]",
		Short: "Preview the impact of branching from a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.newBranchManager()
			est := m.PreviewImpact(cmd.Context(), args[0])
			if est == nil {
				printInfo("No impact estimate available for %s", args[0])
				return nil
			}
			printInfo("Impact of branching from %s", args[0])
			printDetail("Downstream nodes: %d", est.DescendantCount)
			printDetail("Divergence:       %.2f", est.DivergenceScore)
			if est.Summary != "" {
				printDetail("Summary:          %s", est.Summary)
			}
			return nil
		},
	}
}

// branchListCommand creates the "branch list" subcommand.
func (c *CLI) branchListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := c.newBranchManager()
			for _, b := range m.Branches() {
				label := b.Label
				if label == "" {
					label = "(unlabeled)"
				}
				printInfo("%s  %s", b.ID, label)
				printDetail("status: %s  sync: %s  lineage: %s",
					b.Status, b.Sync, strings.Join(b.Lineage, " → "))
			}
			return nil
		},
	}
}

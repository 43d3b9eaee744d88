package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"promptpilot/internal/store"
)

var (
	lineageParent   string
	lineagePlatform string
	lineageMode     string
)

var lineageCmd = &cobra.Command{
	Use:   "lineage",
	Short: "Inspect and extend the prompt lineage forest",
}

var lineageAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Record an accepted optimization (new root without --parent)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		node, err := eng.AddLineageNode(strings.Join(args, " "), lineagePlatform, lineageParent, lineageMode)
		if err != nil {
			return err
		}
		fmt.Printf("Added node %s\n", node.ID)
		return nil
	},
}

var lineageShowCmd = &cobra.Command{
	Use:   "show <node-id>",
	Short: "Print the ancestor chain from root to the given node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		chain, err := eng.GetLineage(args[0])
		if err != nil {
			return err
		}
		for depth, node := range chain {
			printNode(node, depth)
		}
		return nil
	},
}

var lineageChildrenCmd = &cobra.Command{
	Use:   "children <node-id>",
	Short: "List a node's direct children, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		children, err := eng.GetChildren(args[0])
		if err != nil {
			return err
		}
		if len(children) == 0 {
			fmt.Println("No children")
			return nil
		}
		for _, node := range children {
			printNode(node, 0)
		}
		return nil
	},
}

var lineageRootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List every lineage root with its branch count",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, st, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()
		defer eng.Close()

		roots, err := st.ListRoots()
		if err != nil {
			return err
		}
		if len(roots) == 0 {
			fmt.Println("No lineage recorded yet")
			return nil
		}
		for _, root := range roots {
			branches, err := st.BranchCount(root.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s  [%s/%s]  %d branch(es)\n  %s\n", root.ID, root.Platform, root.Mode, branches, truncate(root.Content, 80))
		}
		return nil
	},
}

func printNode(node store.LineageNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s  [%s/%s]  %s\n%s  %s\n", indent, node.ID, node.Platform, node.Mode,
		node.CreatedAt.Format("2006-01-02 15:04:05"), indent, truncate(node.Content, 80))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func init() {
	lineageAddCmd.Flags().StringVar(&lineageParent, "parent", "", "parent node ID (omit for a new root)")
	lineageAddCmd.Flags().StringVar(&lineagePlatform, "platform", "", "target platform (midjourney, sora, suno, ...)")
	lineageAddCmd.Flags().StringVar(&lineageMode, "mode", "enhance", "optimization mode")

	lineageCmd.AddCommand(lineageAddCmd)
	lineageCmd.AddCommand(lineageShowCmd)
	lineageCmd.AddCommand(lineageChildrenCmd)
	lineageCmd.AddCommand(lineageRootsCmd)
}

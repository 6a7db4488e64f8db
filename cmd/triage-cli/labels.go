package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/email-triage/internal/patterns"
	"github.com/mikey/email-triage/internal/taxonomy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	labelsSearch string
	labelsFormat string
	labelsOutput   string
	labelsPatterns bool
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Show, search or export the label hierarchy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tree := taxonomy.Default()

		out := cmd.OutOrStdout()
		if labelsOutput != "" && labelsOutput != "-" {
			f, err := os.Create(labelsOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if labelsPatterns {
			printPatterns(out, patterns.NewEngine(nil).Info())
			return nil
		}
		if labelsSearch != "" {
			return printSearch(out, tree, labelsSearch)
		}
		return exportLabels(out, tree, labelsFormat)
	},
}

func init() {
	f := labelsCmd.Flags()
	f.StringVar(&labelsSearch, "search", "", "Find labels whose name or description contains a term")
	f.StringVar(&labelsFormat, "format", "tree", "Output format (tree, json, yaml)")
	f.StringVarP(&labelsOutput, "output", "o", "-", "Output file (- for stdout)")
	f.BoolVar(&labelsPatterns, "patterns", false, "List how many phrase patterns back each leaf label")
}

func printPatterns(w io.Writer, leaves []patterns.LeafInfo) {
	total := 0
	for _, l := range leaves {
		fmt.Fprintf(w, "%-40s %-30s %3d\n", l.Category, l.Subcategory, l.Patterns)
		total += l.Patterns
	}
	fmt.Fprintf(w, "\n%d patterns across %d labels\n", total, len(leaves))
}

func printSearch(w io.Writer, tree *taxonomy.Tree, term string) error {
	matches := tree.Search(term)
	if len(matches) == 0 {
		fmt.Fprintf(w, "No labels match %q\n", term)
		return nil
	}
	for _, name := range matches {
		fmt.Fprintf(w, "%s\n", strings.Join(tree.Path(name), " > "))
	}
	return nil
}

func exportLabels(w io.Writer, tree *taxonomy.Tree, format string) error {
	switch format {
	case "tree":
		info := tree.Info()
		fmt.Fprintf(w, "%d labels, %d main categories, %d final sublabels\n\n",
			info.TotalLabels, info.MainCategories, info.Leaves)
		printNode(w, tree.Export(), 0)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree.Export())
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree.Export()); err != nil {
			return fmt.Errorf("failed to encode labels as YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printNode(w io.Writer, n taxonomy.ExportNode, depth int) {
	fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), n.Name)
	if n.Description != "" {
		fmt.Fprintf(w, " - %s", n.Description)
	}
	fmt.Fprintln(w)
	for _, c := range n.Sublabels {
		printNode(w, c, depth+1)
	}
}

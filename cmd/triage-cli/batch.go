package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mikey/email-triage/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	batchInput  string
	batchOutput string
)

var outputColumns = []string{
	"id", "subject", "category", "subcategory", "confidence", "method", "final_label", "reason",
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Classify emails from a CSV file",
	Long: `Reads a CSV with a header row containing subject and body columns, and
optionally id, sender and has_attachments. Writes one result row per email.`,
	Example: `  triage-cli batch --input emails.csv --output results.csv --batch-size 25 --workers 4`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := cmd.InOrStdin()
		if batchInput != "" && batchInput != "-" {
			f, err := os.Open(batchInput)
			if err != nil {
				return fmt.Errorf("failed to open input file: %w", err)
			}
			defer f.Close()
			in = f
		}

		emails, err := readEmailsCSV(in)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		results := a.service.ClassifyBatch(cmd.Context(), emails)

		out := cmd.OutOrStdout()
		if batchOutput != "" && batchOutput != "-" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		if err := writeResultsCSV(out, emails, results); err != nil {
			return err
		}

		stats := a.service.Stats()
		a.logger.Info("Batch complete",
			zap.Int64("processed", stats.Processed),
			zap.Int64("errors", stats.Errors),
			zap.Duration("average_latency", stats.AverageLatency))
		return nil
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchInput, "input", "i", "-", "Input CSV file (- for stdin)")
	f.StringVarP(&batchOutput, "output", "o", "-", "Output CSV file (- for stdout)")
	f.IntVar(&flags.BatchSize, "batch-size", 0, "Emails per chunk")
	f.IntVar(&flags.Workers, "workers", 0, "Parallel workers per chunk")
}

// readEmailsCSV parses emails from a CSV with a header row
func readEmailsCSV(r io.Reader) ([]*core.Email, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input CSV is empty")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["body"]; !ok {
		if _, ok := cols["subject"]; !ok {
			return nil, errors.New("input CSV needs a subject or body column")
		}
	}

	field := func(rec []string, name string) string {
		if i, ok := cols[name]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}

	var emails []*core.Email
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		attachments, _ := strconv.ParseBool(strings.TrimSpace(field(rec, "has_attachments")))
		emails = append(emails, &core.Email{
			ID:             strings.TrimSpace(field(rec, "id")),
			Subject:        field(rec, "subject"),
			Body:           field(rec, "body"),
			Sender:         strings.TrimSpace(field(rec, "sender")),
			HasAttachments: attachments,
		})
	}
	return emails, nil
}

// writeResultsCSV writes one row per result in input order
func writeResultsCSV(w io.Writer, emails []*core.Email, results []*core.ClassificationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(outputColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, res := range results {
		row := []string{
			res.ID,
			emails[i].Subject,
			res.Category,
			res.Subcategory,
			strconv.FormatFloat(res.Confidence, 'f', 2, 64),
			string(res.Method),
			res.FinalLabel,
			res.Reason,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

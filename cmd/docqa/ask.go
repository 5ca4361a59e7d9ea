package main

import (
	"fmt"
	"strings"

	"document-qa-be/internal/bootstrap"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	var showChunks bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the indexed documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
				res, err := c.RetrievalService.Query(cmd.Context(), question)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, res.Response)

				if len(res.Citations) > 0 {
					fmt.Fprintln(out)
					color.New(color.FgCyan).Fprintln(out, "Sources:")
					for _, cite := range res.Citations {
						fmt.Fprintf(out, "  - %s\n", cite)
					}
				}

				if showChunks {
					for _, r := range res.Results {
						color.New(color.FgYellow).Fprintf(out, "\n[%s #%d, score %.3f]\n", r.Filename, r.ChunkIndex, r.Score)
						fmt.Fprintln(out, r.Text)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showChunks, "chunks", false, "print the retrieved chunks with their scores")
	return cmd
}

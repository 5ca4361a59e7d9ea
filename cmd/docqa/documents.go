package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"document-qa-be/internal/bootstrap"
	"document-qa-be/internal/pkg/apperror"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
				docs, err := c.DocumentService.GetAll(cmd.Context(), limit, 0)
				if err != nil {
					return err
				}
				if len(docs) == 0 {
					color.Yellow("No documents indexed yet")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tFILENAME\tCREATED")
				for _, d := range docs {
					fmt.Fprintf(w, "%s\t%s\t%s\n", d.Id, d.Filename, d.CreatedAt.Local().Format(time.DateTime))
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many documents")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <documentId>",
		Short: "Delete a document and its chunk vectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return apperror.InvalidInput("invalid document id")
			}

			return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
				res, err := c.DocumentService.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
				color.Green("Deleted %s (%d vectors)", res.Document.Filename, res.VectorsDeleted)
				return nil
			})
		},
	}
}

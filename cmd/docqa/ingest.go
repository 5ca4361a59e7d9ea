package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"document-qa-be/internal/bootstrap"
	"document-qa-be/internal/dto"
	"document-qa-be/internal/pkg/apperror"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "ingest <glob...>",
		Short: "Upload and index PDF files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.New("no PDF files matched")
			}

			return withContainer(cmd.Context(), func(c *bootstrap.Container) error {
				bar := progressbar.NewOptions(len(files),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("ingesting"),
					progressbar.OptionSetWidth(32),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)

				var failed int
				for _, path := range files {
					if err := ingestFile(cmd, c, path); err != nil {
						failed++
						_ = bar.Clear()
						color.Red("✗ %s: %s", path, apperror.DetailOf(err))
						if failFast || apperror.KindOf(err) == apperror.KindCancelled {
							return err
						}
					}
					_ = bar.Add(1)
				}
				_ = bar.Finish()

				color.Green("Ingested %d of %d file(s)", len(files)-failed, len(files))
				if failed > 0 {
					return fmt.Errorf("%d file(s) failed", failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing file")
	return cmd
}

func ingestFile(cmd *cobra.Command, c *bootstrap.Container, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperror.InvalidInput(err.Error())
	}

	res, err := c.IngestionService.Ingest(cmd.Context(), &dto.UploadFile{
		Filename: filepath.Base(path),
		Data:     data,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s → %s\n", color.GreenString("✓"), path, res.Id)
	return nil
}

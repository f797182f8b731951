package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/adoperator/internal/media"
	"github.com/spf13/cobra"
)

// errUploadCancelled is returned when the user keeps a file with private metadata.
var errUploadCancelled = errors.New("upload cancelled")

// NewMediaCmd creates the media command group.
func NewMediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Upload and list creative reference files",
	}

	upload := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload images or videos",
		Long: `Upload checks every file locally before sending it: images up to 20MB and
videos up to 100MB are accepted. Images carrying EXIF metadata that reveals a
location, a device or an author are only sent after confirmation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWithApp(runMediaUpload),
	}
	upload.Flags().BoolP("yes", "y", false, "Upload files with private metadata without asking")
	upload.Flags().Bool("dry-run", false, "Inspect the files without uploading them")
	cmd.AddCommand(upload)

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List uploaded files",
		Args:    cobra.NoArgs,
		RunE: runWithApp(func(ctx context.Context, a *app, _ *cobra.Command, _ []string) error {
			list, err := a.client.ListMedia(ctx)
			if err != nil {
				return fmt.Errorf("failed to list media: %w", err)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No media uploaded.")
				return nil
			}
			for _, m := range list {
				fmt.Fprintf(a.out, "  %s  %-5s  %10d  %s\n", m.ID, m.Type, m.Size, m.OriginalName)
			}
			return nil
		}),
	})

	return cmd
}

func runMediaUpload(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	c := newConsole(a.errOut, cmd.InOrStdin())
	f := a.newFlow(c)
	var errs []error
	for _, path := range args {
		data, r, err := media.ReadFile(path)
		if err != nil {
			c.Error(err.Error())
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(a.out, "%s: %s, %d bytes\n", r.Name, r.ContentType, r.Size)
		if len(r.Privacy) > 0 {
			fmt.Fprintln(a.errOut, "⚠ Metadados privados encontrados:")
			for _, p := range r.Privacy {
				fmt.Fprintf(a.errOut, "  - %s (%s): %s\n", p.Tag, p.Kind, p.Value)
			}
		}
		if dryRun {
			continue
		}
		if len(r.Privacy) > 0 && !yes {
			ok, err := c.Confirm("Enviar mesmo assim?")
			if err != nil || !ok {
				errs = append(errs, fmt.Errorf("%w: %s", errUploadCancelled, r.Name))
				continue
			}
		}

		up, err := f.UploadMedia(ctx, r.Name, r.ContentType, data)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(a.out, "  uploaded as %s\n", up.ID)
	}
	return errors.Join(errs...)
}

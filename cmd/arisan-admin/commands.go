package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arisanku/arisan-admin/internal/app"
	"github.com/arisanku/arisan-admin/internal/export"
	"github.com/arisanku/arisan-admin/internal/phone"
	"github.com/arisanku/arisan-admin/internal/upload"
)

func newPhoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phone <number>...",
		Short: "Print numbers in canonical +62 form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var failed int
			for _, arg := range args {
				canonical, err := phone.Normalize(arg)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", arg, err)
					failed++
					continue
				}
				fmt.Fprintln(out, canonical)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d numbers invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newLogoutCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := app.Open(*opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Session.Logout(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			rt.Logger.Info("logged out from cli")
			fmt.Fprintln(cmd.OutOrStdout(), "Token dihapus dari", rt.Config.SessionPath)
			return nil
		},
	}
}

func newExportCmd(opts *app.Options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:       "export <resource>",
		Short:     "Dump a collection as YAML or JSON",
		Long:      "Dump a collection as YAML or JSON.\n\nResources: " + strings.Join(export.Resources(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: export.Resources(),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(format) {
			case export.FormatYAML, "yml", export.FormatJSON:
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}

			rt, err := app.Open(*opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			doc, err := export.Collect(cmd.Context(), rt.Services, args[0])
			if err != nil {
				return err
			}
			rt.Logger.Info("exported", "resource", doc.Resource, "count", doc.Count, "format", format)
			return export.Write(cmd.OutOrStdout(), format, doc)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatYAML, "output format: yaml|json")
	return cmd
}

func newUploadCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload images to the gallery",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.Open(*opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			var errs []error
			for _, path := range args {
				prepared, err := upload.PrepareFile(path, rt.Config.MaxImageDimension)
				if err != nil {
					errs = append(errs, err)
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				if err := rt.Services.Gallery.Create(cmd.Context(), prepared.Payload); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					rt.Logger.Warn("upload failed", "file", path, "error", err)
					continue
				}
				note := ""
				if prepared.Resized {
					note = fmt.Sprintf(" (diperkecil ke %dx%d)", prepared.Width, prepared.Height)
				}
				rt.Logger.Info("uploaded", "file", path, "mime", prepared.MIME, "resized", prepared.Resized)
				fmt.Fprintf(out, "%s diunggah%s\n", prepared.Payload.Name, note)
			}
			return errors.Join(errs...)
		},
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shiori/internal/bootstrap"
	"shiori/internal/modules/reader/dto"
	"shiori/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "shiori",
		Short:         "Terminal EPUB reader",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (defaults to the config value)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newOpenCmd(&dataDir))
	root.AddCommand(newDirectionCmd(&dataDir))
	root.AddCommand(newLibraryCmd(&dataDir))
	root.AddCommand(newThemeCmd(&dataDir))
	root.AddCommand(newBackendCmd(&dataDir))
	return root
}

// withApp builds the application, runs fn and releases it again.
func withApp(dataDir string, fn func(app *bootstrap.App) error) error {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	return errors.Join(fn(app), app.Close())
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the shiori terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
}

func newOpenCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path.epub>",
		Short: "Open a book, print its session summary and close it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ReaderCLI.Inspect(cmd.Context(), args[0])
				if out.Error != nil {
					printOpenError(cmd.ErrOrStderr(), *out.Error)
				}
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func printSession(w io.Writer, out dto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "title: %s\n", out.Title)
	_, _ = fmt.Fprintf(w, "session: %s\n", out.SessionID)
	_, _ = fmt.Fprintf(w, "locator: %s\n", out.Locator)
	_, _ = fmt.Fprintf(w, "direction: %s (%s)\n", out.Direction, out.DirectionSource)
	_, _ = fmt.Fprintf(w, "theme: %s\n", out.Theme)
	_, _ = fmt.Fprintf(w, "chapters: %d\n", out.Chapters)
	_, _ = fmt.Fprintf(w, "position: chapter %d page %d/%d (%.1f%%)\n", out.Chapter, out.Page, out.Pages, out.Percent)
}

func printOpenError(w io.Writer, e dto.ErrorOutput) {
	_, _ = fmt.Fprintf(w, "Error loading book\n  %s\n  %s\n", e.Message, e.Locator)
}

func newDirectionCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "direction <path.epub>",
		Short: "Resolve the reading direction of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.DirectionCLI.Resolve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", out.Direction, out.Source)
				return nil
			})
		},
	}
}

func newLibraryCmd(dataDir *string) *cobra.Command {
	library := &cobra.Command{Use: "library", Short: "Bookshelf folders and index"}

	library.AddCommand(&cobra.Command{
		Use:   "add <folder>",
		Short: "Add a folder to the bookshelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.LibraryCLI.AddFolder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", out.Path)
				return nil
			})
		},
	})

	library.AddCommand(&cobra.Command{
		Use:   "remove <folder>",
		Short: "Remove a folder from the bookshelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.LibraryCLI.RemoveFolder(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	})

	library.AddCommand(&cobra.Command{
		Use:   "folders",
		Short: "List bookshelf folders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				folders, err := app.LibraryCLI.ListFolders(cmd.Context())
				if err != nil {
					return err
				}
				if len(folders) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no folders")
					return nil
				}
				for _, f := range folders {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Path, f.AddedAt)
				}
				return nil
			})
		},
	})

	library.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List indexed books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				books, err := app.LibraryCLI.ListBooks(cmd.Context())
				if err != nil {
					return err
				}
				if len(books) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no books indexed (run `shiori library scan`)")
					return nil
				}
				for _, b := range books {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", b.Title, b.Author, b.Direction, b.Path)
				}
				return nil
			})
		},
	})

	library.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Scan bookshelf folders for EPUB files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.LibraryCLI.Scan(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scanned %d folder(s), %d book(s)\n", out.Folders, len(out.Books))
				return nil
			})
		},
	})

	library.AddCommand(&cobra.Command{
		Use:   "show <path.epub>",
		Short: "Show an indexed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				b, err := app.LibraryCLI.GetBook(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cover := "no"
				if b.CoverURL != "" {
					cover = "yes"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "title: %s\nauthor: %s\nlanguage: %s\ndirection: %s\ncover: %s\nindexed: %s\npath: %s\n",
					b.Title, b.Author, b.Language, b.Direction, cover, b.IndexedAt, b.Path)
				return nil
			})
		},
	})
	return library
}

func newThemeCmd(dataDir *string) *cobra.Command {
	theme := &cobra.Command{Use: "theme", Short: "Reader theme preference"}

	theme.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the active theme and where it came from",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ThemeCLI.Get(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", out.Theme, out.Origin)
				return nil
			})
		},
	})

	theme.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Set and save the theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"light", "dark"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ThemeCLI.Set(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Theme)
				return nil
			})
		},
	})

	theme.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ThemeCLI.Toggle(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Theme)
				return nil
			})
		},
	})
	return theme
}

func newBackendCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Check that the shiori-backend process starts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				info, err := app.Backend.GetInfo(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", info.Name, info.Version)
				return nil
			})
		},
	}
}

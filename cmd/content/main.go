// Command content inspects the portfolio's text resources. It lists what
// the server would serve, prints a resource, and validates link markup
// before an override directory is deployed.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/keuhdall/termfolio/game/content"
	"github.com/keuhdall/termfolio/game/shell"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "content",
		Usage: "inspect termfolio content resources",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Override directory (built-in content when empty)",
				Sources: cli.EnvVars("TERMFOLIO_CONTENT_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List resources and where each one is loaded from",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					manager, err := content.NewManager(cmd.String("dir"))
					if err != nil {
						return err
					}
					return listContent(out, manager)
				},
			},
			{
				Name:      "show",
				Usage:     "Print one resource",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "ansi",
						Usage: "Render links as terminal hyperlinks",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					name := cmd.Args().First()
					if name == "" {
						return cli.Exit("missing resource name", 2)
					}
					manager, err := content.NewManager(cmd.String("dir"))
					if err != nil {
						return err
					}
					return showContent(out, manager, name, cmd.Bool("ansi"))
				},
			},
			{
				Name:  "validate",
				Usage: "Check every resource for bad encoding or malformed links",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					manager, err := content.NewManager(cmd.String("dir"))
					if err != nil {
						return err
					}
					if failed := validateContent(out, manager); failed > 0 {
						return cli.Exit(fmt.Sprintf("%d resource(s) failed validation", failed), 1)
					}
					return nil
				},
			},
		},
	}
}

func listContent(out io.Writer, manager *content.Manager) error {
	infos, err := manager.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFILE\tSOURCE\tSIZE")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", info.Name, info.Filename, info.Source, info.Size)
	}
	return w.Flush()
}

func showContent(out io.Writer, manager *content.Manager, name string, ansi bool) error {
	text, err := manager.Load(name)
	if err != nil {
		return err
	}
	if ansi {
		text = shell.RenderANSI(text)
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

// validateContent prints one line per resource and returns how many failed
func validateContent(out io.Writer, manager *content.Manager) int {
	failed := 0
	for _, name := range content.Names {
		if err := manager.Validate(name); err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", name)
	}
	return failed
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/snapshot"
	"github.com/matzehuels/mindmap/pkg/store"
)

// =============================================================================
// new
// =============================================================================

func (c *CLI) newCommand() *cobra.Command {
	var rootText string

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a map with a single root node",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return c.runNew(cmd.Context(), name, rootText)
		},
	}

	cmd.Flags().StringVar(&rootText, "root", mindmap.DefaultRootText, "text of the root node")
	return cmd
}

func (c *CLI) runNew(ctx context.Context, name, rootText string) error {
	if err := errors.ValidateNodeText(rootText); err != nil {
		return err
	}
	m := mindmap.New(mindmap.WithRootText(rootText))
	id, err := c.storeMap(ctx, name, m)
	if err != nil {
		return err
	}
	printSuccess("Created map %s", StyleHighlight.Render(id))
	printNextStep("Add a node", fmt.Sprintf("%s add %s \"idea\"", appName, id))
	return nil
}

// storeMap saves m under a fresh id.
func (c *CLI) storeMap(ctx context.Context, name string, m *mindmap.Map) (string, error) {
	s, err := c.openStore(ctx)
	if err != nil {
		return "", err
	}
	defer s.Close()

	id := uuid.NewString()
	if err := store.Save(ctx, s, id, name, m); err != nil {
		return "", err
	}
	loggerFromContext(ctx).Debug("stored map", "id", id, "backend", s.Backend(), "nodes", m.Len())
	return id, nil
}

// =============================================================================
// add
// =============================================================================

func (c *CLI) addCommand() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "add <map> <text>",
		Short: "Append a node below the current node",
		Long: `Append a node below the current node of a map, or below --parent.

<map> is a stored map id or a snapshot JSON file. The new node receives the
next unused id; the selection does not move.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAdd(cmd.Context(), args[0], args[1], parent)
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "select this node before appending")
	return cmd
}

func (c *CLI) runAdd(ctx context.Context, ref, text, parent string) error {
	if err := errors.ValidateNodeText(text); err != nil {
		return err
	}
	m, src, err := c.loadMap(ctx, ref)
	if err != nil {
		return err
	}
	defer src.Close()

	if parent != "" {
		if err := m.Select(parent); err != nil {
			return errors.Wrap(errors.ErrCodeNodeNotFound, err, "select %s", parent)
		}
	}
	n := m.Append(text)
	if err := src.Save(ctx, m); err != nil {
		return err
	}
	printSuccess("Added node %s to %s", StyleHighlight.Render(n.ID), src.Name())
	return nil
}

// =============================================================================
// select
// =============================================================================

func (c *CLI) selectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select <map> <node>",
		Short: "Make a node the current node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, src, err := c.loadMap(ctx, args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			if err := m.Select(args[1]); err != nil {
				return errors.Wrap(errors.ErrCodeNodeNotFound, err, "select %s", args[1])
			}
			if err := src.Save(ctx, m); err != nil {
				return err
			}
			printSuccess("Selected node %s", StyleHighlight.Render(args[1]))
			return nil
		},
	}
}

// =============================================================================
// list & show
// =============================================================================

func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored maps",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			infos, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			printMaps(os.Stdout, infos)
			return nil
		},
	}
}

func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <map>",
		Short: "Print a map as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, src, err := c.loadMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			fmt.Println(StyleTitle.Render(src.Name()))
			fmt.Println(renderTree(m))
			var current string
			if n, ok := m.Current(); ok {
				current = n.ID
			}
			printStats(m.Len(), maxDepth(m), current)
			return nil
		},
	}
}

// =============================================================================
// import & export
// =============================================================================

func (c *CLI) importCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a map from a snapshot JSON or YAML outline file",
		Long: `Store a map from a file.

Files ending in .yaml or .yml are read as outlines:

  text: Project
  children:
    - Goals
    - text: Risks
      children: [Budget, Time]

Any other file is read as a snapshot JSON document, as written by export.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))

			m, err := importFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				if root, ok := m.Root(); ok {
					name = root.Text
				}
			}
			id, err := c.storeMap(ctx, name, m)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Imported %d nodes", m.Len()))
			printSuccess("Stored map %s", StyleHighlight.Render(id))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "map name (default: root text)")
	return cmd
}

func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <map>",
		Short: "Write a map as a JSON node tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, src, err := c.loadMap(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			if output == "" {
				return snapshot.WriteJSON(m, os.Stdout)
			}
			if err := snapshot.ExportJSON(m, output); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

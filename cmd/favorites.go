package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"unilist/feature/favorites/store"
	"unilist/feature/universities/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// favoritesCmd is the parent command for direct favorites store access.
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Inspect or edit the favorites store",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFavorites(func(s store.Store, _ *zap.Logger) error {
			return listFavorites(cmd.Context(), s, cmd.OutOrStdout())
		})
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a favorite by exact name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFavorites(func(s store.Store, l *zap.Logger) error {
			removed, err := removeFavorite(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("%q is not a favorite", args[0])
			}
			l.Info("Favorite removed", zap.String("university", args[0]))
			return nil
		})
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesRemoveCmd)
	RootCmd.AddCommand(favoritesCmd)
}

func withFavorites(fn func(store.Store, *zap.Logger) error) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	s, err := rt.favorites()
	if err != nil {
		return err
	}
	return fn(s, rt.logger)
}

// listFavorites writes the stored favorites as a table.
func listFavorites(ctx context.Context, s store.Store, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	list, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no favorites")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tPHONE\tWEBSITE")
	for i, u := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i, u.Name, orDash(u.Phone), orDash(u.Website))
	}
	return tw.Flush()
}

// removeFavorite deletes name and reports whether it was stored.
func removeFavorite(ctx context.Context, s store.Store, name string) (bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	u := models.University{Name: name}
	ok, err := s.IsFavorite(ctx, u)
	if err != nil || !ok {
		return false, err
	}
	if err := s.Remove(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}

func orDash(v string) string {
	if !models.Available(v) {
		return models.NotAvailable
	}
	return v
}

package cli

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/techwave/datastation/internal/config"
	"github.com/techwave/datastation/internal/database"
	"github.com/techwave/datastation/internal/entities"
	"github.com/techwave/datastation/internal/favorites"
)

const (
	FavoritesList   = "list"
	FavoritesRemove = "remove"
	FavoritesClear  = "clear"
	FavoritesToken  = "token"
)

// FavoritesCommand manages the locally stored favorites without starting the server.
type FavoritesCommand struct {
	Action       string
	DatabasePath string
	ID           string
	Token        string

	Out io.Writer
}

func NewFavoritesCommand() *FavoritesCommand {
	return &FavoritesCommand{Out: os.Stdout}
}

func (cmd *FavoritesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("favorites", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.ID, "id", "", "Document id (remove)")
	fs.StringVar(&cmd.Token, "value", "", "User token to store (token)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s favorites <list|remove|clear|token> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Inspect or edit the favorites kept in the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s favorites list\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s favorites remove -id doc-42 -db ./datastation.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s favorites token -value abc123\n", os.Args[0])
	}

	if len(args) == 0 {
		fs.Usage()
		return fmt.Errorf("action is required")
	}
	cmd.Action = args[0]

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch cmd.Action {
	case FavoritesList, FavoritesClear:
	case FavoritesRemove:
		if cmd.ID == "" {
			return fmt.Errorf("id is required for remove")
		}
	case FavoritesToken:
		if cmd.Token == "" {
			return fmt.Errorf("value is required for token")
		}
	default:
		fs.Usage()
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}

	return nil
}

func (cmd *FavoritesCommand) Run() error {
	db, err := database.NewQuietDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cmd.Action == FavoritesToken {
		if err := db.Settings().SetSetting(entities.SettingKeyUserToken, cmd.Token); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}
		fmt.Fprintf(cmd.Out, "User token stored\n")
		return nil
	}

	// No remote or syncer: edits made here are mirrored on the next server-side change.
	store, err := favorites.NewStore(db.Settings(), favorites.Options{})
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	switch cmd.Action {
	case FavoritesRemove:
		if !store.IsFavorited(cmd.ID) {
			fmt.Fprintf(cmd.Out, "%s is not a favorite\n", cmd.ID)
			return nil
		}
		if err := store.Remove(cmd.ID); err != nil {
			return fmt.Errorf("failed to remove favorite: %w", err)
		}
		fmt.Fprintf(cmd.Out, "Removed %s\n", cmd.ID)
		return nil

	case FavoritesClear:
		count := len(store.List())
		if err := store.ReplaceAll(nil); err != nil {
			return fmt.Errorf("failed to clear favorites: %w", err)
		}
		fmt.Fprintf(cmd.Out, "Cleared %d favorites\n", count)
		return nil
	}

	entries := store.List()
	if len(entries) == 0 {
		fmt.Fprintf(cmd.Out, "No favorites\n")
		return nil
	}
	fmt.Fprintf(cmd.Out, "=== Favorites (%d) ===\n", len(entries))
	for i, entry := range entries {
		fmt.Fprintf(cmd.Out, "%d. %s (%s)\n   %s\n", i+1, entry.Title, entry.ID, entry.URL)
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/13-4dev98/predlozka-bot/internal/blockstore"
	"github.com/13-4dev98/predlozka-bot/internal/config"
)

// newBlocklistCmd gives operators direct access to the block list without
// going through chat controls, e.g. to clean up after a misclick while the
// bot is down.
func newBlocklistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocklist",
		Short: "Inspect and edit the blocked sender list",
	}
	cmd.PersistentFlags().String("db-path", "", "Path to the sqlite block list (default: suggestion_bot.db).")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print all blocked sender ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openBlocklist(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Println("block list is empty")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <user-id>",
		Short: "Block a sender id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserIDArg(args[0])
			if err != nil {
				return err
			}
			store, err := openBlocklist(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Block(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("blocked %d\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <user-id>",
		Short: "Unblock a sender id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserIDArg(args[0])
			if err != nil {
				return err
			}
			store, err := openBlocklist(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			removed, err := store.Unblock(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Printf("%d was not blocked\n", id)
				return nil
			}
			fmt.Printf("unblocked %d\n", id)
			return nil
		},
	})

	return cmd
}

func openBlocklist(cmd *cobra.Command) (*blockstore.Store, error) {
	path, _ := cmd.Flags().GetString("db-path")
	if path == "" {
		cfg, err := config.FromViper()
		if err != nil {
			return nil, err
		}
		path = cfg.DBPath
	}
	return blockstore.Open(path)
}

func parseUserIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id: %s", raw)
	}
	return id, nil
}

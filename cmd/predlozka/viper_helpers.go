package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// overrideFromFlags copies explicitly-set command flags into viper so that
// config.FromViper sees them. Flag values win over env and config file.
func overrideFromFlags(cmd *cobra.Command, pairs map[string]string) {
	for flagName, viperKey := range pairs {
		if !cmd.Flags().Changed(flagName) {
			continue
		}
		if f := cmd.Flags().Lookup(flagName); f != nil {
			viper.Set(viperKey, f.Value.String())
		}
	}
}

func botFlagPairs() map[string]string {
	return map[string]string{
		"bot-token":          "bot_token",
		"admin-ids":          "admin_ids",
		"moderation-chat-id": "moderation_chat_id",
		"db-path":            "db_path",
		"state-dir":          "state_dir",
	}
}

func addBotFlags(cmd *cobra.Command) {
	cmd.Flags().String("bot-token", "", "Telegram bot token (or PREDLOZKA_BOT_TOKEN).")
	cmd.Flags().String("admin-ids", "", "Comma-separated moderator user ids (or PREDLOZKA_ADMIN_IDS).")
	cmd.Flags().String("moderation-chat-id", "", "Chat id suggestions are forwarded to (or PREDLOZKA_MODERATION_CHAT_ID).")
	cmd.Flags().String("db-path", "", "Path to the sqlite block list (default: suggestion_bot.db).")
	cmd.Flags().String("state-dir", "", "Directory for runtime state such as the poll offset (default: .predlozka).")
}

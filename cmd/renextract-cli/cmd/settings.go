package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"renextract/internal/application"
	"renextract/internal/i18n"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and change application settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the settings, or one dotted key",
	Long: `Print the settings document, or the value of one dotted key.

Examples:
  renextract-cli settings get
  renextract-cli settings get autoOpenings.files`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := GetApp().Stores.Settings
		if !settings.Load(cmd.Context()) {
			pterm.Warning.Println("settings not loaded, showing defaults")
		}

		raw, err := json.Marshal(settings.Snapshot())
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}

		var value any = doc
		if len(args) == 1 {
			v, ok := lookup(doc, args[0])
			if !ok {
				return &application.SettingError{Key: args[0], Reason: "no such setting"}
			}
			value = v
		}

		if s, ok := value.(string); ok {
			fmt.Println(s)
			return nil
		}
		out, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting and save it on the backend",
	Long: `Change a dotted setting key and save the settings at once.

true/false and numbers are converted; anything else is kept as text.

Examples:
  renextract-cli settings set language en
  renextract-cli settings set autoOpenings.reports false
  renextract-cli settings set reconstruction.saveMode overwrite`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		settings := GetApp().Stores.Settings
		if !settings.Load(ctx) {
			return application.ErrNotLoaded
		}

		value := application.ParseSettingValue(args[1])
		if err := settings.SetSetting(args[0], value); err != nil {
			return err
		}
		if !settings.SyncNow(ctx) {
			return errors.New("settings not saved")
		}
		pterm.Success.Printfln("%s = %v", args[0], value)
		return nil
	},
}

var i18nCmd = &cobra.Command{
	Use:   "i18n",
	Short: "Inspect interface translations",
}

var i18nLookupCmd = &cobra.Command{
	Use:   "lookup <key>",
	Short: "Translate a key in the current language",
	Long: `Translate a dotted key such as navigation.extraction. Unknown keys
get a suggestion.

Examples:
  renextract-cli i18n lookup navigation.coherence
  renextract-cli --lang en i18n lookup actions.extract`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		text := i18n.T(key)
		if text != key {
			fmt.Println(text)
			return nil
		}
		if guess, ok := i18n.Default().Suggest(key); ok {
			return fmt.Errorf("unknown key %q, did you mean %q?", key, guess)
		}
		return fmt.Errorf("unknown key %q", key)
	},
}

// lookup walks a dotted key through a decoded JSON document.
func lookup(doc map[string]any, key string) (any, bool) {
	var node any = doc
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	rootCmd.AddCommand(i18nCmd)
	i18nCmd.AddCommand(i18nLookupCmd)
}

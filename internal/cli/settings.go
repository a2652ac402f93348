package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show settings and manage the suggestion API key",
	}
	cmd.AddCommand(a.newConfigSetKeyCmd(), a.newConfigShowCmd())
	return cmd
}

func (a *app) newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key [key]",
		Short: "Store the Gemini API key",
		Long: `Store the API key used for metadata suggestions. Without an argument the key
is read from a hidden prompt on a terminal, or from the first line of stdin.
An empty key clears the stored one.`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			ctx := cmd.Context()
			var key string
			if len(argv) == 1 {
				key = argv[0]
			} else {
				var err error
				if key, err = a.readKey(cmd); err != nil {
					return err
				}
			}

			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := st.SetAPIKey(ctx, key); err != nil {
				return err
			}
			if st.APIKey() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "API key saved")
			}
			return nil
		},
	}
}

// readKey prompts for the key without echo on a terminal, or reads a line
// from stdin otherwise.
func (a *app) readKey(cmd *cobra.Command) (string, error) {
	if a.isTerminal() {
		fmt.Fprint(cmd.ErrOrStderr(), "Gemini API key: ")
		key, err := a.readSecret()
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read API key: %w", err)
		}
		return key, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", nil
	}
	return strings.TrimSpace(line), nil
}

// maskKey hides all but the last four characters of key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func (a *app) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			key, source := st.APIKey(), "stored"
			if key == "" && a.settings.Suggest.APIKey != "" {
				key, source = a.settings.Suggest.APIKey, "environment"
			}
			dsn := ""
			if a.settings.DSN != "" {
				dsn = "(set)"
			}

			rows := [][2]string{
				{"config_dir", a.configDir},
				{"data_dir", a.dataDir},
				{"backend", a.settings.Backend},
				{"dsn", dsn},
				{"log_level", a.settings.LogLevel},
				{"suggest.model", a.settings.Suggest.Model},
				{"suggest.api_key", maskKey(key)},
			}
			if key != "" {
				rows = append(rows, [2]string{"suggest.api_key_source", source})
			}

			if a.flags.jsonMode {
				m := make(map[string]string, len(rows))
				for _, r := range rows {
					m[r[0]] = r[1]
				}
				return printJSON(cmd.OutOrStdout(), m)
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", labelStyle.Render(fmt.Sprintf("%-24s", r[0])), r[1])
			}
			return nil
		},
	}
}

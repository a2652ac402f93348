package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/forge/internal/theme"
)

// themeInfo describes a background value.
type themeInfo struct {
	Value    string `json:"value"`
	Preset   string `json:"preset,omitempty"`
	Color    string `json:"color"`
	Gradient bool   `json:"gradient"`
	Dark     bool   `json:"dark"`
}

func describeTheme(v string) themeInfo {
	info := themeInfo{
		Value:    v,
		Color:    theme.PickerColor(v, theme.Default().Color),
		Gradient: theme.IsGradient(v),
		Dark:     theme.IsDark(v),
	}
	if p, ok := theme.PresetByValue(v); ok {
		info.Preset = p.Name
	}
	return info
}

func (a *app) newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the background theme",
	}
	cmd.AddCommand(a.newThemeShowCmd(), a.newThemeSetCmd())
	return cmd
}

func (a *app) newThemeShowCmd() *cobra.Command {
	var presets bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current background",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if presets {
				if a.flags.jsonMode {
					return printJSON(w, theme.Presets)
				}
				for _, p := range theme.Presets {
					fmt.Fprintf(w, "%-20s %s\n", p.Name, p.Value)
				}
				return nil
			}

			st, done, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			info := describeTheme(theme.Resolve(st.Theme()))
			if a.flags.jsonMode {
				return printJSON(w, info)
			}
			preset := info.Preset
			if preset == "" {
				preset = "custom"
			}
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Background:"), info.Value)
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Preset:    "), preset)
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Color:     "), info.Color)
			fmt.Fprintf(w, "%s %t\n", labelStyle.Render("Gradient:  "), info.Gradient)
			fmt.Fprintf(w, "%s %t\n", labelStyle.Render("Dark:      "), info.Dark)
			return nil
		},
	}
	cmd.Flags().BoolVar(&presets, "presets", false, "list the available presets instead")
	return cmd
}

func (a *app) newThemeSetCmd() *cobra.Command {
	var (
		preset   string
		color    string
		gradient bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the background from a preset or a colour",
		Long: `Set the background to a preset (--preset "Midnight Void") or a custom
colour (--color "#1e293b"). With --gradient the colour becomes a radial
gradient lit from the top.`,
		Args: args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var value string
			switch {
			case preset != "" && color != "":
				return usageError{fmt.Errorf("use either --preset or --color, not both")}
			case preset != "":
				p, ok := theme.PresetByName(preset)
				if !ok {
					names := make([]string, len(theme.Presets))
					for i, p := range theme.Presets {
						names[i] = p.Name
					}
					return usageError{fmt.Errorf("unknown preset %q (choose from: %s)", preset, strings.Join(names, ", "))}
				}
				value = p.Value
			case color != "":
				if !theme.IsHexColor(color) {
					return usageError{fmt.Errorf("invalid colour %q: expected #rrggbb", color)}
				}
				value = theme.Build(strings.ToLower(color), gradient)
			default:
				return usageError{fmt.Errorf("one of --preset or --color is required")}
			}

			ctx := cmd.Context()
			st, done, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := st.SetTheme(ctx, value); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), describeTheme(value))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Background set to %s\n", value)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&preset, "preset", "", "preset name")
	fs.StringVar(&color, "color", "", "custom colour as #rrggbb")
	fs.BoolVar(&gradient, "gradient", false, "render the custom colour as a gradient")
	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanity-news/sanity/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the console theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			fmt.Println(a.themes.Current())
			return nil
		}

		switch args[0] {
		case "toggle":
			next, err := a.themes.Toggle()
			if err != nil {
				return err
			}
			fmt.Println(next)
		default:
			if err := a.themes.Set(theme.Theme(args[0])); err != nil {
				return err
			}
			fmt.Println(a.themes.Current())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harveysanders/picofade/fade"
)

// NewScriptCommand .
func NewScriptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "script",
		Short: "Print the fade steps of one cycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			for _, p := range fade.Phases() {
				fmt.Fprintf(w, "%s (%q)\n", bold.Sprint(p.Name), p.Message)
				for _, s := range p.Steps {
					fmt.Fprintf(w, "  %3d%% -> %3d%%  %s\n", s.Start, s.End, cfg.Fade.Duration)
				}
			}
			return nil
		},
	}
}

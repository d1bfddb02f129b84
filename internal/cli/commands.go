package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/misinfo-check/backend/internal/app"
	"github.com/zhouzirui/misinfo-check/backend/internal/store/chatlog"
)

func newCheckCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "check <text>",
		Short: "Run one full check and print the verdict",
		Long: `Run one full check: search, completion and classification.

Examples:
  checker check "Is the sky blue?"
  checker check "Who won the 2022 World Cup?" -v`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := app.NewPipeline(cmd.Context(), s.cfg, nil, s.logger)
			if err != nil {
				return err
			}

			res, err := pipeline.Check.Check(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("check %s: %w", res.ID, err)
			}
			return printJSON(cmd.OutOrStdout(), res.Verdict)
		},
	}
}

func newSearchCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Print the search context sent to the model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			augmentor, err := app.NewAugmentor(s.cfg.Search)
			if err != nil {
				return err
			}

			text, err := augmentor.SearchContext(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newClockCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "clock",
		Short: "Print the time context sent to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			augmentor, err := app.NewAugmentor(s.cfg.Search)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), augmentor.TimeContext())
			return nil
		},
	}
}

func newLogCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Print the stored chat log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := chatlog.Open(s.cfg.Store.ChatLogPath)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), store.Messages())
		},
	}
}

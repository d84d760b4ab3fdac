package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/autobill/internal/cli"
	"github.com/Veraticus/autobill/internal/config"
	"github.com/Veraticus/autobill/internal/parser"
	"github.com/Veraticus/autobill/internal/redact"
	"github.com/Veraticus/autobill/internal/screen"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <screen-dump>",
		Short: "Show what the parsers see on a single screen",
		Long: `Flatten a saved accessibility tree (YAML or JSON), run the configured
parsers over it and print the recognized bill together with the redacted
evidence that would be sent for classification. Nothing is recorded.`,
		Example: `  autobill parse wechat-success.yaml --app com.tencent.mm
  autobill parse --text "支付成功 ¥25.00 收款方 星巴克" --app com.tencent.mm`,
		Args: cobra.MaximumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().String("app", parser.WeChatAppID, "source app package id")
	cmd.Flags().String("text", "", "parse this screen text instead of a dump file")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	appID, _ := cmd.Flags().GetString("app")
	text, _ := cmd.Flags().GetString("text")

	if text == "" {
		if len(args) == 0 {
			return fmt.Errorf("either a screen dump or --text is required")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read screen dump: %w", err)
		}
		root, err := screen.DecodeTree(data)
		if err != nil {
			return err
		}
		text = screen.Flatten(root)
	}

	registry, err := parser.RegistryFromNames(viper.GetStringSlice(config.KeyParsers))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatInfo("Screen text: "+strings.TrimSpace(text)))

	bill, ok := registry.Parse(appID, text)
	if !ok {
		fmt.Fprintln(out, cli.FormatWarning("Not a bill confirmation screen"))
		return nil
	}

	fmt.Fprintln(out, cli.RenderCandidate(bill, redact.New().Redact(bill.EvidenceText)))
	return nil
}

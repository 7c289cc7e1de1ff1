// settlement 는 서버 없이 정산 파일을 JSON 으로 풀어 보는 도구다.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jungsanbot/backend/internal/domain"
	"github.com/jungsanbot/backend/internal/settlement"
	"github.com/spf13/cobra"
)

type parseOptions struct {
	password   string
	branchName string
	outputPath string
	pretty     bool
	daily      bool
}

type parseOutput struct {
	*domain.SettlementParseResult
	Daily []domain.RiderDailyOrders `json:"dailyOrders,omitempty"`
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "settlement",
		Short:        "정산 파일 도구",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newParseCmd())
	return rootCmd
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [input.xlsx]",
		Short: "암호화된 정산 파일을 JSON 으로 변환한다",
		Long: `정산 파일을 복호화해 종합, 오더별 상세 내역서, 협력사 자체 미션 시트를 읽고
요약, 주문 상세, 미션 행을 JSON 으로 출력한다.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "파일 비밀번호")
	cmd.Flags().StringVarP(&opts.branchName, "branch", "b", "", "주문 상세에 붙일 지사명")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "JSON 들여쓰기")
	cmd.Flags().BoolVar(&opts.daily, "daily", false, "라이더별 일자별 오더수 포함")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runParse(stdout io.Writer, inputPath string, opts *parseOptions) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("파일을 읽을 수 없습니다: %w", err)
	}

	result, err := settlement.Parse(data, opts.password, opts.branchName)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		slog.Warn(w, "file", inputPath)
	}

	out := parseOutput{SettlementParseResult: result}
	if opts.daily {
		out.Daily = settlement.DailyOrders(result.Details)
	}

	var jsonData []byte
	if opts.pretty {
		jsonData, err = json.MarshalIndent(out, "", "  ")
	} else {
		jsonData, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("JSON 변환 실패: %w", err)
	}

	if opts.outputPath != "" {
		if err := os.WriteFile(opts.outputPath, jsonData, 0o644); err != nil {
			return fmt.Errorf("출력 파일을 쓸 수 없습니다: %w", err)
		}
		return nil
	}

	_, err = fmt.Fprintln(stdout, string(jsonData))
	return err
}

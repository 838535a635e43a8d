package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/knakagawa/harigami/internal/config"
	"github.com/knakagawa/harigami/internal/generate"
	"github.com/knakagawa/harigami/internal/web"
	"github.com/knakagawa/harigami/internal/workorder"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "harigami",
	Short: "Generate notice documents from a work-order workbook",
	Long: `harigami reads work-order rows from an Excel workbook and produces one
notice docx per valid row by substituting date, time and property name into a
Word template. The results are bundled into a single zip archive.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate notices for every valid row of the workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		workbookPath, _ := cmd.Flags().GetString("workbook")
		templatePath, _ := cmd.Flags().GetString("template")
		outPath, _ := cmd.Flags().GetString("out")
		if templatePath == "" {
			templatePath = cfg.TemplatePath
		}
		if outPath == "" {
			outPath = cfg.ArchiveName
		}

		tmpl, err := generate.TemplateFromFile(templatePath)
		if err != nil {
			return err
		}

		wb, err := workorder.Open(workbookPath)
		if err != nil {
			return err
		}
		defer wb.Close()

		records, err := wb.Records(cfg.SheetName)
		if err != nil {
			return err
		}
		fmt.Printf("📊 %d件のデータを読み込みました。文書生成を開始します...\n", len(records))

		gen := generate.New(tmpl, cfg.OutputDir, slog.Default())
		gen.Progress = func(done, total int) {
			fmt.Printf("\r処理中: %d / %d 件完了", done, total)
		}

		report, err := gen.Run(records)
		if err != nil {
			return err
		}
		defer generate.Cleanup(report)
		fmt.Println()

		if report.Generated() == 0 {
			return fmt.Errorf("文書の生成に失敗したか、対象データがありません")
		}

		archive, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create archive %s: %w", outPath, err)
		}
		defer archive.Close()
		if err := generate.Archive(archive, report); err != nil {
			return err
		}

		fmt.Printf("🎉 %d / %d 件の通知文書を %s に生成しました\n", report.Generated(), report.Total, outPath)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ListenAddr = addr
		}

		server := web.New(cfg, slog.Default())
		slog.Info("listening", "addr", cfg.ListenAddr)
		return http.ListenAndServe(cfg.ListenAddr, server.Handler())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	generateCmd.Flags().String("workbook", "", "Path to the work-order workbook (.xlsx)")
	generateCmd.Flags().String("template", "", "Path to the notice template (.docx)")
	generateCmd.Flags().String("out", "", "Path of the resulting zip archive")
	generateCmd.MarkFlagRequired("workbook")

	serveCmd.Flags().String("addr", "", "Listen address, e.g. :8080")

	rootCmd.AddCommand(generateCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ エラーが発生しました: %v\n", err)
		os.Exit(1)
	}
}

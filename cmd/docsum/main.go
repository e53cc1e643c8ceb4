package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"gopkg.in/alecthomas/kingpin.v2"

	"docsum/internal/config"
	"docsum/internal/domain"
	"docsum/internal/languages"
	"docsum/internal/logger"
	"docsum/internal/report"
	"docsum/internal/tui"
	"docsum/internal/watcher"
)

var (
	cli     = kingpin.New("docsum", "Extract, translate and summarize PDF and image documents.")
	cfgPath = cli.Flag("config", "Path to YAML config file (uses ./config.yaml or ~/.config/docsum/config.yaml if not provided).").Short('c').String()

	summarizeCmd    = cli.Command("summarize", "Process one document and write a report.")
	summarizeFile   = summarizeCmd.Arg("file", "PDF or image to process.").Required().ExistingFile()
	summarizeTarget = summarizeCmd.Flag("target", "Target language code or name.").Short('t').String()
	summarizeRatio  = summarizeCmd.Flag("ratio", "Fraction of sentences kept in the summary.").Float64()
	summarizeSum    = summarizeCmd.Flag("summarize", "Also summarize the document (--no-summarize only translates).").Default("true").Bool()
	summarizeOut    = summarizeCmd.Flag("out", "Report directory.").Short('o').String()
	summarizeFormat = summarizeCmd.Flag("format", "Report format: md or docx.").Short('f').String()
	summarizeStdout = summarizeCmd.Flag("stdout", "Print the markdown report instead of writing a file.").Bool()

	tuiCmd    = cli.Command("tui", "Interactive terminal UI.")
	tuiFile   = tuiCmd.Arg("file", "Document to open on start.").String()
	tuiTarget = tuiCmd.Flag("target", "Initial target language.").Short('t').String()
	tuiLog    = tuiCmd.Flag("log-file", "Where to write logs while the UI owns the terminal.").Default("docsum.log").String()

	watchCmd    = cli.Command("watch", "Process every document dropped into a directory.")
	watchDir    = watchCmd.Arg("dir", "Inbox directory.").String()
	watchTarget = watchCmd.Flag("target", "Target language code or name.").Short('t').String()

	languagesCmd = cli.Command("languages", "List supported target languages.")
)

func main() {
	_ = godotenv.Load()

	cmd := kingpin.MustParse(cli.Parse(os.Args[1:]))

	if cmd == languagesCmd.FullCommand() {
		printLanguages()
		return
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case summarizeCmd.FullCommand():
		err = runSummarize(ctx, cfg)
	case tuiCmd.FullCommand():
		err = runTUI(ctx, cfg)
	case watchCmd.FullCommand():
		err = runWatch(ctx, cfg)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "docsum: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	var cfg *config.AppConfig
	var err error
	if path == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyTarget resolves a code or language name from the command line.
func applyTarget(cfg *config.AppConfig, flag string) error {
	if flag == "" {
		return nil
	}
	l, ok := languages.Lookup(flag)
	if !ok {
		return eris.Errorf("unsupported target language %q (see `docsum languages`)", flag)
	}
	cfg.Translator.Target = l.Code
	return nil
}

func runSummarize(ctx context.Context, cfg *config.AppConfig) error {
	if err := applyTarget(cfg, *summarizeTarget); err != nil {
		return err
	}
	if *summarizeRatio != 0 {
		cfg.Summarizer.Ratio = *summarizeRatio
	}
	if *summarizeOut != "" {
		cfg.Output.Dir = *summarizeOut
	}
	if *summarizeFormat != "" {
		cfg.Output.Format = *summarizeFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	a, err := assemble(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.pipeline.ProcessFile(ctx, *summarizeFile, cfg.Translator.Target, *summarizeSum)
	if err != nil {
		return err
	}
	if *summarizeStdout {
		fmt.Print(report.Markdown(rep))
		return nil
	}
	path, err := report.Write(rep, cfg.Output.Dir, format)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runTUI(ctx context.Context, cfg *config.AppConfig) error {
	if err := applyTarget(cfg, *tuiTarget); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(*tuiLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return eris.Wrap(err, "open log file")
	}
	defer f.Close()
	log := logger.NewWithWriter(f, cfg.Logging.Level, cfg.Logging.Format)

	a, err := assemble(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	save := func(rep *domain.Report) (string, error) {
		return report.Write(rep, cfg.Output.Dir, format)
	}
	m := tui.New(ctx, a.pipeline, save, cfg.Translator.Target, *tuiFile)
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

func runWatch(ctx context.Context, cfg *config.AppConfig) error {
	if err := applyTarget(cfg, *watchTarget); err != nil {
		return err
	}
	if *watchDir != "" {
		cfg.Watcher.Dir = *watchDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Watcher.Dir, 0o755); err != nil {
		return eris.Wrap(err, "create inbox")
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	a, err := assemble(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := func(ctx context.Context, path string) error {
		rep, err := a.pipeline.ProcessFile(ctx, path, cfg.Translator.Target, true)
		if err != nil {
			return err
		}
		out, err := report.Write(rep, cfg.Output.Dir, format)
		if err != nil {
			return err
		}
		log.Info(ctx, "[DONE] %s -> %s", filepath.Base(path), out)
		return nil
	}

	w, err := watcher.New(cfg.Watcher.Dir, handler, log, watcher.Options{
		MaxConcurrent: cfg.Watcher.MaxConcurrent,
		SettleDelay:   cfg.Watcher.SettleDelay(),
		ScanExisting:  cfg.Watcher.ScanExisting,
	})
	if err != nil {
		return err
	}
	defer w.Stop()
	return w.Start(ctx)
}

func printLanguages() {
	fmt.Printf("%-5s %-10s %s\n", "CODE", "LANGUAGE", "EST. ACCURACY")
	for _, l := range languages.All() {
		fmt.Printf("%-5s %-10s %d%%\n", l.Code, l.Name, l.Accuracy)
	}
}

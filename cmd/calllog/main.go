package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin"
	"go.uber.org/zap"
	"kastelo.dev/calllog"
	"kastelo.dev/calllog/excel"
)

var (
	internalKeywords = []string{"内線通話", "内線"}
	externalKeywords = []string{"外線着信", "外線"}
	outboundKeywords = []string{"発信"}
)

func main() {
	dir := kingpin.Flag("dir", "Working directory holding the input workbooks").Default(".").String()
	configFile := kingpin.Flag("config", "YAML file overriding the built-in configuration").Default(calllog.DefaultConfigFile).String()
	debug := kingpin.Flag("debug", "Enable debug logging").Bool()

	cmdMerge := kingpin.Command("merge", "Merge the phone-system exports into one workbook")
	mergeOut := cmdMerge.Flag("output", "Merged workbook name").Default(calllog.MergedFile).String()

	cmdAnalyze := kingpin.Command("analyze", "Aggregate call logs into a formatted report")
	analyzeInput := cmdAnalyze.Arg("input", "Only read this workbook or CSV file").String()
	analyzeRoster := cmdAnalyze.Flag("roster-from-files", "Read the reduced-hours roster from a 時短 sheet or file").Bool()
	analyzeNoDecorate := cmdAnalyze.Flag("no-decorate", "Skip styling the report").Bool()

	cmdDecorate := kingpin.Command("decorate", "Style an existing report workbook")
	decorateInput := cmdDecorate.Arg("report", "Report workbook").Required().String()

	cmdTemplate := kingpin.Command("template", "Build the formula-linked template from a report")
	templateInput := cmdTemplate.Arg("report", "Report workbook (default: latest 集計結果_*.xlsx)").String()

	cmdInspect := kingpin.Command("inspect", "Print sheets, columns and leading rows of a workbook")
	inspectInput := cmdInspect.Arg("workbook", "Workbook to inspect (default: the merged workbook)").String()
	inspectOut := cmdInspect.Flag("output", "Write to this file instead of stdout").String()

	cmd := kingpin.Parse()

	log, err := calllog.NewLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := calllog.LoadConfig(configPath(*dir, *configFile))
	if err != nil {
		log.Fatal("Loading configuration", zap.Error(err))
	}

	switch cmd {
	case cmdMerge.FullCommand():
		err = runMerge(log, cfg, *dir, *mergeOut)
	case cmdAnalyze.FullCommand():
		err = runAnalyze(log, cfg, *dir, *analyzeInput, *analyzeRoster, !*analyzeNoDecorate)
	case cmdDecorate.FullCommand():
		err = excel.Decorate(*decorateInput, cfg.Font)
	case cmdTemplate.FullCommand():
		err = runTemplate(log, *dir, *templateInput)
	case cmdInspect.FullCommand():
		err = runInspect(*dir, *inspectInput, *inspectOut)
	}
	if err != nil {
		log.Error("Failed", zap.String("command", cmd), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

// configPath resolves a relative config file name against dir.
func configPath(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	if _, err := os.Stat(file); err == nil {
		return file
	}
	return filepath.Join(dir, file)
}

func runMerge(log *zap.Logger, cfg *calllog.Config, dir, output string) error {
	m := &calllog.Merger{Dir: dir, Output: output, Config: cfg, Log: log}
	tables, err := m.Merge()
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		return calllog.ErrNoData
	}
	path := filepath.Join(dir, filepath.Base(output))
	if err := excel.WriteTables(path, tables); err != nil {
		return err
	}
	log.Info("Wrote merged workbook", zap.String("file", path), zap.Int("sheets", len(tables)))
	return nil
}

func runAnalyze(log *zap.Logger, cfg *calllog.Config, dir, input string, rosterFromFiles, decorate bool) error {
	fd := &calllog.Finder{Dir: dir, Input: input}

	internal, src, err := fd.Find(internalKeywords, outboundKeywords)
	if err != nil {
		return err
	}
	if internal != nil {
		log.Info("Reading internal calls", zap.Stringer("source", src), zap.Int("rows", internal.Len()))
	}
	external, src, err := fd.Find(externalKeywords, outboundKeywords)
	if err != nil {
		return err
	}
	if external != nil {
		log.Info("Reading external calls", zap.Stringer("source", src), zap.Int("rows", external.Len()))
	}

	a := &calllog.Analyzer{Config: cfg, Log: log}
	if rosterFromFiles {
		roster, src, err := calllog.FindRoster(dir, "")
		switch {
		case err != nil:
			log.Warn("Reading roster, using configured roster", zap.Error(err))
		case roster == nil:
			log.Info("No roster file found, using configured roster")
		default:
			log.Info("Reading roster", zap.Stringer("source", src), zap.Int("staff", len(roster)))
			a.Roster = roster
		}
	}

	rep, err := a.Analyze(internal, external)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, calllog.ReportName(time.Now()))
	if err := excel.WriteReport(path, rep); err != nil {
		return err
	}
	log.Info("Wrote report", zap.String("file", path))

	if decorate {
		if err := excel.Decorate(path, cfg.Font); err != nil {
			log.Warn("Report left unstyled", zap.Error(err))
			return nil
		}
		log.Info("Styled report", zap.String("file", path))
	}
	return nil
}

func runTemplate(log *zap.Logger, dir, input string) error {
	if input == "" {
		latest, err := excel.LatestReport(dir)
		if err != nil {
			return fmt.Errorf("集計結果_*.xlsx: %w", err)
		}
		input = latest
	}
	log.Info("Using report", zap.String("file", input))

	tables, err := excel.ReadReport(input)
	if err != nil {
		return err
	}
	for _, t := range tables {
		log.Info("Read sheet", zap.String("sheet", t.Name), zap.Int("rows", t.Len()))
	}

	path := filepath.Join(dir, excel.TemplateFile)
	if err := excel.WriteTemplate(path, tables); err != nil {
		return err
	}
	log.Info("Wrote template", zap.String("file", path))
	return nil
}

func runInspect(dir, input, output string) error {
	if input == "" {
		input = filepath.Join(dir, calllog.MergedFile)
	}
	if output == "" {
		return calllog.Inspect(os.Stdout, input)
	}

	fd, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := calllog.Inspect(fd, input); err != nil {
		_ = fd.Close()
		return err
	}
	return fd.Close()
}

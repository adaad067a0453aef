package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tcdump/adapters/archive"
	"tcdump/adapters/excel"
	"tcdump/adapters/idgen"
	"tcdump/adapters/inventory"
	"tcdump/adapters/xmldump"
	"tcdump/app"
	"tcdump/domain/core"
	"tcdump/internal"
	"tcdump/internal/config"
	apperrors "tcdump/internal/errors"
)

// convertOptions are the flags that override the environment configuration
type convertOptions struct {
	sheet          string
	projectDump    string
	outputJSON     string
	outputXML      string
	outputTestCase string
	zipPath        string
	seed           int64
	skipDump       bool
}

func (o *convertOptions) bindInput(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "Worksheet to read (default: first sheet)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "Random seed for identifier generation (default: time based)")
}

func (o *convertOptions) bind(cmd *cobra.Command) {
	o.bindInput(cmd)
	cmd.Flags().StringVar(&o.projectDump, "project-dump", "", "Project dump to update (default: project_dump.xml)")
	cmd.Flags().StringVar(&o.outputJSON, "output-json", "", "Path of the intermediate JSON inventory (default: output.json)")
	cmd.Flags().StringVar(&o.outputXML, "output-xml", "", "Path of the generated test elements XML (default: output_test_elements.xml)")
	cmd.Flags().StringVar(&o.outputTestCase, "output-testcase", "", "Path of the generated test case XML (default: output_testcase.xml)")
	cmd.Flags().StringVar(&o.zipPath, "zip-path", "", "Path of the zipped project dump (default: project_dump.zip)")
	cmd.Flags().BoolVar(&o.skipDump, "skip-dump", false, "Only write the generated files, leave the project dump alone")
}

// resolve loads the environment configuration and applies the flags set on cmd
func (o *convertOptions) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Input.Spreadsheet = args[0]
	}
	flags := cmd.Flags()
	override := func(name string, target *string, value string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*target = value
		}
	}
	override("sheet", &cfg.Input.Sheet, o.sheet)
	override("project-dump", &cfg.Input.ProjectDump, o.projectDump)
	override("output-json", &cfg.Output.InventoryJSON, o.outputJSON)
	override("output-xml", &cfg.Output.TestElementsXML, o.outputXML)
	override("output-testcase", &cfg.Output.TestCaseXML, o.outputTestCase)
	override("zip-path", &cfg.Output.ZipPath, o.zipPath)
	if flags.Changed("seed") {
		cfg.Generation.Seed = o.seed
	}
	if flags.Lookup("skip-dump") != nil && flags.Changed("skip-dump") {
		cfg.Output.SkipDump = o.skipDump
	}

	if strings.TrimSpace(cfg.Input.Spreadsheet) == "" {
		return nil, apperrors.ConfigInvalid("a spreadsheet is required (argument or TCDUMP_INPUT)")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *internal.Logger {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	internal.DefaultLogger = logger
	return logger
}

// convertSheet reads the sheet and runs the conversion
func convertSheet(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*app.Result, error) {
	rows, err := excel.NewDataReader(cfg.Input.Spreadsheet, cfg.Input.Sheet, logger).ReadRows()
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, apperrors.IOError(cfg.Input.Spreadsheet, err)
		case core.IsNotFoundError(err):
			return nil, apperrors.NotFound(fmt.Sprintf("sheet %q of %s", cfg.Input.Sheet, cfg.Input.Spreadsheet))
		}
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}

	logger.Debug("generating identifiers with seed %d", cfg.Generation.Seed)
	service := app.NewConversionService(idgen.NewRandom(cfg.Generation.Seed), logger)
	result, err := service.Convert(ctx, rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "conversion failed")
	}
	return result, nil
}

func runConvert(ctx context.Context, cfg *config.Config, logger *internal.Logger, out io.Writer) (*app.Result, error) {
	// 1. Read and convert the sheet
	result, err := convertSheet(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// 2. Write the intermediate inventory and the generated XML files
	if cfg.Output.InventoryJSON != "" {
		if err := inventory.WriteFile(cfg.Output.InventoryJSON, result.Rows, result.Inventory, logger); err != nil {
			return nil, apperrors.IOError(cfg.Output.InventoryJSON, err)
		}
	}
	elements := xmldump.BuildTestElements(result.Graph)
	testcase := xmldump.BuildTestCase(result.TestCase)
	if err := writeXML(cfg.Output.TestElementsXML, elements, logger); err != nil {
		return nil, err
	}
	if err := writeXML(cfg.Output.TestCaseXML, testcase, logger); err != nil {
		return nil, err
	}

	// 3. Update, check and archive the project dump
	if !cfg.Output.SkipDump {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := updateProjectDump(cfg.Input.ProjectDump, elements, testcase, logger); err != nil {
			return nil, err
		}
		if err := archive.ZipFile(cfg.Input.ProjectDump, cfg.Output.ZipPath, logger); err != nil {
			return nil, apperrors.IOError(cfg.Output.ZipPath, err)
		}
	}

	printSummary(out, result.Summary)
	return result, nil
}

func runInspect(ctx context.Context, cfg *config.Config, logger *internal.Logger, out io.Writer, asJSON bool) error {
	result, err := convertSheet(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if asJSON {
		return inventory.Write(out, result.Rows, result.Inventory)
	}

	printSummary(out, result.Summary)
	fmt.Fprintln(out)
	for _, sd := range result.Graph.Subdivisions {
		for _, ia := range sd.Interactions {
			types := make([]string, 0, ia.Arity())
			for _, p := range ia.Parameters {
				types = append(types, p.Datatype)
			}
			fmt.Fprintf(out, "%-16s %-24s %s\n", sd.Name, ia.Name, strings.Join(types, ", "))
		}
	}
	return nil
}

func writeXML(path string, v any, logger *internal.Logger) error {
	var buf bytes.Buffer
	if err := xmldump.Encode(&buf, v); err != nil {
		return apperrors.Wrap(err, "failed to render XML")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.IOError(path, err)
	}
	logger.Info("XML file saved at: %s", path)
	return nil
}

// updateProjectDump backs the dump up to <dump>.bak, splices the generated
// sections into it and checks the result. The dump is replaced only once the
// splice succeeded.
func updateProjectDump(path string, elements *xmldump.TestElements, testcase *xmldump.TestCaseElement, logger *internal.Logger) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return apperrors.IOError(path, err)
	}

	backup := path + ".bak"
	if err := os.WriteFile(backup, original, 0o644); err != nil {
		return apperrors.IOError(backup, err)
	}
	logger.Info("backup created at %s", backup)

	var spliced bytes.Buffer
	report, err := xmldump.Splice(bytes.NewReader(original), elements, testcase, &spliced)
	if err != nil {
		if core.IsStructureError(err) {
			return apperrors.DocumentStructure(fmt.Sprintf("cannot update %s", path), err)
		}
		return apperrors.Wrapf(err, "cannot update %s", path)
	}
	if report.ReplacedTestElements > 1 {
		logger.Warn("%s held %d <test-elements> sections; all but the first were dropped", path, report.ReplacedTestElements)
	}

	check, err := xmldump.Check(bytes.NewReader(spliced.Bytes()))
	if err != nil {
		return apperrors.DocumentStructure(fmt.Sprintf("updated %s failed the structural check", path), err)
	}
	for _, ref := range check.Dangling {
		logger.Warn("<%s pk=%q> references no element of %s", ref.Element, ref.PK, path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.IOError(path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(spliced.Bytes()); err != nil {
		tmp.Close()
		return apperrors.IOError(tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.IOError(tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.IOError(path, err)
	}

	logger.Info("%s updated: %d elements, %d references checked", path, check.Elements, check.References)
	return nil
}

func printSummary(out io.Writer, s app.Summary) {
	fmt.Fprintf(out, "Rows:            %d\n", s.Rows)
	fmt.Fprintf(out, "Call sites:      %d\n", s.Calls)
	fmt.Fprintf(out, "Descriptions:    %d\n", s.Descriptions)
	fmt.Fprintf(out, "Interactions:    %d (arity mean %.1f, max %.0f)\n", s.Interactions, s.MeanArity, s.MaxArity)
	fmt.Fprintf(out, "Calls per op:    mean %.1f, max %.0f\n", s.MeanCalls, s.MaxCalls)
	fmt.Fprintf(out, "Datatypes:       %d (%d representatives)\n", s.Datatypes, s.Representatives)
	fmt.Fprintf(out, "Bindings:        %d (%d empty fallbacks, %d unregistered)\n",
		s.Bindings.Bindings, s.Bindings.EmptyFallbacks, s.Bindings.Unregistered)
}

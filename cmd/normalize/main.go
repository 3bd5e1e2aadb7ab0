// Package main provides the normalize CLI: run the L2 Normalize layer on
// vectors and check its gradient.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/born-ml/normalize/internal/config"
	"github.com/born-ml/normalize/internal/gradcheck"
	"github.com/born-ml/normalize/internal/nn"
	"github.com/born-ml/normalize/internal/tensor"
)

const version = "v0.1.0-dev"

func main() {
	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	logger := zap.NewNop()

	return &cli.App{
		Name:      "normalize",
		Usage:     "L2-normalize vectors and verify the layer gradient",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			l, err := newLogger(c.Bool("debug"))
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			logger = l
			return nil
		},
		After: func(*cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "Show version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "normalize %s\n", version)
					return nil
				},
			},
			{
				Name:      "forward",
				Usage:     "Normalize each input line (one sample per line)",
				ArgsUsage: "[file]",
				Flags:     append(layerFlags(), &cli.StringFlag{Name: "dtype", Value: "float64", Usage: "Element type: float32 or float64"}),
				Action: func(c *cli.Context) error {
					return forwardCommand(c, logger)
				},
			},
			{
				Name:  "gradcheck",
				Usage: "Compare Backward with finite differences on random input",
				Flags: append(layerFlags(),
					&cli.StringFlag{Name: "dtype", Value: "float64", Usage: "Element type: float32 or float64"},
					&cli.IntFlag{Name: "num", Value: 2, Usage: "Number of samples"},
					&cli.IntFlag{Name: "dim", Value: 8, Usage: "Elements per sample"},
					&cli.Uint64Flag{Name: "seed", Value: 1701, Usage: "Seed for input and objective weights"},
					&cli.Float64Flag{Name: "stepsize", Value: 1e-2, Usage: "Finite-difference step"},
					&cli.Float64Flag{Name: "threshold", Value: 1e-3, Usage: "Allowed relative error"},
				),
				Action: func(c *cli.Context) error {
					return gradcheckCommand(c, logger)
				},
			},
		},
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// layerFlags are shared by commands that build a layer.
func layerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML layer definition",
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Override the engine: default or simd",
		},
		&cli.Float64Flag{
			Name:  "eps",
			Usage: "Override the norm lower bound (0 keeps NaN for zero vectors)",
		},
	}
}

// loadLayer builds a Normalize layer from --config plus flag overrides.
func loadLayer(c *cli.Context, logger *zap.Logger) (*nn.Normalize, error) {
	p := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		p = loaded
	}
	if c.IsSet("engine") {
		p.Normalize.Engine = config.Engine(c.String("engine"))
	}
	if c.IsSet("eps") {
		p.Normalize.Eps = c.Float64("eps")
	}
	return nn.NewNormalizeFromParam(p, nn.WithLogger(logger))
}

func forwardCommand(c *cli.Context, logger *zap.Logger) error {
	dtype, err := tensor.ParseDataType(c.String("dtype"))
	if err != nil {
		return err
	}

	in := c.App.Reader
	if c.Args().Len() > 0 {
		f, err := os.Open(c.Args().First())
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	rows, err := readRows(in)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	layer, err := loadLayer(c, logger)
	if err != nil {
		return err
	}
	defer layer.Close()

	bottom, err := blobFromRows(rows, dtype)
	if err != nil {
		return err
	}
	top := tensor.NewBlob(dtype)
	if err := nn.Forward(layer, []*tensor.Blob{bottom}, []*tensor.Blob{top}); err != nil {
		return err
	}

	return writeRows(c.App.Writer, top)
}

func gradcheckCommand(c *cli.Context, logger *zap.Logger) error {
	dtype, err := tensor.ParseDataType(c.String("dtype"))
	if err != nil {
		return err
	}
	num, dim := c.Int("num"), c.Int("dim")
	if num <= 0 || dim <= 0 {
		return fmt.Errorf("num and dim must be positive, got %d and %d", num, dim)
	}

	layer, err := loadLayer(c, logger)
	if err != nil {
		return err
	}
	defer layer.Close()

	checker := &gradcheck.Checker{
		Stepsize:  c.Float64("stepsize"),
		Threshold: c.Float64("threshold"),
		Seed:      c.Uint64("seed"),
	}

	rows := randomRows(checker.Seed, num, dim)
	bottom, err := blobFromRows(rows, dtype)
	if err != nil {
		return err
	}
	top := tensor.NewBlob(dtype)

	report, err := checker.CheckLayer(layer, bottom, top)
	logger.Info("gradient check finished",
		zap.Int("checked", report.Checked),
		zap.Float64("max_error", report.MaxError),
		zap.Error(err))
	fmt.Fprintf(c.App.Writer, "checked %d elements, max relative error %.3g\n", report.Checked, report.MaxError)
	if err != nil {
		return fmt.Errorf("gradient check failed: %w", err)
	}
	return nil
}

// readRows parses one sample per line. Values are separated by commas or
// whitespace; blank lines and lines starting with '#' are skipped.
func readRows(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = v
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("line %d: got %d values, want %d", line, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return rows, nil
}

func blobFromRows(rows [][]float64, dtype tensor.DataType) (*tensor.Blob, error) {
	shape := tensor.Shape{len(rows), len(rows[0])}
	flat := make([]float64, 0, shape.NumElements())
	for _, row := range rows {
		flat = append(flat, row...)
	}

	switch dtype {
	case tensor.Float32:
		narrow := make([]float32, len(flat))
		for i, v := range flat {
			narrow[i] = float32(v)
		}
		return tensor.NewBlobFromSlice(narrow, shape)
	default:
		return tensor.NewBlobFromSlice(flat, shape)
	}
}

func writeRows(w io.Writer, b *tensor.Blob) error {
	bw := bufio.NewWriter(w)
	dim := b.CountFrom(1)
	bits := 64
	var values []float64
	switch b.DType() {
	case tensor.Float32:
		bits = 32
		for _, v := range tensor.DataAs[float32](b) {
			values = append(values, float64(v))
		}
	default:
		values = tensor.DataAs[float64](b)
	}

	for i, v := range values {
		if i%dim != 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, bits))
		if i%dim == dim-1 {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// Command streamcheck replays a model transcript through a validating
// extractor so an extraction schema can be exercised without calling a
// model. It prints the consumer-visible text to stdout and logs typed
// extraction events.
//
// Replay a saved transcript in 16-byte chunks:
//
//	streamcheck -schema extract.yaml -transcript response.txt -chunk 16
//
// Or feed chunks interactively, one line each:
//
//	streamcheck -schema extract.yaml -i
//
// Interactive commands: :flush, :retry N, :reset, :diag, :state, :quit.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/okanwa/tagstream"
	"github.com/okanwa/tagstream/schema"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		schemaPath  = flag.String("schema", "", "YAML extraction schema (required)")
		transcript  = flag.String("transcript", "", "transcript file to replay")
		chunkSize   = flag.Int("chunk", 64, "replay chunk size in bytes")
		interactive = flag.Bool("i", false, "read chunks interactively, one line each")
		rich        = flag.Bool("rich", true, "log typed events (rich consumer mode)")
		debug       = flag.Bool("debug", false, "also log per-chunk events")
	)
	flag.Parse()

	if *schemaPath == "" {
		return errors.New("-schema is required")
	}
	if *transcript == "" && !*interactive {
		return errors.New("pass -transcript or -i")
	}
	if *chunkSize <= 0 {
		return fmt.Errorf("invalid chunk size %d", *chunkSize)
	}

	logger, err := newLogger(*debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := schema.LoadFile(*schemaPath)
	if err != nil {
		return err
	}

	vcfg := cfg.Validating()
	vcfg.OnChunk = func(content, field string) {
		fmt.Print(content)
	}
	vcfg.RichConsumer = *rich
	if *rich {
		vcfg.OnEvent = func(e tagstream.Event) { logEvent(logger, e) }
	}
	ex := tagstream.NewValidating(vcfg)

	if *interactive {
		return runInteractive(ex, logger)
	}
	return replayFile(ex, logger, *transcript, *chunkSize)
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	// Keep stdout clean for the extracted text.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// replayFile pushes the transcript through the extractor in fixed-size
// chunks, mimicking how a model streams its response.
func replayFile(ex *tagstream.ValidatingExtractor, logger *zap.Logger, path string, chunkSize int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read transcript: %w", err)
	}

	text := string(data)
	for len(text) > 0 {
		n := chunkSize
		if n > len(text) {
			n = len(text)
		}
		if _, err := ex.Push(text[:n]); err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
		text = text[n:]
	}

	fmt.Print(ex.Flush())
	fmt.Println()
	reportDiagnosis(logger, ex)
	return nil
}

func runInteractive(ex *tagstream.ValidatingExtractor, logger *zap.Logger) error {
	rl, err := readline.New("chunk> ")
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		if strings.HasPrefix(line, ":") {
			if quit := command(ex, logger, line); quit {
				return nil
			}
			continue
		}

		if _, err := ex.Push(line + "\n"); err != nil {
			logger.Warn("push rejected", zap.Error(err))
		}
	}
}

// command handles one interactive ":" command and reports whether the
// loop should exit.
func command(ex *tagstream.ValidatingExtractor, logger *zap.Logger, line string) bool {
	parts := strings.Fields(line)
	switch parts[0] {
	case ":quit", ":q":
		return true
	case ":flush":
		fmt.Print(ex.Flush())
		fmt.Println()
	case ":reset":
		ex.Reset()
		logger.Info("extractor reset")
	case ":retry":
		count := 1
		if len(parts) > 1 {
			if n, err := strconv.Atoi(parts[1]); err == nil {
				count = n
			}
		}
		emitted, validated := ex.SignalRetry(count)
		logger.Info("retry signalled",
			zap.Bool("had_emission", emitted),
			zap.Strings("validated", validated))
	case ":diag":
		reportDiagnosis(logger, ex)
	case ":state":
		logger.Info("extractor state", zap.Stringer("state", ex.State()))
	default:
		logger.Warn("unknown command", zap.String("command", parts[0]))
	}
	return false
}

func reportDiagnosis(logger *zap.Logger, ex *tagstream.ValidatingExtractor) {
	d := ex.Diagnose()
	logger.Info("diagnosis",
		zap.Stringer("state", ex.State()),
		zap.Strings("missing", d.Missing),
		zap.Strings("invalid", d.Invalid),
		zap.Strings("incomplete", d.Incomplete))
}

func logEvent(logger *zap.Logger, e tagstream.Event) {
	switch ev := e.(type) {
	case *tagstream.FieldValidatedEvent:
		logger.Info("field validated", zap.String("field", ev.Field))
	case *tagstream.ErrorEvent:
		logger.Warn("extraction error",
			zap.String("field", ev.Field),
			zap.String("message", ev.Message))
	case *tagstream.RetryStartEvent:
		logger.Info("retry starting",
			zap.Int("retry", ev.RetryCount),
			zap.Strings("validated", ev.ValidatedFields))
	case *tagstream.RetryContextEvent:
		logger.Info("retry context available",
			zap.Strings("validated", ev.ValidatedFields))
	case *tagstream.ChunkEvent:
		logger.Debug("chunk emitted",
			zap.String("field", ev.Field),
			zap.Int("bytes", len(ev.Content)))
	case *tagstream.CompleteEvent:
		logger.Info("stream complete")
	}
}

// Package assist builds prompts from project files and sends them to a text
// generator.
package assist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/filetree/internal/config"
	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/filestore"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Op names a per-file operation.
type Op string

// Per-file operations.
const (
	OpAnalyze Op = "analyze"
	OpReply   Op = "reply"
	OpRewrite Op = "rewrite"
	OpAppend  Op = "append"
)

// Execution modes for Multi.
const (
	ModeParallel   = config.AssistModeParallel
	ModeSequential = config.AssistModeSequential
)

// maxParallel bounds concurrent generator calls in parallel mode.
const maxParallel = 4

// Result is the outcome of one per-file operation.
type Result struct {
	File string `json:"file_path"`
	Text string `json:"result"`
}

// Assistant reads files through a filestore and prompts a Generator.
type Assistant struct {
	files  *filestore.Store
	gen    Generator
	logger *slog.Logger
}

// New creates an Assistant.
func New(files *filestore.Store, gen Generator, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{files: files, gen: gen, logger: logger}
}

// ParseOp validates an operation name.
func ParseOp(s string) (Op, error) {
	switch op := Op(s); op {
	case OpAnalyze, OpReply, OpRewrite, OpAppend:
		return op, nil
	}
	return "", fterrors.ValidationError(fmt.Sprintf("unknown operation %q", s), nil)
}

func prompt(op Op, param, content string) string {
	switch op {
	case OpAnalyze:
		return fmt.Sprintf("Analyze the following file content at %s depth:\n\n%s", param, content)
	case OpReply:
		return fmt.Sprintf("\n\n%s\n\nFor the content above: %s", content, param)
	case OpRewrite:
		return fmt.Sprintf("Rewrite the following file content in the %s style:\n\n%s", param, content)
	default:
		return fmt.Sprintf("Append to the following file content at %s:\n\n%s", param, content)
	}
}

// Run performs op on one file. param is the analysis depth, feature
// request, rewrite style or append location depending on op.
func (a *Assistant) Run(ctx context.Context, op Op, project, file, param string) (Result, error) {
	content, err := a.files.Load(project, file)
	if err != nil {
		return Result{}, err
	}
	text, err := a.gen.Generate(ctx, prompt(op, param, content))
	if err != nil {
		return Result{}, err
	}
	a.logger.Debug("assist operation complete",
		slog.String("op", string(op)),
		slog.String("project", project),
		slog.String("file", file))
	return Result{File: file, Text: text}, nil
}

// Analyze reviews file at the given depth.
func (a *Assistant) Analyze(ctx context.Context, project, file, depth string) (Result, error) {
	return a.Run(ctx, OpAnalyze, project, file, depth)
}

// Reply applies a feature request to file.
func (a *Assistant) Reply(ctx context.Context, project, file, featureRequest string) (Result, error) {
	return a.Run(ctx, OpReply, project, file, featureRequest)
}

// Rewrite restyles file.
func (a *Assistant) Rewrite(ctx context.Context, project, file, style string) (Result, error) {
	return a.Run(ctx, OpRewrite, project, file, style)
}

// Append extends file at location.
func (a *Assistant) Append(ctx context.Context, project, file, location string) (Result, error) {
	return a.Run(ctx, OpAppend, project, file, location)
}

// AnalyzeDependencies analyses the dependencies between files in one prompt.
func (a *Assistant) AnalyzeDependencies(ctx context.Context, project string, files []string, scope string) (string, error) {
	contents := make([]string, 0, len(files))
	for _, f := range files {
		content, err := a.files.Load(project, f)
		if err != nil {
			return "", err
		}
		contents = append(contents, content)
	}
	p := fmt.Sprintf("Analyze the dependencies of the following file contents within %s scope:\n\n%s",
		scope, strings.Join(contents, "\n\n"))
	return a.gen.Generate(ctx, p)
}

// Multi runs op over files. Results keep the order of files in both modes.
// Parallel mode cancels outstanding calls on the first failure.
func (a *Assistant) Multi(ctx context.Context, op Op, project string, files []string, param, mode string) ([]Result, error) {
	results := make([]Result, len(files))

	switch mode {
	case ModeSequential:
		for i, f := range files {
			r, err := a.Run(ctx, op, project, f, param)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
	case ModeParallel, "":
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxParallel)
		for i, f := range files {
			g.Go(func() error {
				r, err := a.Run(gctx, op, project, f, param)
				if err != nil {
					return err
				}
				results[i] = r
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	default:
		return nil, fterrors.ValidationError(fmt.Sprintf("unknown execution mode %q", mode), nil)
	}

	a.logger.Info("assist batch complete",
		slog.String("op", string(op)),
		slog.String("mode", mode),
		slog.Int("files", len(files)))
	return results, nil
}

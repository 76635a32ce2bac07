package roots

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	fterrors "github.com/Aman-CERP/filetree/internal/errors"
	"github.com/Aman-CERP/filetree/internal/ignore"
	"github.com/Aman-CERP/filetree/internal/tree"
)

// Structure resolves pathType and builds the entries of every root,
// concatenated in plan order.
func (r *Resolver) Structure(ctx context.Context, pathType string) ([]*tree.Entry, error) {
	plan, err := r.Resolve(pathType)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, plan)
}

// Run builds the structure described by plan.
//
// A single-root plan fails when its root is not accessible. Roots of a
// multi-root plan are scanned concurrently; a missing one is logged and
// skipped.
func (r *Resolver) Run(ctx context.Context, plan Plan) ([]*tree.Entry, error) {
	start := time.Now()
	matcher := ignore.ForMode(r.scan.MatchMode, r.patterns(plan.IgnoreFile))
	builder := tree.NewBuilder(tree.Options{
		Matcher:         matcher,
		Logger:          r.logger,
		Previews:        r.scan.Previews,
		MaxPreviewBytes: r.scan.MaxPreviewBytes,
	})

	if !plan.Multi {
		if len(plan.Roots) == 0 {
			return []*tree.Entry{}, nil
		}
		return builder.Scan(ctx, plan.Roots[0])
	}

	// One slot per root keeps the output in plan order.
	parts := make([][]*tree.Entry, len(plan.Roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range plan.Roots {
		g.Go(func() error {
			entries, err := r.scanRoot(gctx, builder, matcher, root)
			if err != nil {
				if skippable(err) {
					r.logger.Warn("skipping inaccessible root",
						slog.String("path_type", plan.PathType),
						slog.String("root", root),
						slog.String("error", err.Error()))
					return nil
				}
				return err
			}
			parts[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*tree.Entry, 0)
	for _, part := range parts {
		result = append(result, part...)
	}

	r.logger.Debug("structure built",
		slog.String("path_type", plan.PathType),
		slog.Int("roots", len(plan.Roots)),
		slog.Int("entries", len(result)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// scanRoot handles one root of a multi-root plan. A file root becomes a
// single entry whose path is the root as configured.
func (r *Resolver) scanRoot(ctx context.Context, builder *tree.Builder, matcher ignore.Matcher, root string) ([]*tree.Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fterrors.RootError(root, err)
	}
	if info.IsDir() {
		return builder.Scan(ctx, root)
	}

	name := filepath.Base(root)
	if matcher.Ignore(name, name, false) {
		return nil, nil
	}
	entry := &tree.Entry{Name: name, Kind: tree.KindFile, Path: filepath.ToSlash(root)}
	if r.scan.Previews {
		limit := r.scan.MaxPreviewBytes
		if limit <= 0 {
			limit = tree.DefaultMaxPreviewBytes
		}
		if content, ok := tree.ReadContent(root, limit); ok {
			entry.Content = &content
		}
	}
	return []*tree.Entry{entry}, nil
}

// Package pipeline chains parsing, compilation, resource loading and layout.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/folio/config"
	"github.com/ByLCY/folio/document"
	"github.com/ByLCY/folio/dsl"
	"github.com/ByLCY/folio/layout"
	canvasmetrics "github.com/ByLCY/folio/metrics/canvas"
	"github.com/ByLCY/folio/resource"
	"github.com/ByLCY/folio/state"
	"github.com/ByLCY/folio/style"
)

// Options 描述一次排版所需的全部输入。
type Options struct {
	// Name 出现在解析错误的位置信息中。
	Name   string
	Source io.Reader
	// Root 为 drawing src 的解析目录。
	Root string
	Data any
	Cfg  *config.Config
	// Metrics 为 nil 时使用 canvas 字体度量。
	Metrics layout.Metrics
	// Strict 为 true 时资源加载失败视为错误。
	Strict bool
	Log    *zap.Logger
}

// Layout 解析并编译 DSL，在后台加载被引用的资源，同时完成布局；
// 资源就绪后把绘图内容补排进结果。
func Layout(ctx context.Context, opts Options) (*layout.Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Cfg
	if cfg == nil {
		var err error
		if cfg, err = config.LoadConfiguration(""); err != nil {
			return nil, err
		}
	}
	defaults, err := cfg.Layout.Defaults()
	if err != nil {
		return nil, err
	}
	page, err := cfg.Layout.Page.Section()
	if err != nil {
		return nil, err
	}

	parsed, err := dsl.ParseReader(opts.Name, opts.Source)
	if err != nil {
		return nil, fmt.Errorf("unable to parse source: %w", err)
	}

	sched := resource.NewScheduler(newLoader(opts.Root), cfg.Resources.Concurrency, log)
	compiled, err := dsl.Compile(parsed, dsl.Options{
		Data:      opts.Data,
		Page:      page,
		Resources: sched,
		Defaults:  &defaults,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to compile source: %w", err)
	}
	log.Info("Document compiled", zap.String("name", compiled.Name), zap.String("version", compiled.Version),
		zap.Int("pending resources", len(sched.Pending())))

	metrics := opts.Metrics
	if metrics == nil {
		metrics = canvasmetrics.New(log)
	}
	grace := cfg.Layout.Grace

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// 单个资源的失败已经落在句柄上，由 Await 汇总
		_ = sched.Run(gctx)
		return nil
	})

	res, err := layout.Build(compiled.Document, compiled.Sheet, layout.BuildOptions{
		Metrics: metrics,
		Logger:  log,
		Grace:   &grace,
	})
	if err != nil {
		_ = g.Wait()
		return nil, fmt.Errorf("unable to lay out document: %w", err)
	}
	awaitErr := res.Await(ctx)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if awaitErr != nil {
		if opts.Strict || ctx.Err() != nil {
			return nil, fmt.Errorf("unable to load resources: %w", awaitErr)
		}
		log.Warn("Some drawings are left empty", zap.Error(awaitErr))
	}
	log.Debug("Layout done", zap.Int("texts", len(res.Texts)), zap.Int("images", len(res.Images)), zap.Float64("height", res.Height))
	return res, nil
}

// newLoader 从 root 读取资源：.txt 文件作为内联段落，其余按图片识别。
func newLoader(root string) resource.Loader {
	dir := resource.DirLoader{Root: root}
	return resource.LoaderFunc(func(ctx context.Context, name string) (any, error) {
		if !strings.EqualFold(filepath.Ext(name), ".txt") {
			return dir.Load(ctx, name)
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.Clean(string(filepath.Separator)+name)))
		if err != nil {
			return nil, err
		}
		return textBlocks(string(data)), nil
	})
}

// textBlocks 按空行把文本拆分为段落。
func textBlocks(text string) []document.Block {
	var blocks []document.Block
	for _, part := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		part = strings.TrimSpace(strings.ReplaceAll(part, "\n", " "))
		if part == "" {
			continue
		}
		blocks = append(blocks, document.NewParagraph(style.NoID, document.Text(style.NoID, part)))
	}
	return blocks
}

// Run implements the layout subcommand.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("layout")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	var data any
	if raw := cmd.String("data"); len(raw) > 0 {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return fmt.Errorf("unable to parse data JSON: %w", err)
		}
	}
	env.Data = data

	var root string
	if env.Cfg != nil {
		root = env.Cfg.Resources.Root
	}
	if len(root) == 0 {
		root = filepath.Dir(src)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	defer f.Close()

	res, err := Layout(ctx, Options{
		Name:   filepath.Base(src),
		Source: f,
		Root:   root,
		Data:   data,
		Cfg:    env.Cfg,
		Strict: cmd.Bool("strict"),
		Log:    log,
	})
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		return layout.EncodeDebugJSON(res, os.Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("unable to create destination directory: %w", err)
	}
	if err := layout.WriteDebugJSON(res, dst); err != nil {
		return fmt.Errorf("unable to write layout: %w", err)
	}
	log.Info("Layout written", zap.String("file", dst), zap.Duration("elapsed", env.Uptime()))
	return nil
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/storyframe/config"
	"github.com/ByLCY/storyframe/dsl"
	"github.com/ByLCY/storyframe/layout"
	"github.com/ByLCY/storyframe/renderer"
	canvasrenderer "github.com/ByLCY/storyframe/renderer/canvas"
	"github.com/ByLCY/storyframe/story"
	"github.com/ByLCY/storyframe/typeset"
)

func main() {
	input := flag.String("in", "examples/demo.story", "DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径")
	configPath := flag.String("config", "", "TOML 配置文件路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	probe := flag.Int("probe", -1, "输出该位置的导航与几何查询结果（JSON）")
	verbose := flag.Bool("v", false, "输出调试日志")
	printConfig := flag.Bool("print-config", false, "打印生效的配置后退出")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
	}
	if *printConfig {
		data, err := cfg.Encode()
		if err != nil {
			log.Fatalf("输出配置失败: %v", err)
		}
		os.Stdout.Write(data)
		return
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		log.Fatalf("配置无效: %v", err)
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: filepath.Dir(*input),
		Logger:  logger,
	})
	opts := runOptions{
		input:  *input,
		output: *output,
		debug:  *debug,
		probe:  *probe,
		data:   inputData,
		cfg:    cfg,
		logger: logger,
	}
	if err := run(opts, r); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

// pipeline 是 run 需要的渲染器能力：加载字体并输出 PDF。
type pipeline interface {
	renderer.Renderer
	story.FontResolver
}

type runOptions struct {
	input, output, debug string
	probe                int
	data                 any
	cfg                  config.Config
	logger               *slog.Logger
}

// run 串联解析、构建故事、排版与渲染。
func run(opts runOptions, r pipeline) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	ast, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	doc, err := story.Build(ast, opts.data, opts.cfg.BuildOptions(r))
	if err != nil {
		return fmt.Errorf("构建故事失败: %w", err)
	}
	for _, path := range doc.Unresolved {
		logger.Warn("数据绑定未解析", "path", path)
	}
	if err := doc.Story.Shape(); err != nil {
		return fmt.Errorf("字形整形失败: %w", err)
	}

	specs := doc.Frames()
	frames := make([]*typeset.Frame, 0, len(specs))
	for _, spec := range specs {
		frames = append(frames, typeset.FromSpec(spec))
	}
	engine := typeset.NewEngine(opts.cfg.EngineOptions(logger)...)
	layouts := engine.FlowChain(doc.Story, frames)
	typeset.InvalidateOnChange(doc.Story, layouts)
	logger.Debug("排版完成", "frames", len(frames), "chars", doc.Story.Length())

	if opts.debug != "" {
		if err := writeDebug(frames, layouts, opts.debug); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(renderer.Assemble(doc, frames, layouts))
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}

	if opts.probe >= 0 {
		report, ok := typeset.Probe(layouts, opts.probe)
		if !ok {
			return fmt.Errorf("位置 %d 不在任何文本框中", opts.probe)
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("输出查询结果失败: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

func writeDebug(frames []*typeset.Frame, layouts []*layout.TextLayout, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	snaps := make([]layout.Snapshot, 0, len(layouts))
	for i, tl := range layouts {
		snaps = append(snaps, tl.Snapshot(frames[i].Name))
	}
	if err := layout.WriteDebugJSON(snaps, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

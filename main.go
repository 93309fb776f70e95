package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"

	"github.com/ByLCY/papyrus-doc/compose"
	"github.com/ByLCY/papyrus-doc/config"
	"github.com/ByLCY/papyrus-doc/dsl"
	"github.com/ByLCY/papyrus-doc/pretty"
	"github.com/ByLCY/papyrus-doc/renderer"
	canvasrenderer "github.com/ByLCY/papyrus-doc/renderer/canvas"
	"github.com/ByLCY/papyrus-doc/server"
)

const version = "0.1.0"

// CLI 定义命令行接口。
var CLI struct {
	EnvFile string `name:"envfile" help:"从 .env 文件加载 PAPYRUS_* 配置" type:"path"`

	Render  RenderCmd  `cmd:"" help:"按给定宽度渲染 DSL 文档"`
	Serve   ServeCmd   `cmd:"" help:"启动 HTTP 渲染服务"`
	Version VersionCmd `cmd:"" help:"打印版本信息"`
}

// RenderCmd 渲染单个 DSL 文件。
type RenderCmd struct {
	In       string `short:"i" required:"" help:"DSL 文件路径" type:"existingfile"`
	Width    int    `short:"w" default:"-1" help:"行宽，负数表示使用 PAPYRUS_WIDTH"`
	TabWidth int    `name:"tab-width" help:"每层缩进的列数，0 表示使用 PAPYRUS_TAB_WIDTH"`
	Data     string `help:"绑定到 DSL 的 JSON 数据"`
	DataFile string `name:"data-file" help:"绑定到 DSL 的 JSON 数据文件" type:"existingfile"`
	Out      string `short:"o" help:"文本输出路径，默认输出到标准输出" type:"path"`
	PDF      string `name:"pdf" help:"PDF 输出路径" type:"path"`
	FitPage  bool   `name:"fit-page" help:"以 PDF 页面可容纳的列数作为行宽"`
	Debug    string `help:"文档树调试 JSON 输出路径" type:"path"`
}

// ServeCmd 启动 HTTP 服务。
type ServeCmd struct {
	Host string `help:"监听地址，覆盖 PAPYRUS_HOST"`
	Port int    `help:"监听端口，覆盖 PAPYRUS_PORT"`
}

// VersionCmd 打印版本。
type VersionCmd struct{}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("papyrus-doc"),
		kong.Description("宽度无关的文档排版引擎"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	cfg, err := config.ParseConfig(&config.ConfigOptions{EnvFilePath: CLI.EnvFile})
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	logger := log.New()
	logger.SetLevel(cfg.Level())

	ctx.FatalIfErrorf(ctx.Run(cfg, logger))
}

// Run 执行 render 子命令。
func (c *RenderCmd) Run(cfg *config.Config, logger *log.Logger) error {
	data, err := loadData(c.Data, c.DataFile)
	if err != nil {
		return err
	}

	job := renderJob{
		inputPath:  c.In,
		outputPath: c.Out,
		pdfPath:    c.PDF,
		debugPath:  c.Debug,
		width:      c.Width,
		tabWidth:   c.TabWidth,
		fitPage:    c.FitPage,
	}
	if job.width < 0 {
		job.width = cfg.Width
	}
	if job.tabWidth <= 0 {
		job.tabWidth = cfg.TabWidth
	}

	pdf := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		FontSize: cfg.PDFFontSize,
		BaseDir:  filepath.Dir(c.In),
		Title:    filepath.Base(c.In),
	})
	return run(job, data, pdf, os.Stdout, logger)
}

// Run 执行 serve 子命令，收到 SIGINT/SIGTERM 后优雅退出。
func (c *ServeCmd) Run(cfg *config.Config, logger *log.Logger) error {
	if c.Host != "" {
		cfg.Host = c.Host
	}
	if c.Port > 0 {
		cfg.Port = c.Port
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("Starting server (v%s)...", version)
	return server.NewServer(cfg, logger).ListenAndServe(ctx)
}

// Run 打印版本。
func (c *VersionCmd) Run() error {
	fmt.Printf("papyrus-doc version %s\n", version)
	return nil
}

type renderJob struct {
	inputPath  string
	outputPath string
	pdfPath    string
	debugPath  string
	width      int
	tabWidth   int
	fitPage    bool
}

// run 串联解析、求值、排版与输出。
func run(job renderJob, data any, pdf renderer.Renderer, stdout io.Writer, logger *log.Logger) error {
	file, err := os.Open(job.inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", job.inputPath, err)
	}
	defer file.Close()

	prog, err := dsl.ParseFile(job.inputPath, file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	doc, err := compose.Build(prog, data)
	if err != nil {
		return fmt.Errorf("构建文档失败: %w", err)
	}

	if job.debugPath != "" {
		if err := writeDebug(doc, job.debugPath); err != nil {
			return err
		}
	}

	width := job.width
	if job.fitPage {
		m, ok := pdf.(renderer.Measurer)
		if !ok {
			return fmt.Errorf("renderer 未实现测量接口")
		}
		if width, err = m.Columns(); err != nil {
			return fmt.Errorf("测量页面列数失败: %w", err)
		}
	}

	text := pretty.RenderWithOptions(doc, width, pretty.RenderOptions{TabWidth: job.tabWidth})
	logger.WithFields(log.Fields{"width": width, "tabWidth": job.tabWidth, "bytes": len(text)}).Debug("rendered document")

	plain, err := renderer.Plain{}.Render(text)
	if err != nil {
		return err
	}
	if job.outputPath == "" {
		if _, err := stdout.Write(plain); err != nil {
			return fmt.Errorf("写入标准输出失败: %w", err)
		}
	} else if err := writeFile(job.outputPath, plain); err != nil {
		return err
	}

	if job.pdfPath != "" {
		if pdf == nil {
			return fmt.Errorf("renderer 不能为空")
		}
		pdfBytes, err := pdf.Render(text)
		if err != nil {
			return fmt.Errorf("渲染 PDF 失败: %w", err)
		}
		if err := writeFile(job.pdfPath, pdfBytes); err != nil {
			return err
		}
		logger.Infof("已生成 PDF：%s", job.pdfPath)
	}
	return nil
}

func loadData(inline, path string) (any, error) {
	raw := []byte(inline)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取 data 文件失败: %w", err)
		}
		raw = b
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}

func writeDebug(doc pretty.Doc, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := pretty.WriteDebugJSON(doc, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

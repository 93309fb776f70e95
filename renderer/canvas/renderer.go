package canvasrenderer

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/papyrus-doc/fonts"
	"github.com/ByLCY/papyrus-doc/renderer"
)

// 页面尺寸与边距均为 mm，字号为 pt。
const (
	defaultPageWidth  = 210.0
	defaultPageHeight = 297.0
	defaultMargin     = 18.0
	defaultFontSize   = 10.0
	defaultLeading    = 1.2
)

// Renderer draws rendered text onto PDF pages via github.com/tdewolff/canvas.
type Renderer struct {
	opts Options

	fontMu sync.Mutex
	family *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ renderer.Measurer = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	PageWidth  float64 // mm
	PageHeight float64 // mm
	Margin     float64 // mm
	FontSize   float64 // pt
	Leading    float64 // 行距倍数
	Font       Resource
	BaseDir    string
	Title      string
	Author     string
}

// Resource can be provided either by Bytes, by Path, or by a built-in font name.
type Resource struct {
	Bytes []byte
	Path  string
	Name  string
}

// NewRenderer creates a renderer with A4 pages and the built-in monospace font.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer, filling zero options with defaults.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.PageWidth <= 0 {
		opts.PageWidth = defaultPageWidth
	}
	if opts.PageHeight <= 0 {
		opts.PageHeight = defaultPageHeight
	}
	if opts.Margin < 0 || opts.Margin*2 >= math.Min(opts.PageWidth, opts.PageHeight) {
		opts.Margin = defaultMargin
	}
	if opts.FontSize <= 0 {
		opts.FontSize = defaultFontSize
	}
	if opts.Leading <= 0 {
		opts.Leading = defaultLeading
	}
	return &Renderer{opts: opts}
}

// Render renders text into a PDF byte slice, one text line per PDF line, paginating as needed.
func (r *Renderer) Render(text string) ([]byte, error) {
	face, err := r.fontFace()
	if err != nil {
		return nil, err
	}
	metrics := face.Metrics()
	lineHeight := r.lineHeight(metrics)
	perPage := r.linesPerPage(lineHeight)

	var buf bytes.Buffer
	w, h := r.opts.PageWidth, r.opts.PageHeight
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(r.opts.Title, "", "", r.opts.Author, "papyrus-doc")
	for i, lines := range paginate(strings.Split(text, "\n"), perPage) {
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标以左上角为原点

		cursorY := r.opts.Margin
		for _, line := range lines {
			if strings.TrimSpace(line) != "" {
				ctx.DrawText(r.opts.Margin, cursorY+metrics.Ascent, canvas.NewTextLine(face, line, canvas.Left))
			}
			cursorY += lineHeight
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Columns 实现 renderer.Measurer：返回内容区域一行能容纳的等宽字符数。
func (r *Renderer) Columns() (int, error) {
	face, err := r.fontFace()
	if err != nil {
		return 0, err
	}
	cell := face.TextWidth("M")
	if cell <= 0 {
		return 0, fmt.Errorf("字体字宽无效: %g", cell)
	}
	return int((r.opts.PageWidth - 2*r.opts.Margin) / cell), nil
}

func (r *Renderer) lineHeight(metrics canvas.FontMetrics) float64 {
	lh := metrics.LineHeight
	if lh <= 0 {
		lh = r.opts.FontSize * ptToMm
	}
	return lh * r.opts.Leading
}

func (r *Renderer) linesPerPage(lineHeight float64) int {
	n := int((r.opts.PageHeight - 2*r.opts.Margin) / lineHeight)
	if n < 1 {
		return 1
	}
	return n
}

// paginate 按每页行数切分，至少返回一页（空文本也输出空白页）。
func paginate(lines []string, perPage int) [][]string {
	if perPage < 1 {
		perPage = 1
	}
	var pages [][]string
	for len(lines) > perPage {
		pages = append(pages, lines[:perPage])
		lines = lines[perPage:]
	}
	return append(pages, lines)
}

const ptToMm = 0.352777

func (r *Renderer) fontFace() (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(r.opts.FontSize, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}

	family := canvas.NewFontFamily("papyrus-doc")
	data, err := r.loadFontBytes()
	if err == nil {
		err = family.LoadFont(data, 0, canvas.FontRegular)
	}
	if err != nil {
		// 自定义字体不可用时退回内置等宽字体。
		fallback, fbErr := fonts.Load(fonts.Default)
		if fbErr != nil {
			return nil, err
		}
		family = canvas.NewFontFamily("papyrus-doc-fallback")
		if fbErr := family.LoadFont(fallback, 0, canvas.FontRegular); fbErr != nil {
			return nil, fmt.Errorf("加载内置字体失败: %w", fbErr)
		}
	}
	r.family = family
	return family, nil
}

func (r *Renderer) loadFontBytes() ([]byte, error) {
	res := r.opts.Font
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path != "" {
		path := res.Path
		if !filepath.IsAbs(path) && r.opts.BaseDir != "" {
			path = filepath.Join(r.opts.BaseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
		}
		return data, nil
	}
	return fonts.Load(res.Name)
}

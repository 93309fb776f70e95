package renderer

// Renderer 将排版后的文本输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	Render(text string) ([]byte, error)
}

// Measurer 由能够给出输出面宽度（以字符列计）的渲染器实现。
type Measurer interface {
	Columns() (int, error)
}

// Plain 原样输出 UTF-8 文本，保证以换行结尾。
type Plain struct{}

var _ Renderer = Plain{}

// Render 实现 Renderer。
func (Plain) Render(text string) ([]byte, error) {
	if text == "" || text[len(text)-1] != '\n' {
		text += "\n"
	}
	return []byte(text), nil
}

package pretty

// DefaultTabWidth 是每层 Indent 增加的列数。
const DefaultTabWidth = 4

// RenderOptions 配置渲染阶段的常量参数。
type RenderOptions struct {
	TabWidth int // <=0 时使用 DefaultTabWidth
}

func (o RenderOptions) tabWidth() int {
	if o.TabWidth <= 0 {
		return DefaultTabWidth
	}
	return o.TabWidth
}

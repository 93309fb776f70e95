package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10italic"
	"github.com/go-fonts/latin-modern/lmmono10regular"
)

// Default 是未指定字体时使用的内置等宽字体。
const Default = "lmmono10"

var builtin = map[string][]byte{
	"lmmono10":        lmmono10regular.TTF,
	"lmmono10-italic": lmmono10italic.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:lmmono10" 或直接 "lmmono10"，为空时使用 Default。
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(strings.TrimPrefix(name, "built-in:"), "builtin:")
	if name == "" {
		name = Default
	}
	data, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 不存在该字体", name)
	}
	return data, nil
}

// Names 返回所有内置字体名称。
func Names() []string {
	return []string{"lmmono10", "lmmono10-italic"}
}

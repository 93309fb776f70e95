package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Segment 是路径中的一步：对象字段或数组下标。
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

// Field 构造字段访问。
func Field(name string) Segment { return Segment{Field: name} }

// Index 构造数组下标访问。
func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

// Path 是已解析的数据路径，例如 rows[0].cells。
type Path []Segment

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.IsIndex {
			fmt.Fprintf(&b, "[%d]", seg.Index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Field)
	}
	return b.String()
}

// ParsePath 解析 a.b[0].c 形式的路径，格式错误时返回 false。
func ParsePath(s string) (Path, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var path Path
	for _, part := range strings.Split(s, ".") {
		name := part
		rest := ""
		if i := strings.IndexByte(part, '['); i != -1 {
			name, rest = part[:i], part[i:]
		}
		if name != "" {
			path = append(path, Field(name))
		} else if rest == "" {
			return nil, false
		}
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end == -1 {
				return nil, false
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, false
			}
			path = append(path, Index(idx))
			rest = rest[end+1:]
		}
	}
	return path, true
}

// Resolve 沿路径逐步下降，任一步不存在即返回 false。
func (p Path) Resolve(data any) (any, bool) {
	if data == nil || len(p) == 0 {
		return nil, false
	}
	current := data
	for _, seg := range p {
		switch c := current.(type) {
		case map[string]interface{}:
			if seg.IsIndex {
				return nil, false
			}
			val, ok := c[seg.Field]
			if !ok {
				return nil, false
			}
			current = val
		case []interface{}:
			if !seg.IsIndex || seg.Index < 0 || seg.Index >= len(c) {
				return nil, false
			}
			current = c[seg.Index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则返回原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if val, ok := Lookup(data, groups[1]); ok {
			return format(val)
		}
		return match
	})
}

// Lookup 按 a.b[0].c 形式的路径在 JSON 数据中取值。
func Lookup(data any, path string) (any, bool) {
	p, ok := ParsePath(path)
	if !ok {
		return nil, false
	}
	return p.Resolve(data)
}

// Strings 将路径指向的 JSON 数组展开为字符串列表，元素按 Interpolate 的规则格式化。
func Strings(data any, path Path) ([]string, error) {
	val, ok := path.Resolve(data)
	if !ok {
		return nil, fmt.Errorf("数据中不存在路径 %s", path)
	}
	items, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("路径 %s 不是数组（实际为 %T）", path, val)
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = format(item)
	}
	return out, nil
}

// format 使 JSON 数字按最短形式输出（1 而不是 1e+00）。
func format(val any) string {
	switch v := val.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

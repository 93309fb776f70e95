package pretty

// 由基本代数派生的组合子，本身不引入新的状态。

// Flatten 返回 d 的单行形式：换行变为一个空格，Choice 固定选择 preferred 分支。
func Flatten(d Doc) Doc {
	switch d.kind {
	case KindNewline:
		return Text(" ")
	case KindSeq:
		return Concat(Flatten(*d.left), Flatten(*d.right))
	case KindIndent:
		return Indent(Flatten(*d.left))
	case KindHang:
		return Hang(Flatten(*d.left))
	case KindChoice:
		return Flatten(*d.left)
	default:
		return d
	}
}

// Group 优先将 d 排成一行，放不下时保留原始（可多行）形式。
func Group(d Doc) Doc {
	return Choice(Flatten(d), d)
}

// Join 在相邻文档之间插入 sep，首尾不加分隔符；docs 为空时返回 Empty。
func Join(docs []Doc, sep Doc) Doc {
	if len(docs) == 0 {
		return Empty()
	}
	out := docs[0]
	for _, d := range docs[1:] {
		out = Concat(out, Concat(sep, d))
	}
	return out
}

// CommaNewline 是参数列表使用的分隔符：逗号加换行，压平后为 ", "。
func CommaNewline() Doc {
	return Concat(Text(","), Newline())
}

// ParameterList 排版一组参数：
// 优先在列表起始列悬挂对齐（能放下则单行），否则整体缩进一层并在末尾换行，闭合符号由调用方追加。
func ParameterList(items []Doc) Doc {
	joined := Group(Join(items, CommaNewline()))
	return Choice(
		Hang(joined),
		Concat(Indent(Concat(Newline(), joined)), Newline()),
	)
}

// CountChoices 统计 d 中 Choice 节点的数量；limit > 0 时超过 limit 即停止并返回 limit+1。
func CountChoices(d Doc, limit int) int {
	n := 0
	stack := []*Doc{&d}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch node.kind {
		case KindChoice:
			n++
			if limit > 0 && n > limit {
				return n
			}
			stack = append(stack, node.left, node.right)
		case KindSeq:
			stack = append(stack, node.left, node.right)
		case KindIndent, KindHang:
			stack = append(stack, node.left)
		}
	}
	return n
}

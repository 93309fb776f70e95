package pretty

import (
	"encoding/json"
	"os"
)

// debugNode 是文档树的 JSON 表示。
type debugNode struct {
	Kind     string      `json:"kind"`
	Text     *string     `json:"text,omitempty"`
	Children []debugNode `json:"children,omitempty"`
}

func (d Doc) debugNode() debugNode {
	n := debugNode{Kind: d.kind.String()}
	switch d.kind {
	case KindText:
		text := d.text
		n.Text = &text
	case KindSeq, KindChoice:
		n.Children = []debugNode{d.left.debugNode(), d.right.debugNode()}
	case KindIndent, KindHang:
		n.Children = []debugNode{d.left.debugNode()}
	}
	return n
}

// MarshalJSON 输出文档树结构，便于调试排版决策。
func (d Doc) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.debugNode())
}

// WriteDebugJSON 将文档树输出为缩进 JSON 文件。
func WriteDebugJSON(d Doc, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

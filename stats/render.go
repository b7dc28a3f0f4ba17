package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// PlayReportRender 定義輸出行為
type PlayReportRender interface {
	Write(w io.Writer, r *PlayReport) error
}

// Json渲染
type JsonPlayReportRender struct{}

func (jr *JsonPlayReportRender) Write(w io.Writer, r *PlayReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染，最內層的一維陣列輸出成 flow style：[a, b, c]
type YAMLPlayReportRender struct{}

func (yr *YAMLPlayReportRender) Write(w io.Writer, r *PlayReport) error {
	return forceReadableList(w, r)
}

func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

// styleReadableSequences 沒有子 sequence 的 sequence 改成 flow style，外層維度保持展開。
func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		nested := false
		for _, c := range n.Content {
			if c != nil && c.Kind == yaml.SequenceNode {
				nested = true
			}
			styleReadableSequences(c)
		}
		if !nested {
			n.Style = yaml.FlowStyle
		}
	}
}

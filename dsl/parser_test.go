package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/storyframe/dsl"
)

const sampleDSL = `
// 一个跨两页的故事
story Leaflet v1 {
  meta {
    title: "Spring"
    keywords: [
      "garden"
      "print"
    ]
  }

  resources {
    font Serif {
      src: "builtin:lmroman10regular"
    }
    color Accent = #0F62FE
    para Lead extends Body {
      size: 14pt
      line-spacing: 1.5x
    }
  }

  page A4 landscape {
    frame curve {
      width: 150mm
      path: [[0mm, 20mm], [75mm, 0mm]]
    }
  }

  text {
    para Lead {
      "Dear ${user.name}, " span Em { "welcome" }
      object logo 10mm 4mm
    }
    "loose"
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	require.NoError(t, err)

	assert.Equal(t, "Leaflet", doc.Name)
	assert.Equal(t, "v1", doc.Version)
	require.Len(t, doc.Sections, 4)
	kinds := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	assert.Equal(t, []string{"meta", "resources", "page", "text"}, kinds)

	meta := doc.Sections[0].Meta
	title := meta.Block.Statements[0].Assignment
	require.NotNil(t, title)
	assert.Equal(t, "Spring", string(*title.Value.String))
	keywords := meta.Block.Statements[1].Assignment
	require.NotNil(t, keywords.Value.Array)
	assert.Len(t, keywords.Value.Array.Values, 2)
}

func TestParseResources(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	require.NoError(t, err)
	stmts := doc.Sections[1].Resources.Block.Statements
	require.Len(t, stmts, 3)

	color := stmts[1].Command
	require.NotNil(t, color)
	assert.Equal(t, "color", color.Name)
	assert.Equal(t, "Color", color.Args[len(color.Args)-1].Type)
	assert.Equal(t, "#0F62FE", color.Args[len(color.Args)-1].Value)

	lead := stmts[2].Command
	assert.Equal(t, []string{"Lead", "extends", "Body"}, values(lead.Args))
	spacing := lead.Block.Statements[1].Assignment
	assert.Equal(t, "line-spacing", spacing.Key)
	assert.Equal(t, "1.5x", *spacing.Value.Number)
}

func TestParsePageAndFrames(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	require.NoError(t, err)
	page := doc.Sections[2].Page
	assert.Equal(t, "A4", page.Spec.Size)
	assert.Equal(t, []string{"landscape"}, values(page.Spec.Params))

	frame := page.Block.Statements[0].Command
	assert.Equal(t, "frame", frame.Name)
	path := frame.Block.Statements[1].Assignment
	require.NotNil(t, path.Value.Array)
	require.Len(t, path.Value.Array.Values, 2)
	second := path.Value.Array.Values[1].Array
	require.NotNil(t, second)
	assert.Equal(t, "75mm", *second.Values[0].Number)
}

func TestParseText(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	require.NoError(t, err)
	items := doc.Sections[3].Text.Items
	require.Len(t, items, 2)

	para := items[0].Para
	require.NotNil(t, para)
	assert.Equal(t, "Lead", para.Style)
	require.Len(t, para.Items, 3)
	require.NotNil(t, para.Items[0].Text)
	assert.True(t, strings.Contains(string(*para.Items[0].Text), "${user.name}"))

	span := para.Items[1].Span
	require.NotNil(t, span)
	assert.Equal(t, "Em", span.Style)
	require.Len(t, span.Items, 1)
	assert.Equal(t, "welcome", string(*span.Items[0].Text))

	object := para.Items[2].Object
	require.NotNil(t, object)
	assert.Equal(t, "logo", object.Name)
	assert.Equal(t, []string{"10mm", "4mm"}, object.Size)
	assert.Equal(t, 33, object.Pos.Line)

	require.NotNil(t, items[1].Text)
	assert.Equal(t, "loose", string(*items[1].Text))
}

func TestParseTextVariants(t *testing.T) {
	doc, err := dsl.ParseString("story S v1 {\n text {\n para {\n \"a\"; br; object 2mm 3mm 0.5mm\n span A { span B { \"b\" } }\n }\n }\n}")
	require.NoError(t, err)
	para := doc.Sections[0].Text.Items[0].Para
	require.NotNil(t, para)
	assert.Empty(t, para.Style)
	require.Len(t, para.Items, 4)
	assert.True(t, para.Items[1].Break)
	assert.Empty(t, para.Items[2].Object.Name)
	assert.Equal(t, []string{"2mm", "3mm", "0.5mm"}, para.Items[2].Object.Size)
	inner := para.Items[3].Span.Items[0].Span
	require.NotNil(t, inner)
	assert.Equal(t, "B", inner.Style)
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name, src, want string
	}{
		{"嵌套段落", "story S v1 {\n text {\n para {\n para { \"x\" }\n }\n }\n}", "4:2: para 只能出现在 text 的顶层"},
		{"span 内的段落", "story S v1 {\n text {\n span A {\n para { \"x\" }\n }\n }\n}", "para 只能出现在 text 的顶层"},
		{"重复文本框", "story S v1 {\n page A4 {\n frame f {\n }\n }\n page A4 {\n frame f {\n }\n }\n}", "文本框 f 重复定义（首次定义于第 3 行）"},
		{"重复资源", "story S v1 {\n resources {\n color C = #fff\n color C = #000\n }\n}", "资源 color C 重复定义"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := dsl.ParseString(c.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
			var derr *dsl.Error
			assert.True(t, errors.As(err, &derr))
		})
	}

	// 不同种类的资源可以同名
	_, err := dsl.ParseString("story S v1 {\n resources {\n para Body {\n }\n char Body {\n }\n }\n}")
	assert.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		`doc Old v1 { }`,
		`story Missing`,
		"story S v1 {\n unknown { }\n}",
		"story S v1 {\n text {\n object logo 3mm\n }\n}",
		"story S v1 {\n text {\n span { \"x\" }\n }\n}",
	} {
		_, err := dsl.ParseString(src)
		assert.Error(t, err, src)
	}
}

func values(parts []*dsl.Lexeme) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.Value)
	}
	return out
}

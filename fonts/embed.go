package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// Default 是找不到字体时使用的内置字体名。
const Default = "lmroman10regular"

var builtin = map[string][]byte{
	"lmroman10regular":    lmroman10regular.TTF,
	"lmroman10bold":       lmroman10bold.TTF,
	"lmroman10italic":     lmroman10italic.TTF,
	"lmroman10bolditalic": lmroman10bolditalic.TTF,
	"lmsans10regular":     lmsans10regular.TTF,
	"lmsans10bold":        lmsans10bold.TTF,
	"lmsans10oblique":     lmsans10oblique.TTF,
	"lmmono10regular":     lmmono10regular.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "builtin:lmroman10regular"、"embed:lmroman10regular" 或直接 "lmroman10regular"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimPrefix(strings.TrimPrefix(name, "builtin:"), "embed:")
	clean = strings.TrimSuffix(strings.ToLower(clean), ".ttf")
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 可用字体为 %s", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 按字母顺序列出内置字体。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

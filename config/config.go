package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ByLCY/storyframe/layout"
	"github.com/ByLCY/storyframe/story"
	"github.com/ByLCY/storyframe/typeset"
)

// Config 是 storyframe 的 TOML 配置，命令行参数可以覆盖其中的值。
type Config struct {
	Typeset  Typeset  `toml:"typeset"`
	Defaults Defaults `toml:"defaults"`
	Log      Log      `toml:"log"`
}

// Typeset 控制断行器。
type Typeset struct {
	OrphanControl bool `toml:"orphan_control"`
}

// Defaults 为 DSL 中未声明的字体与段落属性提供默认值。
type Defaults struct {
	Font        string  `toml:"font"`         // 字体 src，如 builtin:lmroman10regular
	FontSize    float64 `toml:"font_size"`    // pt
	LineSpacing string  `toml:"line_spacing"` // 与 DSL 的 line-spacing 写法一致，如 "auto"、"1.5x" 或 "14pt"
}

type Log struct {
	Level string `toml:"level"` // debug | info | warn | error
}

// Default 返回不读取任何文件时使用的配置。
func Default() Config {
	return Config{
		Typeset:  Typeset{OrphanControl: true},
		Defaults: Defaults{Font: "builtin:lmroman10regular", FontSize: 11, LineSpacing: "auto"},
		Log:      Log{Level: "info"},
	}
}

// Load 读取 path 指向的 TOML 文件，未出现的键保留 Default 的值。
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return cfg, nil
}

// Decode 把 TOML 数据解到 cfg 上，并拒绝未知的键。
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Encode 以 TOML 形式输出配置，供 -print-config 使用。
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	if c.Defaults.FontSize < 0 {
		return fmt.Errorf("defaults.font_size 不能为负数: %v", c.Defaults.FontSize)
	}
	if c.Defaults.LineSpacing != "" {
		if _, err := layout.ParseLineSpacing(c.Defaults.LineSpacing); err != nil {
			return fmt.Errorf("defaults.line_spacing: %w", err)
		}
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel 把 log.level 转换为 slog.Level，空值视为 info。
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level 无效: %q", l.Level)
	}
	return level, nil
}

// BuildOptions 生成构建故事所需的选项；fonts 由渲染器提供。
func (c Config) BuildOptions(fonts story.FontResolver) story.BuildOptions {
	opts := story.BuildOptions{
		Fonts:           fonts,
		DefaultFont:     c.Defaults.Font,
		DefaultFontSize: c.Defaults.FontSize,
	}
	if c.Defaults.LineSpacing != "" {
		// Validate 已经检查过
		opts.DefaultLineSpacing, _ = layout.ParseLineSpacing(c.Defaults.LineSpacing)
	}
	return opts
}

// EngineOptions 返回断行器选项。
func (c Config) EngineOptions(logger *slog.Logger) []typeset.Option {
	return []typeset.Option{
		typeset.WithLogger(logger),
		typeset.WithOrphanControl(c.Typeset.OrphanControl),
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Load 加载配置文件
// 文件不存在时返回默认配置；未出现在文件中的开关保持默认值
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.TaskOrder.Storage.Cache.Enabled = true
	cfg.TaskOrder.Events.Enabled = true

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("解析配置文件失败: %w", err)
			}
		}
	}

	cfg.ApplyDefaults()
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

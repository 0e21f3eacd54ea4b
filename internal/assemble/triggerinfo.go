package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gwburst/grbflow/internal/config"
)

// triggerInfo is the small on-disk description of the external trigger
// the whole analysis is keyed on. Nested sub-workflows depend on the
// artifact carrying it.
type triggerInfo struct {
	TriggerName string  `yaml:"trigger-name"`
	TriggerTime int64   `yaml:"trigger-time"`
	RA          float64 `yaml:"ra"`
	Dec         float64 `yaml:"dec"`
	Ifos        string  `yaml:"ifos"`
}

// writeTriggerInfo materializes the trigger description file in the
// output directory and returns its path.
func writeTriggerInfo(cfg *config.Store, outDir string) (string, error) {
	name, err := cfg.Get("workflow", "trigger-name")
	if err != nil {
		return "", err
	}
	triggerTime, err := cfg.GetInt("workflow", "trigger-time")
	if err != nil {
		return "", err
	}
	ifos, err := cfg.Get("workflow", "ifos")
	if err != nil {
		return "", err
	}

	info := triggerInfo{
		TriggerName: name,
		TriggerTime: triggerTime,
		Ifos:        ifos,
	}
	if v := cfg.Find("workflow", "ra"); v.Found {
		if info.RA, err = cfg.GetFloat("workflow", "ra"); err != nil {
			return "", err
		}
	}
	if v := cfg.Find("workflow", "dec"); v.Found {
		if info.Dec, err = cfg.GetFloat("workflow", "dec"); err != nil {
			return "", err
		}
	}

	data, err := yaml.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to marshal trigger info: %w", err)
	}

	path := filepath.Join(outDir, fmt.Sprintf("triggerGRB%s.yaml", name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write trigger info file: %w", err)
	}
	return path, nil
}

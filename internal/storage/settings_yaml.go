package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"pomodoro/internal/core/model"
	"pomodoro/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes  int      `yaml:"work_minutes"`
	BreakMinutes int      `yaml:"break_minutes"`
	CueEnabled   *bool    `yaml:"cue_enabled"`
	CueVolume    *float64 `yaml:"cue_volume"`
}

// LoadSettings reads user preferences from the app's config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := ResolvePath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from configPath.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the app's config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := ResolvePath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to configPath, creating parent directories.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	cueEnabled := settings.CueEnabled
	cueVolume := settings.CueVolume
	fileData := yamlSettings{
		WorkMinutes:  int(settings.WorkMinutes),
		BreakMinutes: int(settings.BreakMinutes),
		CueEnabled:   &cueEnabled,
		CueVolume:    &cueVolume,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolvePath returns the settings file location for appName.
func ResolvePath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if validMinutes(fileData.WorkMinutes) {
		settings.WorkMinutes = uint32(fileData.WorkMinutes)
	}
	if validMinutes(fileData.BreakMinutes) {
		settings.BreakMinutes = uint32(fileData.BreakMinutes)
	}
	if fileData.CueEnabled != nil {
		settings.CueEnabled = *fileData.CueEnabled
	}
	if fileData.CueVolume != nil && *fileData.CueVolume >= 0 && *fileData.CueVolume <= 1 {
		settings.CueVolume = *fileData.CueVolume
	}
}

func validMinutes(minutes int) bool {
	return minutes > 0 && model.CheckMinutes(uint64(minutes)) == nil
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the optional override file looked up by Load.
const FileName = "astrododge"

// sections maps top-level override keys to the structs they patch.
func sections() map[string]any {
	return map[string]any{
		"world":      &World,
		"physics":    &Physics,
		"asteroids":  &Asteroids,
		"player":     &Player,
		"projectile": &Projectile,
		"powerups":   &Powerups,
		"ufo":        &UFO,
		"director":   &Director,
		"background": &Background,
		"debug":      &Debug,
		"input":      &Input,
		"hud":        &HUD,
	}
}

// Load reads astrododge.json from configDir (if present) and environment
// variables prefixed with ASTRODODGE_, patching the package-level defaults.
// Keys absent from the file keep their built-in values.
func Load(configDir string) error {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("json")
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("ASTRODODGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("debug.logLevel", Debug.LogLevel)
	v.SetDefault("debug.skipMenu", Debug.SkipMenu)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return apply(v)
}

func apply(v *viper.Viper) error {
	for key, target := range sections() {
		if !v.IsSet(key) {
			continue
		}
		if err := v.UnmarshalKey(key, target); err != nil {
			return fmt.Errorf("error decoding %q: %w", key, err)
		}
	}

	if v.IsSet("levels") {
		if err := v.UnmarshalKey("levels", &Levels); err != nil {
			return fmt.Errorf("error decoding levels: %w", err)
		}
	}

	// Env overrides for the flags people actually flip from a shell.
	Debug.LogLevel = v.GetString("debug.logLevel")
	Debug.SkipMenu = v.GetBool("debug.skipMenu")
	return nil
}

// Package config loads simulator tuning from a file through viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

// ErrNotFound is returned when the named config file does not exist. The
// returned Config still holds the defaults.
var ErrNotFound = errors.New("config file not found")

// Config is everything a run reads from its config file.
type Config struct {
	LogLevel string
	LogFile  string
	Seed     int64
	Feed     string // spectator feed listen address, empty to disable
	Combat   combat.Config
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	cfg, _ := decode(newViper())
	return cfg
}

// Load reads path (YAML, JSON or TOML by extension) over the defaults. An
// empty path returns the defaults.
func Load(path string) (Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			cfg, _ := decode(newViper())
			if errors.Is(err, fs.ErrNotExist) {
				return cfg, fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return cfg, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	def := combat.DefaultConfig()

	v.SetDefault("logLevel", "info")
	v.SetDefault("logFile", "")
	v.SetDefault("seed", 1)
	v.SetDefault("feed.addr", "")

	v.SetDefault("sim.maxVehicles", def.MaxVehicles)
	v.SetDefault("sim.spawnInterval", def.SpawnInterval)
	v.SetDefault("sim.bounds", def.Bounds)
	v.SetDefault("sim.maxFrameDt", def.MaxFrameDt)

	v.SetDefault("lock.stickyMarginDeg", def.StickyMarginDeg)
	v.SetDefault("lock.cycleMarginDeg", def.CycleMarginDeg)
	v.SetDefault("lock.losClearance", def.LOSClearance)

	v.SetDefault("decoy.cooldown", def.DecoyCooldown)
	v.SetDefault("decoy.lifetime", def.DecoyLifetime)
	v.SetDefault("decoy.stock", def.DecoyStock)

	v.SetDefault("player.invulnerable", def.PlayerInvulnerable)
	v.SetDefault("player.ramDamageRate", def.RamDamageRate)
	v.SetDefault("player.towerContactDamage", def.TowerContactDamage)

	v.SetDefault("tower.noFireRadius", def.NoFireRadius)
	v.SetDefault("tower.loiterRange", def.TowerLoiterRange)
	v.SetDefault("tower.revertTime", def.TowerRevertTime)

	for _, k := range def.WeaponOrder {
		spec := def.Weapons[k]
		base := "weapons." + string(k)
		v.SetDefault(base+".ammo", spec.Ammo)
		v.SetDefault(base+".lockTime", spec.LockTime)
		v.SetDefault(base+".lockRange", spec.LockRange)
		v.SetDefault(base+".lockConeDeg", spec.LockConeDeg)
	}
	return v
}

func decode(v *viper.Viper) (Config, error) {
	c := combat.DefaultConfig()

	c.MaxVehicles = v.GetInt("sim.maxVehicles")
	c.SpawnInterval = v.GetFloat64("sim.spawnInterval")
	c.Bounds = v.GetFloat64("sim.bounds")
	c.MaxFrameDt = v.GetFloat64("sim.maxFrameDt")

	c.StickyMarginDeg = v.GetFloat64("lock.stickyMarginDeg")
	c.CycleMarginDeg = v.GetFloat64("lock.cycleMarginDeg")
	c.LOSClearance = v.GetFloat64("lock.losClearance")

	c.DecoyCooldown = v.GetFloat64("decoy.cooldown")
	c.DecoyLifetime = v.GetFloat64("decoy.lifetime")
	c.DecoyStock = v.GetInt("decoy.stock")

	c.PlayerInvulnerable = v.GetBool("player.invulnerable")
	c.RamDamageRate = v.GetFloat64("player.ramDamageRate")
	c.TowerContactDamage = v.GetFloat64("player.towerContactDamage")

	c.NoFireRadius = v.GetFloat64("tower.noFireRadius")
	c.TowerLoiterRange = v.GetFloat64("tower.loiterRange")
	c.TowerRevertTime = v.GetFloat64("tower.revertTime")

	for _, k := range c.WeaponOrder {
		spec := c.Weapons[k]
		if err := v.UnmarshalKey("weapons."+string(k), &spec); err != nil {
			return Config{Combat: combat.DefaultConfig()}, fmt.Errorf("weapons.%s: %w", k, err)
		}
		if spec.Ammo < 0 {
			return Config{Combat: combat.DefaultConfig()}, fmt.Errorf("weapons.%s.ammo: negative stock %d", k, spec.Ammo)
		}
		c.Weapons[k] = spec
	}

	return Config{
		LogLevel: v.GetString("logLevel"),
		LogFile:  v.GetString("logFile"),
		Seed:     v.GetInt64("seed"),
		Feed:     v.GetString("feed.addr"),
		Combat:   c,
	}, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_EmptyPathIsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	def := combat.DefaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(1), cfg.Seed)
	assert.Equal(t, def.MaxVehicles, cfg.Combat.MaxVehicles)
	assert.Equal(t, def.StickyMarginDeg, cfg.Combat.StickyMarginDeg)
	assert.Equal(t, def.CycleMarginDeg, cfg.Combat.CycleMarginDeg)
	assert.Equal(t, def.Weapons[combat.WeaponIR], cfg.Combat.Weapons[combat.WeaponIR])
}

func TestLoad_YAMLOverrides(t *testing.T) {
	path := writeFile(t, "air.yaml", `
logLevel: debug
seed: 42
sim:
  maxVehicles: 2
  spawnInterval: 1.5
lock:
  cycleMarginDeg: 20
decoy:
  stock: 5
player:
  invulnerable: true
  ramDamageRate: 35
tower:
  revertTime: 45
weapons:
  ir:
    ammo: 8
    lockTime: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 2, cfg.Combat.MaxVehicles)
	assert.Equal(t, 1.5, cfg.Combat.SpawnInterval)
	assert.Equal(t, 20.0, cfg.Combat.CycleMarginDeg)
	assert.Equal(t, 5.0, cfg.Combat.StickyMarginDeg, "sticky margin stays independent")
	assert.Equal(t, 5, cfg.Combat.DecoyStock)
	assert.True(t, cfg.Combat.PlayerInvulnerable)
	assert.Equal(t, 35.0, cfg.Combat.RamDamageRate)
	assert.Equal(t, 30.0, cfg.Combat.TowerContactDamage, "unset keys keep their defaults")
	assert.Equal(t, 45.0, cfg.Combat.TowerRevertTime)
	assert.Equal(t, 5000.0, cfg.Combat.TowerLoiterRange)

	ir := cfg.Combat.Weapons[combat.WeaponIR]
	assert.Equal(t, 8, ir.Ammo)
	assert.Equal(t, 0.5, ir.LockTime)
	assert.Equal(t, 6000.0, ir.LockRange, "unset fields keep their defaults")
	assert.Equal(t, combat.SeekerIR, ir.Seeker)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "air.json", `{"weapons": {"gun": {"ammo": 100}}, "feed": {"addr": ":8090"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Combat.Weapons[combat.WeaponGun].Ammo)
	assert.Equal(t, ":8090", cfg.Feed)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, combat.DefaultConfig().MaxVehicles, cfg.Combat.MaxVehicles)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeFile(t, "bad.json", `{"sim": `)
	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_NegativeAmmo(t *testing.T) {
	path := writeFile(t, "neg.yaml", "weapons:\n  rocket:\n    ammo: -3\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weapons.rocket.ammo")
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, combat.DefaultConfig().Bounds, Defaults().Combat.Bounds)
}

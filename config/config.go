package config

import (
	"image/color"
	"time"
)

// PlayerConfig contains all player-related configuration values
type PlayerConfig struct {
	Health    int
	MoveSpeed float64
	JumpForce float64

	// Body, modelled as a vertical cylinder
	Height float64
	Radius float64

	// Eye height above the feet, as a fraction of Height
	EyeHeight float64

	RespawnDelay time.Duration
}

// WeaponConfig is the immutable profile of one weapon type
type WeaponConfig struct {
	Name         string
	Damage       int
	FireInterval float64 // seconds between shots
	MagazineSize int
	TotalAmmo    int // starting reserve
	ReloadTime   time.Duration
	Spread       float64
	Pellets      int
}

// CombatConfig contains hit resolution values
type CombatConfig struct {
	MaxRange  float64 // rays stop here
	Falloff   float64 // fraction of damage lost at MaxRange
	MinDamage int
}

// PhysicsConfig contains movement physics values
type PhysicsConfig struct {
	Gravity       float64
	Friction      float64
	StopThreshold float64 // speeds below this snap to zero
}

// NetworkConfig contains session and transport configuration
type NetworkConfig struct {
	UpdateInterval time.Duration // player-update broadcast period
	Codec          string        // "json" or "msgpack"

	ListenAddr    string // websocket listen address for hosting
	AdvertiseAddr string // address guests dial, published to the registry
	SignalURL     string // registry base URL; empty disables signaling

	DialTimeout       time.Duration
	WriteTimeout      time.Duration
	SendQueue         int
	HeartbeatInterval time.Duration
}

// ArenaConfig contains map values
type ArenaConfig struct {
	Size          float64 // side length in world units
	WallHeight    float64
	LevelPath     string
	PixelsPerUnit float64 // TMX pixels per world unit
}

// MatchConfig contains match flow values
type MatchConfig struct {
	Duration      time.Duration // 0 runs until ended by hand
	FeedTTL       time.Duration // how long a notification stays up
	FeedMax       int
	ChatMaxLength int
	NameMaxLength int
	DefaultName   string
}

// UIConfig contains HUD layout values
type UIConfig struct {
	HUDFontSize   float64
	TitleFontSize float64
	Margin        float64
	HealthBarW    float64
	HealthBarH    float64
}

// Config holds general game configuration
type Config struct {
	Width  int
	Height int
	Title  string
}

// Global configuration instances
var C *Config
var Player PlayerConfig
var Weapons []WeaponConfig
var Combat CombatConfig
var Physics PhysicsConfig
var Network NetworkConfig
var Arena ArenaConfig
var Match MatchConfig
var UI UIConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Yellow       = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Red          = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green        = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue         = color.RGBA{R: 0, G: 100, B: 255, A: 255}
	LightRed     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	Gray         = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	DarkGray     = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	Floor        = color.RGBA{R: 30, G: 34, B: 30, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	DarkBlue     = color.RGBA{R: 60, G: 100, B: 160, A: 255}
)

// Weapon indexes into Weapons
const (
	WeaponPistol = iota
	WeaponRifle
	WeaponShotgun
)

func init() {
	C = &Config{
		Width:  960,
		Height: 720,
		Title:  "peerfire",
	}

	Player = PlayerConfig{
		Health:       100,
		MoveSpeed:    10,
		JumpForce:    10,
		Height:       1.8,
		Radius:       0.5,
		EyeHeight:    0.8,
		RespawnDelay: 5 * time.Second,
	}

	Weapons = []WeaponConfig{
		WeaponPistol: {
			Name:         "Pistol",
			Damage:       25,
			FireInterval: 0.3,
			MagazineSize: 12,
			TotalAmmo:    36,
			ReloadTime:   1200 * time.Millisecond,
			Spread:       0.02,
			Pellets:      1,
		},
		WeaponRifle: {
			Name:         "Rifle",
			Damage:       15,
			FireInterval: 0.1,
			MagazineSize: 30,
			TotalAmmo:    90,
			ReloadTime:   2 * time.Second,
			Spread:       0.015,
			Pellets:      1,
		},
		WeaponShotgun: {
			Name:         "Shotgun",
			Damage:       8,
			FireInterval: 0.7,
			MagazineSize: 8,
			TotalAmmo:    32,
			ReloadTime:   2500 * time.Millisecond,
			Spread:       0.1,
			Pellets:      8,
		},
	}

	Combat = CombatConfig{
		MaxRange:  100,
		Falloff:   0.5,
		MinDamage: 1,
	}

	Physics = PhysicsConfig{
		Gravity:       9.8,
		Friction:      0.9,
		StopThreshold: 0.01,
	}

	Network = NetworkConfig{
		UpdateInterval:    16 * time.Millisecond,
		Codec:             "json",
		ListenAddr:        ":7373",
		AdvertiseAddr:     "ws://localhost:7373",
		SignalURL:         "",
		DialTimeout:       5 * time.Second,
		WriteTimeout:      2 * time.Second,
		SendQueue:         256,
		HeartbeatInterval: 10 * time.Second,
	}

	Arena = ArenaConfig{
		Size:          50,
		WallHeight:    4,
		LevelPath:     "levels/arena.tmx",
		PixelsPerUnit: 16,
	}

	Match = MatchConfig{
		Duration:      0,
		FeedTTL:       4 * time.Second,
		FeedMax:       6,
		ChatMaxLength: 120,
		NameMaxLength: 16,
		DefaultName:   "Player",
	}

	UI = UIConfig{
		HUDFontSize:   16,
		TitleFontSize: 36,
		Margin:        12,
		HealthBarW:    200,
		HealthBarH:    14,
	}
}

// Package input maps keyboard, mouse and gamepad state to game actions for
// the ebiten client.
package input

import "github.com/hajimehoshi/ebiten/v2"

// ActionID represents a logical game action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveForward
	ActionMoveBack
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionFire
	ActionReload
	ActionWeapon1
	ActionWeapon2
	ActionWeapon3
	ActionChat
	ActionScores
	ActionMenuBack
	ActionCount // Must be last - used for array sizing
)

// Binding represents the keys and buttons bound to an action
type Binding struct {
	Keys                   []ebiten.Key
	MouseButtons           []ebiten.MouseButton
	StandardGamepadButtons []ebiten.StandardGamepadButton
}

// Config holds all input mappings
type Config struct {
	Bindings map[ActionID]Binding
	// Deadzone for analog stick input (0.0 to 1.0)
	AnalogDeadzone float64
	// Radians per second of right-stick aim
	StickTurnRate float64
}

// Default is the binding set used by the client
var Default Config

func init() {
	Default = Config{
		AnalogDeadzone: 0.25,
		StickTurnRate:  3.5,
		Bindings: map[ActionID]Binding{
			ActionMoveForward: {
				Keys:                   []ebiten.Key{ebiten.KeyW, ebiten.KeyUp},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftTop},
			},
			ActionMoveBack: {
				Keys:                   []ebiten.Key{ebiten.KeyS, ebiten.KeyDown},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftBottom},
			},
			ActionMoveLeft: {
				Keys:                   []ebiten.Key{ebiten.KeyA, ebiten.KeyLeft},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftLeft},
			},
			ActionMoveRight: {
				Keys:                   []ebiten.Key{ebiten.KeyD, ebiten.KeyRight},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftRight},
			},
			ActionJump: {
				Keys: []ebiten.Key{ebiten.KeySpace},
				// A / Cross button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightBottom},
			},
			ActionFire: {
				MouseButtons: []ebiten.MouseButton{ebiten.MouseButtonLeft},
				// Right trigger
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonFrontBottomRight},
			},
			ActionReload: {
				Keys: []ebiten.Key{ebiten.KeyR},
				// X / Square button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonRightLeft},
			},
			ActionWeapon1: {Keys: []ebiten.Key{ebiten.Key1}},
			ActionWeapon2: {Keys: []ebiten.Key{ebiten.Key2}},
			ActionWeapon3: {Keys: []ebiten.Key{ebiten.Key3}},
			ActionChat:    {Keys: []ebiten.Key{ebiten.KeyEnter}},
			ActionScores: {
				Keys:                   []ebiten.Key{ebiten.KeyTab},
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonCenterLeft},
			},
			ActionMenuBack: {
				Keys: []ebiten.Key{ebiten.KeyEscape},
				// Start / Options button
				StandardGamepadButtons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonCenterRight},
			},
		},
	}
}
